package shop_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ikea-api-client/pkg/ikea"
	"github.com/donaldgifford/ikea-api-client/pkg/shop"
)

const invalidItemsBody = `{"data":null,"errors":[{"message":"Invalid item numbers",
	"extensions":{"code":"INVALID_ITEM_NUMBER","data":{"itemNos":["99999999"]}}}]}`

func itemNos(c call) []string {
	vars, _ := c.Body["variables"].(map[string]any)
	items, _ := vars["items"].([]any)
	codes := make([]string, 0, len(items))
	for _, it := range items {
		m, _ := it.(map[string]any)
		code, _ := m["itemNo"].(string)
		codes = append(codes, code)
	}
	return codes
}

func TestShop_AddItemsToCart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		responses     []handler
		wantCannotAdd []string
		wantCalls     [][]string
		wantErr       bool
	}{
		{
			name:      "all valid",
			responses: []handler{cartResp("addItems")},
			wantCalls: [][]string{{"11111111", "99999999"}},
		},
		{
			name:          "invalid codes dropped and retried",
			responses:     []handler{respond(http.StatusOK, invalidItemsBody), cartResp("addItems")},
			wantCannotAdd: []string{"99999999"},
			wantCalls:     [][]string{{"11111111", "99999999"}, {"11111111"}},
		},
		{
			name: "other errors propagate",
			responses: []handler{respond(http.StatusOK,
				`{"errors":[{"message":"boom","extensions":{"code":"INTERNAL"}}]}`)},
			wantCalls: [][]string{{"11111111", "99999999"}},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			up := newFakeUpstream(t).on("graphql addItems", tt.responses...)
			s := shop.New(up.executor(), ikea.DefaultConstants(), staticTokens(t))

			cannotAdd, err := s.AddItemsToCart(context.Background(), map[string]int{"11111111": 1, "99999999": 2})
			if tt.wantErr {
				require.Error(t, err)
				var gqlErr *ikea.GraphQLError
				assert.ErrorAs(t, err, &gqlErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantCannotAdd, cannotAdd)
			}

			calls := up.callsTo("graphql addItems")
			got := make([][]string, 0, len(calls))
			for _, c := range calls {
				got = append(got, itemNos(c))
			}
			assert.Equal(t, tt.wantCalls, got)
		})
	}
}

func TestShop_AddItemsToCart_AllInvalid(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream(t).on("graphql addItems", respond(http.StatusOK, invalidItemsBody))
	s := shop.New(up.executor(), ikea.DefaultConstants(), staticTokens(t))

	cannotAdd, err := s.AddItemsToCart(context.Background(), map[string]int{"99999999": 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"99999999"}, cannotAdd)
	assert.Len(t, up.callsTo("graphql addItems"), 1)
}

func TestShop_RefreshesRejectedGuestToken(t *testing.T) {
	t.Parallel()

	issued := 0
	up := newFakeUpstream(t).
		on("POST /guest/token", func(call) *ikea.ResponseInfo {
			issued++
			if issued == 1 {
				return jsonResp(http.StatusOK, `{"access_token":"stale","expires_in":3600}`)
			}
			return jsonResp(http.StatusOK, `{"access_token":"fresh","expires_in":3600}`)
		}).
		on("graphql cart",
			func(c call) *ikea.ResponseInfo {
				assert.Equal(t, "Bearer stale", c.Auth)
				return jsonResp(http.StatusUnauthorized, `{"message":"jwt expired"}`)
			},
			func(c call) *ikea.ResponseInfo {
				assert.Equal(t, "Bearer fresh", c.Auth)
				return cartResp("cart")(c)
			},
		)

	ex := up.executor()
	c := ikea.DefaultConstants()
	s := shop.New(ex, c, ikea.NewGuestTokenProvider(ex, c))

	cart, err := s.Cart(context.Background())
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Qty)
	assert.Equal(t, 2, issued)
}

func TestShop_StaticTokenRejected(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream(t).on("graphql cart", respond(http.StatusUnauthorized, `{}`))
	s := shop.New(up.executor(), ikea.DefaultConstants(), ikea.StaticToken("user"))

	_, err := s.Cart(context.Background())
	require.ErrorIs(t, err, ikea.ErrUnauthorized)
	assert.Len(t, up.callsTo("graphql cart"), 1)
}

func TestShop_CartMutations(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream(t).
		on("graphql setCoupon", func(c call) *ikea.ResponseInfo {
			vars, _ := c.Body["variables"].(map[string]any)
			assert.Equal(t, "SPRING", vars["code"])
			return cartResp("setCoupon")(c)
		}).
		on("graphql removeItems", cartResp("removeItems")).
		on("graphql copyItems", cartResp("copyItems"))

	s := shop.New(up.executor(), ikea.DefaultConstants(), staticTokens(t))
	ctx := context.Background()

	_, err := s.SetCoupon(ctx, "SPRING")
	require.NoError(t, err)
	_, err = s.RemoveCartItems(ctx, []string{"22222222"})
	require.NoError(t, err)
	cart, err := s.CopyCart(ctx, "user-42")
	require.NoError(t, err)
	assert.Equal(t, "4999", cart.Total.String())
}
