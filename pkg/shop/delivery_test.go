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

func TestShop_GetDeliveryServices(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream(t).
		on("graphql clearItems", cartResp("clearItems")).
		on("graphql addItems", respond(http.StatusOK, invalidItemsBody), cartResp("addItems")).
		on("graphql cart", cartResp("cart")).
		on("POST /ordercaptureapi/ru/checkouts", func(c call) *ikea.ResponseInfo {
			items, _ := c.Body["items"].([]any)
			assert.Len(t, items, 1)
			return jsonResp(http.StatusOK, `{"resourceId":"chk-1"}`)
		}).
		on("POST /ordercaptureapi/ru/checkouts/chk-1/service-area", func(c call) *ikea.ResponseInfo {
			assert.Equal(t, "101000", c.Body["zipCode"])
			return jsonResp(http.StatusOK, `{"id":"area-9"}`)
		}).
		on("GET /ordercaptureapi/ru/checkouts/chk-1/service-area/area-9/home-delivery-services",
			respond(http.StatusOK, `{"possibleDeliveries":{"deliveries":[{"id":"hd","fulfillmentMethodType":"HOME_DELIVERY",
				"earliestPossibleSlot":{"fromDateTime":"2026-02-03T09:00:00"},"price":{"value":1499,"currency":"RUB"}}]}}`)).
		on("GET /ordercaptureapi/ru/checkouts/chk-1/service-area/area-9/collect-delivery-services",
			respond(http.StatusNotFound, `{}`))

	s := shop.New(up.executor(), ikea.DefaultConstants(), staticTokens(t))
	got, err := s.GetDeliveryServices(context.Background(), map[string]int{"11111111": 2, "99999999": 1}, "101000")
	require.NoError(t, err)

	assert.Equal(t, []string{"99999999"}, got.CannotAdd)
	require.Len(t, got.Delivery, 1)
	assert.Equal(t, "Доставка на дом", got.Delivery[0].Type)
	assert.Equal(t, "2026-02-03", got.Delivery[0].Date)
	assert.Equal(t, "1499", got.Delivery[0].Price.String())
	assert.True(t, got.Delivery[0].IsAvailable)

	assert.Len(t, up.callsTo("graphql clearItems"), 1)
	assert.Len(t, up.callsTo("graphql addItems"), 2)
}

func TestShop_GetDeliveryServices_EmptyCart(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream(t).
		on("graphql clearItems", cartResp("clearItems")).
		on("graphql addItems", respond(http.StatusOK, invalidItemsBody)).
		on("graphql cart", respond(http.StatusOK, `{"data":{"cart":{"items":[]}}}`))

	s := shop.New(up.executor(), ikea.DefaultConstants(), staticTokens(t))
	got, err := s.GetDeliveryServices(context.Background(), map[string]int{"99999999": 1}, "101000")
	require.NoError(t, err)
	assert.Empty(t, got.Delivery)
	assert.Equal(t, []string{"99999999"}, got.CannotAdd)
}

func TestShop_GetDeliveryServices_CheckoutFails(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream(t).
		on("graphql clearItems", cartResp("clearItems")).
		on("graphql addItems", cartResp("addItems")).
		on("graphql cart", cartResp("cart")).
		on("POST /ordercaptureapi/ru/checkouts", respond(http.StatusBadRequest, `{"message":"bad zip"}`))

	s := shop.New(up.executor(), ikea.DefaultConstants(), staticTokens(t))
	_, err := s.GetDeliveryServices(context.Background(), map[string]int{"11111111": 1}, "000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening checkout")
	assert.Equal(t, http.StatusBadRequest, ikea.StatusCode(err))
}
