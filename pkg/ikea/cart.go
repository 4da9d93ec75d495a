package ikea

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"

	"github.com/samber/lo"
)

// CodeInvalidItemNumber is the GraphQL error code the cart returns for item
// codes it does not sell.
const CodeInvalidItemNumber = "INVALID_ITEM_NUMBER"

// Cart binds the cart GraphQL API for one token.
type Cart struct {
	session  SessionInfo
	language string
}

// NewCart creates a cart binding authorized by token, which may be a guest
// token.
func NewCart(c Constants, token string) *Cart {
	h := c.defaultHeaders()
	h.Set("X-Client-Id", c.ClientID(ClientCart))
	h.Set("Authorization", bearer(token))
	return &Cart{
		session:  SessionInfo{BaseURL: c.cartURL(), Headers: h},
		language: c.Language,
	}
}

type graphQLRequest struct {
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

type cartItemInput struct {
	ItemNo   string `json:"itemNo"`
	Quantity int    `json:"quantity"`
}

func (c *Cart) op(name, query string, vars map[string]any) *Endpoint[*CartData] {
	if vars == nil {
		vars = map[string]any{}
	}
	vars["languageCode"] = c.language

	req := &RequestInfo{
		Session: c.session,
		Method:  http.MethodPost,
		URL:     c.session.BaseURL,
		JSON:    graphQLRequest{Query: query, Variables: vars},
	}

	return Single("cart."+name, req, func(resp *ResponseInfo) (*CartData, error) {
		body, err := DecodeInto[CartResponse](resp)
		if err != nil {
			return nil, err
		}
		cart := body.Cart()
		if cart == nil {
			return nil, errors.New("response has no cart")
		}
		return cart, nil
	}, graphQLHandlers...)
}

// Show returns the cart.
func (c *Cart) Show() *Endpoint[*CartData] {
	return c.op("show", queryCart, nil)
}

// Clear removes every item.
func (c *Cart) Clear() *Endpoint[*CartData] {
	return c.op("clear", mutationClearItems, nil)
}

// AddItems adds quantities of the given item codes.
func (c *Cart) AddItems(items map[string]int) *Endpoint[*CartData] {
	return c.op("add_items", mutationAddItems, map[string]any{"items": itemInputs(items)})
}

// UpdateItems sets quantities of items already in the cart.
func (c *Cart) UpdateItems(items map[string]int) *Endpoint[*CartData] {
	return c.op("update_items", mutationUpdateItems, map[string]any{"items": itemInputs(items)})
}

// CopyItems copies the cart of another user into this one.
func (c *Cart) CopyItems(sourceUserID string) *Endpoint[*CartData] {
	return c.op("copy_items", mutationCopyItems, map[string]any{"sourceUserId": sourceUserID})
}

// RemoveItems removes the given item codes.
func (c *Cart) RemoveItems(codes []string) *Endpoint[*CartData] {
	return c.op("remove_items", mutationRemoveItems, map[string]any{"itemNos": codes})
}

// SetCoupon applies a coupon code.
func (c *Cart) SetCoupon(code string) *Endpoint[*CartData] {
	return c.op("set_coupon", mutationSetCoupon, map[string]any{"code": code})
}

// ClearCoupon removes the applied coupon.
func (c *Cart) ClearCoupon() *Endpoint[*CartData] {
	return c.op("clear_coupon", mutationClearCoupon, nil)
}

func itemInputs(items map[string]int) []cartItemInput {
	codes := lo.Keys(items)
	slices.Sort(codes)
	return lo.Map(codes, func(code string, _ int) cartItemInput {
		return cartItemInput{ItemNo: code, Quantity: items[code]}
	})
}

// InvalidItemCodes returns the item codes err reports as INVALID_ITEM_NUMBER.
// It returns nil when err is not a GraphQL error or names no such codes.
func InvalidItemCodes(err error) []string {
	var gqlErr *GraphQLError
	if !errors.As(err, &gqlErr) {
		return nil
	}
	var codes []string
	for _, e := range gqlErr.Errors {
		if e.Extensions.Code != CodeInvalidItemNumber || len(e.Extensions.Data) == 0 {
			continue
		}
		var data struct {
			ItemNos []string `json:"itemNos"`
		}
		if err := json.Unmarshal(e.Extensions.Data, &data); err != nil {
			continue
		}
		codes = append(codes, data.ItemNos...)
	}
	if len(codes) == 0 {
		return nil
	}
	return lo.Uniq(codes)
}
