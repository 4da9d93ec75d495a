package ikea

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	queryHistory = `query History($skip: Int!, $take: Int!) {
  history(skip: $skip, take: $take) {
    id
    dateAndTime { date time }
    status
    storeName
    totalCost { value code }
  }
}`

	queryStatusBannerOrder = `query StatusBannerOrder($orderNumber: String!, $liteId: String) {
  order(orderNumber: $orderNumber, liteId: $liteId) {
    id
    dateAndTime { date time }
    status
    statusBanner { deliveryDate { date time } }
  }
}`

	queryCostsOrder = `query CostsOrder($orderNumber: String!, $liteId: String) {
  order(orderNumber: $orderNumber, liteId: $liteId) {
    costs {
      total { value code }
      subTotal { value code }
      delivery { value code }
    }
  }
}`

	queryProductListOrder = `query ProductListOrder($orderNumber: String!, $liteId: String) {
  order(orderNumber: $orderNumber, liteId: $liteId) {
    articles {
      any { itemNo name quantity unitPrice { value code } }
    }
  }
}`
)

// Purchases binds the purchase history GraphQL API for an account token.
type Purchases struct {
	session SessionInfo
}

// NewPurchases creates a purchase history binding authorized by token.
func NewPurchases(c Constants, token string) *Purchases {
	h := c.defaultHeaders()
	h.Set("X-Client-Id", c.ClientID(ClientPurchases))
	h.Set("Authorization", bearer(token))
	h.Set("Referer", c.LocalBaseURL()+"/purchases/")
	return &Purchases{
		session: SessionInfo{BaseURL: c.purchasesURL(), Headers: h},
	}
}

// History returns take purchases after skipping skip.
func (p *Purchases) History(take, skip int) *Endpoint[[]PurchaseHistoryEntry] {
	req := &RequestInfo{
		Session: p.session,
		Method:  http.MethodPost,
		URL:     p.session.BaseURL,
		JSON: graphQLRequest{
			OperationName: "History",
			Query:         queryHistory,
			Variables:     map[string]any{"take": take, "skip": skip},
		},
	}

	return Single("purchases.history", req, func(resp *ResponseInfo) ([]PurchaseHistoryEntry, error) {
		body, err := DecodeInto[PurchaseHistoryResponse](resp)
		if err != nil {
			return nil, err
		}
		return body.Data.History, nil
	}, graphQLHandlers...)
}

// OrderInfo fetches status, costs and products of one order in a single
// batched request. email is required for orders not tied to the account.
func (p *Purchases) OrderInfo(orderNumber, email string) *Endpoint[*OrderInfoResponse] {
	vars := map[string]any{"orderNumber": orderNumber}
	if email != "" {
		vars["liteId"] = email
	}

	batch := []graphQLRequest{
		{OperationName: "StatusBannerOrder", Query: queryStatusBannerOrder, Variables: vars},
		{OperationName: "CostsOrder", Query: queryCostsOrder, Variables: vars},
		{OperationName: "ProductListOrder", Query: queryProductListOrder, Variables: vars},
	}

	req := &RequestInfo{
		Session: p.session,
		Method:  http.MethodPost,
		URL:     p.session.BaseURL,
		JSON:    batch,
	}

	return Single("purchases.order_info", req, func(resp *ResponseInfo) (*OrderInfoResponse, error) {
		var parts []json.RawMessage
		if err := resp.DecodeJSON(&parts); err != nil {
			return nil, err
		}
		if len(parts) != len(batch) {
			return nil, fmt.Errorf("expected %d batched results, got %d", len(batch), len(parts))
		}

		var out OrderInfoResponse
		targets := []any{&out.StatusBanner, &out.Costs, &out.ProductList}
		for i, part := range parts {
			if err := json.Unmarshal(part, targets[i]); err != nil {
				return nil, fmt.Errorf("decoding %s: %w", batch[i].OperationName, err)
			}
		}
		return &out, nil
	}, graphQLHandlers...)
}
