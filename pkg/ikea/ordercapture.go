package ikea

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"

	"github.com/samber/lo"
)

// OrderCapture binds the checkout API used to quote delivery options.
type OrderCapture struct {
	session  SessionInfo
	language string
}

// NewOrderCapture creates an order capture binding authorized by token.
func NewOrderCapture(c Constants, token string) *OrderCapture {
	h := c.defaultHeaders()
	h.Set("Accept", "application/json;version=2")
	h.Set("X-Client-Id", c.ClientID(ClientOrderCapture))
	h.Set("Authorization", bearer(token))
	return &OrderCapture{
		session:  SessionInfo{BaseURL: c.orderCaptureURL(), Headers: h},
		language: c.Language,
	}
}

type checkoutRequest struct {
	Channel      string         `json:"channel"`
	CheckoutType string         `json:"checkoutType"`
	ShoppingType string         `json:"shoppingType"`
	LanguageCode string         `json:"languageCode"`
	DeliveryArea any            `json:"deliveryArea"`
	Items        []CheckoutItem `json:"items"`
}

// GetCheckout opens a checkout for items and returns its ID.
func (o *OrderCapture) GetCheckout(items map[string]int) *Endpoint[string] {
	codes := lo.Keys(items)
	slices.Sort(codes)

	req := &RequestInfo{
		Session: o.session,
		Method:  http.MethodPost,
		URL:     "/checkouts",
		JSON: checkoutRequest{
			Channel:      "WEBAPP",
			CheckoutType: "STANDARD",
			ShoppingType: "ONLINE",
			LanguageCode: o.language,
			Items: lo.Map(codes, func(code string, _ int) CheckoutItem {
				return CheckoutItem{ItemNo: code, Quantity: items[code], UOM: "PIECE"}
			}),
		},
	}

	return Single("order_capture.checkout", req, func(resp *ResponseInfo) (string, error) {
		var body struct {
			ResourceID string `json:"resourceId"`
		}
		if err := resp.DecodeJSON(&body); err != nil {
			return "", err
		}
		if body.ResourceID == "" {
			return "", errors.New("response has no resourceId")
		}
		return body.ResourceID, nil
	}, restHandlers...)
}

// GetServiceArea resolves a zip code within a checkout to a service area ID.
// stateCode is only needed in markets that require it.
func (o *OrderCapture) GetServiceArea(checkoutID, zipCode, stateCode string) *Endpoint[string] {
	body := map[string]string{"zipCode": zipCode}
	if stateCode != "" {
		body["stateCode"] = stateCode
	}

	req := &RequestInfo{
		Session: o.session,
		Method:  http.MethodPost,
		URL:     fmt.Sprintf("/checkouts/%s/service-area", url.PathEscape(checkoutID)),
		JSON:    body,
	}

	return Single("order_capture.service_area", req, func(resp *ResponseInfo) (string, error) {
		var area struct {
			ID string `json:"id"`
		}
		if err := resp.DecodeJSON(&area); err != nil {
			return "", err
		}
		if area.ID == "" {
			return "", errors.New("response has no service area id")
		}
		return area.ID, nil
	}, restHandlers...)
}

func (o *OrderCapture) servicesRequest(checkoutID, areaID, kind string) *RequestInfo {
	return &RequestInfo{
		Session: o.session,
		Method:  http.MethodGet,
		URL: fmt.Sprintf("/checkouts/%s/service-area/%s/%s",
			url.PathEscape(checkoutID), url.PathEscape(areaID), kind),
	}
}

// GetHomeDeliveryServices lists home delivery options.
func (o *OrderCapture) GetHomeDeliveryServices(checkoutID, areaID string) *Endpoint[*HomeDeliveryResponse] {
	req := o.servicesRequest(checkoutID, areaID, "home-delivery-services")
	return Single("order_capture.home_delivery", req, func(resp *ResponseInfo) (*HomeDeliveryResponse, error) {
		body, err := DecodeInto[HomeDeliveryResponse](resp)
		if err != nil {
			return nil, err
		}
		return &body, nil
	}, restHandlers...)
}

// GetCollectDeliveryServices lists pickup options. A 404 means the area has
// no pickup points and yields an empty response.
func (o *OrderCapture) GetCollectDeliveryServices(checkoutID, areaID string) *Endpoint[*CollectDeliveryResponse] {
	req := o.servicesRequest(checkoutID, areaID, "collect-delivery-services")
	return Single("order_capture.collect_delivery", req, func(resp *ResponseInfo) (*CollectDeliveryResponse, error) {
		if resp.StatusCode == http.StatusNotFound {
			return &CollectDeliveryResponse{}, nil
		}
		if err := HandleJSONDecodeError(resp); err != nil {
			return nil, err
		}
		if err := HandleNotSuccess(resp); err != nil {
			return nil, err
		}
		body, err := DecodeInto[CollectDeliveryResponse](resp)
		if err != nil {
			return nil, err
		}
		return &body, nil
	}, Handle401)
}
