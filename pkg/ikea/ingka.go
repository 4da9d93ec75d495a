package ikea

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// IngkaMaxItems is the most item codes one sales item request accepts.
const IngkaMaxItems = 50

// NewIngkaItems creates an endpoint that fetches sales item communications
// for up to IngkaMaxItems codes.
func NewIngkaItems(c Constants, codes []string) *Endpoint[IngkaResponse] {
	h := c.defaultHeaders()
	h.Set("Accept", "application/json;version=2")
	h.Set("X-Client-Id", c.ClientID(ClientIngka))

	if len(codes) > IngkaMaxItems {
		return failed[IngkaResponse]("ingka_items",
			fmt.Errorf("at most %d item codes per request, got %d", IngkaMaxItems, len(codes)))
	}

	req := &RequestInfo{
		Session: SessionInfo{BaseURL: c.ingkaURL(), Headers: h},
		Method:  http.MethodGet,
		URL:     fmt.Sprintf("/salesitem/communications/%s/%s", c.Country, c.Language),
		Params:  url.Values{"itemNos": {strings.Join(codes, ",")}},
	}

	return Single("ingka_items", req, DecodeInto[IngkaResponse], restHandlers...)
}

// failed returns an endpoint that yields no request and returns err.
func failed[T any](name string, err error) *Endpoint[T] {
	return NewEndpoint(name, func(*ResponseInfo) (*RequestInfo, T, error) {
		var zero T
		return nil, zero, fmt.Errorf("%s: %w", name, err)
	})
}
