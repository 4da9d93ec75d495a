package ikea

import (
	"fmt"
	"net/http"
)

// NewPIPItem creates an endpoint that fetches the product information page
// JSON of one item. A missing page yields a nil item.
func NewPIPItem(c Constants, code string) *Endpoint[*PIPItem] {
	if len(code) != 8 {
		return failed[*PIPItem]("pip_item", fmt.Errorf("%w: %q", ErrWrongItemCode, code))
	}

	req := &RequestInfo{
		Session: SessionInfo{BaseURL: c.LocalBaseURL(), Headers: c.defaultHeaders()},
		Method:  http.MethodGet,
		URL:     fmt.Sprintf("/products/%s/%s.json", code[5:], code),
	}

	return Single("pip_item", req, func(resp *ResponseInfo) (*PIPItem, error) {
		if resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		if err := HandleJSONDecodeError(resp); err != nil {
			return nil, err
		}
		if err := HandleNotSuccess(resp); err != nil {
			return nil, err
		}
		item, err := DecodeInto[PIPItem](resp)
		if err != nil {
			return nil, err
		}
		return &item, nil
	}, Handle401)
}
