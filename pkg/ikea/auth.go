package ikea

import (
	"errors"
	"net/http"
)

// GuestToken is the guest token endpoint response.
type GuestToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// NewGuestToken creates an endpoint that obtains an anonymous access token
// for the market's retail unit.
func NewGuestToken(c Constants) *Endpoint[GuestToken] {
	h := c.defaultHeaders()
	h.Set("X-Client-Id", c.ClientID(ClientGuestToken))

	req := &RequestInfo{
		Session: SessionInfo{BaseURL: c.guestTokenURL(), Headers: h},
		Method:  http.MethodPost,
		URL:     c.guestTokenURL(),
		JSON:    map[string]string{"retailUnit": c.Country},
	}

	return Single("guest_token", req, func(resp *ResponseInfo) (GuestToken, error) {
		tok, err := DecodeInto[GuestToken](resp)
		if err != nil {
			return tok, err
		}
		if tok.AccessToken == "" {
			return tok, errors.New("response has no access_token")
		}
		return tok, nil
	}, restHandlers...)
}
