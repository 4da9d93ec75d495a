// Package ikea provides bindings for IKEA's web APIs (cart, purchase history,
// item lookup, search, order capture and authentication).
//
// Every operation is an Endpoint: a resumable step function that yields
// request descriptors and consumes response descriptors. Endpoints never touch
// the network themselves; an Executor performs the HTTP calls and Run drives
// the loop, so the same endpoint works over any transport.
package ikea

import (
	"fmt"
	"net/http"
	"strings"
)

const (
	defaultCountry  = "ru"
	defaultLanguage = "ru"
	defaultBaseURL  = "https://www.ikea.com"

	defaultGuestTokenURL = "https://api.ingka.ikea.com/guest/token" //nolint:gosec // not a credential
	defaultIngkaURL      = "https://api.ingka.ikea.com"
	defaultCartURL       = "https://cart.oneweb.ingka.com/graphql"
	defaultPurchasesURL  = "https://purchase-history.ocp.ingka.ikea.com/graphql"
	defaultIOWSURL       = "https://iows.ikea.com/retail/iows"
	defaultSearchURL     = "https://sik.search.blue.cdtapps.com"
	defaultAuthURL       = "https://ikea.accounts.ikea.com"

	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 " +
		"(KHTML, like Gecko) Version/15.0 Safari/605.1.15"
)

// Constants holds the market settings shared by every API surface.
type Constants struct {
	Country  string
	Language string
	BaseURL  string

	// ClientIDs holds the X-Client-Id values the upstream services expect.
	// Keys are the service names used by the surface constructors.
	ClientIDs map[string]string

	// URLs overrides upstream locations. Empty fields use the production hosts.
	URLs URLs
}

// URLs holds per-service upstream locations.
type URLs struct {
	GuestToken string
	Ingka      string
	Cart       string
	Purchases  string
	IOWS       string
	Search     string
	Auth       string
	// OrderCapture defaults to https://ordercapture.ikea.<country>/ordercaptureapi/<country>.
	OrderCapture string
}

// Client ID keys.
const (
	ClientGuestToken   = "guest_token"
	ClientCart         = "cart"
	ClientPurchases    = "purchases"
	ClientIngka        = "ingka_items"
	ClientOrderCapture = "order_capture"
	ClientAuth         = "auth"
)

// DefaultConstants returns Constants for the default market.
func DefaultConstants() Constants {
	return Constants{
		Country:   defaultCountry,
		Language:  defaultLanguage,
		BaseURL:   defaultBaseURL,
		ClientIDs: map[string]string{},
	}
}

// LocalBaseURL returns the market-scoped site URL, e.g. https://www.ikea.com/ru/ru.
func (c Constants) LocalBaseURL() string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(c.BaseURL, "/"), c.Country, c.Language)
}

// ClientID returns the configured client ID for service, or "".
func (c Constants) ClientID(service string) string {
	return c.ClientIDs[service]
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return strings.TrimRight(v, "/")
}

func (c Constants) guestTokenURL() string { return orDefault(c.URLs.GuestToken, defaultGuestTokenURL) }
func (c Constants) ingkaURL() string      { return orDefault(c.URLs.Ingka, defaultIngkaURL) }
func (c Constants) cartURL() string       { return orDefault(c.URLs.Cart, defaultCartURL) }
func (c Constants) purchasesURL() string  { return orDefault(c.URLs.Purchases, defaultPurchasesURL) }
func (c Constants) iowsURL() string       { return orDefault(c.URLs.IOWS, defaultIOWSURL) }
func (c Constants) searchURL() string     { return orDefault(c.URLs.Search, defaultSearchURL) }
func (c Constants) authURL() string       { return orDefault(c.URLs.Auth, defaultAuthURL) }

func (c Constants) orderCaptureURL() string {
	return orDefault(c.URLs.OrderCapture,
		fmt.Sprintf("https://ordercapture.ikea.%s/ordercaptureapi/%s", c.Country, c.Country))
}

// defaultHeaders are sent with every request unless overridden.
func (c Constants) defaultHeaders() http.Header {
	h := http.Header{}
	h.Set("User-Agent", defaultUserAgent)
	h.Set("Accept", "*/*")
	h.Set("Accept-Language", c.Language+"-"+strings.ToUpper(c.Country))
	h.Set("Origin", c.BaseURL)
	h.Set("Referer", c.LocalBaseURL()+"/")
	return h
}

func bearer(token string) string {
	return "Bearer " + token
}
