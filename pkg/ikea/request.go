package ikea

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// SessionInfo is the part of a request shared by every call of one API surface.
type SessionInfo struct {
	BaseURL string
	Headers http.Header
}

// RequestInfo describes a single HTTP call yielded by an endpoint.
type RequestInfo struct {
	Session SessionInfo
	Method  string
	// URL is absolute, or relative to Session.BaseURL.
	URL     string
	Params  url.Values
	Headers http.Header
	JSON    any
	Form    url.Values
}

// FullURL resolves URL against the session base URL and appends Params.
func (r *RequestInfo) FullURL() (string, error) {
	raw := r.URL
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = strings.TrimRight(r.Session.BaseURL, "/") + "/" + strings.TrimLeft(raw, "/")
		raw = strings.TrimRight(raw, "/")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parsing request URL %q: %w", raw, err)
	}

	if len(r.Params) > 0 {
		q := u.Query()
		for k, vs := range r.Params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// Header merges session headers with request headers; request headers win.
func (r *RequestInfo) Header() http.Header {
	h := http.Header{}
	for k, vs := range r.Session.Headers {
		h[k] = append([]string(nil), vs...)
	}
	for k, vs := range r.Headers {
		h[k] = append([]string(nil), vs...)
	}
	return h
}

// Body encodes the JSON or form payload. Body is nil when the request has
// no payload.
func (r *RequestInfo) Body() (body []byte, contentType string, err error) {
	switch {
	case r.JSON != nil:
		body, err = json.Marshal(r.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("marshaling request body: %w", err)
		}
		return body, "application/json", nil
	case r.Form != nil:
		return []byte(r.Form.Encode()), "application/x-www-form-urlencoded", nil
	default:
		return nil, "", nil
	}
}

// ResponseInfo is the transport-independent view of an HTTP response.
type ResponseInfo struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// URL is the request URL the response belongs to.
	URL string
}

// IsSuccess reports whether the status code is 2xx.
func (r *ResponseInfo) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsRedirect reports whether the response is a 3xx carrying a Location.
func (r *ResponseInfo) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400 && r.Header.Get("Location") != ""
}

// Text returns the body as a string.
func (r *ResponseInfo) Text() string {
	return string(r.Body)
}

// DecodeJSON unmarshals the body into v.
func (r *ResponseInfo) DecodeJSON(v any) error {
	dec := json.NewDecoder(bytes.NewReader(r.Body))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

// Location resolves the Location header against the response URL.
func (r *ResponseInfo) Location() (string, error) {
	loc := r.Header.Get("Location")
	if loc == "" {
		return "", fmt.Errorf("response has no Location header")
	}
	base, err := url.Parse(r.URL)
	if err != nil {
		return "", fmt.Errorf("parsing response URL: %w", err)
	}
	ref, err := url.Parse(loc)
	if err != nil {
		return "", fmt.Errorf("parsing Location %q: %w", loc, err)
	}
	return base.ResolveReference(ref).String(), nil
}

func readAllLimited(r io.Reader) ([]byte, error) {
	const maxBody = 32 << 20
	return io.ReadAll(io.LimitReader(r, maxBody))
}
