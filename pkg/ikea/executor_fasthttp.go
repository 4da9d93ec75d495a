package ikea

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/donaldgifford/ikea-api-client/internal/metrics"
)

const driverFastHTTP = "fasthttp"

// FastHTTPExecutor implements Executor on valyala/fasthttp. Cookies are kept
// in a net/http cookie jar so login sessions behave like HTTPExecutor's.
type FastHTTPExecutor struct {
	client      *fasthttp.Client
	jar         http.CookieJar
	timeout     time.Duration
	rateLimiter *RateLimiter
}

// FastHTTPOption configures the FastHTTPExecutor.
type FastHTTPOption func(*FastHTTPExecutor)

// WithFastHTTPClient replaces the underlying fasthttp client.
func WithFastHTTPClient(c *fasthttp.Client) FastHTTPOption {
	return func(e *FastHTTPExecutor) {
		e.client = c
	}
}

// WithFastHTTPTimeout sets the per-request timeout.
func WithFastHTTPTimeout(d time.Duration) FastHTTPOption {
	return func(e *FastHTTPExecutor) {
		e.timeout = d
	}
}

// WithFastHTTPRateLimiter throttles every request through r.
func WithFastHTTPRateLimiter(r *RateLimiter) FastHTTPOption {
	return func(e *FastHTTPExecutor) {
		e.rateLimiter = r
	}
}

// WithFastHTTPCookieJar shares a cookie jar, e.g. one filled by a login run
// on another executor.
func WithFastHTTPCookieJar(jar http.CookieJar) FastHTTPOption {
	return func(e *FastHTTPExecutor) {
		e.jar = jar
	}
}

// NewFastHTTPExecutor creates a fasthttp executor.
func NewFastHTTPExecutor(opts ...FastHTTPOption) (*FastHTTPExecutor, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	e := &FastHTTPExecutor{
		client: &fasthttp.Client{
			Name:                     "ikea-api-client",
			MaxConnsPerHost:          maxIdleConnsPerHost,
			MaxIdleConnDuration:      idleConnTimeout,
			NoDefaultUserAgentHeader: true,
		},
		jar:     jar,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Execute implements Executor. fasthttp has no context support, so ctx only
// bounds the deadline and is checked before the call.
func (e *FastHTTPExecutor) Execute(ctx context.Context, req *RequestInfo) (*ResponseInfo, error) {
	fullURL, err := req.FullURL()
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(fullURL)
	if err != nil {
		return nil, fmt.Errorf("parsing request URL: %w", err)
	}

	if e.rateLimiter != nil {
		if err := e.rateLimiter.Wait(ctx, fullURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, contentType, err := req.Body()
	if err != nil {
		return nil, err
	}

	fReq := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(fReq)
	fResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(fResp)

	fReq.SetRequestURI(fullURL)
	fReq.Header.SetMethod(req.Method)
	for k, vs := range req.Header() {
		for _, v := range vs {
			fReq.Header.Add(k, v)
		}
	}
	if body != nil {
		fReq.SetBody(body)
		if contentType != "" && req.Header().Get("Content-Type") == "" {
			fReq.Header.SetContentType(contentType)
		}
	}
	for _, c := range e.jar.Cookies(u) {
		fReq.Header.SetCookie(c.Name, c.Value)
	}

	deadline := time.Now().Add(e.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	host := u.Host
	start := time.Now()

	if err := e.client.DoDeadline(fReq, fResp, deadline); err != nil {
		metrics.UpstreamTransportErrorsTotal.WithLabelValues(driverFastHTTP, host).Inc()
		return nil, fmt.Errorf("executing %s %s: %w", req.Method, fullURL, err)
	}

	header := http.Header{}
	fResp.Header.VisitAll(func(k, v []byte) {
		header.Add(string(k), string(v))
	})
	if cookies := (&http.Response{Header: header}).Cookies(); len(cookies) > 0 {
		e.jar.SetCookies(u, cookies)
	}

	status := fResp.StatusCode()
	metrics.UpstreamRequestDuration.WithLabelValues(driverFastHTTP, host).Observe(time.Since(start).Seconds())
	metrics.UpstreamRequestsTotal.WithLabelValues(
		driverFastHTTP, host, req.Method, strconv.Itoa(status),
	).Inc()

	// fResp is released on return; the body must be copied out.
	respBody := append([]byte(nil), fResp.Body()...)

	return &ResponseInfo{
		StatusCode: status,
		Header:     header,
		Body:       respBody,
		URL:        fullURL,
	}, nil
}

// Cookies exposes the jar for session hand-off between executors.
func (e *FastHTTPExecutor) Cookies() http.CookieJar {
	return e.jar
}
