package ikea

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/donaldgifford/ikea-api-client/internal/metrics"
)

const (
	// DefaultTimeout bounds a single upstream request.
	DefaultTimeout = 30 * time.Second

	driverHTTP = "net/http"

	maxIdleConns        = 100
	maxIdleConnsPerHost = 10
	idleConnTimeout     = 90 * time.Second
)

// HTTPExecutor implements Executor on net/http. Redirects are returned to the
// endpoint instead of being followed.
type HTTPExecutor struct {
	client      *http.Client
	rateLimiter *RateLimiter
}

// HTTPOption configures the HTTPExecutor.
type HTTPOption func(*HTTPExecutor)

// WithHTTPClient uses a copy of hc as the underlying client. The copy's
// CheckRedirect is overwritten so redirects reach the endpoint, and it gets
// the executor's cookie jar when hc has none.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(e *HTTPExecutor) {
		c := *hc
		e.client = &c
	}
}

// WithHTTPRateLimiter throttles every request through r.
func WithHTTPRateLimiter(r *RateLimiter) HTTPOption {
	return func(e *HTTPExecutor) {
		e.rateLimiter = r
	}
}

// WithHTTPTimeout sets the per-request timeout.
func WithHTTPTimeout(d time.Duration) HTTPOption {
	return func(e *HTTPExecutor) {
		e.client.Timeout = d
	}
}

// NewHTTPExecutor creates a net/http executor with a cookie jar and an
// OpenTelemetry-instrumented transport.
func NewHTTPExecutor(opts ...HTTPOption) (*HTTPExecutor, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	e := &HTTPExecutor{
		client: &http.Client{
			Jar:     jar,
			Timeout: DefaultTimeout,
			Transport: otelhttp.NewTransport(&http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        maxIdleConns,
				MaxIdleConnsPerHost: maxIdleConnsPerHost,
				IdleConnTimeout:     idleConnTimeout,
			}),
		},
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.client.Jar == nil {
		e.client.Jar = jar
	}
	e.client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return e, nil
}

// Execute implements Executor.
func (e *HTTPExecutor) Execute(ctx context.Context, req *RequestInfo) (*ResponseInfo, error) {
	fullURL, err := req.FullURL()
	if err != nil {
		return nil, err
	}

	if e.rateLimiter != nil {
		if err := e.rateLimiter.Wait(ctx, fullURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	body, contentType, err := req.Body()
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader = http.NoBody
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header = req.Header()
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	host := hostOf(fullURL)
	start := time.Now()

	resp, err := e.client.Do(httpReq)
	if err != nil {
		metrics.UpstreamTransportErrorsTotal.WithLabelValues(driverHTTP, host).Inc()
		return nil, fmt.Errorf("executing %s %s: %w", req.Method, fullURL, err)
	}
	defer resp.Body.Close()

	respBody, err := readAllLimited(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	metrics.UpstreamRequestDuration.WithLabelValues(driverHTTP, host).Observe(time.Since(start).Seconds())
	metrics.UpstreamRequestsTotal.WithLabelValues(
		driverHTTP, host, req.Method, strconv.Itoa(resp.StatusCode),
	).Inc()

	return &ResponseInfo{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
		URL:        fullURL,
	}, nil
}

// Cookies exposes the jar for session hand-off between executors.
func (e *HTTPExecutor) Cookies() http.CookieJar {
	return e.client.Jar
}
