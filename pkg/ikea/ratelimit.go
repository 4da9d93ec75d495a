package ikea

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/donaldgifford/ikea-api-client/internal/metrics"
)

// RateLimiter throttles requests per upstream host with one token bucket
// per host, so a slow IOWS fan-out does not starve cart calls.
type RateLimiter struct {
	perSecond float64
	burst     int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	nowFunc  func() time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// NewRateLimiter creates a rate limiter allowing perSecond requests per host
// with the given burst size.
func NewRateLimiter(perSecond float64, burst int, opts ...RateLimiterOption) *RateLimiter {
	r := &RateLimiter{
		perSecond: perSecond,
		burst:     burst,
		limiters:  make(map[string]*rate.Limiter),
		nowFunc:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Wait blocks until a request to rawURL's host is allowed, or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context, rawURL string) error {
	host := hostOf(rawURL)
	start := r.nowFunc()

	if err := r.limiter(host).Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", host, err)
	}

	metrics.RateLimitWaitSeconds.Observe(r.nowFunc().Sub(start).Seconds())
	return nil
}

// Hosts returns the number of hosts with an active bucket.
func (r *RateLimiter) Hosts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.limiters)
}

func (r *RateLimiter) limiter(host string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Limit(r.perSecond), r.burst)
		r.limiters[host] = l
	}
	return l
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}
