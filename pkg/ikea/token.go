package ikea

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/donaldgifford/ikea-api-client/internal/metrics"
)

const (
	refreshBuffer = 60 * time.Second

	// fallbackTokenTTL is used when neither expires_in nor an exp claim is present.
	fallbackTokenTTL = time.Hour
)

// ErrNoToken is returned by StaticToken when it is empty.
var ErrNoToken = errors.New("no access token configured")

// TokenProvider supplies bearer tokens for authenticated surfaces.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenProvider for a token obtained elsewhere, e.g. by Login.
type StaticToken string

// Token implements TokenProvider.
func (s StaticToken) Token(context.Context) (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

// GuestTokenProvider implements TokenProvider with guest tokens. It caches the
// token and refreshes it within 60 seconds of expiry. Thread-safe via mutex.
type GuestTokenProvider struct {
	executor  Executor
	constants Constants
	logger    *slog.Logger

	mu      sync.Mutex
	token   string
	expiry  time.Time
	nowFunc func() time.Time // for testing
}

// GuestTokenOption configures the GuestTokenProvider.
type GuestTokenOption func(*GuestTokenProvider)

// WithGuestTokenNowFunc overrides the time function for testing.
func WithGuestTokenNowFunc(f func() time.Time) GuestTokenOption {
	return func(p *GuestTokenProvider) {
		p.nowFunc = f
	}
}

// WithGuestTokenLogger sets the logger.
func WithGuestTokenLogger(l *slog.Logger) GuestTokenOption {
	return func(p *GuestTokenProvider) {
		p.logger = l
	}
}

// NewGuestTokenProvider creates a guest token provider that fetches tokens
// through ex.
func NewGuestTokenProvider(ex Executor, c Constants, opts ...GuestTokenOption) *GuestTokenProvider {
	p := &GuestTokenProvider{
		executor:  ex,
		constants: c,
		logger:    slog.New(slog.DiscardHandler),
		nowFunc:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Token returns a valid guest token, refreshing if necessary.
func (p *GuestTokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && p.nowFunc().Before(p.expiry.Add(-refreshBuffer)) {
		return p.token, nil
	}

	return p.refreshLocked(ctx)
}

// Invalidate drops the cached token so the next call fetches a new one.
func (p *GuestTokenProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = ""
	p.expiry = time.Time{}
}

func (p *GuestTokenProvider) refreshLocked(ctx context.Context) (string, error) {
	tok, err := Run(ctx, p.executor, NewGuestToken(p.constants), WithLogger(p.logger))
	if err != nil {
		return "", fmt.Errorf("fetching guest token: %w", err)
	}
	metrics.TokenRefreshesTotal.WithLabelValues("guest").Inc()

	now := p.nowFunc()
	switch {
	case tok.ExpiresIn > 0:
		p.expiry = now.Add(time.Duration(tok.ExpiresIn) * time.Second)
	default:
		exp, ok := jwtExpiry(tok.AccessToken)
		if !ok {
			exp = now.Add(fallbackTokenTTL)
		}
		p.expiry = exp
	}
	p.token = tok.AccessToken

	p.logger.DebugContext(ctx, "guest token refreshed", "expiry", p.expiry)
	return p.token, nil
}

// jwtExpiry reads the exp claim without verifying the signature; the token is
// only forwarded to the service that issued it.
func jwtExpiry(raw string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
