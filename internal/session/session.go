// Package session assembles executors, token providers and shops from a
// loaded configuration for the command-line entry points.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/donaldgifford/ikea-api-client/internal/config"
	"github.com/donaldgifford/ikea-api-client/internal/telemetry"
	"github.com/donaldgifford/ikea-api-client/pkg/ikea"
	"github.com/donaldgifford/ikea-api-client/pkg/logger"
	"github.com/donaldgifford/ikea-api-client/pkg/shop"
)

// Session bundles what a command needs to talk to the upstream services.
type Session struct {
	Config    *config.Config
	Log       *slog.Logger
	Executor  ikea.Executor
	Constants ikea.Constants

	shutdown telemetry.ShutdownFunc
}

// New builds a Session from cfg, which must already be validated.
func New(ctx context.Context, cfg *config.Config, version string) (*Session, error) {
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry, version)
	if err != nil {
		return nil, fmt.Errorf("setting up telemetry: %w", err)
	}

	ex, err := NewExecutor(cfg.Transport)
	if err != nil {
		return nil, err
	}

	return &Session{
		Config:    cfg,
		Log:       log,
		Executor:  ex,
		Constants: cfg.IKEA.Constants(),
		shutdown:  shutdown,
	}, nil
}

// NewExecutor creates the executor selected by t.Driver, rate limited per host.
func NewExecutor(t config.TransportConfig) (ikea.Executor, error) {
	limiter := ikea.NewRateLimiter(t.RateLimit.PerSecond, t.RateLimit.Burst)

	switch t.Driver {
	case config.DriverFastHTTP:
		ex, err := ikea.NewFastHTTPExecutor(
			ikea.WithFastHTTPTimeout(t.Timeout),
			ikea.WithFastHTTPRateLimiter(limiter),
		)
		if err != nil {
			return nil, fmt.Errorf("creating fasthttp executor: %w", err)
		}
		return ex, nil
	default:
		ex, err := ikea.NewHTTPExecutor(
			ikea.WithHTTPTimeout(t.Timeout),
			ikea.WithHTTPRateLimiter(limiter),
		)
		if err != nil {
			return nil, fmt.Errorf("creating http executor: %w", err)
		}
		return ex, nil
	}
}

// Close flushes pending spans.
func (s *Session) Close() {
	if s.shutdown == nil {
		return
	}
	if err := s.shutdown(context.Background()); err != nil {
		s.Log.Warn("flushing traces failed", "error", err)
	}
}

// GuestTokens returns a provider of anonymous tokens.
func (s *Session) GuestTokens() ikea.TokenProvider {
	return ikea.NewGuestTokenProvider(s.Executor, s.Constants, ikea.WithGuestTokenLogger(s.Log))
}

// HasAccount reports whether a token or credentials are configured.
func (s *Session) HasAccount() bool {
	return s.Config.Auth.Token != "" || s.Config.Auth.Username != ""
}

// Login runs the account login flow with the configured credentials.
func (s *Session) Login(ctx context.Context) (string, error) {
	auth := s.Config.Auth
	if auth.Username == "" || auth.Password == "" {
		return "", fmt.Errorf("%w: username and password are required", ikea.ErrNoToken)
	}

	tok, err := ikea.Run(ctx, s.Executor, ikea.NewLogin(s.Constants, ikea.Credentials{
		Username: auth.Username,
		Password: auth.Password,
	}), ikea.WithLogger(s.Log))
	if err != nil {
		return "", fmt.Errorf("logging in: %w", err)
	}
	return tok.AccessToken, nil
}

// UserTokens returns the configured token, logging in with the configured
// credentials when there is none.
func (s *Session) UserTokens(ctx context.Context) (ikea.TokenProvider, error) {
	if s.Config.Auth.Token != "" {
		return ikea.StaticToken(s.Config.Auth.Token), nil
	}
	if s.Config.Auth.Username == "" {
		return nil, fmt.Errorf("%w: set auth.token or IKEA_USERNAME and IKEA_PASSWORD", ikea.ErrNoToken)
	}

	token, err := s.Login(ctx)
	if err != nil {
		return nil, err
	}
	return ikea.StaticToken(token), nil
}

// CartTokens prefers the account's cart when one is configured and falls
// back to a guest cart.
func (s *Session) CartTokens(ctx context.Context) (ikea.TokenProvider, error) {
	if !s.HasAccount() {
		return s.GuestTokens(), nil
	}
	return s.UserTokens(ctx)
}

// Shop creates a shop using tokens for authenticated calls. tokens may be
// nil for catalogue-only use.
func (s *Session) Shop(tokens ikea.TokenProvider) *shop.Shop {
	return shop.New(s.Executor, s.Constants, tokens,
		shop.WithLogger(s.Log),
		shop.WithConcurrency(s.Config.Transport.Concurrency),
	)
}
