package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ikea-api-client/internal/config"
	"github.com/donaldgifford/ikea-api-client/internal/session"
	"github.com/donaldgifford/ikea-api-client/pkg/ikea"
)

func TestNewExecutor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		driver string
		want   any
	}{
		{name: "http", driver: config.DriverHTTP, want: &ikea.HTTPExecutor{}},
		{name: "fasthttp", driver: config.DriverFastHTTP, want: &ikea.FastHTTPExecutor{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			cfg.Transport.Driver = tt.driver

			ex, err := session.NewExecutor(cfg.Transport)
			require.NoError(t, err)
			assert.IsType(t, tt.want, ex)
		})
	}
}

func newSession(t *testing.T, auth config.AuthConfig) *session.Session {
	t.Helper()

	cfg := config.Default()
	cfg.Auth = auth
	cfg.Logging.Level = "error"

	s, err := session.New(context.Background(), cfg, "test")
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestSession_Tokens(t *testing.T) {
	t.Parallel()

	t.Run("guest cart without account", func(t *testing.T) {
		t.Parallel()

		s := newSession(t, config.AuthConfig{})
		assert.False(t, s.HasAccount())

		tokens, err := s.CartTokens(context.Background())
		require.NoError(t, err)
		assert.IsType(t, &ikea.GuestTokenProvider{}, tokens)

		_, err = s.UserTokens(context.Background())
		assert.ErrorIs(t, err, ikea.ErrNoToken)
	})

	t.Run("configured token", func(t *testing.T) {
		t.Parallel()

		s := newSession(t, config.AuthConfig{Token: "user-token"})
		assert.True(t, s.HasAccount())

		tokens, err := s.CartTokens(context.Background())
		require.NoError(t, err)
		tok, err := tokens.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "user-token", tok)
	})

	t.Run("login needs a password", func(t *testing.T) {
		t.Parallel()

		s := newSession(t, config.AuthConfig{Username: "user@example.com"})
		_, err := s.Login(context.Background())
		assert.ErrorIs(t, err, ikea.ErrNoToken)
	})
}

func TestSession_Shop(t *testing.T) {
	t.Parallel()

	s := newSession(t, config.AuthConfig{})
	assert.NotNil(t, s.Shop(nil))
	assert.Equal(t, "ru", s.Constants.Country)
}
