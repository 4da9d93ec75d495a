package ikea_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ikea-api-client/pkg/ikea"
)

type fakeAuth0 struct {
	t           *testing.T
	redirectURI string
	wrongState  bool

	mu           sync.Mutex
	outerState   string
	gotVerifier  string
	gotChallenge string
}

func newFakeAuth0(t *testing.T, wrongState bool) *fakeAuth0 {
	t.Helper()
	return &fakeAuth0{
		t:           t,
		redirectURI: ikea.DefaultConstants().LocalBaseURL() + "/profile/login/",
		wrongState:  wrongState,
	}
}

func (f *fakeAuth0) pkce() (verifier, challenge string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gotVerifier, f.gotChallenge
}

func (f *fakeAuth0) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /authorize", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(f.t, "code", q.Get("response_type"))
		assert.Equal(f.t, "S256", q.Get("code_challenge_method"))
		assert.Equal(f.t, "auth-client", q.Get("client_id"))
		f.mu.Lock()
		f.outerState = q.Get("state")
		f.gotChallenge = q.Get("code_challenge")
		f.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: "auth0", Value: "session", Path: "/"})
		http.Redirect(w, r, "/login?state=inner-state", http.StatusFound)
	})

	mux.HandleFunc("GET /login", func(w http.ResponseWriter, r *http.Request) {
		_, err := r.Cookie("auth0")
		assert.NoError(f.t, err, "session cookie carried to login page")

		cfg, _ := json.Marshal(map[string]any{
			"clientID":    "auth-client",
			"auth0Tenant": "ikea",
			"callbackURL": f.redirectURI,
			"extraParams": map[string]any{
				"_csrf":         "csrf-token",
				"state":         "inner-state",
				"response_type": "code",
				"protocol":      "oauth2",
			},
		})
		fmt.Fprintf(w, `<html><script>
			var config = JSON.parse(decodeURIComponent(escape(window.atob('%s'))));
		</script></html>`, base64.StdEncoding.EncodeToString(cfg))
	})

	mux.HandleFunc("POST /usernamepassword/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(f.t, "csrf-token", body["_csrf"])
		assert.Equal(f.t, "inner-state", body["state"])
		assert.Equal(f.t, "ikea", body["tenant"])
		assert.Equal(f.t, "Username-Password-Authentication", body["connection"])

		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"name":"ValidationError","code":"invalid_user_password","description":"Wrong email or password."}`))
			return
		}
		_, _ = w.Write([]byte(`<html><body>
			<form method="post" name="hiddenform" action="/login/callback">
				<input type="hidden" name="wa" value="wsignin1.0">
				<input type="hidden" name="wresult" value="signed-assertion">
				<input type="hidden" name="wctx" value="{&#34;strategy&#34;:&#34;auth0&#34;}">
				<noscript><input type="submit" value="Submit"></noscript>
			</form></body></html>`))
	})

	mux.HandleFunc("POST /login/callback", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(f.t, r.ParseForm())
		assert.Equal(f.t, "wsignin1.0", r.PostForm.Get("wa"))
		assert.Equal(f.t, "signed-assertion", r.PostForm.Get("wresult"))
		assert.Equal(f.t, `{"strategy":"auth0"}`, r.PostForm.Get("wctx"))
		http.Redirect(w, r, "/authorize/resume?state=inner-state", http.StatusFound)
	})

	mux.HandleFunc("GET /authorize/resume", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		state := f.outerState
		f.mu.Unlock()
		if f.wrongState {
			state = "forged"
		}
		http.Redirect(w, r, f.redirectURI+"?code=auth-code&state="+url.QueryEscape(state), http.StatusFound)
	})

	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(f.t, "authorization_code", body["grant_type"])
		assert.Equal(f.t, "auth-code", body["code"])
		assert.Equal(f.t, f.redirectURI, body["redirect_uri"])
		f.mu.Lock()
		f.gotVerifier = body["code_verifier"]
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"user-token","refresh_token":"refresh","id_token":"id",` +
			`"token_type":"Bearer","expires_in":86400,"scope":"openid profile email"}`))
	})

	return mux
}

func loginConstants(authURL string) ikea.Constants {
	c := ikea.DefaultConstants()
	c.ClientIDs[ikea.ClientAuth] = "auth-client"
	c.URLs.Auth = authURL
	return c
}

func TestLogin(t *testing.T) {
	t.Parallel()

	fake := newFakeAuth0(t, false)
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	c := loginConstants(srv.URL)

	ex, err := ikea.NewHTTPExecutor()
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	verifier := "test-verifier-0123456789-0123456789-0123456789"
	tok, err := ikea.Run(context.Background(), ex, ikea.NewLogin(c,
		ikea.Credentials{Username: "user@example.com", Password: "secret"},
		ikea.WithLoginNowFunc(func() time.Time { return now }),
		ikea.WithLoginVerifier(verifier),
	))
	require.NoError(t, err)

	assert.Equal(t, "user-token", tok.AccessToken)
	assert.Equal(t, "refresh", tok.RefreshToken)
	assert.Equal(t, now.Add(24*time.Hour), tok.Expiry)
	assert.Equal(t, "id", tok.Extra("id_token"))
	gotVerifier, gotChallenge := fake.pkce()
	assert.Equal(t, verifier, gotVerifier)
	assert.NotEmpty(t, gotChallenge)
	assert.NotEqual(t, verifier, gotChallenge)
}

func TestLogin_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		password   string
		wrongState bool
		wantIs     error
		errContain string
	}{
		{
			name:       "wrong password",
			password:   "nope",
			wantIs:     ikea.ErrUnauthorized,
			errContain: "Wrong email or password.",
		},
		{
			name:       "state mismatch",
			password:   "secret",
			wrongState: true,
			wantIs:     ikea.ErrLoginStateMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := newFakeAuth0(t, tt.wrongState)
			srv := httptest.NewServer(fake.handler())
			defer srv.Close()

			c := loginConstants(srv.URL)

			ex, err := ikea.NewHTTPExecutor()
			require.NoError(t, err)

			_, err = ikea.Run(context.Background(), ex, ikea.NewLogin(c,
				ikea.Credentials{Username: "user@example.com", Password: tt.password},
			))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantIs)
			if tt.errContain != "" {
				assert.Contains(t, err.Error(), tt.errContain)
			}
		})
	}
}

func TestLogin_NoEmbeddedConfig(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	ex, err := ikea.NewHTTPExecutor()
	require.NoError(t, err)

	_, err = ikea.Run(context.Background(), ex, ikea.NewLogin(loginConstants(srv.URL), ikea.Credentials{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no embedded config")
}
