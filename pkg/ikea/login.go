package ikea

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/oauth2"
)

const (
	authConnection = "Username-Password-Authentication"
	authAudience   = "https://retail.api.ikea.com"
)

var (
	authScopes = []string{"openid", "profile", "email"}

	atobPattern = regexp.MustCompile(`window\.atob\('([^']+)'\)`)

	// ErrLoginStateMismatch is returned when the authorization redirect carries
	// a state other than the one sent to /authorize.
	ErrLoginStateMismatch = errors.New("login state mismatch")
)

// Credentials are the account e-mail and password used by Login.
type Credentials struct {
	Username string
	Password string
}

// LoginOption configures a login endpoint.
type LoginOption func(*loginFlow)

// WithLoginNowFunc overrides the time function for testing.
func WithLoginNowFunc(f func() time.Time) LoginOption {
	return func(l *loginFlow) {
		l.nowFunc = f
	}
}

// WithLoginState fixes the OAuth state and nonce instead of generating them.
func WithLoginState(state, nonce string) LoginOption {
	return func(l *loginFlow) {
		l.state = state
		l.nonce = nonce
	}
}

// WithLoginVerifier fixes the PKCE code verifier.
func WithLoginVerifier(v string) LoginOption {
	return func(l *loginFlow) {
		l.verifier = v
	}
}

type loginPhase int

const (
	phaseStart loginPhase = iota
	phaseLoginPage
	phaseCredentials
	phaseCallback
	phaseToken
)

type loginFlow struct {
	consts   Constants
	creds    Credentials
	oauth    *oauth2.Config
	state    string
	nonce    string
	verifier string
	nowFunc  func() time.Time

	phase   loginPhase
	headers http.Header
}

// pageConfig is the JSON blob the hosted login page embeds base64-encoded.
type pageConfig struct {
	ClientID    string         `json:"clientID"`
	Tenant      string         `json:"auth0Tenant"`
	CallbackURL string         `json:"callbackURL"`
	ExtraParams map[string]any `json:"extraParams"`
}

type authTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	ExpiresIn    int64  `json:"expires_in"`
}

type authErrorResponse struct {
	Code             string `json:"code"`
	Description      string `json:"description"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (r authErrorResponse) message() string {
	for _, s := range []string{r.Description, r.ErrorDescription, r.Code, r.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// NewLogin creates an endpoint that signs in with e-mail and password through
// the hosted Auth0 page and exchanges the authorization code for a token
// using PKCE.
func NewLogin(c Constants, creds Credentials, opts ...LoginOption) *Endpoint[*oauth2.Token] {
	authURL := c.authURL()
	l := &loginFlow{
		consts: c,
		creds:  creds,
		oauth: &oauth2.Config{
			ClientID:    c.ClientID(ClientAuth),
			RedirectURL: c.LocalBaseURL() + "/profile/login/",
			Scopes:      authScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL + "/authorize",
				TokenURL: authURL + "/oauth/token",
			},
		},
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.state == "" {
		l.state = uuid.NewString()
	}
	if l.nonce == "" {
		l.nonce = uuid.NewString()
	}
	if l.verifier == "" {
		l.verifier = oauth2.GenerateVerifier()
	}

	l.headers = c.defaultHeaders()
	l.headers.Set("Origin", authURL)
	l.headers.Set("Referer", authURL+"/")

	return NewEndpoint("login", l.step)
}

func (l *loginFlow) session() SessionInfo {
	return SessionInfo{BaseURL: l.consts.authURL(), Headers: l.headers}
}

func (l *loginFlow) get(rawURL string) *RequestInfo {
	return &RequestInfo{
		Session: l.session(),
		Method:  http.MethodGet,
		URL:     rawURL,
		Headers: http.Header{"Accept": {"text/html,application/xhtml+xml"}},
	}
}

func (l *loginFlow) step(resp *ResponseInfo) (*RequestInfo, *oauth2.Token, error) {
	switch l.phase {
	case phaseStart:
		l.phase = phaseLoginPage
		return l.get(l.authorizeURL()), nil, nil

	case phaseLoginPage:
		if resp.IsRedirect() {
			next, err := resp.Location()
			if err != nil {
				return nil, nil, err
			}
			return l.get(next), nil, nil
		}
		if !resp.IsSuccess() {
			return nil, nil, NewAPIError(resp, "opening login page")
		}
		cfg, err := parsePageConfig(resp.Body)
		if err != nil {
			return nil, nil, err
		}
		l.phase = phaseCredentials
		return l.credentialsRequest(cfg), nil, nil

	case phaseCredentials:
		if !resp.IsSuccess() {
			return nil, nil, loginFailed(resp)
		}
		action, fields, err := parseHiddenForm(resp.Body)
		if err != nil {
			return nil, nil, err
		}
		if fields.Get("wresult") == "" {
			return nil, nil, &AuthError{Response: resp, Message: "login response has no callback form"}
		}
		target, err := resolve(resp.URL, action)
		if err != nil {
			return nil, nil, err
		}
		l.phase = phaseCallback
		return &RequestInfo{
			Session: l.session(),
			Method:  http.MethodPost,
			URL:     target,
			Form:    fields,
		}, nil, nil

	case phaseCallback:
		if !resp.IsRedirect() {
			return nil, nil, loginFailed(resp)
		}
		next, err := resp.Location()
		if err != nil {
			return nil, nil, err
		}
		code, done, err := l.authorizationCode(resp, next)
		if err != nil {
			return nil, nil, err
		}
		if !done {
			return l.get(next), nil, nil
		}
		l.phase = phaseToken
		return l.tokenRequest(code), nil, nil

	case phaseToken:
		if !resp.IsSuccess() {
			return nil, nil, loginFailed(resp)
		}
		tok, err := l.parseToken(resp)
		if err != nil {
			return nil, nil, err
		}
		return nil, tok, nil
	}

	return nil, nil, fmt.Errorf("login: unexpected phase %d", l.phase)
}

func (l *loginFlow) authorizeURL() string {
	return l.oauth.AuthCodeURL(
		l.state,
		oauth2.S256ChallengeOption(l.verifier),
		oauth2.SetAuthURLParam("audience", authAudience),
		oauth2.SetAuthURLParam("nonce", l.nonce),
		oauth2.SetAuthURLParam("response_mode", "query"),
		oauth2.SetAuthURLParam("ui_locales", l.consts.Language+"-"+strings.ToUpper(l.consts.Country)),
	)
}

func (l *loginFlow) credentialsRequest(cfg *pageConfig) *RequestInfo {
	body := make(map[string]any, len(cfg.ExtraParams)+8)
	for k, v := range cfg.ExtraParams {
		body[k] = v
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = l.oauth.ClientID
	}
	callback := cfg.CallbackURL
	if callback == "" {
		callback = l.oauth.RedirectURL
	}
	body["client_id"] = clientID
	body["redirect_uri"] = callback
	body["tenant"] = cfg.Tenant
	body["connection"] = authConnection
	body["username"] = l.creds.Username
	body["password"] = l.creds.Password

	return &RequestInfo{
		Session: l.session(),
		Method:  http.MethodPost,
		URL:     "/usernamepassword/login",
		JSON:    body,
	}
}

// authorizationCode inspects a redirect target. done is true once the target
// carries the authorization code.
func (l *loginFlow) authorizationCode(resp *ResponseInfo, target string) (code string, done bool, err error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", false, fmt.Errorf("parsing redirect %q: %w", target, err)
	}
	q := u.Query()
	if e := q.Get("error"); e != "" {
		msg := e
		if d := q.Get("error_description"); d != "" {
			msg = d
		}
		return "", false, &AuthError{Response: resp, Message: msg}
	}
	code = q.Get("code")
	if code == "" {
		return "", false, nil
	}
	if got := q.Get("state"); got != l.state {
		return "", false, fmt.Errorf("%w: got %q", ErrLoginStateMismatch, got)
	}
	return code, true, nil
}

func (l *loginFlow) tokenRequest(code string) *RequestInfo {
	return &RequestInfo{
		Session: l.session(),
		Method:  http.MethodPost,
		URL:     l.oauth.Endpoint.TokenURL,
		Headers: http.Header{"Accept": {"application/json"}},
		JSON: map[string]string{
			"grant_type":    "authorization_code",
			"client_id":     l.oauth.ClientID,
			"code_verifier": l.verifier,
			"code":          code,
			"redirect_uri":  l.oauth.RedirectURL,
		},
	}
}

func (l *loginFlow) parseToken(resp *ResponseInfo) (*oauth2.Token, error) {
	var raw authTokenResponse
	if err := resp.DecodeJSON(&raw); err != nil {
		return nil, &JSONError{Response: resp, Cause: err}
	}
	if raw.AccessToken == "" {
		return nil, &AuthError{Response: resp, Message: "token response has no access_token"}
	}

	tok := &oauth2.Token{
		AccessToken:  raw.AccessToken,
		TokenType:    raw.TokenType,
		RefreshToken: raw.RefreshToken,
	}
	if raw.ExpiresIn > 0 {
		tok.Expiry = l.nowFunc().Add(time.Duration(raw.ExpiresIn) * time.Second)
	}
	return tok.WithExtra(map[string]any{
		"id_token": raw.IDToken,
		"scope":    raw.Scope,
	}), nil
}

func loginFailed(resp *ResponseInfo) error {
	var body authErrorResponse
	_ = json.Unmarshal(resp.Body, &body) //nolint:errcheck // best-effort error parsing
	msg := body.message()
	if msg == "" {
		msg = fmt.Sprintf("login failed (status %d)", resp.StatusCode)
	}
	return &AuthError{Response: resp, Message: msg}
}

func parsePageConfig(page []byte) (*pageConfig, error) {
	m := atobPattern.FindSubmatch(page)
	if m == nil {
		return nil, errors.New("login page has no embedded config")
	}
	raw, err := base64.StdEncoding.DecodeString(string(m[1]))
	if err != nil {
		return nil, fmt.Errorf("decoding login page config: %w", err)
	}
	var cfg pageConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing login page config: %w", err)
	}
	if cfg.ExtraParams == nil {
		cfg.ExtraParams = map[string]any{}
	}
	return &cfg, nil
}

// parseHiddenForm returns the action and hidden inputs of the first form in
// page.
func parseHiddenForm(page []byte) (string, url.Values, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", nil, fmt.Errorf("parsing login response: %w", err)
	}

	form := findElement(doc, "form")
	if form == nil {
		return "", nil, errors.New("login response has no form")
	}

	fields := url.Values{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "input" {
			name := attr(n, "name")
			if name != "" && strings.EqualFold(attr(n, "type"), "hidden") {
				fields.Add(name, attr(n, "value"))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(form)

	return attr(form, "action"), fields, nil
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func resolve(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing URL %q: %w", base, err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parsing URL %q: %w", ref, err)
	}
	return b.ResolveReference(r).String(), nil
}
