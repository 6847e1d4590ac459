package amadeus

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/example/jetsetgo/internal/config"
)

// Client is an Amadeus Self-Service API client. It owns a cached OAuth2
// bearer token acquired through the client-credentials grant and refreshes
// it transparently when absent or expired.
//
// Refresh is deliberately not mutually exclusive: two callers racing an
// expired token may both exchange credentials, and the last completed
// refresh wins. The token field itself is replaced atomically so no caller
// ever sees a partial token.
type Client struct {
	hc      *http.Client
	baseURL string

	key    config.Credential
	secret config.Credential

	// subtracted from the provider-stated lifetime so we never present a
	// token the server already considers expired; must be positive
	safetyMargin time.Duration

	now   func() time.Time
	token atomic.Pointer[accessToken]
}

type accessToken struct {
	value     string
	issuedAt  time.Time
	expiresAt time.Time
}

func (t *accessToken) valid(now time.Time) bool {
	return t != nil && now.Before(t.expiresAt)
}

type Options struct {
	BaseURL      string
	Key          config.Credential
	Secret       config.Credential
	SafetyMargin time.Duration
	HTTPClient   *http.Client
}

func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	margin := opts.SafetyMargin
	if margin <= 0 {
		margin = time.Minute
	}
	return &Client{
		hc:           hc,
		baseURL:      strings.TrimSuffix(opts.BaseURL, "/"),
		key:          opts.Key,
		secret:       opts.Secret,
		safetyMargin: margin,
		now:          time.Now,
	}
}

// CredentialSources returns the env var names that supplied the client id
// and secret ("none" when unset). For health reporting; never values.
func (c *Client) CredentialSources() (key, secret string) {
	return c.key.Source(), c.secret.Source()
}

// Configured reports whether both credentials are present.
func (c *Client) Configured() bool {
	return c.key.IsSet() && c.secret.IsSet()
}

// Token returns the cached bearer token when still valid, otherwise
// performs the credential exchange and caches the result.
func (c *Client) Token(ctx context.Context) (string, error) {
	if t := c.token.Load(); t.valid(c.now()) {
		return t.value, nil
	}
	return c.refreshToken(ctx)
}

func (c *Client) refreshToken(ctx context.Context) (string, error) {
	if !c.Configured() {
		return "", ErrCredentialsMissing
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.key.Value)
	form.Set("client_secret", c.secret.Value)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.hc.Do(req)
	if err != nil {
		return "", &UpstreamError{Op: "token", Err: err}
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &UpstreamError{Op: "token", Err: err}
	}
	if res.StatusCode != http.StatusOK {
		return "", authError(res.StatusCode, body)
	}

	var tr struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", &UpstreamError{Op: "token", Err: err}
	}

	now := c.now()
	ttl := time.Duration(tr.ExpiresIn) * time.Second
	expires := now.Add(ttl - c.safetyMargin)
	if !expires.After(now) {
		// provider-stated lifetime shorter than the margin; keep the token
		// usable for half its real lifetime instead of thrashing
		expires = now.Add(ttl / 2)
	}
	c.token.Store(&accessToken{value: tr.AccessToken, issuedAt: now, expiresAt: expires})
	log.Printf("amadeus: token refreshed (key=%s, secret=%s, ttl=%s)", c.key.Source(), c.secret.Source(), ttl)
	return tr.AccessToken, nil
}

func (c *Client) invalidateToken() {
	c.token.Store(nil)
}

// call performs an authenticated request against path. On a 401 it
// invalidates the cached token and retries exactly once with a fresh one.
// Transport failures and 5xx responses come back as *UpstreamError and
// *APIError; they are not retried here — fallback policy belongs to the
// caller.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		tok, err := c.Token(ctx)
		if err != nil {
			return nil, err
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, err
		}
		if query != nil {
			req.URL.RawQuery = query.Encode()
		}
		req.Header.Set("Authorization", "Bearer "+tok)
		req.Header.Set("Accept", "application/vnd.amadeus+json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/vnd.amadeus+json")
		}

		res, err := c.hc.Do(req)
		if err != nil {
			return nil, &UpstreamError{Op: method + " " + path, Err: err}
		}
		respBody, err := io.ReadAll(res.Body)
		res.Body.Close()
		if err != nil {
			return nil, &UpstreamError{Op: method + " " + path, Err: err}
		}

		if res.StatusCode == http.StatusUnauthorized && attempt == 0 {
			log.Printf("amadeus: token rejected on %s, refreshing once", path)
			c.invalidateToken()
			continue
		}
		if res.StatusCode >= 400 {
			return nil, apiError(res.StatusCode, respBody)
		}
		return respBody, nil
	}
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.call(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
