// Package mailer sends transactional email through the Resend HTTP API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/example/jetsetgo/internal/config"
)

// ErrNotConfigured means no API key was supplied; callers decide whether
// that is fatal or a degrade-to-note condition.
var ErrNotConfigured = errors.New("mailer: RESEND_API_KEY not set")

// SendError is a non-success response from the email provider.
type SendError struct {
	Status int
	Detail string
}

func (e *SendError) Error() string {
	return fmt.Sprintf("mailer: send failed (status=%d): %s", e.Status, e.Detail)
}

// DomainNotVerified reports the specific rejection where the sending domain
// has not completed verification; the request itself was fine.
func (e *SendError) DomainNotVerified() bool {
	return e.Status == http.StatusForbidden && strings.Contains(e.Detail, "domain is not verified")
}

type Client struct {
	hc     *http.Client
	base   string
	apiKey config.Credential
	from   string
}

func New(apiKey config.Credential, from string) *Client {
	return &Client{
		hc:     &http.Client{Timeout: 10 * time.Second},
		base:   "https://api.resend.com",
		apiKey: apiKey,
		from:   from,
	}
}

// NewWithBase is for tests pointing at a fake provider.
func NewWithBase(base string, apiKey config.Credential, from string) *Client {
	c := New(apiKey, from)
	c.base = strings.TrimSuffix(base, "/")
	return c
}

func (c *Client) Configured() bool { return c.apiKey.IsSet() }

type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Send delivers msg and returns the provider's message id.
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	payload, err := json.Marshal(map[string]any{
		"from":    c.from,
		"to":      msg.To,
		"subject": msg.Subject,
		"html":    msg.HTML,
		"text":    msg.Text,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey.Value)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("mailer: %w", err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("mailer: %w", err)
	}
	if res.StatusCode >= 400 {
		detail := string(body)
		var eb struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &eb) == nil && eb.Message != "" {
			detail = eb.Message
		}
		return "", &SendError{Status: res.StatusCode, Detail: detail}
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("mailer: decode response: %w", err)
	}
	return out.ID, nil
}
