package library

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// Rescanner triggers a media library rescan on the remote server.
type Rescanner interface {
	Rescan(ctx context.Context) error
}

// Client talks to the Nomad media server: a password login that yields a
// session cookie, then the rescan trigger.
type Client struct {
	baseURL    string
	password   string
	httpClient *http.Client
}

var _ Rescanner = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. The replacement should
// carry a cookie jar; the session survives only through its cookies.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New constructs a library client.
func New(baseURL, password string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("library url required")
	}
	if password == "" {
		return nil, errors.New("library password required")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	client := &Client{
		baseURL:    baseURL,
		password:   password,
		httpClient: &http.Client{Timeout: 30 * time.Second, Jar: jar},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Rescan logs in and fires the rescan trigger. The server answers the
// trigger immediately; the scan itself runs remotely.
func (c *Client) Rescan(ctx context.Context) error {
	if err := c.login(ctx); err != nil {
		return err
	}
	resp, err := c.post(ctx, "/api/media/scan", nil)
	if err != nil {
		return fmt.Errorf("trigger rescan: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("rescan trigger returned %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) login(ctx context.Context) error {
	body := map[string]string{"password": c.password}
	resp, err := c.post(ctx, "/api/auth/login", body)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login returned %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}
