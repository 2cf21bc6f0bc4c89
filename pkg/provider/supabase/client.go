package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sahab-dev/edgeauth/pkg/api"
	"github.com/sahab-dev/edgeauth/pkg/debug"
	"github.com/sahab-dev/edgeauth/pkg/provider"
)

// Client performs HTTP requests against a Supabase project's auth and
// table endpoints. It implements provider.Client, provider.RecordSource,
// and provider.SessionLookup.
type Client struct {
	httpClient *http.Client
	baseURL    string
	anonKey    string
	projectRef string

	mu      sync.Mutex
	current *provider.Session
}

// New creates a new Client for the given project.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("supabase: base URL is required")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("supabase: anon key is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		anonKey:    cfg.AnonKey,
		projectRef: cfg.ProjectRef,
	}, nil
}

// Close releases client resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// GetSession returns a copy of the held session, or ErrNoSession.
func (c *Client) GetSession(ctx context.Context) (*provider.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil, provider.ErrNoSession
	}
	s := *c.current
	return &s, nil
}

// SetSession adopts an externally obtained session.
func (c *Client) SetSession(s *provider.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = s
}

// ClearSession drops the held session without contacting the provider.
func (c *Client) ClearSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
}

// adoptSession stores a session returned by an auth endpoint.
func (c *Client) adoptSession(s *provider.Session) {
	if s == nil || s.AccessToken == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = s
}

// accessToken returns the held access token, or "".
func (c *Client) accessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return ""
	}
	return c.current.AccessToken
}

// doJSON performs an HTTP request against the project, decoding a 2xx
// JSON response into out (when non-nil) and translating non-2xx
// responses into APIErrors.
//
// bearer overrides the Authorization token; when empty, the held
// session's access token is used, and when that is also absent the anon
// key is sent (the provider requires a bearer on every call).
func (c *Client) doJSON(ctx context.Context, method, path string, body any, bearer string, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return api.NewServerError(fmt.Sprintf("failed to marshal request: %s", err.Error()))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return api.NewServerError(fmt.Sprintf("failed to create HTTP request: %s", err.Error()))
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("apikey", c.anonKey)

	if bearer == "" {
		bearer = c.accessToken()
	}
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	debug.Log("provider", "request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return mapNetworkError(err)
	}
	defer resp.Body.Close()

	debug.Log("provider", "response", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mapHTTPError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return api.NewServerError(fmt.Sprintf("failed to parse provider response: %s", err.Error()))
		}
	}

	return nil
}
