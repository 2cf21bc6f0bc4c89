package authapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sahab-dev/edgeauth/pkg/api"
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient configures the Client to use a custom http.Client.
// Callers that need the auth cookies forwarded should supply a client
// with a cookie jar holding them.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Client calls the local auth endpoints. It is the AuthAPI collaborator
// the auth state store uses for its check-session fallback and for
// sign-out.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the application origin serving the
// local auth endpoints. The base URL is normalized by trimming any
// trailing slash.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckSession calls GET /api/auth/check-session.
func (c *Client) CheckSession(ctx context.Context) (*api.CheckSessionResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/check-session", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("authapi: unexpected status %d", resp.StatusCode)
	}

	var out api.CheckSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout calls POST /api/auth/logout. A response that is not a
// successful logout is returned as an error.
func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("authapi: unexpected status %d", resp.StatusCode)
	}

	var out api.LogoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("authapi: logout failed: %s", out.Error)
	}
	return nil
}
