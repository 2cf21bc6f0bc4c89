package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sahab-dev/edgeauth/pkg/provider"
)

// SignInWithPassword authenticates with email and password against the
// token endpoint. On success the returned session becomes the client's
// held session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*provider.Session, error) {
	body := map[string]string{"email": email, "password": password}

	var session provider.Session
	if err := c.doJSON(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", body, c.anonKey, &session); err != nil {
		return nil, err
	}

	c.adoptSession(&session)
	return &session, nil
}

// SignUp registers a new user. When the project requires email
// confirmation the provider returns no tokens; the session is then nil
// and the caller should treat the account as pending.
func (c *Client) SignUp(ctx context.Context, email, password string, data map[string]any) (*provider.Session, error) {
	body := map[string]any{"email": email, "password": password}
	if len(data) > 0 {
		body["data"] = data
	}

	var session provider.Session
	if err := c.doJSON(ctx, http.MethodPost, "/auth/v1/signup", body, c.anonKey, &session); err != nil {
		return nil, err
	}

	if session.AccessToken == "" {
		return nil, nil
	}

	c.adoptSession(&session)
	return &session, nil
}

// RefreshSession exchanges the held refresh token for a new session.
func (c *Client) RefreshSession(ctx context.Context) (*provider.Session, error) {
	c.mu.Lock()
	var refreshToken string
	if c.current != nil {
		refreshToken = c.current.RefreshToken
	}
	c.mu.Unlock()

	if refreshToken == "" {
		return nil, provider.ErrNoSession
	}

	body := map[string]string{"refresh_token": refreshToken}

	var session provider.Session
	if err := c.doJSON(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token", body, c.anonKey, &session); err != nil {
		return nil, err
	}

	c.adoptSession(&session)
	return &session, nil
}

// GetUser validates an access token against the provider and returns
// the identity it belongs to. An unauthorized response is surfaced as
// an error; callers deciding "no session" versus "lookup failed" should
// use SessionFromRequest instead.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*provider.User, error) {
	if accessToken == "" {
		return nil, provider.ErrNoSession
	}

	var user provider.User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/v1/user", nil, accessToken, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser mutates the authenticated user's attributes. The held
// session's user record is updated on success.
func (c *Client) UpdateUser(ctx context.Context, attrs provider.UserAttributes) (*provider.User, error) {
	token := c.accessToken()
	if token == "" {
		return nil, provider.ErrNoSession
	}

	var user provider.User
	if err := c.doJSON(ctx, http.MethodPut, "/auth/v1/user", attrs, token, &user); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.current != nil {
		c.current.User = &user
	}
	c.mu.Unlock()

	return &user, nil
}

// ResetPasswordForEmail asks the provider to send a recovery email.
func (c *Client) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	path := "/auth/v1/recover"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}

	body := map[string]string{"email": email}
	return c.doJSON(ctx, http.MethodPost, path, body, c.anonKey, nil)
}

// SignInWithOAuth returns the authorization URL for the named OAuth
// identity provider. The browser is expected to navigate there; no
// network call is made.
func (c *Client) SignInWithOAuth(ctx context.Context, providerName, redirectTo string) (string, error) {
	if providerName == "" {
		return "", errors.New("supabase: oauth provider name is required")
	}

	q := url.Values{}
	q.Set("provider", providerName)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}

	return fmt.Sprintf("%s/auth/v1/authorize?%s", c.baseURL, q.Encode()), nil
}

// RevokeToken revokes the given access token at the provider. Used by
// the server-side logout endpoint, which works with the request's
// cookies rather than a held session.
func (c *Client) RevokeToken(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	return c.doJSON(ctx, http.MethodPost, "/auth/v1/logout", nil, accessToken, nil)
}

// SignOut revokes the held session at the provider and clears it
// locally. Revocation failures are returned but the local session is
// cleared regardless.
func (c *Client) SignOut(ctx context.Context) error {
	token := c.accessToken()
	if token == "" {
		return nil
	}

	err := c.doJSON(ctx, http.MethodPost, "/auth/v1/logout", nil, token, nil)
	c.ClearSession()
	return err
}
