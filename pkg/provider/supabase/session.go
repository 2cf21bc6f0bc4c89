package supabase

import (
	"context"
	"errors"
	"net/http"

	"github.com/sahab-dev/edgeauth/pkg/api"
	"github.com/sahab-dev/edgeauth/pkg/provider"
)

// SessionFromRequest resolves the session bound to an inbound request:
// the chunked auth cookies are reassembled and the resulting token is
// validated against the provider.
//
// Returns (nil, nil) when the request carries no auth cookies or the
// provider rejects the token (not authenticated), and a non-nil error
// only when the lookup itself failed — callers apply their fail-open
// policy to that case.
func (c *Client) SessionFromRequest(ctx context.Context, r *http.Request) (*provider.Session, error) {
	token, ok := c.TokenFromRequest(r)
	if !ok {
		return nil, nil
	}

	user, err := c.GetUser(ctx, token)
	if err != nil {
		// A rejected token is an unauthenticated request, not a
		// lookup failure.
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Type == api.ErrorTypeUnauthorized {
			return nil, nil
		}
		return nil, err
	}

	return &provider.Session{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil
}
