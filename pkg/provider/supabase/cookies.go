package supabase

import (
	"fmt"
	"net/http"
)

// Auth cookie names. The provider splits the stored session across two
// chunk cookies; deployments configured with a project reference use
// scoped names instead.
const (
	AuthCookieChunk0 = "sb-auth-token.0"
	AuthCookieChunk1 = "sb-auth-token.1"
)

// AuthCookieNames returns the auth cookie names recognized for the
// given project reference. The unscoped names are always included so
// stale cookies from either naming scheme can be cleared.
func AuthCookieNames(projectRef string) []string {
	names := []string{AuthCookieChunk0, AuthCookieChunk1}
	if projectRef != "" {
		names = append(names,
			fmt.Sprintf("sb-%s-auth-token.0", projectRef),
			fmt.Sprintf("sb-%s-auth-token.1", projectRef),
		)
	}
	return names
}

// AuthCookieNames returns the cookie names this client recognizes.
func (c *Client) AuthCookieNames() []string {
	return AuthCookieNames(c.projectRef)
}

// TokenFromRequest reassembles the access token from the request's
// chunked auth cookies. The scoped names take precedence when a project
// reference is configured. The value is treated as an opaque blob; no
// decoding or verification happens here.
func (c *Client) TokenFromRequest(r *http.Request) (string, bool) {
	if c.projectRef != "" {
		prefix := fmt.Sprintf("sb-%s-auth-token", c.projectRef)
		if token, ok := readChunks(r, prefix); ok {
			return token, true
		}
	}
	return readChunks(r, "sb-auth-token")
}

// readChunks concatenates <prefix>.0 and <prefix>.1. The first chunk is
// required; the second is optional (short tokens fit in one cookie).
func readChunks(r *http.Request, prefix string) (string, bool) {
	c0, err := r.Cookie(prefix + ".0")
	if err != nil || c0.Value == "" {
		return "", false
	}

	token := c0.Value
	if c1, err := r.Cookie(prefix + ".1"); err == nil {
		token += c1.Value
	}
	return token, true
}
