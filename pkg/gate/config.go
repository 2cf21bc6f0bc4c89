package gate

import (
	"fmt"
	"time"
)

// Config holds the gate's routing and cookie policy.
type Config struct {
	// Locales is the recognized locale set, matched against the first
	// path segment.
	Locales []string

	// DefaultLocale is used when the path carries no recognized locale.
	DefaultLocale string

	// LoginPath is the locale-relative login page path.
	LoginPath string

	// DashboardPath is the locale-relative dashboard path.
	DashboardPath string

	// PublicRoutes lists locale-relative paths exempt from the
	// authentication requirement. "/" matches the locale root only;
	// every other entry matches itself and its subtree.
	PublicRoutes []string

	// ExcludedPrefixes lists path prefixes the gate never touches
	// (static assets, API routes).
	ExcludedPrefixes []string

	// AuthCookieNames are the auth cookie names subject to the shape
	// sanity check and to clearing.
	AuthCookieNames []string

	// SessionTimeout bounds the session lookup. A lookup that does not
	// resolve in time fails open. Defaults to 5s.
	SessionTimeout time.Duration
}

// DefaultConfig returns the gate policy for the standard application
// layout.
func DefaultConfig() Config {
	return Config{
		Locales:       []string{"en", "ar"},
		DefaultLocale: "en",
		LoginPath:     "/auth/login",
		DashboardPath: "/dashboard",
		PublicRoutes: []string{
			"/",
			"/auth/login",
			"/auth/register",
			"/auth/forgot-password",
			"/auth/reset-password",
			"/auth/callback",
		},
		ExcludedPrefixes: []string{
			"/api/",
			"/_next/",
			"/static/",
			"/assets/",
		},
		AuthCookieNames: []string{
			"sb-auth-token.0",
			"sb-auth-token.1",
		},
		SessionTimeout: 5 * time.Second,
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if len(c.Locales) == 0 {
		return fmt.Errorf("gate: at least one locale is required")
	}
	if c.DefaultLocale == "" {
		return fmt.Errorf("gate: default locale is required")
	}

	found := false
	for _, l := range c.Locales {
		if l == c.DefaultLocale {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("gate: default locale %q is not in the locale set", c.DefaultLocale)
	}

	if c.LoginPath == "" {
		return fmt.Errorf("gate: login path is required")
	}
	if c.DashboardPath == "" {
		return fmt.Errorf("gate: dashboard path is required")
	}
	if len(c.AuthCookieNames) == 0 {
		return fmt.Errorf("gate: at least one auth cookie name is required")
	}
	if c.SessionTimeout < 0 {
		return fmt.Errorf("gate: session timeout must not be negative")
	}
	return nil
}

// applyDefaults fills in zero-value fields.
func (c *Config) applyDefaults() {
	if c.SessionTimeout == 0 {
		c.SessionTimeout = 5 * time.Second
	}
}
