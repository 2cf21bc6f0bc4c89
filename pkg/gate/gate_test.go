package gate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sahab-dev/edgeauth/pkg/provider"
)

// fakeLookup is a scripted provider.SessionLookup.
type fakeLookup struct {
	session *provider.Session
	err     error
	delay   time.Duration
}

func (f *fakeLookup) SessionFromRequest(ctx context.Context, r *http.Request) (*provider.Session, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.session, f.err
}

func newTestGate(t *testing.T, lookup provider.SessionLookup) *Gate {
	t.Helper()

	g, err := New(DefaultConfig(), lookup)
	if err != nil {
		t.Fatalf("failed to create gate: %v", err)
	}
	return g
}

func request(path string) *http.Request {
	return httptest.NewRequest("GET", path, nil)
}

func sessionFor(userID string) *provider.Session {
	return &provider.Session{
		AccessToken: "header.payload.signature",
		User:        &provider.User{ID: userID},
	}
}

func TestEvaluate_ExcludedPrefixes(t *testing.T) {
	// The lookup must never run for excluded paths.
	g := newTestGate(t, &fakeLookup{err: errors.New("must not be called")})

	paths := []string{
		"/api/auth/check-session",
		"/_next/static/chunk.js",
		"/static/app.css",
		"/assets/logo.png",
		"/favicon.ico",
		"/robots.txt",
		"/en/images/photo.jpeg",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			r := request(path)
			// Cookie contents are irrelevant for excluded paths.
			r.AddCookie(&http.Cookie{Name: "sb-auth-token.0", Value: "bad"})

			d := g.Evaluate(context.Background(), r)
			if d.Redirect != "" || len(d.ClearCookies) != 0 {
				t.Errorf("Evaluate(%s) = %+v, want pass-through", path, d)
			}
			if d.Reason != ReasonExcluded {
				t.Errorf("Reason = %q, want %q", d.Reason, ReasonExcluded)
			}
		})
	}
}

func TestEvaluate_LoginLoopBreaker(t *testing.T) {
	g := newTestGate(t, &fakeLookup{err: errors.New("must not be called")})

	r := request("/en/auth/login")
	r.Header.Set("Referer", "https://app.example.com/en/auth/login")

	d := g.Evaluate(context.Background(), r)
	if d.Reason != ReasonLoginLoop {
		t.Errorf("Reason = %q, want %q", d.Reason, ReasonLoginLoop)
	}
	if d.Redirect != "" {
		t.Errorf("Redirect = %q, want pass-through", d.Redirect)
	}
}

func TestEvaluate_FailOpenOnLookupError(t *testing.T) {
	g := newTestGate(t, &fakeLookup{err: errors.New("provider unreachable")})

	d := g.Evaluate(context.Background(), request("/en/settings"))
	if d.Reason != ReasonFailOpenError {
		t.Errorf("Reason = %q, want %q", d.Reason, ReasonFailOpenError)
	}
	if d.Redirect != "" || len(d.ClearCookies) != 0 {
		t.Errorf("fail-open must pass through, got %+v", d)
	}
}

func TestEvaluate_FailOpenOnTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SessionTimeout = 10 * time.Millisecond

	g, err := New(cfg, &fakeLookup{delay: 200 * time.Millisecond, session: sessionFor("user-1")})
	if err != nil {
		t.Fatalf("failed to create gate: %v", err)
	}

	d := g.Evaluate(context.Background(), request("/en/settings"))
	if d.Reason != ReasonFailOpenTimeout {
		t.Errorf("Reason = %q, want %q", d.Reason, ReasonFailOpenTimeout)
	}
	if d.Redirect != "" {
		t.Errorf("timeout must pass through, got %+v", d)
	}
}

func TestEvaluate_MissingLocaleRedirect(t *testing.T) {
	g := newTestGate(t, &fakeLookup{})

	d := g.Evaluate(context.Background(), request("/dashboard"))
	if d.Reason != ReasonRedirectLocale {
		t.Fatalf("Reason = %q, want %q", d.Reason, ReasonRedirectLocale)
	}
	if d.Redirect != "/en/dashboard" {
		t.Errorf("Redirect = %q, want /en/dashboard", d.Redirect)
	}
}

// A locale redirect target must not be re-prefixed when it comes back
// through the gate.
func TestEvaluate_NoDoubleLocalePrefix(t *testing.T) {
	g := newTestGate(t, &fakeLookup{session: sessionFor("user-1")})

	d := g.Evaluate(context.Background(), request("/en/dashboard"))
	if d.Reason != ReasonPass {
		t.Errorf("Reason = %q, want %q (decision %+v)", d.Reason, ReasonPass, d)
	}
}

func TestEvaluate_UnauthenticatedProtectedPath(t *testing.T) {
	g := newTestGate(t, &fakeLookup{})

	tests := []struct {
		path string
		want string
	}{
		{"/en/settings", "/en/auth/login?redirect=%2Fen%2Fsettings"},
		{"/ar/dashboard", "/ar/auth/login?redirect=%2Far%2Fdashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			d := g.Evaluate(context.Background(), request(tt.path))
			if d.Reason != ReasonRedirectLogin {
				t.Fatalf("Reason = %q, want %q", d.Reason, ReasonRedirectLogin)
			}
			if d.Redirect != tt.want {
				t.Errorf("Redirect = %q, want %q", d.Redirect, tt.want)
			}
		})
	}
}

func TestEvaluate_PublicRoutesPass(t *testing.T) {
	g := newTestGate(t, &fakeLookup{})

	paths := []string{
		"/en/auth/register",
		"/ar/auth/forgot-password",
		"/en", // locale root
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			d := g.Evaluate(context.Background(), request(path))
			if d.Redirect != "" {
				t.Errorf("Evaluate(%s).Redirect = %q, want pass", path, d.Redirect)
			}
		})
	}
}

func TestEvaluate_AuthenticatedLoginPage(t *testing.T) {
	g := newTestGate(t, &fakeLookup{session: sessionFor("user-1")})

	for _, tt := range []struct{ path, want string }{
		{"/en/auth/login", "/en/dashboard"},
		{"/ar/auth/login", "/ar/dashboard"},
	} {
		d := g.Evaluate(context.Background(), request(tt.path))
		if d.Reason != ReasonRedirectDashboard {
			t.Errorf("Evaluate(%s).Reason = %q, want %q", tt.path, d.Reason, ReasonRedirectDashboard)
		}
		if d.Redirect != tt.want {
			t.Errorf("Evaluate(%s).Redirect = %q, want %q", tt.path, d.Redirect, tt.want)
		}
	}
}

func TestEvaluate_MalformedCookieNoSession(t *testing.T) {
	g := newTestGate(t, &fakeLookup{})

	r := request("/en/auth/register")
	r.AddCookie(&http.Cookie{Name: "sb-auth-token.0", Value: "short"})

	d := g.Evaluate(context.Background(), r)
	if d.Reason != ReasonClearCookies {
		t.Fatalf("Reason = %q, want %q", d.Reason, ReasonClearCookies)
	}
	if len(d.ClearCookies) != 2 {
		t.Errorf("ClearCookies = %v, want both auth cookies", d.ClearCookies)
	}
	// Public path: cookies cleared but no redirect.
	if d.Redirect != "" {
		t.Errorf("Redirect = %q, want none on public path", d.Redirect)
	}
}

func TestEvaluate_TruncatedCookieOnLoginPage(t *testing.T) {
	g := newTestGate(t, &fakeLookup{})

	r := request("/en/auth/login")
	r.AddCookie(&http.Cookie{Name: "sb-auth-token.0", Value: "trunc..."})

	d := g.Evaluate(context.Background(), r)
	if d.Reason != ReasonClearCookies {
		t.Fatalf("Reason = %q, want %q", d.Reason, ReasonClearCookies)
	}
	if d.Redirect != "" {
		t.Errorf("login page is public, want clear without redirect, got %q", d.Redirect)
	}
}

func TestEvaluate_MalformedCookieWithSession_NoMutation(t *testing.T) {
	g := newTestGate(t, &fakeLookup{session: sessionFor("user-1")})

	r := request("/en/dashboard")
	r.AddCookie(&http.Cookie{Name: "sb-auth-token.0", Value: "short"})

	d := g.Evaluate(context.Background(), r)
	if len(d.ClearCookies) != 0 {
		t.Errorf("ClearCookies = %v, want none when a session exists", d.ClearCookies)
	}
	if d.Reason != ReasonPass {
		t.Errorf("Reason = %q, want %q", d.Reason, ReasonPass)
	}
}

func TestEvaluate_RootDispatch(t *testing.T) {
	t.Run("with session", func(t *testing.T) {
		g := newTestGate(t, &fakeLookup{session: sessionFor("user-1")})
		d := g.Evaluate(context.Background(), request("/"))
		if d.Redirect != "/en/dashboard" {
			t.Errorf("Redirect = %q, want /en/dashboard", d.Redirect)
		}
	})

	t.Run("without session", func(t *testing.T) {
		g := newTestGate(t, &fakeLookup{})
		d := g.Evaluate(context.Background(), request("/"))
		if d.Redirect != "/en/auth/login" {
			t.Errorf("Redirect = %q, want /en/auth/login", d.Redirect)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no locales", func(c *Config) { c.Locales = nil }},
		{"default not in set", func(c *Config) { c.DefaultLocale = "fr" }},
		{"no login path", func(c *Config) { c.LoginPath = "" }},
		{"no dashboard path", func(c *Config) { c.DashboardPath = "" }},
		{"no cookie names", func(c *Config) { c.AuthCookieNames = nil }},
		{"negative timeout", func(c *Config) { c.SessionTimeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}
