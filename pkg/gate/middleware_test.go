package gate

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddleware_PassThrough(t *testing.T) {
	g := newTestGate(t, &fakeLookup{session: sessionFor("user-1")})

	called := false
	handler := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, request("/en/dashboard"))

	if !called {
		t.Error("expected handler to be reached")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestMiddleware_RedirectShortCircuits(t *testing.T) {
	g := newTestGate(t, &fakeLookup{})

	handler := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run on redirect")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, request("/en/settings"))

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/en/auth/login?redirect=%2Fen%2Fsettings" {
		t.Errorf("Location = %q", got)
	}
}

func TestMiddleware_ClearsCookiesOnResponse(t *testing.T) {
	g := newTestGate(t, &fakeLookup{})

	handler := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The incoming request must keep its cookies; only the
		// response carries the clears.
		if _, err := r.Cookie("sb-auth-token.0"); err != nil {
			t.Error("request cookie mutated")
		}
		w.WriteHeader(http.StatusOK)
	}))

	r := request("/en/auth/register")
	r.AddCookie(&http.Cookie{Name: "sb-auth-token.0", Value: "short"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("got %d Set-Cookie headers, want 2", len(cookies))
	}
	for _, c := range cookies {
		if c.Value != "" {
			t.Errorf("cookie %s value = %q, want empty", c.Name, c.Value)
		}
		if c.MaxAge != -1 {
			t.Errorf("cookie %s MaxAge = %d, want -1", c.Name, c.MaxAge)
		}
	}
}

func TestMiddleware_ExcludedPathUntouched(t *testing.T) {
	g := newTestGate(t, &fakeLookup{})

	handler := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, request("/api/health"))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("excluded path must not receive cookie mutations")
	}
}
