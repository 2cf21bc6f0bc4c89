package authapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sahab-dev/edgeauth/pkg/api"
	"github.com/sahab-dev/edgeauth/pkg/provider"
)

type fakeLookup struct {
	session *provider.Session
	err     error
}

func (f *fakeLookup) SessionFromRequest(ctx context.Context, r *http.Request) (*provider.Session, error) {
	return f.session, f.err
}

type fakeTokens struct {
	token string
}

func (f *fakeTokens) TokenFromRequest(r *http.Request) (string, bool) {
	return f.token, f.token != ""
}

type fakeRevoker struct {
	revoked []string
	err     error
}

func (f *fakeRevoker) RevokeToken(ctx context.Context, accessToken string) error {
	f.revoked = append(f.revoked, accessToken)
	return f.err
}

func decodeCheckSession(t *testing.T, rec *httptest.ResponseRecorder) api.CheckSessionResponse {
	t.Helper()
	var out api.CheckSessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestCheckSession_WithSession(t *testing.T) {
	lookup := &fakeLookup{session: &provider.Session{
		AccessToken: "tok",
		User:        &provider.User{ID: "user-1", Email: "a@b.c"},
	}}
	h := NewHandler(lookup, nil)

	rec := httptest.NewRecorder()
	h.CheckSession(rec, httptest.NewRequest(http.MethodGet, "/api/auth/check-session", nil))

	out := decodeCheckSession(t, rec)
	if !out.Success || !out.HasSession {
		t.Fatalf("expected success with session, got %+v", out)
	}
	if out.User == nil || out.User.ID != "user-1" || out.User.Email != "a@b.c" {
		t.Errorf("unexpected user payload: %+v", out.User)
	}
}

func TestCheckSession_NoSession(t *testing.T) {
	h := NewHandler(&fakeLookup{}, nil)

	rec := httptest.NewRecorder()
	h.CheckSession(rec, httptest.NewRequest(http.MethodGet, "/api/auth/check-session", nil))

	out := decodeCheckSession(t, rec)
	if !out.Success || out.HasSession || out.User != nil {
		t.Fatalf("expected success without session, got %+v", out)
	}
}

func TestCheckSession_LookupFailureStaysHTTP200(t *testing.T) {
	h := NewHandler(&fakeLookup{err: errors.New("provider down")}, nil)

	rec := httptest.NewRecorder()
	h.CheckSession(rec, httptest.NewRequest(http.MethodGet, "/api/auth/check-session", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	out := decodeCheckSession(t, rec)
	if out.Success || out.HasSession {
		t.Fatalf("expected failure payload, got %+v", out)
	}
	if out.Error == "" {
		t.Error("expected error message in payload")
	}
}

func TestLogout_ClearsAllCookieVariants(t *testing.T) {
	names := []string{"sb-auth-token.0", "sb-auth-token.1", "sb-ref-auth-token.0", "sb-ref-auth-token.1"}
	h := NewHandler(&fakeLookup{}, names)

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	cookies := rec.Result().Cookies()
	if len(cookies) != len(names) {
		t.Fatalf("expected %d expired cookies, got %d", len(names), len(cookies))
	}
	for _, c := range cookies {
		if c.Value != "" || c.MaxAge != -1 {
			t.Errorf("cookie %s not expired: value=%q maxAge=%d", c.Name, c.Value, c.MaxAge)
		}
	}

	var out api.LogoutResponse
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !out.Success {
		t.Error("expected success")
	}
}

func TestLogout_RevokesTokenBestEffort(t *testing.T) {
	revoker := &fakeRevoker{err: errors.New("revocation refused")}
	h := NewHandler(&fakeLookup{}, []string{"sb-auth-token.0"},
		WithRevoker(&fakeTokens{token: "tok-123"}, revoker))

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	if len(revoker.revoked) != 1 || revoker.revoked[0] != "tok-123" {
		t.Fatalf("expected revocation of tok-123, got %v", revoker.revoked)
	}

	// Cookies still cleared and logout still succeeds despite the
	// revocation failure.
	if len(rec.Result().Cookies()) != 1 {
		t.Error("expected cookie cleared")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRegister_RoutesMethods(t *testing.T) {
	mux := http.NewServeMux()
	NewHandler(&fakeLookup{}, nil).Register(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/check-session", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST check-session: expected 405, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/logout", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET logout: expected 405, got %d", rec.Code)
	}
}
