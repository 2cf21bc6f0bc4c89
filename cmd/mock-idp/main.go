// Command mock-idp runs a deterministic identity provider for local
// development and gate conformance testing. It speaks the subset of the
// Supabase auth and table APIs the edgeauth server uses, mints real
// HS256 tokens, and seeds one known account.
//
// Configuration:
//
//	MOCK_PORT        - Listen port (default: 9091)
//	MOCK_SIGNING_KEY - HS256 signing key (default: "mock-idp-signing-key")
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenLifetime = time.Hour

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9091"
	}
	signingKey := os.Getenv("MOCK_SIGNING_KEY")
	if signingKey == "" {
		signingKey = "mock-idp-signing-key"
	}

	idp := newIDP([]byte(signingKey))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/token", idp.handleToken)
	mux.HandleFunc("POST /auth/v1/signup", idp.handleSignup)
	mux.HandleFunc("GET /auth/v1/user", idp.handleGetUser)
	mux.HandleFunc("PUT /auth/v1/user", idp.handleUpdateUser)
	mux.HandleFunc("POST /auth/v1/recover", idp.handleRecover)
	mux.HandleFunc("POST /auth/v1/logout", idp.handleLogout)
	mux.HandleFunc("GET /rest/v1/profiles", idp.handleProfiles)
	mux.HandleFunc("GET /rest/v1/user_roles", idp.handleUserRoles)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock idp starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock idp failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock idp shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

// --- State ---

type account struct {
	ID       string
	Email    string
	Password string
	Metadata map[string]any
}

type idp struct {
	signingKey []byte

	mu       sync.Mutex
	accounts map[string]*account // keyed by email
	refresh  map[string]string   // refresh token -> user ID
	revoked  map[string]bool     // access token -> revoked
}

func newIDP(signingKey []byte) *idp {
	p := &idp{
		signingKey: signingKey,
		accounts:   make(map[string]*account),
		refresh:    make(map[string]string),
		revoked:    make(map[string]bool),
	}

	// Seeded account for scripted testing.
	p.accounts["demo@example.com"] = &account{
		ID:       "10000000-0000-0000-0000-000000000001",
		Email:    "demo@example.com",
		Password: "demo-password",
		Metadata: map[string]any{"full_name": "Demo User"},
	}
	return p
}

// --- Response types ---

type sessionResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	ExpiresAt    int64        `json:"expires_at"`
	User         userResponse `json:"user"`
}

type userResponse struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata,omitempty"`
}

// --- Auth handlers ---

func (p *idp) handleToken(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("grant_type") {
	case "password":
		p.handlePasswordGrant(w, r)
	case "refresh_token":
		p.handleRefreshGrant(w, r)
	default:
		writeAuthError(w, http.StatusBadRequest, "unsupported_grant_type", "grant type not supported")
	}
}

func (p *idp) handlePasswordGrant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthError(w, http.StatusBadRequest, "bad_json", "invalid request body")
		return
	}

	p.mu.Lock()
	acct, ok := p.accounts[strings.ToLower(req.Email)]
	p.mu.Unlock()

	if !ok || acct.Password != req.Password {
		writeAuthError(w, http.StatusBadRequest, "invalid_credentials", "Invalid login credentials")
		return
	}

	writeJSON(w, http.StatusOK, p.mintSession(acct))
}

func (p *idp) handleRefreshGrant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthError(w, http.StatusBadRequest, "bad_json", "invalid request body")
		return
	}

	p.mu.Lock()
	userID, ok := p.refresh[req.RefreshToken]
	if ok {
		// Refresh tokens rotate; the old one dies here.
		delete(p.refresh, req.RefreshToken)
	}
	acct := p.accountByID(userID)
	p.mu.Unlock()

	if !ok || acct == nil {
		writeAuthError(w, http.StatusBadRequest, "refresh_token_not_found", "Invalid Refresh Token")
		return
	}

	writeJSON(w, http.StatusOK, p.mintSession(acct))
}

func (p *idp) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string         `json:"email"`
		Password string         `json:"password"`
		Data     map[string]any `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthError(w, http.StatusBadRequest, "bad_json", "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeAuthError(w, http.StatusUnprocessableEntity, "validation_failed", "email and password are required")
		return
	}

	email := strings.ToLower(req.Email)

	p.mu.Lock()
	if _, exists := p.accounts[email]; exists {
		p.mu.Unlock()
		writeAuthError(w, http.StatusUnprocessableEntity, "user_already_exists", "User already registered")
		return
	}
	acct := &account{
		ID:       uuid.NewString(),
		Email:    email,
		Password: req.Password,
		Metadata: req.Data,
	}
	p.accounts[email] = acct
	p.mu.Unlock()

	writeJSON(w, http.StatusOK, p.mintSession(acct))
}

func (p *idp) handleGetUser(w http.ResponseWriter, r *http.Request) {
	acct := p.authenticate(r)
	if acct == nil {
		writeAuthError(w, http.StatusUnauthorized, "bad_jwt", "invalid JWT")
		return
	}
	writeJSON(w, http.StatusOK, userResponse{ID: acct.ID, Email: acct.Email, Metadata: acct.Metadata})
}

func (p *idp) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	acct := p.authenticate(r)
	if acct == nil {
		writeAuthError(w, http.StatusUnauthorized, "bad_jwt", "invalid JWT")
		return
	}

	var req struct {
		Email    string         `json:"email"`
		Password string         `json:"password"`
		Data     map[string]any `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthError(w, http.StatusBadRequest, "bad_json", "invalid request body")
		return
	}

	p.mu.Lock()
	if req.Password != "" {
		acct.Password = req.Password
	}
	if len(req.Data) > 0 {
		if acct.Metadata == nil {
			acct.Metadata = make(map[string]any)
		}
		for k, v := range req.Data {
			acct.Metadata[k] = v
		}
	}
	p.mu.Unlock()

	writeJSON(w, http.StatusOK, userResponse{ID: acct.ID, Email: acct.Email, Metadata: acct.Metadata})
}

func (p *idp) handleRecover(w http.ResponseWriter, r *http.Request) {
	// Recovery mail is a no-op here; the endpoint always accepts.
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (p *idp) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		p.mu.Lock()
		p.revoked[token] = true
		p.mu.Unlock()
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Table handlers ---

func (p *idp) handleProfiles(w http.ResponseWriter, r *http.Request) {
	id := eqFilter(r, "id")
	acct := p.accountByIDLocked(id)
	if acct == nil {
		p.writeTableResult(w, r, nil)
		return
	}

	fullName, _ := acct.Metadata["full_name"].(string)
	row := map[string]any{
		"id":         acct.ID,
		"full_name":  fullName,
		"avatar_url": "",
		"locale":     "en",
	}
	p.writeTableResult(w, r, []map[string]any{row})
}

func (p *idp) handleUserRoles(w http.ResponseWriter, r *http.Request) {
	id := eqFilter(r, "user_id")
	if p.accountByIDLocked(id) == nil {
		p.writeTableResult(w, r, []map[string]any{})
		return
	}

	rows := []map[string]any{
		{"role": "member", "permissions": []string{"dashboard.view"}},
	}
	p.writeTableResult(w, r, rows)
}

// writeTableResult honors the PostgREST single-object accept header:
// exactly one row is unwrapped, anything else is a 406.
func (p *idp) writeTableResult(w http.ResponseWriter, r *http.Request, rows []map[string]any) {
	single := strings.Contains(r.Header.Get("Accept"), "vnd.pgrst.object")
	if single {
		if len(rows) != 1 {
			writeJSON(w, http.StatusNotAcceptable, map[string]any{
				"code":    "PGRST116",
				"message": fmt.Sprintf("JSON object requested, multiple (or no) rows returned: %d", len(rows)),
			})
			return
		}
		writeJSON(w, http.StatusOK, rows[0])
		return
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// --- Token helpers ---

func (p *idp) mintSession(acct *account) sessionResponse {
	now := time.Now()
	expiresAt := now.Add(tokenLifetime)

	claims := jwt.MapClaims{
		"sub":   acct.ID,
		"email": acct.Email,
		"aud":   "authenticated",
		"role":  "authenticated",
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.signingKey)
	if err != nil {
		// HS256 signing with an in-memory key cannot fail at runtime.
		panic(err)
	}

	refreshToken := uuid.NewString()
	p.mu.Lock()
	p.refresh[refreshToken] = acct.ID
	p.mu.Unlock()

	return sessionResponse{
		AccessToken:  token,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(tokenLifetime.Seconds()),
		ExpiresAt:    expiresAt.Unix(),
		User:         userResponse{ID: acct.ID, Email: acct.Email, Metadata: acct.Metadata},
	}
}

// authenticate resolves the request's bearer token to an account, or
// nil when the token is missing, revoked, or fails verification.
func (p *idp) authenticate(r *http.Request) *account {
	tokenStr := bearerToken(r)
	if tokenStr == "" {
		return nil
	}

	p.mu.Lock()
	revoked := p.revoked[tokenStr]
	p.mu.Unlock()
	if revoked {
		return nil
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.signingKey, nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return nil
	}
	return p.accountByIDLocked(sub)
}

func (p *idp) accountByID(id string) *account {
	for _, acct := range p.accounts {
		if acct.ID == id {
			return acct
		}
	}
	return nil
}

func (p *idp) accountByIDLocked(id string) *account {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.accountByID(id)
}

// --- Helpers ---

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return after
	}
	return ""
}

// eqFilter extracts the value of a PostgREST eq filter, e.g.
// ?id=eq.1234 yields "1234".
func eqFilter(r *http.Request, column string) string {
	v := r.URL.Query().Get(column)
	if after, ok := strings.CutPrefix(v, "eq."); ok {
		return after
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeAuthError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]any{
		"code":       status,
		"error_code": code,
		"msg":        msg,
	})
}
