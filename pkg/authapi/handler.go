package authapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sahab-dev/edgeauth/pkg/api"
	"github.com/sahab-dev/edgeauth/pkg/observability"
	"github.com/sahab-dev/edgeauth/pkg/provider"
)

// TokenSource extracts the auth token carried by an inbound request's
// cookies without validating it.
type TokenSource interface {
	TokenFromRequest(r *http.Request) (string, bool)
}

// TokenRevoker revokes an access token at the identity provider.
type TokenRevoker interface {
	RevokeToken(ctx context.Context, accessToken string) error
}

// Handler serves the local auth endpoints.
type Handler struct {
	lookup      provider.SessionLookup
	tokens      TokenSource
	revoker     TokenRevoker
	cookieNames []string
	logger      *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger used for degraded-path reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithRevoker enables best-effort provider-side revocation on logout.
func WithRevoker(tokens TokenSource, revoker TokenRevoker) Option {
	return func(h *Handler) {
		h.tokens = tokens
		h.revoker = revoker
	}
}

// NewHandler creates a Handler. cookieNames lists every auth cookie
// variant the logout endpoint clears.
func NewHandler(lookup provider.SessionLookup, cookieNames []string, opts ...Option) *Handler {
	h := &Handler{
		lookup:      lookup,
		cookieNames: cookieNames,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the endpoints on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/auth/check-session", h.CheckSession)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
}

// CheckSession reports whether the request's cookies carry a valid
// session. Failures are reported in the payload, never as an HTTP
// error: the endpoint is a fallback and must stay fail-soft.
func (h *Handler) CheckSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.lookup.SessionFromRequest(r.Context(), r)
	if err != nil {
		observability.AuthOperationsTotal.WithLabelValues("check-session", "error").Inc()
		h.logger.Warn("check-session lookup failed", "error", err)
		writeJSON(w, api.CheckSessionResponse{Success: false, Error: err.Error()})
		return
	}

	if session == nil {
		observability.AuthOperationsTotal.WithLabelValues("check-session", "none").Inc()
		writeJSON(w, api.CheckSessionResponse{Success: true, HasSession: false})
		return
	}

	observability.AuthOperationsTotal.WithLabelValues("check-session", "ok").Inc()
	resp := api.CheckSessionResponse{Success: true, HasSession: true}
	if session.User != nil {
		resp.User = &api.UserInfo{ID: session.User.ID, Email: session.User.Email}
	}
	writeJSON(w, resp)
}

// Logout clears every auth cookie variant on the response and revokes
// the request's token at the provider best-effort. Cookie clearing is
// authoritative here; revocation failures do not fail the logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.revoker != nil && h.tokens != nil {
		if token, ok := h.tokens.TokenFromRequest(r); ok {
			if err := h.revoker.RevokeToken(r.Context(), token); err != nil {
				h.logger.Warn("provider token revocation failed", "error", err)
			}
		}
	}

	for _, name := range h.cookieNames {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
		})
	}

	observability.AuthOperationsTotal.WithLabelValues("logout", "ok").Inc()
	writeJSON(w, api.LogoutResponse{Success: true})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
