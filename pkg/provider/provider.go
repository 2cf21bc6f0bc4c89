package provider

import (
	"context"
	"errors"
	"net/http"
)

// Sentinel errors.
var (
	// ErrNoSession indicates that no session is currently held.
	ErrNoSession = errors.New("no session")

	// ErrNotFound indicates that a requested record does not exist.
	ErrNotFound = errors.New("record not found")
)

// SessionLookup resolves the session bound to an inbound HTTP request,
// typically by reassembling the provider's auth cookies and validating
// them against the provider.
//
// A (nil, nil) return means the request carries no authenticated
// session; a non-nil error means the lookup itself failed and callers
// should apply their fail-open policy.
type SessionLookup interface {
	SessionFromRequest(ctx context.Context, r *http.Request) (*Session, error)
}

// Client is the provider SDK boundary consumed by the auth state store.
// Every method is a black-box remote call (or a read of client-held
// session state) translated into (value, error).
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Client interface {
	// GetSession returns the session currently held by the client, or
	// ErrNoSession. No network call is made.
	GetSession(ctx context.Context) (*Session, error)

	// GetUser validates an access token against the provider and
	// returns the identity it belongs to.
	GetUser(ctx context.Context, accessToken string) (*User, error)

	// RefreshSession exchanges the held refresh token for a new session.
	RefreshSession(ctx context.Context) (*Session, error)

	// SignInWithPassword authenticates with email and password.
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)

	// SignUp registers a new user. Depending on provider settings the
	// returned session may be nil (email confirmation pending).
	SignUp(ctx context.Context, email, password string, data map[string]any) (*Session, error)

	// SignInWithOAuth returns the provider's authorization URL for the
	// named OAuth identity provider. No network call is made.
	SignInWithOAuth(ctx context.Context, providerName, redirectTo string) (string, error)

	// ResetPasswordForEmail asks the provider to send a recovery email.
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error

	// UpdateUser mutates the authenticated user's attributes.
	UpdateUser(ctx context.Context, attrs UserAttributes) (*User, error)

	// SetSession adopts an externally obtained session.
	SetSession(s *Session)

	// ClearSession drops the held session without contacting the provider.
	ClearSession()
}

// RecordSource loads application records (profile, roles) through the
// provider's table API. Failures are surfaced as errors and degraded by
// callers; a missing profile is reported as ErrNotFound.
type RecordSource interface {
	LoadProfile(ctx context.Context, userID string) (*Profile, error)
	LoadRoles(ctx context.Context, userID string) ([]Role, error)
}
