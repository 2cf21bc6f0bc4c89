package state

import "github.com/sahab-dev/edgeauth/pkg/provider"

// State is the auth state record broadcast to subscribers. It is
// replaced wholesale on each update; subscribers must treat the
// referenced records as read-only.
type State struct {
	User    *provider.User
	Session *provider.Session
	Profile *provider.Profile
	Roles   []provider.Role

	// Loading is true until the first session check resolves, success
	// or failure.
	Loading bool

	// Mounted becomes true after the first initialization attempt
	// regardless of outcome.
	Mounted bool

	// ProfileNotFound reports that the user exists but has no profile
	// row.
	ProfileNotFound bool
}

// HasSession reports whether a session is currently held.
func (s State) HasSession() bool {
	return s.Session != nil
}

// UserID returns the current user identifier, or "".
func (s State) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}
