package state

import (
	"context"

	"github.com/sahab-dev/edgeauth/pkg/api"
	"github.com/sahab-dev/edgeauth/pkg/provider"
)

// SignIn authenticates with email and password. On success the session
// and user are published and profile/role records load in the
// background.
func (s *Store) SignIn(ctx context.Context, email, password string) api.Result {
	session, err := s.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return api.FailErr(err)
	}

	s.adoptSession(ctx, session)
	return api.OK()
}

// SignUp registers a new user. A nil session from the provider means
// email confirmation is pending; the result is still successful and no
// state changes.
func (s *Store) SignUp(ctx context.Context, email, password string, data map[string]any) api.Result {
	session, err := s.client.SignUp(ctx, email, password, data)
	if err != nil {
		return api.FailErr(err)
	}

	if session != nil {
		s.adoptSession(ctx, session)
	}
	return api.OK()
}

// SignInWithProvider returns the OAuth authorization URL for the named
// identity provider. The caller is expected to navigate there; state
// changes happen on the post-callback initialization.
func (s *Store) SignInWithProvider(ctx context.Context, providerName, redirectTo string) (string, api.Result) {
	u, err := s.client.SignInWithOAuth(ctx, providerName, redirectTo)
	if err != nil {
		return "", api.FailErr(err)
	}
	return u, api.OK()
}

// ResetPassword asks the provider to send a recovery email.
func (s *Store) ResetPassword(ctx context.Context, email, redirectTo string) api.Result {
	if err := s.client.ResetPasswordForEmail(ctx, email, redirectTo); err != nil {
		return api.FailErr(err)
	}
	return api.OK()
}

// UpdatePassword sets a new password for the authenticated user.
func (s *Store) UpdatePassword(ctx context.Context, newPassword string) api.Result {
	user, err := s.client.UpdateUser(ctx, provider.UserAttributes{Password: newPassword})
	if err != nil {
		return api.FailErr(err)
	}

	s.update(func(st *State) {
		st.User = user
	})
	return api.OK()
}

// UpdateProfile mutates the authenticated user's attributes and
// reloads the profile record in the background.
func (s *Store) UpdateProfile(ctx context.Context, attrs provider.UserAttributes) api.Result {
	user, err := s.client.UpdateUser(ctx, attrs)
	if err != nil {
		return api.FailErr(err)
	}

	s.update(func(st *State) {
		st.User = user
	})
	if user != nil && user.ID != "" {
		s.loadRecordsAsync(ctx, user.ID)
	}
	return api.OK()
}

// RefreshSession exchanges the held refresh token for a new session
// and publishes it.
func (s *Store) RefreshSession(ctx context.Context) error {
	session, err := s.client.RefreshSession(ctx)
	if err != nil {
		return err
	}

	s.update(func(st *State) {
		st.Session = session
		if session.User != nil {
			st.User = session.User
		}
	})
	return nil
}

// ForceRefreshRole reloads the role records for the current user and
// publishes them.
func (s *Store) ForceRefreshRole(ctx context.Context) error {
	userID := s.GetState().UserID()
	if userID == "" {
		return provider.ErrNoSession
	}

	roles, err := s.records.LoadRoles(ctx, userID)
	if err != nil {
		return err
	}
	if roles == nil {
		roles = []provider.Role{}
	}

	s.update(func(st *State) {
		st.Roles = roles
	})
	return nil
}

// SignOut delegates to the server-side logout endpoint, which owns
// authoritative cookie clearing, and clears local state on success.
// Without a configured AuthAPI only the local state is cleared.
func (s *Store) SignOut(ctx context.Context) api.Result {
	if s.authAPI != nil {
		if err := s.authAPI.Logout(ctx); err != nil {
			return api.FailErr(err)
		}
	}

	s.client.ClearSession()
	s.update(func(st *State) {
		st.User = nil
		st.Session = nil
		st.Profile = nil
		st.Roles = []provider.Role{}
		st.ProfileNotFound = false
	})
	return api.OK()
}

// adoptSession publishes a fresh session and kicks off the background
// record load for its user.
func (s *Store) adoptSession(ctx context.Context, session *provider.Session) {
	s.update(func(st *State) {
		st.Session = session
		st.User = session.User
		st.Loading = false
	})

	if session.User != nil && session.User.ID != "" {
		s.loadRecordsAsync(ctx, session.User.ID)
	}
}
