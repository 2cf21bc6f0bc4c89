package state

import (
	"context"
	"errors"

	"github.com/sahab-dev/edgeauth/pkg/provider"
)

// InitializeAuth resolves the current session and populates the state.
//
// Resolution order: provider session → provider refresh → local
// check-session endpoint → cleared state. Loading flips false and
// Mounted flips true once the chain settles, whatever the outcome.
// Concurrent calls race independently; the operation is idempotent
// enough that the last write wins.
//
// When a user is resolved, profile and role records load in a tracked
// background task (see WaitBackground); their failures degrade to
// empty values without failing initialization.
func (s *Store) InitializeAuth(ctx context.Context) {
	session, user := s.resolveSession(ctx)

	s.update(func(st *State) {
		st.Session = session
		st.User = user
		st.Loading = false
		st.Mounted = true
		if user == nil {
			st.Profile = nil
			st.Roles = []provider.Role{}
			st.ProfileNotFound = false
		}
	})

	if user != nil && user.ID != "" {
		s.loadRecordsAsync(ctx, user.ID)
	}
}

// resolveSession walks the fallback chain and returns whatever session
// and user it could establish. Both nil means no reachable session.
func (s *Store) resolveSession(ctx context.Context) (*provider.Session, *provider.User) {
	session, err := s.client.GetSession(ctx)
	if err == nil && session != nil {
		return session, session.User
	}
	if err != nil && !errors.Is(err, provider.ErrNoSession) {
		s.logger.Warn("session read failed, attempting refresh", "error", err)
	}

	refreshed, err := s.client.RefreshSession(ctx)
	if err == nil && refreshed != nil {
		return refreshed, refreshed.User
	}

	if s.authAPI != nil {
		resp, err := s.authAPI.CheckSession(ctx)
		if err == nil && resp != nil && resp.Success && resp.HasSession {
			// The endpoint reports identity only; the session record
			// stays with the server's cookies.
			if resp.User != nil {
				return nil, &provider.User{ID: resp.User.ID, Email: resp.User.Email}
			}
		}
		if err != nil {
			s.logger.Warn("check-session fallback failed", "error", err)
		}
	}

	return nil, nil
}

// loadRecordsAsync fetches profile and roles in a tracked background
// task and applies them in a single state update.
func (s *Store) loadRecordsAsync(ctx context.Context, userID string) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		s.loadRecords(ctx, userID)
	}()
}

// loadRecords fetches profile and roles, degrading each failure to an
// empty value.
func (s *Store) loadRecords(ctx context.Context, userID string) {
	profile, profileErr := s.records.LoadProfile(ctx, userID)
	roles, rolesErr := s.records.LoadRoles(ctx, userID)

	notFound := errors.Is(profileErr, provider.ErrNotFound)
	if profileErr != nil && !notFound {
		s.logger.Warn("profile load failed", "user_id", userID, "error", profileErr)
		profile = nil
	}
	if rolesErr != nil {
		s.logger.Warn("roles load failed", "user_id", userID, "error", rolesErr)
		roles = nil
	}
	if roles == nil {
		roles = []provider.Role{}
	}

	s.update(func(st *State) {
		// A stale load must not resurrect records after sign-out.
		if st.UserID() != userID {
			return
		}
		st.Profile = profile
		st.ProfileNotFound = notFound
		st.Roles = roles
	})
}
