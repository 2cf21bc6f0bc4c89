package state

import (
	"context"
	"errors"
	"testing"

	"github.com/sahab-dev/edgeauth/pkg/api"
	"github.com/sahab-dev/edgeauth/pkg/provider"
)

func TestInitializeAuth_HeldSession(t *testing.T) {
	client := &fakeClient{session: sessionWithUser("user-1")}
	records := &fakeRecords{
		profile: &provider.Profile{ID: "user-1", FullName: "Aya"},
		roles:   []provider.Role{{Name: "admin", Permissions: []string{"users.manage"}}},
	}

	s := New(client, records, nil)
	s.InitializeAuth(context.Background())
	s.WaitBackground()

	st := s.GetState()
	if !st.HasSession() || st.UserID() != "user-1" {
		t.Fatalf("state = %+v, want session for user-1", st)
	}
	if st.Loading {
		t.Error("loading must be false after initialization")
	}
	if !st.Mounted {
		t.Error("mounted must be true after initialization")
	}
	if st.Profile == nil || st.Profile.FullName != "Aya" {
		t.Errorf("profile = %+v", st.Profile)
	}
	if len(st.Roles) != 1 || st.Roles[0].Name != "admin" {
		t.Errorf("roles = %+v", st.Roles)
	}
}

func TestInitializeAuth_RefreshFallback(t *testing.T) {
	client := &fakeClient{refreshed: sessionWithUser("user-2")}

	s := New(client, &fakeRecords{}, nil)
	s.InitializeAuth(context.Background())
	s.WaitBackground()

	st := s.GetState()
	if st.UserID() != "user-2" {
		t.Errorf("UserID = %q, want user-2 from refresh", st.UserID())
	}
}

func TestInitializeAuth_CheckSessionFallback(t *testing.T) {
	authAPI := &fakeAuthAPI{
		checkResp: &api.CheckSessionResponse{
			Success:    true,
			HasSession: true,
			User:       &api.UserInfo{ID: "user-3", Email: "c@example.com"},
		},
	}

	s := New(&fakeClient{refreshErr: errors.New("refresh failed")}, &fakeRecords{}, authAPI)
	s.InitializeAuth(context.Background())
	s.WaitBackground()

	st := s.GetState()
	if st.UserID() != "user-3" {
		t.Fatalf("UserID = %q, want user-3 from check-session", st.UserID())
	}
	// The endpoint reports identity only.
	if st.HasSession() {
		t.Error("check-session fallback must not synthesize a session record")
	}
}

func TestInitializeAuth_NoReachableSession(t *testing.T) {
	authAPI := &fakeAuthAPI{checkErr: errors.New("endpoint down")}

	s := New(&fakeClient{refreshErr: errors.New("refresh failed")}, &fakeRecords{}, authAPI)

	var final State
	s.Subscribe(func(st State) { final = st })

	s.InitializeAuth(context.Background())
	s.WaitBackground()

	if final.Session != nil || final.User != nil {
		t.Errorf("state = %+v, want cleared", final)
	}
	if final.Profile != nil || len(final.Roles) != 0 {
		t.Errorf("records = (%+v, %+v), want empty", final.Profile, final.Roles)
	}
	if final.Loading {
		t.Error("loading must settle to false even on total failure")
	}
	if !final.Mounted {
		t.Error("mounted must be true after the attempt")
	}
}

func TestInitializeAuth_ProfileNotFound(t *testing.T) {
	client := &fakeClient{session: sessionWithUser("user-1")}
	records := &fakeRecords{
		profileErr: provider.ErrNotFound,
		roles:      []provider.Role{},
	}

	s := New(client, records, nil)
	s.InitializeAuth(context.Background())
	s.WaitBackground()

	st := s.GetState()
	if !st.ProfileNotFound {
		t.Error("expected ProfileNotFound")
	}
	if st.Profile != nil {
		t.Errorf("profile = %+v, want nil", st.Profile)
	}
}

func TestInitializeAuth_RecordFailuresDegrade(t *testing.T) {
	client := &fakeClient{session: sessionWithUser("user-1")}
	records := &fakeRecords{
		profileErr: errors.New("table unavailable"),
		rolesErr:   errors.New("table unavailable"),
	}

	s := New(client, records, nil)
	s.InitializeAuth(context.Background())
	s.WaitBackground()

	st := s.GetState()
	if st.UserID() != "user-1" {
		t.Error("record failures must not fail initialization")
	}
	if st.Profile != nil || len(st.Roles) != 0 {
		t.Errorf("records = (%+v, %+v), want degraded empty", st.Profile, st.Roles)
	}
	if st.ProfileNotFound {
		t.Error("a load failure is not a missing profile")
	}
}

func TestInitializeAuth_StaleLoadAfterSignOut(t *testing.T) {
	client := &fakeClient{session: sessionWithUser("user-1")}
	records := &fakeRecords{profile: &provider.Profile{ID: "user-1"}}
	authAPI := &fakeAuthAPI{}

	s := New(client, records, authAPI)
	s.InitializeAuth(context.Background())
	s.WaitBackground()

	if r := s.SignOut(context.Background()); !r.Success {
		t.Fatalf("SignOut failed: %+v", r)
	}

	// A record load finishing after sign-out must not resurrect data.
	s.loadRecords(context.Background(), "user-1")

	st := s.GetState()
	if st.Profile != nil {
		t.Errorf("profile = %+v, want nil after sign-out", st.Profile)
	}
}
