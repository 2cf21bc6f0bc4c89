// Command demo walks the auth state store through a full session
// lifecycle against an in-memory provider: initialization, sign-in,
// record loading, role predicates, and sign-out. Every broadcast
// transition is printed as it happens.
package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/sahab-dev/edgeauth/pkg/provider"
	"github.com/sahab-dev/edgeauth/pkg/state"
)

func main() {
	fmt.Println("=== edgeauth state store demo ===")
	fmt.Println()

	prov := newMemoryProvider()
	store := state.New(prov, prov, nil)

	// 1. Watch every broadcast.
	unsubscribe := store.Subscribe(func(st state.State) {
		fmt.Printf("  -> state: loading=%v mounted=%v user=%s roles=%d\n",
			st.Loading, st.Mounted, st.UserID(), len(st.Roles))
	})
	defer unsubscribe()

	ctx := context.Background()

	// 2. Cold start: no session anywhere.
	fmt.Println("[1] InitializeAuth (no session)")
	store.InitializeAuth(ctx)
	store.WaitBackground()

	// 3. Sign in with the seeded account.
	fmt.Println("\n[2] SignIn")
	if res := store.SignIn(ctx, "demo@example.com", "demo-password"); !res.Success {
		fmt.Printf("sign-in FAILED: %s\n", res.Error)
		return
	}
	store.WaitBackground()

	st := store.GetState()
	if st.Profile != nil {
		fmt.Printf("  profile: %s\n", st.Profile.FullName)
	}

	// 4. Role and permission predicates.
	fmt.Println("\n[3] Predicates")
	fmt.Printf("  HasRole(admin)=%v HasAnyRole(admin, member)=%v HasPermission(dashboard.view)=%v\n",
		store.HasRole("admin"), store.HasAnyRole("admin", "member"), store.HasPermission("dashboard.view"))

	// 5. Force a role refresh after a grant lands out of band.
	fmt.Println("\n[4] ForceRefreshRole after admin grant")
	prov.grantRole("admin", "users.manage")
	if err := store.ForceRefreshRole(ctx); err != nil {
		fmt.Printf("refresh FAILED: %v\n", err)
		return
	}
	fmt.Printf("  HasRole(admin)=%v\n", store.HasRole("admin"))

	// 6. Sign out clears everything.
	fmt.Println("\n[5] SignOut")
	if res := store.SignOut(ctx); !res.Success {
		fmt.Printf("sign-out FAILED: %s\n", res.Error)
		return
	}
	fmt.Printf("  HasSession=%v\n", store.GetState().HasSession())
}

// memoryProvider is a self-contained provider.Client and
// provider.RecordSource with one seeded account.
type memoryProvider struct {
	mu      sync.Mutex
	current *provider.Session
	roles   []provider.Role
}

func newMemoryProvider() *memoryProvider {
	return &memoryProvider{
		roles: []provider.Role{
			{Name: "member", Permissions: []string{"dashboard.view"}},
		},
	}
}

func (m *memoryProvider) grantRole(name string, permissions ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles = append(m.roles, provider.Role{Name: name, Permissions: permissions})
}

func (m *memoryProvider) GetSession(ctx context.Context) (*provider.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, provider.ErrNoSession
	}
	return m.current, nil
}

func (m *memoryProvider) GetUser(ctx context.Context, accessToken string) (*provider.User, error) {
	session, err := m.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	return session.User, nil
}

func (m *memoryProvider) RefreshSession(ctx context.Context) (*provider.Session, error) {
	return nil, provider.ErrNoSession
}

func (m *memoryProvider) SignInWithPassword(ctx context.Context, email, password string) (*provider.Session, error) {
	if email != "demo@example.com" || password != "demo-password" {
		return nil, fmt.Errorf("invalid login credentials")
	}

	session := &provider.Session{
		AccessToken:  uuid.NewString(),
		RefreshToken: uuid.NewString(),
		TokenType:    "bearer",
		User: &provider.User{
			ID:       "10000000-0000-0000-0000-000000000001",
			Email:    email,
			Metadata: map[string]any{"full_name": "Demo User"},
		},
	}
	m.SetSession(session)
	return session, nil
}

func (m *memoryProvider) SignUp(ctx context.Context, email, password string, data map[string]any) (*provider.Session, error) {
	return nil, fmt.Errorf("sign-up not supported in the demo")
}

func (m *memoryProvider) SignInWithOAuth(ctx context.Context, providerName, redirectTo string) (string, error) {
	return "", fmt.Errorf("oauth not supported in the demo")
}

func (m *memoryProvider) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	return nil
}

func (m *memoryProvider) UpdateUser(ctx context.Context, attrs provider.UserAttributes) (*provider.User, error) {
	session, err := m.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	return session.User, nil
}

func (m *memoryProvider) SetSession(s *provider.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = s
}

func (m *memoryProvider) ClearSession() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
}

func (m *memoryProvider) LoadProfile(ctx context.Context, userID string) (*provider.Profile, error) {
	return &provider.Profile{ID: userID, FullName: "Demo User", Locale: "en"}, nil
}

func (m *memoryProvider) LoadRoles(ctx context.Context, userID string) ([]provider.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]provider.Role(nil), m.roles...), nil
}
