package state

import (
	"testing"

	"github.com/sahab-dev/edgeauth/pkg/provider"
)

func storeWithRoles(roles ...provider.Role) *Store {
	s := New(&fakeClient{}, &fakeRecords{}, nil)
	s.update(func(st *State) { st.Roles = roles })
	return s
}

func TestHasRole(t *testing.T) {
	s := storeWithRoles(provider.Role{Name: "admin"}, provider.Role{Name: "editor"})

	if !s.HasRole("admin") {
		t.Error("expected admin role")
	}
	if s.HasRole("viewer") {
		t.Error("unexpected viewer role")
	}
}

func TestHasAnyRole(t *testing.T) {
	s := storeWithRoles(provider.Role{Name: "editor"})

	if !s.HasAnyRole("admin", "editor") {
		t.Error("expected match on editor")
	}
	if s.HasAnyRole("admin", "viewer") {
		t.Error("unexpected match")
	}
	if s.HasAnyRole() {
		t.Error("empty name list must not match")
	}
}

func TestHasPermission(t *testing.T) {
	s := storeWithRoles(
		provider.Role{Name: "editor", Permissions: []string{"posts.write"}},
		provider.Role{Name: "admin", Permissions: []string{"users.manage", "posts.delete"}},
	)

	if !s.HasPermission("posts.delete") {
		t.Error("expected permission from second role")
	}
	if s.HasPermission("billing.manage") {
		t.Error("unexpected permission")
	}
}

func TestPredicates_EmptyState(t *testing.T) {
	s := New(&fakeClient{}, &fakeRecords{}, nil)

	if s.HasRole("admin") || s.HasPermission("users.manage") || s.HasAnyRole("admin") {
		t.Error("fresh store must hold no roles or permissions")
	}
}
