package supabase

import (
	"context"

	"github.com/sahab-dev/edgeauth/pkg/provider"
)

// Table names for application records.
const (
	profilesTable  = "profiles"
	userRolesTable = "user_roles"
)

// LoadProfile fetches the profile row for the given user. A missing row
// is reported as provider.ErrNotFound.
func (c *Client) LoadProfile(ctx context.Context, userID string) (*provider.Profile, error) {
	var profile provider.Profile
	err := c.From(profilesTable).
		Select("id,full_name,avatar_url,locale").
		Eq("id", userID).
		Single().
		Execute(ctx, &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// LoadRoles fetches the roles granted to the given user, with the
// permission names each carries. A user without role rows gets an empty
// slice, not an error.
func (c *Client) LoadRoles(ctx context.Context, userID string) ([]provider.Role, error) {
	var roles []provider.Role
	err := c.From(userRolesTable).
		Select("role,permissions").
		Eq("user_id", userID).
		Execute(ctx, &roles)
	if err != nil {
		return nil, err
	}
	return roles, nil
}
