package state

// HasRole reports whether the current user holds the named role.
// Pure read over cached state; no I/O.
func (s *Store) HasRole(name string) bool {
	for _, r := range s.GetState().Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the current user holds at least one of
// the named roles.
func (s *Store) HasAnyRole(names ...string) bool {
	roles := s.GetState().Roles
	for _, r := range roles {
		for _, name := range names {
			if r.Name == name {
				return true
			}
		}
	}
	return false
}

// HasPermission reports whether any of the current user's roles
// carries the named permission.
func (s *Store) HasPermission(name string) bool {
	for _, r := range s.GetState().Roles {
		for _, p := range r.Permissions {
			if p == name {
				return true
			}
		}
	}
	return false
}
