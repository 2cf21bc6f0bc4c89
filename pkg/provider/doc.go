// Package provider defines the boundary to the hosted identity provider.
//
// All identity verification, token issuance, and session persistence are
// owned by the provider; this package only declares the opaque records it
// returns (Session, User, Profile, Role) and the capability interfaces the
// rest of edgeauth consumes. Adapters for concrete providers live in
// subpackages (see provider/supabase).
package provider
