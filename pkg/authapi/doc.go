// Package authapi implements the local auth endpoints and their
// client: the same-origin check-session fallback consumed by the auth
// state store, and the logout endpoint that owns authoritative cookie
// clearing.
package authapi
