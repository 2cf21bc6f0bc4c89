// Package supabase implements the provider boundary against a hosted
// Supabase project: the GoTrue auth endpoints (/auth/v1/...) and the
// PostgREST table endpoint (/rest/v1/...).
//
// The client holds at most one session at a time, mirroring the
// provider's browser SDK. It never verifies tokens locally; every
// validation is a remote call.
package supabase
