// Package state maintains the client-side authentication state: a
// single record holding the last known session, user, profile, and
// roles, republished to subscribers after every mutation.
//
// The Store replaces the usual hidden singleton with an explicit,
// constructor-injected instance; applications compose exactly one at
// startup and hand it to whoever needs auth state. Subscribers always
// observe a completed update, never a partially written record.
package state
