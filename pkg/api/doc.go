// Package api defines the shared wire types of the edgeauth surface:
// structured errors, operation results, and the payloads of the local
// auth endpoints (check-session, logout).
//
// These types are consumed by the gate, the auth state store, and the
// local auth API, and are serialized as-is to HTTP clients.
package api
