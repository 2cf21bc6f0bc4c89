// Package transport provides the HTTP middleware chain for the
// edgeauth server: panic recovery, request ID assignment
// (X-Request-ID), and structured request logging via log/slog, plus
// the mapping from structured API errors to HTTP responses.
package transport
