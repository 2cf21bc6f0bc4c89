// Package gate implements the request-time authentication gate: a
// decision procedure run on every inbound request that resolves locale
// and session status and picks among pass-through, redirect, and
// cookie clearing.
//
// The gate never blocks a user on backend failure: every session
// lookup failure mode (timeout, error) fails open and passes the
// request through. Cookie inspection is a shape heuristic only; no
// token is ever decoded or verified here.
package gate
