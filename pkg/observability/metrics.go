// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the edgeauth gate and auth endpoints.
package observability

import "github.com/prometheus/client_golang/prometheus"

// AuthBuckets defines histogram buckets suited for auth round-trips to
// the identity provider, ranging from 5ms to the gate's 5s lookup bound.
var AuthBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edgeauth_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edgeauth_request_duration_seconds",
			Help:    "Request duration",
			Buckets: AuthBuckets,
		},
		[]string{"method"},
	)

	// GateDecisionsTotal counts gate outcomes by decision label
	// (pass, redirect_locale, redirect_login, redirect_dashboard,
	// clear_cookies, fail_open_timeout, fail_open_error).
	GateDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edgeauth_gate_decisions_total",
			Help: "Gate decisions",
		},
		[]string{"decision"},
	)

	// SessionLookupsTotal counts gate session lookups by result
	// (ok, none, error, timeout).
	SessionLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edgeauth_session_lookups_total",
			Help: "Session lookups",
		},
		[]string{"result"},
	)

	// SessionLookupDuration records session lookup latency in seconds.
	SessionLookupDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "edgeauth_session_lookup_duration_seconds",
			Help:    "Session lookup latency",
			Buckets: AuthBuckets,
		},
	)

	// CookieClearsTotal counts responses on which the gate expired
	// malformed auth cookies.
	CookieClearsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "edgeauth_cookie_clears_total",
			Help: "Auth cookie clears",
		},
	)

	// AuthOperationsTotal counts local auth API operations by endpoint
	// and outcome.
	AuthOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edgeauth_auth_operations_total",
			Help: "Local auth API operations",
		},
		[]string{"endpoint", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		GateDecisionsTotal,
		SessionLookupsTotal,
		SessionLookupDuration,
		CookieClearsTotal,
		AuthOperationsTotal,
	)
}
