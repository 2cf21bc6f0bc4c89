package gate

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sahab-dev/edgeauth/pkg/observability"
	"github.com/sahab-dev/edgeauth/pkg/provider"
)

// Gate evaluates the per-request authentication decision procedure.
//
// A Gate is immutable after New and safe for concurrent use.
type Gate struct {
	cfg    Config
	lookup provider.SessionLookup
	logger *slog.Logger
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets the logger used for degraded-path reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// New creates a Gate with the given policy and session lookup.
func New(cfg Config, lookup provider.SessionLookup, opts ...Option) (*Gate, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Gate{
		cfg:    cfg,
		lookup: lookup,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Decision is the gate's verdict for one request. A zero Decision is a
// plain pass-through.
type Decision struct {
	// Redirect is the target URL when non-empty. Redirects
	// short-circuit all later steps.
	Redirect string

	// ClearCookies lists cookie names to expire on the response.
	ClearCookies []string

	// Reason labels the decision for metrics and logging.
	Reason string
}

// Decision reasons.
const (
	ReasonPass              = "pass"
	ReasonExcluded          = "excluded"
	ReasonLoginLoop         = "login_loop"
	ReasonFailOpenTimeout   = "fail_open_timeout"
	ReasonFailOpenError     = "fail_open_error"
	ReasonRedirectLocale    = "redirect_locale"
	ReasonRedirectLogin     = "redirect_login"
	ReasonRedirectDashboard = "redirect_dashboard"
	ReasonClearCookies      = "clear_cookies"
	ReasonRootDispatch      = "root_dispatch"
)

// Evaluate runs the decision procedure for the request. First match
// wins; cookie mutations are described in the Decision and applied by
// the middleware to the response only.
func (g *Gate) Evaluate(ctx context.Context, r *http.Request) Decision {
	path := r.URL.Path

	// 1. Excluded prefixes pass through untouched, independent of
	// cookie contents.
	if g.excluded(path) {
		return Decision{Reason: ReasonExcluded}
	}

	// 2. Login page requested from the login page: break the loop.
	if g.isLoginPage(path) && g.refererIsLogin(r) {
		return Decision{Reason: ReasonLoginLoop}
	}

	// 3-4. Bounded session lookup; timeout and error both fail open.
	session, reason := g.lookupSession(ctx, r)
	if reason != "" {
		return Decision{Reason: reason}
	}
	hasSession := session != nil

	// 5. Paths without a recognized locale get the default prefixed.
	// The bare root is dispatched by step 10 instead.
	if g.pathLocale(path) == "" && path != "/" {
		return Decision{
			Redirect: "/" + g.cfg.DefaultLocale + path,
			Reason:   ReasonRedirectLocale,
		}
	}

	// 6. Effective locale for all redirect targets.
	locale := g.effectiveLocale(path)

	// 7. Unauthenticated request to a protected path: off to login,
	// remembering where the user was headed.
	if !hasSession && path != "/" && !g.isPublic(path, locale) && !g.isLoginPage(path) {
		return Decision{
			Redirect: g.loginURL(locale, path),
			Reason:   ReasonRedirectLogin,
		}
	}

	// 8. Authenticated request to the login page goes to the dashboard.
	if hasSession && g.isLoginPage(path) {
		return Decision{
			Redirect: "/" + locale + g.cfg.DashboardPath,
			Reason:   ReasonRedirectDashboard,
		}
	}

	// 9. Cookie sanity: malformed auth cookies without a backing
	// session are cleared, and protected paths bounce to login.
	if !hasSession && g.hasMalformedCookie(r) {
		d := Decision{
			ClearCookies: g.cfg.AuthCookieNames,
			Reason:       ReasonClearCookies,
		}
		if !g.isPublic(path, locale) && !g.isLoginPage(path) && path != "/" {
			d.Redirect = g.loginURL(locale, path)
		}
		return d
	}

	// 10. Bare root dispatch.
	if path == "/" {
		target := "/" + locale + g.cfg.LoginPath
		if hasSession {
			target = "/" + locale + g.cfg.DashboardPath
		}
		return Decision{Redirect: target, Reason: ReasonRootDispatch}
	}

	// 11. Everything else passes through.
	return Decision{Reason: ReasonPass}
}

// loginURL builds the localized login redirect carrying the original
// path in the redirect query parameter.
func (g *Gate) loginURL(locale, originalPath string) string {
	return "/" + locale + g.cfg.LoginPath + "?redirect=" + url.QueryEscape(originalPath)
}

// refererIsLogin reports whether the request's referer targets the
// login page.
func (g *Gate) refererIsLogin(r *http.Request) bool {
	ref := r.Header.Get("Referer")
	if ref == "" {
		return false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return g.isLoginPage(u.Path)
}

// lookupSession races the session lookup against the configured
// timeout. The loser is abandoned; its result is dropped on a buffered
// channel. Returns a non-empty fail-open reason when the lookup did not
// produce a usable answer.
func (g *Gate) lookupSession(ctx context.Context, r *http.Request) (*provider.Session, string) {
	type result struct {
		session *provider.Session
		err     error
	}

	lookupCtx, cancel := context.WithTimeout(ctx, g.cfg.SessionTimeout)
	defer cancel()

	start := time.Now()
	ch := make(chan result, 1)
	go func() {
		s, err := g.lookup.SessionFromRequest(lookupCtx, r)
		ch <- result{session: s, err: err}
	}()

	select {
	case res := <-ch:
		observability.SessionLookupDuration.Observe(time.Since(start).Seconds())
		if res.err != nil {
			observability.SessionLookupsTotal.WithLabelValues("error").Inc()
			g.logger.Warn("session lookup failed, passing request through",
				"path", r.URL.Path,
				"error", res.err,
			)
			return nil, ReasonFailOpenError
		}
		if res.session == nil {
			observability.SessionLookupsTotal.WithLabelValues("none").Inc()
			return nil, ""
		}
		observability.SessionLookupsTotal.WithLabelValues("ok").Inc()
		return res.session, ""

	case <-lookupCtx.Done():
		observability.SessionLookupDuration.Observe(time.Since(start).Seconds())
		observability.SessionLookupsTotal.WithLabelValues("timeout").Inc()
		g.logger.Warn("session lookup timed out, passing request through",
			"path", r.URL.Path,
			"timeout", g.cfg.SessionTimeout,
		)
		return nil, ReasonFailOpenTimeout
	}
}
