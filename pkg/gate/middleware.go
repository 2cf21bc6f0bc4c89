package gate

import (
	"net/http"
	"time"

	"github.com/sahab-dev/edgeauth/pkg/debug"
	"github.com/sahab-dev/edgeauth/pkg/observability"
)

// Middleware returns HTTP middleware that runs the gate's decision
// procedure before the wrapped handler. Redirects and cookie clears are
// applied to the response; pass-through decisions reach next untouched.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := g.Evaluate(r.Context(), r)

		observability.GateDecisionsTotal.WithLabelValues(decision.Reason).Inc()
		debug.Log("gate", "decision",
			"path", r.URL.Path,
			"reason", decision.Reason,
			"redirect", decision.Redirect,
		)

		if len(decision.ClearCookies) > 0 {
			observability.CookieClearsTotal.Inc()
			for _, name := range decision.ClearCookies {
				expireCookie(w, name)
			}
			g.logger.Info("cleared malformed auth cookies",
				"path", r.URL.Path,
				"cookies", decision.ClearCookies,
			)
		}

		if decision.Redirect != "" {
			http.Redirect(w, r, decision.Redirect, http.StatusTemporaryRedirect)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// expireCookie sets an empty, immediately expiring cookie on the
// response. The incoming request is never mutated.
func expireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
}
