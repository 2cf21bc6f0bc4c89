package gate

import (
	"net/http"
	"strings"
)

// truncationMarker is the suffix some layers append when a cookie value
// was cut off mid-write.
const truncationMarker = "..."

// minCookieLength is the shortest value a real auth token chunk can
// plausibly have.
const minCookieLength = 10

// malformedCookie reports whether a cookie value fails the shape
// heuristic: truncation marker suffix, implausibly short, or not three
// dot-separated segments. This is shape detection only, never a
// verification of authenticity.
func malformedCookie(value string) bool {
	if strings.HasSuffix(value, truncationMarker) {
		return true
	}
	if len(value) < minCookieLength {
		return true
	}
	if len(strings.Split(value, ".")) != 3 {
		return true
	}
	return false
}

// hasMalformedCookie reports whether any of the named auth cookies
// present on the request fails the shape check.
func (g *Gate) hasMalformedCookie(r *http.Request) bool {
	for _, name := range g.cfg.AuthCookieNames {
		c, err := r.Cookie(name)
		if err != nil {
			continue
		}
		if malformedCookie(c.Value) {
			return true
		}
	}
	return false
}
