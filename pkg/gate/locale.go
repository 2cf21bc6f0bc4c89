package gate

import "strings"

// pathLocale returns the first path segment when it is a recognized
// locale, and "" otherwise.
func (g *Gate) pathLocale(path string) string {
	seg := firstSegment(path)
	for _, l := range g.cfg.Locales {
		if seg == l {
			return l
		}
	}
	return ""
}

// effectiveLocale resolves the locale used for redirect targets: the
// path's locale when recognized, else the default.
func (g *Gate) effectiveLocale(path string) string {
	if l := g.pathLocale(path); l != "" {
		return l
	}
	return g.cfg.DefaultLocale
}

// localePath strips the locale prefix, returning the locale-relative
// remainder ("/" for the locale root).
func (g *Gate) localePath(path, locale string) string {
	rest := strings.TrimPrefix(path, "/"+locale)
	if rest == "" {
		return "/"
	}
	return rest
}

// firstSegment returns the first path segment without slashes.
func firstSegment(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}
