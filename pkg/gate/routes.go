package gate

import "strings"

// excluded reports whether the gate never touches this path: configured
// prefixes, the favicon, and file-like final segments (static assets
// served by extension).
func (g *Gate) excluded(path string) bool {
	if path == "/favicon.ico" {
		return true
	}
	for _, prefix := range g.cfg.ExcludedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	// File-like: a dot in the last segment (e.g. /robots.txt, /logo.svg).
	if last := path[strings.LastIndexByte(path, '/')+1:]; strings.Contains(last, ".") {
		return true
	}
	return false
}

// isLoginPage reports whether path is the login page, with or without a
// locale prefix.
func (g *Gate) isLoginPage(path string) bool {
	if path == g.cfg.LoginPath {
		return true
	}
	for _, l := range g.cfg.Locales {
		if path == "/"+l+g.cfg.LoginPath {
			return true
		}
	}
	return false
}

// isPublic reports whether path is exempt from the authentication
// requirement under the given locale. The "/" entry matches the locale
// root only; other entries match themselves and their subtree.
func (g *Gate) isPublic(path, locale string) bool {
	rest := g.localePath(path, locale)
	for _, route := range g.cfg.PublicRoutes {
		if route == "/" {
			if rest == "/" {
				return true
			}
			continue
		}
		if rest == route || strings.HasPrefix(rest, route+"/") {
			return true
		}
	}
	return false
}
