// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

// GateConfig describes which paths require a session cookie.
type GateConfig struct {
	// ProtectedPrefix is matched on path segments: "/admin" covers "/admin"
	// and "/admin/x" but not "/administrator".
	ProtectedPrefix string
	// Exempt paths under the prefix (and everything below them) always pass.
	Exempt []string
	// CookieNames are accepted session cookies; any one with a non-empty
	// value is enough.
	CookieNames []string
	// LoginPath receives the redirect, with the original path in CallbackParam.
	LoginPath     string
	CallbackParam string
}

// DefaultGateConfig protects /admin and lets the login, recovery and
// password reset entry points through.
func DefaultGateConfig(cookieNames ...string) GateConfig {
	return GateConfig{
		ProtectedPrefix: "/admin",
		Exempt:          []string{"/admin/login", "/admin/recovery", "/admin/reset-password"},
		CookieNames:     cookieNames,
		LoginPath:       "/admin/login",
		CallbackParam:   "callbackUrl",
	}
}

// Gate is a coarse first filter: it only checks that a session cookie is
// present and never touches the session store. A forged cookie passes here
// and is rejected by RequireUser.
func Gate(cfg GateConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if !cfg.Protects(path) || cfg.hasSessionCookie(r) {
				next.ServeHTTP(w, r)
				return
			}

			q := url.Values{}
			q.Set(cfg.CallbackParam, path)
			http.Redirect(w, r, cfg.LoginPath+"?"+q.Encode(), http.StatusTemporaryRedirect)
		})
	}
}

// Protects reports whether path is under the protected prefix and not exempt.
func (cfg GateConfig) Protects(path string) bool {
	if !underPrefix(path, cfg.ProtectedPrefix) {
		return false
	}
	for _, exempt := range cfg.Exempt {
		if underPrefix(path, exempt) {
			return false
		}
	}
	return true
}

func (cfg GateConfig) hasSessionCookie(r *http.Request) bool {
	for _, name := range cfg.CookieNames {
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			return true
		}
	}
	return false
}

func underPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/")
}
