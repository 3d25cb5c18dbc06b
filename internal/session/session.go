// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the scs session manager backed by SQLite.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

const (
	// CookieName is the session cookie used over plain HTTP.
	CookieName = "folio_session"
	// SecureCookieName is the session cookie used over HTTPS. The
	// __Secure- prefix makes browsers refuse it without the Secure flag.
	SecureCookieName = "__Secure-" + CookieName

	// Lifetime is the absolute session lifetime.
	Lifetime = 24 * time.Hour
	// IdleTimeout ends sessions that see no requests.
	IdleTimeout = 2 * time.Hour
)

// CookieNames returns both cookie names the request gate accepts.
func CookieNames() []string {
	return []string{CookieName, SecureCookieName}
}

// New creates a session manager storing sessions in the sessions table.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = Lifetime
	sm.IdleTimeout = IdleTimeout
	sm.Cookie.Name = CookieName
	sm.Cookie.Path = "/"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	if sm.Cookie.Secure {
		sm.Cookie.Name = SecureCookieName
	}

	return sm
}
