// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func gateUnderTest() http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return Gate(DefaultGateConfig("folio_session", "__Secure-folio_session"))(ok)
}

func TestGate(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		cookie       *http.Cookie
		wantStatus   int
		wantLocation string
	}{
		{"public page", "/", nil, http.StatusOK, ""},
		{"public api", "/api/projects", nil, http.StatusOK, ""},
		{"login exempt", "/admin/login", nil, http.StatusOK, ""},
		{"recovery exempt", "/admin/recovery", nil, http.StatusOK, ""},
		{"reset exempt", "/admin/reset-password", nil, http.StatusOK, ""},
		{"below exempt", "/admin/login/callback", nil, http.StatusOK, ""},
		{"dashboard without cookie", "/admin/dashboard", nil, http.StatusTemporaryRedirect, "/admin/login?callbackUrl=%2Fadmin%2Fdashboard"},
		{"admin root without cookie", "/admin", nil, http.StatusTemporaryRedirect, "/admin/login?callbackUrl=%2Fadmin"},
		{"stream without cookie", "/admin/api/logs/stream", nil, http.StatusTemporaryRedirect, "/admin/login?callbackUrl=%2Fadmin%2Fapi%2Flogs%2Fstream"},
		{"lookalike not exempt", "/admin/loginx", nil, http.StatusTemporaryRedirect, "/admin/login?callbackUrl=%2Fadmin%2Floginx"},
		{"lookalike prefix not protected", "/administrator", nil, http.StatusOK, ""},
		{"dashboard with cookie", "/admin/dashboard", &http.Cookie{Name: "folio_session", Value: "abc"}, http.StatusOK, ""},
		{"secure cookie variant", "/admin/dashboard", &http.Cookie{Name: "__Secure-folio_session", Value: "abc"}, http.StatusOK, ""},
		{"empty cookie value", "/admin/dashboard", &http.Cookie{Name: "folio_session", Value: ""}, http.StatusTemporaryRedirect, "/admin/login?callbackUrl=%2Fadmin%2Fdashboard"},
		{"unrelated cookie", "/admin/projects", &http.Cookie{Name: "theme", Value: "dark"}, http.StatusTemporaryRedirect, "/admin/login?callbackUrl=%2Fadmin%2Fprojects"},
	}

	h := gateUnderTest()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
		})
	}
}

func TestGate_RedirectKeepsMethodForPost(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/admin/api/projects", nil)
	rec := httptest.NewRecorder()
	gateUnderTest().ServeHTTP(rec, req)

	// 307 tells clients to repeat the same method at the new location.
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
}
