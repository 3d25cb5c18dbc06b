// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadHeaders(t *testing.T) {
	tests := []struct {
		name   string
		maxAge int
		want   string
	}{
		{name: "one day", maxAge: 86400, want: "public, max-age=86400"},
		{name: "zero", maxAge: 0, want: "public, max-age=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := UploadHeaders(tt.maxAge)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/pdf")
				_, _ = w.Write([]byte("%PDF-1.7"))
			}))

			rr := httptest.NewRecorder()
			wrapped.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/cv.pdf", nil))

			if got := rr.Header().Get("Cache-Control"); got != tt.want {
				t.Errorf("Cache-Control = %q, want %q", got, tt.want)
			}
			if csp := rr.Header().Get("Content-Security-Policy"); !strings.HasSuffix(csp, "sandbox") {
				t.Errorf("CSP = %q, want sandbox", csp)
			}
			if rr.Body.String() != "%PDF-1.7" {
				t.Errorf("body = %q", rr.Body.String())
			}
		})
	}
}
