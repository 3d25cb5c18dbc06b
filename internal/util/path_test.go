// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"path/filepath"
	"testing"
)

func TestSafeJoin(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "cv.pdf", "cv.pdf", false},
		{"traversal stripped", "../../etc/passwd", "passwd", false},
		{"nested dirs stripped", "a/b/photo.png", "photo.png", false},
		{"dot", ".", "", true},
		{"dotdot", "..", "", true},
		{"empty", "", "", true},
		{"root", "/", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SafeJoin(base, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("SafeJoin(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("SafeJoin(%q): %v", tt.input, err)
			}
			if got != filepath.Join(base, tt.want) {
				t.Errorf("SafeJoin(%q) = %q, want %q", tt.input, got, filepath.Join(base, tt.want))
			}
		})
	}
}
