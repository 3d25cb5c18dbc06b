// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestValidLevel(t *testing.T) {
	tests := []struct {
		level string
		want  bool
	}{
		{LevelInfo, true},
		{LevelSuccess, true},
		{LevelWarning, true},
		{LevelDanger, true},
		{"info", false},
		{"ERROR", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := ValidLevel(tt.level); got != tt.want {
				t.Errorf("ValidLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}
