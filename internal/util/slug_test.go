// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple title", "Brutalist Portfolio", "brutalist-portfolio"},
		{"special characters", "Hello, World!", "hello-world"},
		{"numbers", "Project 123", "project-123"},
		{"accents", "Café résumé", "cafe-resume"},
		{"german umlauts", "Über München", "uber-munchen"},
		{"multiple spaces", "Hello   World", "hello-world"},
		{"spaced hyphen", "Go - Next.js", "go-nextjs"},
		{"surrounding spaces", "  Hello World  ", "hello-world"},
		{"only symbols", "!@#$%^&*()", ""},
		{"non latin", "日本語タイトル", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{"brutalist-portfolio": true, "brutalist-portfolio-2": true}
	exists := func(s string) (bool, error) { return taken[s], nil }

	tests := []struct {
		title string
		want  string
	}{
		{"Brutalist Portfolio", "brutalist-portfolio-3"},
		{"Live Feed", "live-feed"},
		{"!!!", "project"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got, err := UniqueSlug(tt.title, exists)
			if err != nil {
				t.Fatalf("UniqueSlug: %v", err)
			}
			if got != tt.want {
				t.Errorf("UniqueSlug(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestUniqueSlug_TruncatesAtHyphen(t *testing.T) {
	title := strings.Repeat("word ", 30)
	got, err := UniqueSlug(title, func(string) (bool, error) { return false, nil })
	if err != nil {
		t.Fatal(err)
	}
	if len(got) > MaxSlugLength || strings.HasSuffix(got, "-") {
		t.Errorf("UniqueSlug produced %q (len %d)", got, len(got))
	}
}

func TestUniqueSlug_PropagatesError(t *testing.T) {
	boom := errors.New("db closed")
	if _, err := UniqueSlug("x", func(string) (bool, error) { return false, boom }); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}
