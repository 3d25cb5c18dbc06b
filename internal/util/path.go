// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SafeJoin joins name onto base after stripping any directory part from it,
// and fails if the result would leave base.
func SafeJoin(base, name string) (string, error) {
	safe := filepath.Base(name)
	if safe == "." || safe == ".." || safe == "" || safe == string(filepath.Separator) {
		return "", fmt.Errorf("invalid filename: %q", name)
	}

	absBase, err := filepath.Abs(filepath.Clean(base))
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}
	full := filepath.Join(absBase, safe)
	if !strings.HasPrefix(full, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes %s", base)
	}
	return full, nil
}
