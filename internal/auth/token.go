// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// ResetTokenTTL is how long a password reset link stays valid.
const ResetTokenTTL = time.Hour

// NewResetToken returns a random token for the reset link and the hash
// to persist. Only the hash is ever stored.
func NewResetToken() (token, hash string) {
	token = uuid.NewString() + uuid.NewString()
	return token, HashResetToken(token)
}

// HashResetToken returns the hex SHA-256 of token.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
