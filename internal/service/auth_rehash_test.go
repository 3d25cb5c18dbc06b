// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"

	"github.com/olegiv/folio-go/internal/auth"
	"github.com/olegiv/folio-go/internal/testutil"
)

// legacyHash encodes password with weaker argon2 parameters than the
// current defaults.
func legacyHash(password string) string {
	salt := []byte("0123456789abcdef")
	key := argon2.IDKey([]byte(password), salt, 1, 8*1024, 1, auth.Argon2KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, 8*1024, 1, 1,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
}

func TestLogin_RehashFailureIsLogged(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	hash := legacyHash("correct-horse")
	require.True(t, auth.NeedsRehash(hash))

	now := time.Now().UTC()
	mock.ExpectQuery("FROM users WHERE email").WithArgs("admin@example.com").WillReturnRows(
		sqlmock.NewRows([]string{"id", "email", "name", "bio", "password_hash", "last_login_at", "created_at", "updated_at"}).
			AddRow(7, "admin@example.com", "Admin", "", hash, nil, now, now))
	mock.ExpectExec("UPDATE users SET last_login_at").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users SET password_hash").WillReturnError(errors.New("database is locked"))

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	svc := NewAuthService(db, NewEventService(db, testutil.TestLoggerSilent()), nil, "https://folio.test")
	user, err := svc.Login(context.Background(), "admin@example.com", "correct-horse", LoginContext{})
	require.NoError(t, err, "a failed rehash must not fail the login")
	assert.Equal(t, int64(7), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Contains(t, logs.String(), "failed to store rehashed password")
	assert.Contains(t, logs.String(), "database is locked")
}
