// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the folio packages.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"

	"github.com/olegiv/folio-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
)

// Credentials of the admin created by SeededDB.
const (
	AdminEmail    = "owner@folio.test"
	AdminPassword = "correct-horse-battery"
)

// TestLoggerSilent creates a logger that only prints errors.
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestDB creates a migrated database file under t.TempDir using the
// production driver. The returned cleanup closes it.
func TestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "folio-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() { _ = db.Close() }
}

// SeededDB is TestDB plus the default seed data, with the admin account
// using AdminEmail and AdminPassword. It is closed when the test ends.
func SeededDB(t *testing.T) (*sql.DB, store.User) {
	t.Helper()
	ctx := context.Background()

	db, cleanup := TestDB(t)
	t.Cleanup(cleanup)

	if err := store.Seed(ctx, db, store.SeedOptions{AdminEmail: AdminEmail, AdminPassword: AdminPassword}); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	admin, err := store.New(db).GetUserByEmail(ctx, AdminEmail)
	if err != nil {
		t.Fatalf("loading seeded admin: %v", err)
	}
	return db, admin
}

// TestMemoryDB creates a migrated in-memory database on the cgo SQLite
// driver, for checking that queries do not depend on driver quirks. A
// single connection keeps every query on the same in-memory database.
func TestMemoryDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("opening memory db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}
