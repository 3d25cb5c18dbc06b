// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "folio-store-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() { _ = db.Close() }
}

func createTestUser(t *testing.T, q *Queries, email string) User {
	t.Helper()
	now := time.Now().UTC()
	user, err := q.CreateUser(context.Background(), CreateUserParams{
		Email:        email,
		Name:         "Test User",
		PasswordHash: "hashed-password",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func TestCreateAndGetUser(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	user := createTestUser(t, q, "test@example.com")
	if user.ID == 0 {
		t.Error("expected non-zero ID")
	}

	byEmail, err := q.GetUserByEmail(ctx, "test@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("ID = %d, want %d", byEmail.ID, user.ID)
	}

	byID, err := q.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if byID.Email != "test@example.com" {
		t.Errorf("Email = %q", byID.Email)
	}
	if byID.LastLoginAt.Valid {
		t.Error("LastLoginAt should be NULL for a new user")
	}

	if _, err := q.GetUserByEmail(ctx, "missing@example.com"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetUserByEmail(missing) error = %v, want sql.ErrNoRows", err)
	}
}

func TestUpdateUserProfileAndLogin(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	user := createTestUser(t, q, "owner@example.com")

	updated, err := q.UpdateUserProfile(ctx, UpdateUserProfileParams{
		Name:      "Owner",
		Email:     "new@example.com",
		Bio:       "Builds things.",
		UpdatedAt: time.Now().UTC(),
		ID:        user.ID,
	})
	if err != nil {
		t.Fatalf("UpdateUserProfile: %v", err)
	}
	if updated.Email != "new@example.com" || updated.Bio != "Builds things." {
		t.Errorf("unexpected profile: %+v", updated)
	}

	loginAt := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	if err := q.UpdateUserLastLogin(ctx, UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: loginAt, Valid: true},
		ID:          user.ID,
	}); err != nil {
		t.Fatalf("UpdateUserLastLogin: %v", err)
	}

	first, err := q.GetFirstUser(ctx)
	if err != nil {
		t.Fatalf("GetFirstUser: %v", err)
	}
	if !first.LastLoginAt.Valid || !first.LastLoginAt.Time.Equal(loginAt) {
		t.Errorf("LastLoginAt = %v, want %v", first.LastLoginAt, loginAt)
	}
}

func TestProjectCRUD(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	p, err := q.CreateProject(ctx, CreateProjectParams{
		Title:       "Terminal",
		Slug:        "terminal",
		Description: "A terminal.",
		Tags:        `["Go"]`,
		Featured:    true,
		SortOrder:   2,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	if _, err := q.CreateProject(ctx, CreateProjectParams{
		Title: "Hidden", Slug: "hidden", Description: "x", Tags: "[]", SortOrder: 1,
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	exists, err := q.ProjectSlugExists(ctx, ProjectSlugExistsParams{Slug: "terminal"})
	if err != nil || !exists {
		t.Errorf("ProjectSlugExists = %v, %v; want true", exists, err)
	}
	exists, err = q.ProjectSlugExists(ctx, ProjectSlugExistsParams{Slug: "terminal", ID: p.ID})
	if err != nil || exists {
		t.Errorf("ProjectSlugExists excluding self = %v, %v; want false", exists, err)
	}

	all, err := q.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(all) != 2 || all[0].Slug != "hidden" {
		t.Errorf("ListProjects order = %+v", all)
	}

	featured, err := q.ListFeaturedProjects(ctx)
	if err != nil {
		t.Fatalf("ListFeaturedProjects: %v", err)
	}
	if len(featured) != 1 || featured[0].ID != p.ID {
		t.Errorf("ListFeaturedProjects = %+v", featured)
	}

	updated, err := q.UpdateProject(ctx, UpdateProjectParams{
		Title: "Terminal v2", Slug: "terminal-v2", Description: "Better.", Tags: "[]",
		UpdatedAt: now, ID: p.ID,
	})
	if err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	if updated.Featured {
		t.Error("Featured should be cleared")
	}

	bySlug, err := q.GetProjectBySlug(ctx, "terminal-v2")
	if err != nil || bySlug.ID != p.ID {
		t.Errorf("GetProjectBySlug = %+v, %v", bySlug, err)
	}

	n, err := q.DeleteProject(ctx, p.ID)
	if err != nil || n != 1 {
		t.Errorf("DeleteProject = %d, %v", n, err)
	}
	n, err = q.DeleteProject(ctx, p.ID)
	if err != nil || n != 0 {
		t.Errorf("second DeleteProject = %d, %v", n, err)
	}

	count, err := q.CountProjects(ctx)
	if err != nil || count != 1 {
		t.Errorf("CountProjects = %d, %v", count, err)
	}
}

func TestSkillNameIsUnique(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	params := CreateSkillParams{Name: "Go", Category: "Backend", CreatedAt: now, UpdatedAt: now}
	if _, err := q.CreateSkill(ctx, params); err != nil {
		t.Fatalf("CreateSkill: %v", err)
	}
	if _, err := q.CreateSkill(ctx, params); err == nil {
		t.Error("expected unique constraint error for duplicate skill name")
	}
}

func TestSearchEscapesPattern(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	for _, name := range []string{"100% Go", "1000 Go"} {
		if _, err := q.CreateSkill(ctx, CreateSkillParams{Name: name, Category: "Backend", CreatedAt: now, UpdatedAt: now}); err != nil {
			t.Fatalf("CreateSkill: %v", err)
		}
	}

	got, err := q.SearchSkills(ctx, SearchParams{Pattern: `%100\%%`, Limit: 5})
	if err != nil {
		t.Fatalf("SearchSkills: %v", err)
	}
	if len(got) != 1 || got[0].Name != "100% Go" {
		t.Errorf("SearchSkills = %+v, want only \"100%% Go\"", got)
	}
}

func TestExperienceEndDate(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	current, err := q.CreateExperience(ctx, CreateExperienceParams{
		Company: "Acme", Role: "Engineer", StartDate: start, Current: true,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateExperience: %v", err)
	}
	if current.EndDate.Valid {
		t.Error("current position should have no end date")
	}

	end := time.Date(2022, 6, 30, 0, 0, 0, 0, time.UTC)
	past, err := q.UpdateExperience(ctx, UpdateExperienceParams{
		Company: "Acme", Role: "Engineer", StartDate: start,
		EndDate:   sql.NullTime{Time: end, Valid: true},
		UpdatedAt: now, ID: current.ID,
	})
	if err != nil {
		t.Fatalf("UpdateExperience: %v", err)
	}
	if !past.EndDate.Valid || !past.EndDate.Time.Equal(end) {
		t.Errorf("EndDate = %v, want %v", past.EndDate, end)
	}

	if _, err := q.GetExperience(ctx, current.ID+100); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetExperience(missing) error = %v, want sql.ErrNoRows", err)
	}
}

func TestSiteSettingsUpsert(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	if _, err := q.GetSiteSettings(ctx, GlobalSettingsID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("GetSiteSettings before save error = %v, want sql.ErrNoRows", err)
	}

	for _, title := range []string{"First", "Second"} {
		if err := q.UpsertSiteSettings(ctx, UpsertSiteSettingsParams{
			ID:          GlobalSettingsID,
			HeroTitle:   title,
			AboutSkills: "[]",
			UpdatedAt:   time.Now().UTC(),
		}); err != nil {
			t.Fatalf("UpsertSiteSettings: %v", err)
		}
	}

	s, err := q.GetSiteSettings(ctx, GlobalSettingsID)
	if err != nil {
		t.Fatalf("GetSiteSettings: %v", err)
	}
	if s.HeroTitle != "Second" {
		t.Errorf("HeroTitle = %q, want Second", s.HeroTitle)
	}
}

func TestSecurityLogs(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	levels := []string{"INFO", "WARNING", "DANGER"}
	for i, level := range levels {
		if _, err := q.CreateSecurityLog(ctx, CreateSecurityLogParams{
			Event:     "TEST",
			Level:     level,
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		}); err != nil {
			t.Fatalf("CreateSecurityLog: %v", err)
		}
	}

	after, err := q.ListSecurityLogsAfter(ctx, base)
	if err != nil {
		t.Fatalf("ListSecurityLogsAfter: %v", err)
	}
	if len(after) != 2 || after[0].Level != "WARNING" || after[1].Level != "DANGER" {
		t.Errorf("ListSecurityLogsAfter = %+v", after)
	}

	if _, err := q.CreateSecurityLog(ctx, CreateSecurityLogParams{
		Event: "TEST", Level: "DEBUG", CreatedAt: base,
	}); err == nil {
		t.Error("expected CHECK constraint failure for unknown level")
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM security_logs"); err == nil {
		t.Error("expected append-only trigger to reject DELETE")
	}

	n, err := q.CountSecurityLogsByLevel(ctx, "DANGER")
	if err != nil || n != 1 {
		t.Errorf("CountSecurityLogsByLevel = %d, %v", n, err)
	}
}

func TestPasswordResetTokens(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	user := createTestUser(t, q, "reset@example.com")
	now := time.Now().UTC()

	for hash, expires := range map[string]time.Time{
		"expired": now.Add(-time.Minute),
		"valid":   now.Add(time.Hour),
	} {
		if err := q.CreatePasswordResetToken(ctx, CreatePasswordResetTokenParams{
			TokenHash: hash, UserID: user.ID, ExpiresAt: expires, CreatedAt: now,
		}); err != nil {
			t.Fatalf("CreatePasswordResetToken: %v", err)
		}
	}

	n, err := q.DeleteExpiredPasswordResetTokens(ctx, now)
	if err != nil || n != 1 {
		t.Fatalf("DeleteExpiredPasswordResetTokens = %d, %v; want 1", n, err)
	}

	tok, err := q.GetPasswordResetToken(ctx, "valid")
	if err != nil || tok.UserID != user.ID {
		t.Errorf("GetPasswordResetToken = %+v, %v", tok, err)
	}

	if err := q.DeleteUserPasswordResetTokens(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUserPasswordResetTokens: %v", err)
	}
	if _, err := q.GetPasswordResetToken(ctx, "valid"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("token should be gone, got %v", err)
	}
}

func TestSeed(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	opts := SeedOptions{AdminEmail: "Owner@Example.com", AdminPassword: "s3cret-password"}

	if err := Seed(ctx, db, opts); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	admin, err := q.GetUserByEmail(ctx, "owner@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if admin.Name != DefaultAdminName {
		t.Errorf("Name = %q, want %q", admin.Name, DefaultAdminName)
	}

	// Second seed must not duplicate anything.
	if err := Seed(ctx, db, opts); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	skills, err := q.CountSkills(ctx)
	if err != nil || skills != int64(len(defaultSkills)) {
		t.Errorf("CountSkills = %d, %v; want %d", skills, err, len(defaultSkills))
	}
	projects, err := q.CountProjects(ctx)
	if err != nil || projects != 1 {
		t.Errorf("CountProjects = %d, %v; want 1", projects, err)
	}
}

func TestQueriesPropagateDriverErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer func() { _ = db.Close() }()

	q := New(db)
	ctx := context.Background()
	boom := errors.New("disk full")

	mock.ExpectQuery("SELECT (.+) FROM projects").WillReturnError(boom)
	if _, err := q.ListProjects(ctx); !errors.Is(err, boom) {
		t.Errorf("ListProjects error = %v, want %v", err, boom)
	}

	mock.ExpectExec("DELETE FROM password_reset_tokens").WillReturnError(boom)
	if _, err := q.DeleteExpiredPasswordResetTokens(ctx, time.Now()); !errors.Is(err, boom) {
		t.Errorf("DeleteExpiredPasswordResetTokens error = %v, want %v", err, boom)
	}

	mock.ExpectQuery("SELECT COUNT").WillReturnError(boom)
	if _, err := q.CountSkills(ctx); !errors.Is(err, boom) {
		t.Errorf("CountSkills error = %v, want %v", err, boom)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestWithTxRollback(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	createTestUser(t, New(db).WithTx(tx), "tx@example.com")
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	if _, err := New(db).GetUserByEmail(ctx, "tx@example.com"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("user should not exist after rollback, got %v", err)
	}
}
