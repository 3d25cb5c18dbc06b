// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/folio-go/internal/auth"
)

// Default admin credentials, used when none are configured.
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

// SeedOptions controls the initial admin account.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
}

type seedSkill struct {
	name     string
	category string
	order    int64
}

var defaultSkills = []seedSkill{
	{"React", "Frontend", 1},
	{"Next.js", "Frontend", 2},
	{"Node.js", "Backend", 3},
	{"TypeScript", "Frontend", 4},
	{"PostgreSQL", "Backend", 5},
	{"TailwindCSS", "Frontend", 6},
}

// Seed creates the admin user and starter portfolio content. It is idempotent.
func Seed(ctx context.Context, db *sql.DB, opts SeedOptions) error {
	opts.AdminEmail = strings.ToLower(strings.TrimSpace(opts.AdminEmail))
	if opts.AdminEmail == "" {
		opts.AdminEmail = DefaultAdminEmail
	}
	if opts.AdminPassword == "" {
		opts.AdminPassword = DefaultAdminPassword
	}

	queries := New(db)
	now := time.Now().UTC()

	if err := seedAdmin(ctx, queries, opts, now); err != nil {
		return err
	}

	for _, s := range defaultSkills {
		_, err := queries.GetSkillByName(ctx, s.name)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking skill %q: %w", s.name, err)
		}
		if _, err := queries.CreateSkill(ctx, CreateSkillParams{
			Name:      s.name,
			Category:  s.category,
			SortOrder: s.order,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("creating skill %q: %w", s.name, err)
		}
	}

	expCount, err := queries.CountExperience(ctx)
	if err != nil {
		return fmt.Errorf("counting experience: %w", err)
	}
	if expCount == 0 {
		if _, err := queries.CreateExperience(ctx, CreateExperienceParams{
			Company:     "Tech Corp",
			Role:        "Full-Stack Engineer",
			StartDate:   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			Current:     true,
			Description: "Building brutalist interfaces.",
			SortOrder:   1,
			CreatedAt:   now,
			UpdatedAt:   now,
		}); err != nil {
			return fmt.Errorf("creating experience: %w", err)
		}
	}

	projectCount, err := queries.CountProjects(ctx)
	if err != nil {
		return fmt.Errorf("counting projects: %w", err)
	}
	if projectCount == 0 {
		if _, err := queries.CreateProject(ctx, CreateProjectParams{
			Title:       "Brutalist Portfolio",
			Slug:        "brutalist-portfolio",
			Description: "A striking personal portfolio built with Next.js 15 and Tailwind v4.",
			Tags:        `["Next.js","React","TailwindCSS"]`,
			Featured:    true,
			SortOrder:   1,
			CreatedAt:   now,
			UpdatedAt:   now,
		}); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
	}

	slog.Info("seed complete", "skills", len(defaultSkills))
	return nil
}

func seedAdmin(ctx context.Context, queries *Queries, opts SeedOptions, now time.Time) error {
	_, err := queries.GetUserByEmail(ctx, opts.AdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        opts.AdminEmail,
		Name:         DefaultAdminName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created admin user", "id", user.ID, "email", user.Email)
	if opts.AdminPassword == DefaultAdminPassword {
		slog.Warn("admin user was created with the default password; change it after first login")
	}
	return nil
}
