// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	Bio          string       `json:"bio"`
	PasswordHash string       `json:"-"`
	LastLoginAt  sql.NullTime `json:"last_login_at"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type PasswordResetToken struct {
	TokenHash string    `json:"token_hash"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	LiveUrl     string    `json:"live_url"`
	GithubUrl   string    `json:"github_url"`
	Image       string    `json:"image"`
	Tags        string    `json:"tags"`
	Featured    bool      `json:"featured"`
	SortOrder   int64     `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Skill struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	SortOrder int64     `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Experience struct {
	ID          int64        `json:"id"`
	Company     string       `json:"company"`
	Role        string       `json:"role"`
	StartDate   time.Time    `json:"start_date"`
	EndDate     sql.NullTime `json:"end_date"`
	Current     bool         `json:"current"`
	Description string       `json:"description"`
	SortOrder   int64        `json:"sort_order"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type SiteSetting struct {
	ID           string    `json:"id"`
	HeroTitle    string    `json:"hero_title"`
	HeroSubtitle string    `json:"hero_subtitle"`
	MarqueeText  string    `json:"marquee_text"`
	AboutSkills  string    `json:"about_skills"`
	ContactText  string    `json:"contact_text"`
	GithubUrl    string    `json:"github_url"`
	LinkedinUrl  string    `json:"linkedin_url"`
	TwitterUrl   string    `json:"twitter_url"`
	DisplayEmail string    `json:"display_email"`
	BioHeadline  string    `json:"bio_headline"`
	BioEst       string    `json:"bio_est"`
	CvUrl        string    `json:"cv_url"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SecurityLog struct {
	ID        int64          `json:"id"`
	Event     string         `json:"event"`
	Level     string         `json:"level"`
	Details   sql.NullString `json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}

type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	IpAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}

type Upload struct {
	ID        int64         `json:"id"`
	Uuid      string        `json:"uuid"`
	Filename  string        `json:"filename"`
	MimeType  string        `json:"mime_type"`
	Size      int64         `json:"size"`
	Width     sql.NullInt64 `json:"width"`
	Height    sql.NullInt64 `json:"height"`
	CreatedAt time.Time     `json:"created_at"`
}
