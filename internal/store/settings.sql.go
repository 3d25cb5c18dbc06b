// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// GlobalSettingsID is the key of the singleton site settings row.
const GlobalSettingsID = "global"

const siteSettingColumns = `id, hero_title, hero_subtitle, marquee_text, about_skills, contact_text, github_url, linkedin_url, twitter_url, display_email, bio_headline, bio_est, cv_url, updated_at`

const getSiteSettings = `-- name: GetSiteSettings :one
SELECT ` + siteSettingColumns + ` FROM site_settings WHERE id = ?
`

func (q *Queries) GetSiteSettings(ctx context.Context, id string) (SiteSetting, error) {
	row := q.db.QueryRowContext(ctx, getSiteSettings, id)
	var i SiteSetting
	err := row.Scan(
		&i.ID,
		&i.HeroTitle,
		&i.HeroSubtitle,
		&i.MarqueeText,
		&i.AboutSkills,
		&i.ContactText,
		&i.GithubUrl,
		&i.LinkedinUrl,
		&i.TwitterUrl,
		&i.DisplayEmail,
		&i.BioHeadline,
		&i.BioEst,
		&i.CvUrl,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertSiteSettings = `-- name: UpsertSiteSettings :exec
INSERT INTO site_settings (id, hero_title, hero_subtitle, marquee_text, about_skills, contact_text, github_url, linkedin_url, twitter_url, display_email, bio_headline, bio_est, cv_url, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    hero_title = excluded.hero_title,
    hero_subtitle = excluded.hero_subtitle,
    marquee_text = excluded.marquee_text,
    about_skills = excluded.about_skills,
    contact_text = excluded.contact_text,
    github_url = excluded.github_url,
    linkedin_url = excluded.linkedin_url,
    twitter_url = excluded.twitter_url,
    display_email = excluded.display_email,
    bio_headline = excluded.bio_headline,
    bio_est = excluded.bio_est,
    cv_url = excluded.cv_url,
    updated_at = excluded.updated_at
`

type UpsertSiteSettingsParams struct {
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

func (q *Queries) UpsertSiteSettings(ctx context.Context, arg UpsertSiteSettingsParams) error {
	_, err := q.db.ExecContext(ctx, upsertSiteSettings,
		arg.ID,
		arg.HeroTitle,
		arg.HeroSubtitle,
		arg.MarqueeText,
		arg.AboutSkills,
		arg.ContactText,
		arg.GithubUrl,
		arg.LinkedinUrl,
		arg.TwitterUrl,
		arg.DisplayEmail,
		arg.BioHeadline,
		arg.BioEst,
		arg.CvUrl,
		arg.UpdatedAt,
	)
	return err
}
