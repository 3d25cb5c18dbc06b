// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"encoding/json"
	"time"

	"github.com/olegiv/folio-go/internal/store"
	"github.com/olegiv/folio-go/internal/util"
)

// Project is the API representation of a portfolio project.
type Project struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description"`
	DescriptionHTML string    `json:"descriptionHtml,omitempty"`
	LiveURL         string    `json:"liveUrl"`
	GithubURL       string    `json:"githubUrl"`
	Image           string    `json:"image"`
	Tags            []string  `json:"tags"`
	Featured        bool      `json:"featured"`
	Order           int64     `json:"order"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Skill is the API representation of a skill.
type Skill struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Order     int64     `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Experience is the API representation of a position.
type Experience struct {
	ID              int64      `json:"id"`
	Company         string     `json:"company"`
	Role            string     `json:"role"`
	StartDate       time.Time  `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
	Current         bool       `json:"current"`
	Description     string     `json:"description"`
	DescriptionHTML string     `json:"descriptionHtml,omitempty"`
	Order           int64      `json:"order"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// Settings is the singleton site configuration.
type Settings struct {
	HeroTitle    string    `json:"heroTitle"`
	HeroSubtitle string    `json:"heroSubtitle"`
	MarqueeText  string    `json:"marqueeText"`
	AboutSkills  []string  `json:"aboutSkills"`
	ContactText  string    `json:"contactText"`
	GithubURL    string    `json:"githubUrl"`
	LinkedinURL  string    `json:"linkedinUrl"`
	TwitterURL   string    `json:"twitterUrl"`
	DisplayEmail string    `json:"displayEmail"`
	BioHeadline  string    `json:"bioHeadline"`
	BioEst       string    `json:"bioEst"`
	CvURL        string    `json:"cvUrl"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile is the site owner's public profile.
type Profile struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Bio         string     `json:"bio"`
	BioHTML     string     `json:"bioHtml,omitempty"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
}

func projectFromRow(p store.Project) Project {
	return Project{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		LiveURL:     p.LiveUrl,
		GithubURL:   p.GithubUrl,
		Image:       p.Image,
		Tags:        decodeStrings(p.Tags),
		Featured:    p.Featured,
		Order:       p.SortOrder,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func projectsFromRows(rows []store.Project) []Project {
	out := make([]Project, 0, len(rows))
	for _, p := range rows {
		out = append(out, projectFromRow(p))
	}
	return out
}

func skillFromRow(s store.Skill) Skill {
	return Skill{
		ID:        s.ID,
		Name:      s.Name,
		Category:  s.Category,
		Order:     s.SortOrder,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func skillsFromRows(rows []store.Skill) []Skill {
	out := make([]Skill, 0, len(rows))
	for _, s := range rows {
		out = append(out, skillFromRow(s))
	}
	return out
}

func experienceFromRow(e store.Experience) Experience {
	return Experience{
		ID:          e.ID,
		Company:     e.Company,
		Role:        e.Role,
		StartDate:   e.StartDate,
		EndDate:     util.TimePtr(e.EndDate),
		Current:     e.Current,
		Description: e.Description,
		Order:       e.SortOrder,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func experiencesFromRows(rows []store.Experience) []Experience {
	out := make([]Experience, 0, len(rows))
	for _, e := range rows {
		out = append(out, experienceFromRow(e))
	}
	return out
}

func settingsFromRow(s store.SiteSetting) Settings {
	return Settings{
		HeroTitle:    s.HeroTitle,
		HeroSubtitle: s.HeroSubtitle,
		MarqueeText:  s.MarqueeText,
		AboutSkills:  decodeStrings(s.AboutSkills),
		ContactText:  s.ContactText,
		GithubURL:    s.GithubUrl,
		LinkedinURL:  s.LinkedinUrl,
		TwitterURL:   s.TwitterUrl,
		DisplayEmail: s.DisplayEmail,
		BioHeadline:  s.BioHeadline,
		BioEst:       s.BioEst,
		CvURL:        s.CvUrl,
		UpdatedAt:    s.UpdatedAt,
	}
}

func profileFromRow(u store.User) Profile {
	return Profile{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Bio:         u.Bio,
		LastLoginAt: util.TimePtr(u.LastLoginAt),
	}
}

// decodeStrings reads a JSON string array column. Corrupt values read as empty.
func decodeStrings(raw string) []string {
	out := []string{}
	if raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []string{}
	}
	return out
}

func encodeStrings(values []string) string {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}
