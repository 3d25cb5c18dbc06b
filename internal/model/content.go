// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultSkillCategory is used when a skill is submitted without a category.
const DefaultSkillCategory = "Frontend"

// ValidationErrors maps a JSON field name to a human readable message.
type ValidationErrors map[string]string

// Add records msg for field unless the field already has an error.
func (v ValidationErrors) Add(field, msg string) {
	if _, ok := v[field]; !ok {
		v[field] = msg
	}
}

// Err returns v as an error, or nil when there are no entries.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for field, msg := range v {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ProjectInput is the writable part of a project.
type ProjectInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	LiveURL     string   `json:"liveUrl"`
	GithubURL   string   `json:"githubUrl"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
	Featured    bool     `json:"featured"`
	Order       int64    `json:"order"`
}

// Normalize trims whitespace and drops empty or duplicate tags.
func (in *ProjectInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.LiveURL = strings.TrimSpace(in.LiveURL)
	in.GithubURL = strings.TrimSpace(in.GithubURL)
	in.Image = strings.TrimSpace(in.Image)

	seen := make(map[string]bool, len(in.Tags))
	tags := make([]string, 0, len(in.Tags))
	for _, tag := range in.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[strings.ToLower(tag)] {
			continue
		}
		seen[strings.ToLower(tag)] = true
		tags = append(tags, tag)
	}
	in.Tags = tags
}

// Validate checks a normalized project input.
func (in ProjectInput) Validate() ValidationErrors {
	errs := ValidationErrors{}
	checkLength(errs, "title", in.Title, 1, 100)
	if in.Description == "" {
		errs.Add("description", "Description is required")
	}
	checkOptionalURL(errs, "liveUrl", in.LiveURL)
	checkOptionalURL(errs, "githubUrl", in.GithubURL)
	checkOptionalURL(errs, "image", in.Image)
	for _, tag := range in.Tags {
		if utf8.RuneCountInString(tag) > 50 {
			errs.Add("tags", "Each tag must be at most 50 characters")
		}
	}
	return errs
}

// SkillInput is the writable part of a skill.
type SkillInput struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Order    int64  `json:"order"`
}

// Normalize trims whitespace and applies the default category.
func (in *SkillInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Category == "" {
		in.Category = DefaultSkillCategory
	}
}

// Validate checks a normalized skill input.
func (in SkillInput) Validate() ValidationErrors {
	errs := ValidationErrors{}
	checkLength(errs, "name", in.Name, 1, 50)
	checkLength(errs, "category", in.Category, 1, 50)
	return errs
}

// ExperienceInput is the writable part of an experience entry.
// Dates are accepted as YYYY-MM-DD or RFC 3339.
type ExperienceInput struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
	Order       int64  `json:"order"`
}

// Normalize trims whitespace. A current position has no end date.
func (in *ExperienceInput) Normalize() {
	in.Company = strings.TrimSpace(in.Company)
	in.Role = strings.TrimSpace(in.Role)
	in.StartDate = strings.TrimSpace(in.StartDate)
	in.EndDate = strings.TrimSpace(in.EndDate)
	in.Description = strings.TrimSpace(in.Description)
	if in.Current {
		in.EndDate = ""
	}
}

// Validate checks a normalized experience input.
func (in ExperienceInput) Validate() ValidationErrors {
	errs := ValidationErrors{}
	checkLength(errs, "company", in.Company, 1, 100)
	checkLength(errs, "role", in.Role, 1, 100)

	start, err := ParseDate(in.StartDate)
	if err != nil {
		errs.Add("startDate", "Start date must be a valid date")
	}

	if !in.Current {
		if in.EndDate == "" {
			errs.Add("endDate", "End date is required unless this is your current position")
		} else if end, err := ParseDate(in.EndDate); err != nil {
			errs.Add("endDate", "End date must be a valid date")
		} else if !start.IsZero() && end.Before(start) {
			errs.Add("endDate", "End date must not be before the start date")
		}
	}
	return errs
}

// ParseDate parses YYYY-MM-DD or an RFC 3339 timestamp into UTC.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t.UTC(), nil
}

// SettingsInput is a partial update of the site settings; nil fields are left unchanged.
type SettingsInput struct {
	HeroTitle    *string   `json:"heroTitle"`
	HeroSubtitle *string   `json:"heroSubtitle"`
	MarqueeText  *string   `json:"marqueeText"`
	AboutSkills  *[]string `json:"aboutSkills"`
	ContactText  *string   `json:"contactText"`
	GithubURL    *string   `json:"githubUrl"`
	LinkedinURL  *string   `json:"linkedinUrl"`
	TwitterURL   *string   `json:"twitterUrl"`
	DisplayEmail *string   `json:"displayEmail"`
	BioHeadline  *string   `json:"bioHeadline"`
	BioEst       *string   `json:"bioEst"`
	CvURL        *string   `json:"cvUrl"`
}

// Validate checks the fields that are present.
func (in SettingsInput) Validate() ValidationErrors {
	errs := ValidationErrors{}
	for field, v := range map[string]*string{
		"githubUrl":   in.GithubURL,
		"linkedinUrl": in.LinkedinURL,
		"twitterUrl":  in.TwitterURL,
		"cvUrl":       in.CvURL,
	} {
		if v != nil {
			checkOptionalURL(errs, field, strings.TrimSpace(*v))
		}
	}
	if in.DisplayEmail != nil && strings.TrimSpace(*in.DisplayEmail) != "" {
		checkEmail(errs, "displayEmail", strings.TrimSpace(*in.DisplayEmail))
	}
	if in.HeroTitle != nil && utf8.RuneCountInString(*in.HeroTitle) > 200 {
		errs.Add("heroTitle", "Hero title must be at most 200 characters")
	}
	return errs
}

// ProfileInput updates the admin's public profile.
type ProfileInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Bio   string `json:"bio"`
}

// Normalize trims whitespace and lowercases the email.
func (in *ProfileInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Bio = strings.TrimSpace(in.Bio)
}

// Validate checks a normalized profile input.
func (in ProfileInput) Validate() ValidationErrors {
	errs := ValidationErrors{}
	checkLength(errs, "name", in.Name, 1, 100)
	checkEmail(errs, "email", in.Email)
	if utf8.RuneCountInString(in.Bio) > 5000 {
		errs.Add("bio", "Bio must be at most 5000 characters")
	}
	return errs
}

// ContactInput is a message submitted through the public contact form.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Normalize trims whitespace.
func (in *ContactInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
}

// Validate requires every field.
func (in ContactInput) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if in.Name == "" {
		errs.Add("name", "Name is required")
	}
	if in.Email == "" {
		errs.Add("email", "Email is required")
	} else {
		checkEmail(errs, "email", in.Email)
	}
	if in.Message == "" {
		errs.Add("message", "Message is required")
	}
	checkLength(errs, "name", in.Name, 0, 100)
	checkLength(errs, "message", in.Message, 0, 5000)
	return errs
}

func checkLength(errs ValidationErrors, field, value string, minLen, maxLen int) {
	n := utf8.RuneCountInString(value)
	switch {
	case n < minLen && minLen == 1:
		errs.Add(field, fmt.Sprintf("%s is required", label(field)))
	case n < minLen:
		errs.Add(field, fmt.Sprintf("%s must be at least %d characters", label(field), minLen))
	case n > maxLen:
		errs.Add(field, fmt.Sprintf("%s must be at most %d characters", label(field), maxLen))
	}
}

func checkOptionalURL(errs ValidationErrors, field, value string) {
	if value == "" {
		return
	}
	if !IsHTTPURL(value) {
		errs.Add(field, "Must be a valid URL")
	}
}

func checkEmail(errs ValidationErrors, field, value string) {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		errs.Add(field, "Must be a valid email address")
	}
}

// IsHTTPURL reports whether s is an absolute http or https URL with a host,
// or a root-relative path such as an uploaded file.
func IsHTTPURL(s string) bool {
	if strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//") {
		return true
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func label(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
