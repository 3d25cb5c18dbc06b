// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/folio-go/internal/cache"
	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/store"
	"github.com/olegiv/folio-go/internal/util"
)

// Errors returned by the content services.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// publicCachePrefix namespaces every cached public payload, so a single
// DeleteByPrefix invalidates them after a mutation.
const publicCachePrefix = "public:"

// ContentService manages projects, skills, experience and the site
// settings. Every successful mutation is recorded in the security log and
// invalidates the public content cache.
type ContentService struct {
	queries *store.Queries
	events  *EventService
	cache   cache.Cache
	logger  *slog.Logger
	now     func() time.Time
}

// NewContentService creates a ContentService. c may be nil.
func NewContentService(db store.DBTX, events *EventService, c cache.Cache, logger *slog.Logger) *ContentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentService{
		queries: store.New(db),
		events:  events,
		cache:   c,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *ContentService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPrefix(context.WithoutCancel(ctx), publicCachePrefix); err != nil {
		s.logger.Warn("failed to invalidate public cache", "error", err)
	}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// notFound maps sql.ErrNoRows to ErrNotFound and wraps anything else.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("loading %s: %w", what, err)
}

// Projects

// ListProjects returns all projects in display order.
func (s *ContentService) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.queries.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projectsFromRows(rows), nil
}

// GetProject returns a project by id.
func (s *ContentService) GetProject(ctx context.Context, id int64) (Project, error) {
	p, err := s.queries.GetProject(ctx, id)
	if err != nil {
		return Project{}, notFound(err, "project")
	}
	return projectFromRow(p), nil
}

// GetProjectBySlug returns a project by slug.
func (s *ContentService) GetProjectBySlug(ctx context.Context, slug string) (Project, error) {
	p, err := s.queries.GetProjectBySlug(ctx, slug)
	if err != nil {
		return Project{}, notFound(err, "project")
	}
	return projectFromRow(p), nil
}

func (s *ContentService) projectSlug(ctx context.Context, title string, id int64) (string, error) {
	return util.UniqueSlug(title, func(slug string) (bool, error) {
		return s.queries.ProjectSlugExists(ctx, store.ProjectSlugExistsParams{Slug: slug, ID: id})
	})
}

// CreateProject validates in and stores a new project.
func (s *ContentService) CreateProject(ctx context.Context, in model.ProjectInput) (Project, error) {
	in.Normalize()
	if err := in.Validate().Err(); err != nil {
		return Project{}, err
	}

	slug, err := s.projectSlug(ctx, in.Title, 0)
	if err != nil {
		return Project{}, fmt.Errorf("generating slug: %w", err)
	}

	now := s.now().UTC()
	p, err := s.queries.CreateProject(ctx, store.CreateProjectParams{
		Title:       in.Title,
		Slug:        slug,
		Description: in.Description,
		LiveUrl:     in.LiveURL,
		GithubUrl:   in.GithubURL,
		Image:       in.Image,
		Tags:        encodeStrings(in.Tags),
		Featured:    in.Featured,
		SortOrder:   in.Order,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return Project{}, fmt.Errorf("project slug %q: %w", slug, ErrConflict)
		}
		return Project{}, fmt.Errorf("creating project: %w", err)
	}

	s.events.Info(ctx, model.EventCreateProject, fmt.Sprintf("Project %q created.", p.Title))
	s.invalidate(ctx)
	return projectFromRow(p), nil
}

// UpdateProject replaces a project's fields. The slug follows the title.
func (s *ContentService) UpdateProject(ctx context.Context, id int64, in model.ProjectInput) (Project, error) {
	in.Normalize()
	if err := in.Validate().Err(); err != nil {
		return Project{}, err
	}

	existing, err := s.queries.GetProject(ctx, id)
	if err != nil {
		return Project{}, notFound(err, "project")
	}

	slug := existing.Slug
	if in.Title != existing.Title {
		if slug, err = s.projectSlug(ctx, in.Title, id); err != nil {
			return Project{}, fmt.Errorf("generating slug: %w", err)
		}
	}

	p, err := s.queries.UpdateProject(ctx, store.UpdateProjectParams{
		Title:       in.Title,
		Slug:        slug,
		Description: in.Description,
		LiveUrl:     in.LiveURL,
		GithubUrl:   in.GithubURL,
		Image:       in.Image,
		Tags:        encodeStrings(in.Tags),
		Featured:    in.Featured,
		SortOrder:   in.Order,
		UpdatedAt:   s.now().UTC(),
		ID:          id,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return Project{}, fmt.Errorf("project slug %q: %w", slug, ErrConflict)
		}
		return Project{}, notFound(err, "project")
	}

	s.events.Info(ctx, model.EventUpdateProject, fmt.Sprintf("Project %q updated.", p.Title))
	s.invalidate(ctx)
	return projectFromRow(p), nil
}

// DeleteProject removes a project.
func (s *ContentService) DeleteProject(ctx context.Context, id int64) error {
	existing, err := s.queries.GetProject(ctx, id)
	if err != nil {
		return notFound(err, "project")
	}
	n, err := s.queries.DeleteProject(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("project: %w", ErrNotFound)
	}

	s.events.Warning(ctx, model.EventDeleteProject, fmt.Sprintf("Project %q deleted.", existing.Title))
	s.invalidate(ctx)
	return nil
}

// Skills

// ListSkills returns all skills in display order.
func (s *ContentService) ListSkills(ctx context.Context) ([]Skill, error) {
	rows, err := s.queries.ListSkills(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing skills: %w", err)
	}
	return skillsFromRows(rows), nil
}

// GetSkill returns a skill by id.
func (s *ContentService) GetSkill(ctx context.Context, id int64) (Skill, error) {
	sk, err := s.queries.GetSkill(ctx, id)
	if err != nil {
		return Skill{}, notFound(err, "skill")
	}
	return skillFromRow(sk), nil
}

// CreateSkill stores a new skill. Names are unique.
func (s *ContentService) CreateSkill(ctx context.Context, in model.SkillInput) (Skill, error) {
	in.Normalize()
	if err := in.Validate().Err(); err != nil {
		return Skill{}, err
	}

	now := s.now().UTC()
	sk, err := s.queries.CreateSkill(ctx, store.CreateSkillParams{
		Name:      in.Name,
		Category:  in.Category,
		SortOrder: in.Order,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return Skill{}, fmt.Errorf("skill %q: %w", in.Name, ErrConflict)
		}
		return Skill{}, fmt.Errorf("creating skill: %w", err)
	}

	s.events.Info(ctx, model.EventCreateSkill, fmt.Sprintf("Skill %q created.", sk.Name))
	s.invalidate(ctx)
	return skillFromRow(sk), nil
}

// UpdateSkill replaces a skill's fields.
func (s *ContentService) UpdateSkill(ctx context.Context, id int64, in model.SkillInput) (Skill, error) {
	in.Normalize()
	if err := in.Validate().Err(); err != nil {
		return Skill{}, err
	}

	sk, err := s.queries.UpdateSkill(ctx, store.UpdateSkillParams{
		Name:      in.Name,
		Category:  in.Category,
		SortOrder: in.Order,
		UpdatedAt: s.now().UTC(),
		ID:        id,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return Skill{}, fmt.Errorf("skill %q: %w", in.Name, ErrConflict)
		}
		return Skill{}, notFound(err, "skill")
	}

	s.events.Info(ctx, model.EventUpdateSkill, fmt.Sprintf("Skill %q updated.", sk.Name))
	s.invalidate(ctx)
	return skillFromRow(sk), nil
}

// DeleteSkill removes a skill.
func (s *ContentService) DeleteSkill(ctx context.Context, id int64) error {
	existing, err := s.queries.GetSkill(ctx, id)
	if err != nil {
		return notFound(err, "skill")
	}
	n, err := s.queries.DeleteSkill(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting skill: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("skill: %w", ErrNotFound)
	}

	s.events.Warning(ctx, model.EventDeleteSkill, fmt.Sprintf("Skill %q deleted.", existing.Name))
	s.invalidate(ctx)
	return nil
}

// Experience

// ListExperience returns all positions in display order.
func (s *ContentService) ListExperience(ctx context.Context) ([]Experience, error) {
	rows, err := s.queries.ListExperience(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing experience: %w", err)
	}
	return experiencesFromRows(rows), nil
}

// GetExperience returns a position by id.
func (s *ContentService) GetExperience(ctx context.Context, id int64) (Experience, error) {
	e, err := s.queries.GetExperience(ctx, id)
	if err != nil {
		return Experience{}, notFound(err, "experience")
	}
	return experienceFromRow(e), nil
}

// experienceDates parses validated input dates.
func experienceDates(in model.ExperienceInput) (time.Time, sql.NullTime) {
	start, _ := model.ParseDate(in.StartDate)
	var end sql.NullTime
	if !in.Current && in.EndDate != "" {
		if t, err := model.ParseDate(in.EndDate); err == nil {
			end = sql.NullTime{Time: t, Valid: true}
		}
	}
	return start, end
}

// CreateExperience stores a new position.
func (s *ContentService) CreateExperience(ctx context.Context, in model.ExperienceInput) (Experience, error) {
	in.Normalize()
	if err := in.Validate().Err(); err != nil {
		return Experience{}, err
	}

	start, end := experienceDates(in)
	now := s.now().UTC()
	e, err := s.queries.CreateExperience(ctx, store.CreateExperienceParams{
		Company:     in.Company,
		Role:        in.Role,
		StartDate:   start,
		EndDate:     end,
		Current:     in.Current,
		Description: in.Description,
		SortOrder:   in.Order,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return Experience{}, fmt.Errorf("creating experience: %w", err)
	}

	s.events.Info(ctx, model.EventCreateExperience, fmt.Sprintf("Experience %q at %q created.", e.Role, e.Company))
	s.invalidate(ctx)
	return experienceFromRow(e), nil
}

// UpdateExperience replaces a position's fields.
func (s *ContentService) UpdateExperience(ctx context.Context, id int64, in model.ExperienceInput) (Experience, error) {
	in.Normalize()
	if err := in.Validate().Err(); err != nil {
		return Experience{}, err
	}

	start, end := experienceDates(in)
	e, err := s.queries.UpdateExperience(ctx, store.UpdateExperienceParams{
		Company:     in.Company,
		Role:        in.Role,
		StartDate:   start,
		EndDate:     end,
		Current:     in.Current,
		Description: in.Description,
		SortOrder:   in.Order,
		UpdatedAt:   s.now().UTC(),
		ID:          id,
	})
	if err != nil {
		return Experience{}, notFound(err, "experience")
	}

	s.events.Info(ctx, model.EventUpdateExperience, fmt.Sprintf("Experience %q at %q updated.", e.Role, e.Company))
	s.invalidate(ctx)
	return experienceFromRow(e), nil
}

// DeleteExperience removes a position.
func (s *ContentService) DeleteExperience(ctx context.Context, id int64) error {
	existing, err := s.queries.GetExperience(ctx, id)
	if err != nil {
		return notFound(err, "experience")
	}
	n, err := s.queries.DeleteExperience(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting experience: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("experience: %w", ErrNotFound)
	}

	s.events.Warning(ctx, model.EventDeleteExperience,
		fmt.Sprintf("Experience %q at %q deleted.", existing.Role, existing.Company))
	s.invalidate(ctx)
	return nil
}

// Settings

// GetSettings returns the site settings. Empty defaults are returned until
// the settings are first saved.
func (s *ContentService) GetSettings(ctx context.Context) (Settings, error) {
	row, err := s.queries.GetSiteSettings(ctx, store.GlobalSettingsID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Settings{AboutSkills: []string{}}, nil
		}
		return Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	return settingsFromRow(row), nil
}

// UpdateSettings applies the non-nil fields of in.
func (s *ContentService) UpdateSettings(ctx context.Context, in model.SettingsInput) (Settings, error) {
	if err := in.Validate().Err(); err != nil {
		return Settings{}, err
	}

	current, err := s.GetSettings(ctx)
	if err != nil {
		return Settings{}, err
	}

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&current.HeroTitle, in.HeroTitle)
	set(&current.HeroSubtitle, in.HeroSubtitle)
	set(&current.MarqueeText, in.MarqueeText)
	set(&current.ContactText, in.ContactText)
	set(&current.GithubURL, in.GithubURL)
	set(&current.LinkedinURL, in.LinkedinURL)
	set(&current.TwitterURL, in.TwitterURL)
	set(&current.DisplayEmail, in.DisplayEmail)
	set(&current.BioHeadline, in.BioHeadline)
	set(&current.BioEst, in.BioEst)
	set(&current.CvURL, in.CvURL)
	if in.AboutSkills != nil {
		current.AboutSkills = *in.AboutSkills
	}

	saved, err := s.saveSettings(ctx, current)
	if err != nil {
		return Settings{}, err
	}

	s.events.Info(ctx, model.EventUpdateSettings, "Site settings updated by admin.")
	s.invalidate(ctx)
	return saved, nil
}

// SetCVURL points the download-cv link at url.
func (s *ContentService) SetCVURL(ctx context.Context, url string) error {
	current, err := s.GetSettings(ctx)
	if err != nil {
		return err
	}
	current.CvURL = url
	if _, err := s.saveSettings(ctx, current); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ContentService) saveSettings(ctx context.Context, v Settings) (Settings, error) {
	v.UpdatedAt = s.now().UTC()
	err := s.queries.UpsertSiteSettings(ctx, store.UpsertSiteSettingsParams{
		ID:           store.GlobalSettingsID,
		HeroTitle:    v.HeroTitle,
		HeroSubtitle: v.HeroSubtitle,
		MarqueeText:  v.MarqueeText,
		AboutSkills:  encodeStrings(v.AboutSkills),
		ContactText:  v.ContactText,
		GithubUrl:    v.GithubURL,
		LinkedinUrl:  v.LinkedinURL,
		TwitterUrl:   v.TwitterURL,
		DisplayEmail: v.DisplayEmail,
		BioHeadline:  v.BioHeadline,
		BioEst:       v.BioEst,
		CvUrl:        v.CvURL,
		UpdatedAt:    v.UpdatedAt,
	})
	if err != nil {
		return Settings{}, fmt.Errorf("saving settings: %w", err)
	}
	if v.AboutSkills == nil {
		v.AboutSkills = []string{}
	}
	return v, nil
}

// Profile

// GetProfile returns the profile of user id.
func (s *ContentService) GetProfile(ctx context.Context, id int64) (Profile, error) {
	u, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		return Profile{}, notFound(err, "user")
	}
	return profileFromRow(u), nil
}

// UpdateProfile changes the name, email and bio of user id. The email must
// not belong to another account.
func (s *ContentService) UpdateProfile(ctx context.Context, id int64, in model.ProfileInput) (Profile, error) {
	in.Normalize()
	if err := in.Validate().Err(); err != nil {
		return Profile{}, err
	}

	u, err := s.queries.UpdateUserProfile(ctx, store.UpdateUserProfileParams{
		Name:      in.Name,
		Email:     in.Email,
		Bio:       in.Bio,
		UpdatedAt: s.now().UTC(),
		ID:        id,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return Profile{}, fmt.Errorf("email %q: %w", in.Email, ErrConflict)
		}
		return Profile{}, notFound(err, "user")
	}

	s.events.Info(ctx, model.EventUpdateProfile, "Admin profile details updated.")
	s.invalidate(ctx)
	return profileFromRow(u), nil
}

// Stats counts the portfolio content.
type Stats struct {
	Projects     int64 `json:"projects"`
	Skills       int64 `json:"skills"`
	Experience   int64 `json:"experience"`
	SecurityLogs int64 `json:"securityLogs"`
}

// Stats returns content counts for the dashboard.
func (s *ContentService) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error
	if st.Projects, err = s.queries.CountProjects(ctx); err != nil {
		return Stats{}, fmt.Errorf("counting projects: %w", err)
	}
	if st.Skills, err = s.queries.CountSkills(ctx); err != nil {
		return Stats{}, fmt.Errorf("counting skills: %w", err)
	}
	if st.Experience, err = s.queries.CountExperience(ctx); err != nil {
		return Stats{}, fmt.Errorf("counting experience: %w", err)
	}
	if st.SecurityLogs, err = s.queries.CountSecurityLogs(ctx); err != nil {
		return Stats{}, fmt.Errorf("counting security logs: %w", err)
	}
	return st, nil
}
