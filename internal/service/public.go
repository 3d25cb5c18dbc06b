// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/folio-go/internal/cache"
	"github.com/olegiv/folio-go/internal/store"
)

// Cache keys for public payloads. All share publicCachePrefix.
const (
	siteCacheKey     = publicCachePrefix + "site"
	projectsCacheKey = publicCachePrefix + "projects"
)

// SitePayload is everything the public home page needs in one response.
type SitePayload struct {
	Settings   Settings     `json:"settings"`
	Profile    *Profile     `json:"profile"`
	Projects   []Project    `json:"projects"`
	Skills     []Skill      `json:"skills"`
	Experience []Experience `json:"experience"`
}

// PublicService serves read-only, cached portfolio content with markdown
// rendered to sanitized HTML.
type PublicService struct {
	content  *ContentService
	queries  *store.Queries
	md       *Markdown
	site     *cache.TypedCache[SitePayload]
	projects *cache.TypedCache[[]Project]
}

// NewPublicService creates a PublicService backed by c.
func NewPublicService(db store.DBTX, content *ContentService, c cache.Cache, ttl time.Duration, md *Markdown) *PublicService {
	if md == nil {
		md = NewMarkdown()
	}
	return &PublicService{
		content:  content,
		queries:  store.New(db),
		md:       md,
		site:     cache.NewTypedCache[SitePayload](c, ttl),
		projects: cache.NewTypedCache[[]Project](c, ttl),
	}
}

// Site returns the home page payload: settings, the owner's profile,
// featured projects, skills and experience.
func (s *PublicService) Site(ctx context.Context) (*SitePayload, error) {
	return s.site.GetOrLoad(ctx, siteCacheKey, s.loadSite)
}

func (s *PublicService) loadSite(ctx context.Context) (*SitePayload, error) {
	var p SitePayload
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		settings, err := s.content.GetSettings(gctx)
		p.Settings = settings
		return err
	})
	g.Go(func() error {
		u, err := s.queries.GetFirstUser(gctx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("loading owner: %w", err)
		}
		profile := profileFromRow(u)
		profile.Email = ""
		profile.LastLoginAt = nil
		profile.BioHTML = s.md.Render(profile.Bio)
		p.Profile = &profile
		return nil
	})
	g.Go(func() error {
		rows, err := s.queries.ListFeaturedProjects(gctx)
		if err != nil {
			return fmt.Errorf("listing featured projects: %w", err)
		}
		p.Projects = s.renderProjects(projectsFromRows(rows))
		return nil
	})
	g.Go(func() error {
		skills, err := s.content.ListSkills(gctx)
		p.Skills = skills
		return err
	})
	g.Go(func() error {
		exp, err := s.content.ListExperience(gctx)
		for i := range exp {
			exp[i].DescriptionHTML = s.md.Render(exp[i].Description)
		}
		p.Experience = exp
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Projects returns every project in display order.
func (s *PublicService) Projects(ctx context.Context) ([]Project, error) {
	projects, err := s.projects.GetOrLoad(ctx, projectsCacheKey, func(ctx context.Context) (*[]Project, error) {
		projects, err := s.content.ListProjects(ctx)
		if err != nil {
			return nil, err
		}
		projects = s.renderProjects(projects)
		return &projects, nil
	})
	if err != nil {
		return nil, err
	}
	return *projects, nil
}

// Project looks a project up by numeric id or by slug.
func (s *PublicService) Project(ctx context.Context, idOrSlug string) (Project, error) {
	var (
		p   Project
		err error
	)
	if id, perr := strconv.ParseInt(idOrSlug, 10, 64); perr == nil {
		p, err = s.content.GetProject(ctx, id)
	} else {
		p, err = s.content.GetProjectBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return Project{}, err
	}
	p.DescriptionHTML = s.md.Render(p.Description)
	return p, nil
}

// Warm loads the site payload into the cache.
func (s *PublicService) Warm(ctx context.Context) error {
	if _, err := s.Site(ctx); err != nil {
		return err
	}
	_, err := s.Projects(ctx)
	return err
}

func (s *PublicService) renderProjects(projects []Project) []Project {
	for i := range projects {
		projects[i].DescriptionHTML = s.md.Render(projects[i].Description)
	}
	return projects
}
