// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/folio-go/internal/store"
)

// Search result kinds.
const (
	SearchTypeProject    = "PROJECT"
	SearchTypeExperience = "EXPERIENCE"
	SearchTypeSkill      = "SKILL"
)

const (
	// searchPerKind caps matches taken from each content kind.
	searchPerKind = 5
	// searchMaxResults caps the merged result list.
	searchMaxResults = 10
	// searchMaxQueryLen bounds the query string.
	searchMaxQueryLen = 100
)

// SearchResult is one hit of the command palette search.
type SearchResult struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	Href  string `json:"href"`
}

// SearchService does case-insensitive substring search across projects,
// experience and skills.
type SearchService struct {
	queries *store.Queries
}

// NewSearchService creates a new search service.
func NewSearchService(db store.DBTX) *SearchService {
	return &SearchService{queries: store.New(db)}
}

// likePattern escapes LIKE metacharacters and wraps q in wildcards.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

// Search returns at most ten results sorted by title. A blank query
// returns no results.
func (s *SearchService) Search(ctx context.Context, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchResult{}, nil
	}
	if r := []rune(query); len(r) > searchMaxQueryLen {
		query = string(r[:searchMaxQueryLen])
	}

	params := store.SearchParams{Pattern: likePattern(query), Limit: searchPerKind}

	var (
		projects   []store.Project
		experience []store.Experience
		skills     []store.Skill
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		projects, err = s.queries.SearchProjects(gctx, params)
		return err
	})
	g.Go(func() (err error) {
		experience, err = s.queries.SearchExperience(gctx, params)
		return err
	})
	g.Go(func() (err error) {
		skills, err = s.queries.SearchSkills(gctx, params)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("searching content: %w", err)
	}

	results := make([]SearchResult, 0, len(projects)+len(experience)+len(skills))
	for _, p := range projects {
		id := strconv.FormatInt(p.ID, 10)
		results = append(results, SearchResult{ID: id, Title: p.Title, Type: SearchTypeProject, Href: "/project/" + id})
	}
	for _, e := range experience {
		results = append(results, SearchResult{
			ID:    strconv.FormatInt(e.ID, 10),
			Title: e.Role + " at " + e.Company,
			Type:  SearchTypeExperience,
			Href:  "/#experience",
		})
	}
	for _, sk := range skills {
		results = append(results, SearchResult{
			ID:    strconv.FormatInt(sk.ID, 10),
			Title: sk.Name,
			Type:  SearchTypeSkill,
			Href:  "/#stack",
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return strings.ToLower(results[i].Title) < strings.ToLower(results[j].Title)
	})
	if len(results) > searchMaxResults {
		results = results[:searchMaxResults]
	}
	return results, nil
}
