// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/service"
)

func newContentRouter(e *handlerEnv) http.Handler {
	h := NewContentHandler(e.content, e.events)
	r := chi.NewRouter()
	r.Get("/dashboard", h.Dashboard)
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.ListProjects)
		r.Post("/", h.CreateProject)
		r.Get("/{id}", h.GetProject)
		r.Put("/{id}", h.UpdateProject)
		r.Delete("/{id}", h.DeleteProject)
	})
	r.Route("/skills", func(r chi.Router) {
		r.Get("/", h.ListSkills)
		r.Post("/", h.CreateSkill)
		r.Get("/{id}", h.GetSkill)
		r.Put("/{id}", h.UpdateSkill)
		r.Delete("/{id}", h.DeleteSkill)
	})
	r.Route("/experience", func(r chi.Router) {
		r.Get("/", h.ListExperience)
		r.Post("/", h.CreateExperience)
		r.Get("/{id}", h.GetExperience)
		r.Put("/{id}", h.UpdateExperience)
		r.Delete("/{id}", h.DeleteExperience)
	})
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.UpdateSettings)
	r.Get("/profile", h.GetProfile)
	r.Put("/profile", h.UpdateProfile)
	r.Get("/profile/stats", h.ProfileStats)
	return r
}

func serve(router http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

// projectCount returns how many projects the seed left in place.
func projectCount(t *testing.T, e *handlerEnv) int {
	t.Helper()
	projects, err := e.content.ListProjects(context.Background())
	require.NoError(t, err)
	return len(projects)
}

func TestProjectEndpoints(t *testing.T) {
	e := newHandlerEnv(t)
	router := newContentRouter(e)
	seeded := projectCount(t, e)

	w := serve(router, jsonRequest(t, http.MethodPost, "/projects", map[string]any{
		"title":       "Live Terminal",
		"description": "Streams the security log.",
		"tags":        []string{"Go", "SSE"},
		"featured":    true,
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeData[service.Project](t, w)
	assert.Equal(t, "live-terminal", created.Slug)
	assert.Equal(t, model.EventCreateProject, e.lastEvent(t).Event)

	w = serve(router, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/projects/%d", created.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Live Terminal", decodeData[service.Project](t, w).Title)

	w = serve(router, jsonRequest(t, http.MethodPut, fmt.Sprintf("/projects/%d", created.ID), map[string]any{
		"title":       "Live Terminal v2",
		"description": "Now with heartbeats.",
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "live-terminal-v2", decodeData[service.Project](t, w).Slug)

	w = serve(router, httptest.NewRequest(http.MethodGet, "/projects", nil))
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(seeded+1), env.Meta.Total)

	w = serve(router, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/projects/%d", created.ID), nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	ev := e.lastEvent(t)
	assert.Equal(t, model.EventDeleteProject, ev.Event)
	assert.Equal(t, model.LevelWarning, ev.Level)

	w = serve(router, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/projects/%d", created.ID), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, seeded, projectCount(t, e))
}

func TestProjectEndpoints_Errors(t *testing.T) {
	e := newHandlerEnv(t)
	router := newContentRouter(e)

	tests := []struct {
		name   string
		req    *http.Request
		status int
		code   string
	}{
		{
			name:   "validation",
			req:    jsonRequest(t, http.MethodPost, "/projects", map[string]any{"title": "", "description": ""}),
			status: http.StatusUnprocessableEntity,
			code:   "validation_error",
		},
		{
			name:   "unknown field",
			req:    jsonRequest(t, http.MethodPost, "/projects", map[string]any{"title": "X", "owner": "me"}),
			status: http.StatusBadRequest,
			code:   "bad_request",
		},
		{
			name:   "malformed body",
			req:    httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(`{"title":`)),
			status: http.StatusBadRequest,
			code:   "bad_request",
		},
		{
			name:   "non numeric id",
			req:    httptest.NewRequest(http.MethodGet, "/projects/abc", nil),
			status: http.StatusNotFound,
			code:   "not_found",
		},
		{
			name:   "missing project",
			req:    jsonRequest(t, http.MethodPut, "/projects/999", map[string]any{"title": "Ghost", "description": "Nothing here."}),
			status: http.StatusNotFound,
			code:   "not_found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, tt.req)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			env := decodeEnvelope(t, w)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestSkillEndpoints_Conflict(t *testing.T) {
	e := newHandlerEnv(t)
	router := newContentRouter(e)

	// "React" is part of the seed data.
	w := serve(router, jsonRequest(t, http.MethodPost, "/skills", map[string]any{"name": "React", "category": "Frontend"}))
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	w = serve(router, jsonRequest(t, http.MethodPost, "/skills", map[string]any{"name": "Go", "category": "Backend"}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	skill := decodeData[service.Skill](t, w)

	w = serve(router, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/skills/%d", skill.ID), nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, model.EventDeleteSkill, e.lastEvent(t).Event)
}

func TestExperienceEndpoints(t *testing.T) {
	e := newHandlerEnv(t)
	router := newContentRouter(e)

	w := serve(router, jsonRequest(t, http.MethodPost, "/experience", map[string]any{
		"company":     "Folio Labs",
		"role":        "Engineer",
		"startDate":   "2023-01-01",
		"current":     true,
		"description": "Built the live feed.",
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	exp := decodeData[service.Experience](t, w)
	assert.Nil(t, exp.EndDate)
	assert.Equal(t, model.EventCreateExperience, e.lastEvent(t).Event)

	w = serve(router, jsonRequest(t, http.MethodPost, "/experience", map[string]any{
		"company":   "Folio Labs",
		"role":      "Engineer",
		"startDate": "not-a-date",
	}))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSettingsEndpoints(t *testing.T) {
	e := newHandlerEnv(t)
	router := newContentRouter(e)

	w := serve(router, jsonRequest(t, http.MethodPut, "/settings", map[string]any{"heroTitle": "Hello, Folio"}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Hello, Folio", decodeData[service.Settings](t, w).HeroTitle)
	assert.Equal(t, model.EventUpdateSettings, e.lastEvent(t).Event)

	w = serve(router, jsonRequest(t, http.MethodPut, "/settings", map[string]any{"githubUrl": "ftp://nope"}))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = serve(router, httptest.NewRequest(http.MethodGet, "/settings", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello, Folio", decodeData[service.Settings](t, w).HeroTitle)
}

func TestProfileEndpoints(t *testing.T) {
	e := newHandlerEnv(t)
	router := newContentRouter(e)

	w := serve(router, e.asUser(httptest.NewRequest(http.MethodGet, "/profile", nil)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, testAdminEmail, decodeData[service.Profile](t, w).Email)

	w = serve(router, e.asUser(jsonRequest(t, http.MethodPut, "/profile", map[string]any{
		"name":  "Folio Owner",
		"email": testAdminEmail,
		"bio":   "Builds things.",
	})))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Folio Owner", decodeData[service.Profile](t, w).Name)
	assert.Equal(t, model.EventUpdateProfile, e.lastEvent(t).Event)

	w = serve(router, httptest.NewRequest(http.MethodGet, "/profile/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeData[service.Stats](t, w)
	assert.Positive(t, stats.Skills)
	assert.Positive(t, stats.SecurityLogs)
}

type dashboardBody struct {
	Stats      service.Stats `json:"stats"`
	LatestLogs []struct {
		Event string `json:"event"`
	} `json:"latestLogs"`
}

func TestDashboard(t *testing.T) {
	e := newHandlerEnv(t)
	router := newContentRouter(e)
	e.events.Info(context.Background(), model.EventUploadFile, "File uploaded.")

	w := serve(router, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeData[dashboardBody](t, w)
	require.NotEmpty(t, body.LatestLogs)
	assert.Equal(t, model.EventUploadFile, body.LatestLogs[0].Event)
	assert.Positive(t, body.Stats.Skills)
}
