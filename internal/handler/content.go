// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/olegiv/folio-go/internal/feed"
	"github.com/olegiv/folio-go/internal/handler/api"
	"github.com/olegiv/folio-go/internal/middleware"
	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/service"
)

// dashboardLogCount is the number of recent entries on the dashboard.
const dashboardLogCount = 10

// ContentHandler serves the admin CRUD endpoints.
type ContentHandler struct {
	content *service.ContentService
	events  *service.EventService
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(content *service.ContentService, events *service.EventService) *ContentHandler {
	return &ContentHandler{content: content, events: events}
}

// Dashboard handles GET /admin/api/dashboard.
func (h *ContentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.content.Stats(r.Context())
	if err != nil {
		logAndInternalError(w, "loading dashboard stats", "error", err)
		return
	}
	logs, err := h.events.Latest(r.Context(), dashboardLogCount)
	if err != nil {
		logAndInternalError(w, "loading latest logs", "error", err)
		return
	}

	entries := make([]feed.Entry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, feed.EntryFromLog(l))
	}
	api.WriteSuccess(w, map[string]any{
		"stats":      stats,
		"latestLogs": entries,
	}, nil)
}

// Projects

// ListProjects handles GET /admin/api/projects.
func (h *ContentHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.content.ListProjects(r.Context())
	if err != nil {
		writeServiceError(w, err, "Project")
		return
	}
	api.WriteSuccess(w, projects, api.NewMeta(int64(len(projects)), 0, 0))
}

// GetProject handles GET /admin/api/projects/{id}.
func (h *ContentHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "Project")
	if !ok {
		return
	}
	p, err := h.content.GetProject(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Project")
		return
	}
	api.WriteSuccess(w, p, nil)
}

// CreateProject handles POST /admin/api/projects.
func (h *ContentHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var in model.ProjectInput
	if !decodeOrBadRequest(w, r, &in) {
		return
	}
	p, err := h.content.CreateProject(r.Context(), in)
	if err != nil {
		writeServiceError(w, err, "Project")
		return
	}
	api.WriteCreated(w, p)
}

// UpdateProject handles PUT /admin/api/projects/{id}.
func (h *ContentHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "Project")
	if !ok {
		return
	}
	var in model.ProjectInput
	if !decodeOrBadRequest(w, r, &in) {
		return
	}
	p, err := h.content.UpdateProject(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err, "Project")
		return
	}
	api.WriteSuccess(w, p, nil)
}

// DeleteProject handles DELETE /admin/api/projects/{id}.
func (h *ContentHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "Project")
	if !ok {
		return
	}
	if err := h.content.DeleteProject(r.Context(), id); err != nil {
		writeServiceError(w, err, "Project")
		return
	}
	api.WriteNoContent(w)
}

// Skills

// ListSkills handles GET /admin/api/skills.
func (h *ContentHandler) ListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.content.ListSkills(r.Context())
	if err != nil {
		writeServiceError(w, err, "Skill")
		return
	}
	api.WriteSuccess(w, skills, api.NewMeta(int64(len(skills)), 0, 0))
}

// GetSkill handles GET /admin/api/skills/{id}.
func (h *ContentHandler) GetSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "Skill")
	if !ok {
		return
	}
	s, err := h.content.GetSkill(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Skill")
		return
	}
	api.WriteSuccess(w, s, nil)
}

// CreateSkill handles POST /admin/api/skills.
func (h *ContentHandler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	var in model.SkillInput
	if !decodeOrBadRequest(w, r, &in) {
		return
	}
	s, err := h.content.CreateSkill(r.Context(), in)
	if err != nil {
		writeServiceError(w, err, "Skill")
		return
	}
	api.WriteCreated(w, s)
}

// UpdateSkill handles PUT /admin/api/skills/{id}.
func (h *ContentHandler) UpdateSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "Skill")
	if !ok {
		return
	}
	var in model.SkillInput
	if !decodeOrBadRequest(w, r, &in) {
		return
	}
	s, err := h.content.UpdateSkill(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err, "Skill")
		return
	}
	api.WriteSuccess(w, s, nil)
}

// DeleteSkill handles DELETE /admin/api/skills/{id}.
func (h *ContentHandler) DeleteSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "Skill")
	if !ok {
		return
	}
	if err := h.content.DeleteSkill(r.Context(), id); err != nil {
		writeServiceError(w, err, "Skill")
		return
	}
	api.WriteNoContent(w)
}

// Experience

// ListExperience handles GET /admin/api/experience.
func (h *ContentHandler) ListExperience(w http.ResponseWriter, r *http.Request) {
	items, err := h.content.ListExperience(r.Context())
	if err != nil {
		writeServiceError(w, err, "Experience")
		return
	}
	api.WriteSuccess(w, items, api.NewMeta(int64(len(items)), 0, 0))
}

// GetExperience handles GET /admin/api/experience/{id}.
func (h *ContentHandler) GetExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "Experience")
	if !ok {
		return
	}
	e, err := h.content.GetExperience(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Experience")
		return
	}
	api.WriteSuccess(w, e, nil)
}

// CreateExperience handles POST /admin/api/experience.
func (h *ContentHandler) CreateExperience(w http.ResponseWriter, r *http.Request) {
	var in model.ExperienceInput
	if !decodeOrBadRequest(w, r, &in) {
		return
	}
	e, err := h.content.CreateExperience(r.Context(), in)
	if err != nil {
		writeServiceError(w, err, "Experience")
		return
	}
	api.WriteCreated(w, e)
}

// UpdateExperience handles PUT /admin/api/experience/{id}.
func (h *ContentHandler) UpdateExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "Experience")
	if !ok {
		return
	}
	var in model.ExperienceInput
	if !decodeOrBadRequest(w, r, &in) {
		return
	}
	e, err := h.content.UpdateExperience(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err, "Experience")
		return
	}
	api.WriteSuccess(w, e, nil)
}

// DeleteExperience handles DELETE /admin/api/experience/{id}.
func (h *ContentHandler) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "Experience")
	if !ok {
		return
	}
	if err := h.content.DeleteExperience(r.Context(), id); err != nil {
		writeServiceError(w, err, "Experience")
		return
	}
	api.WriteNoContent(w)
}

// Settings and profile

// GetSettings handles GET /admin/api/settings.
func (h *ContentHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.content.GetSettings(r.Context())
	if err != nil {
		writeServiceError(w, err, "Settings")
		return
	}
	api.WriteSuccess(w, s, nil)
}

// UpdateSettings handles PUT /admin/api/settings. Omitted fields keep
// their current value.
func (h *ContentHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var in model.SettingsInput
	if !decodeOrBadRequest(w, r, &in) {
		return
	}
	s, err := h.content.UpdateSettings(r.Context(), in)
	if err != nil {
		writeServiceError(w, err, "Settings")
		return
	}
	api.WriteSuccess(w, s, nil)
}

// GetProfile handles GET /admin/api/profile.
func (h *ContentHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.content.GetProfile(r.Context(), middleware.GetUserID(r))
	if err != nil {
		writeServiceError(w, err, "Profile")
		return
	}
	api.WriteSuccess(w, p, nil)
}

// UpdateProfile handles PUT /admin/api/profile.
func (h *ContentHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in model.ProfileInput
	if !decodeOrBadRequest(w, r, &in) {
		return
	}
	p, err := h.content.UpdateProfile(r.Context(), middleware.GetUserID(r), in)
	if errors.Is(err, service.ErrConflict) {
		api.WriteValidationError(w, map[string]string{"email": "Email is already in use"})
		return
	}
	if err != nil {
		writeServiceError(w, err, "Profile")
		return
	}
	api.WriteSuccess(w, p, nil)
}

// ProfileStats handles GET /admin/api/profile/stats.
func (h *ContentHandler) ProfileStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.content.Stats(r.Context())
	if err != nil {
		logAndInternalError(w, "loading stats", "error", err)
		return
	}
	api.WriteSuccess(w, stats, nil)
}
