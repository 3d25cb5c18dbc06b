// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio-go/internal/handler/api"
	"github.com/olegiv/folio-go/internal/scheduler"
)

// JobsHandler exposes the maintenance scheduler to the admin.
type JobsHandler struct {
	sched *scheduler.Scheduler
}

// NewJobsHandler creates a new JobsHandler.
func NewJobsHandler(sched *scheduler.Scheduler) *JobsHandler {
	return &JobsHandler{sched: sched}
}

// List handles GET /admin/api/jobs.
func (h *JobsHandler) List(w http.ResponseWriter, _ *http.Request) {
	api.WriteSuccess(w, h.sched.List(), nil)
}

// Run handles POST /admin/api/jobs/{name}/run. The job runs synchronously;
// its error is reported in the job listing, not as a request failure.
func (h *JobsHandler) Run(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.sched.TriggerNow(name); errors.Is(err, scheduler.ErrJobNotFound) {
		api.WriteNotFound(w, "Job not found")
		return
	}
	for _, j := range h.sched.List() {
		if j.Name == name {
			api.WriteSuccess(w, j, nil)
			return
		}
	}
	api.WriteNotFound(w, "Job not found")
}
