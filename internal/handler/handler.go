// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the HTTP endpoints of the public site API and
// the admin API.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio-go/internal/handler/api"
	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/service"
)

// logAndInternalError logs an error and writes a 500 JSON response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	api.WriteInternalError(w, "Internal server error")
}

// writeServiceError maps a service error onto the JSON error envelope.
// what names the resource in 404 and 409 messages.
func writeServiceError(w http.ResponseWriter, err error, what string) {
	var verrs model.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		api.WriteValidationError(w, verrs)
	case errors.Is(err, service.ErrNotFound):
		api.WriteNotFound(w, what+" not found")
	case errors.Is(err, service.ErrConflict):
		api.WriteConflict(w, what+" already exists")
	default:
		logAndInternalError(w, "request failed", "resource", what, "error", err)
	}
}

// parseID reads the {id} route parameter. It writes a 404 and returns false
// when the value is not a positive integer.
func parseID(w http.ResponseWriter, r *http.Request, what string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		api.WriteNotFound(w, what+" not found")
		return 0, false
	}
	return id, true
}

// decodeOrBadRequest decodes the JSON body into dst and writes a 400 on
// failure.
func decodeOrBadRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := api.DecodeJSON(w, r, dst); err != nil {
		api.WriteBadRequest(w, err.Error(), nil)
		return false
	}
	return true
}

// queryInt parses a positive integer query parameter, falling back to def.
func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 1 {
		return def
	}
	return v
}
