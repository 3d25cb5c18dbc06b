// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/folio-go/internal/feed"
	"github.com/olegiv/folio-go/internal/handler/api"
	"github.com/olegiv/folio-go/internal/metrics"
	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/service"
)

// LogsPerPage is the page size of the security log listing.
const LogsPerPage = 50

// LogsHandler serves the security log listing and its live stream.
type LogsHandler struct {
	events       *service.EventService
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewLogsHandler creates a new LogsHandler. pollInterval is the delay
// between store polls of a live stream.
func NewLogsHandler(events *service.EventService, pollInterval time.Duration, logger *slog.Logger) *LogsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogsHandler{events: events, pollInterval: pollInterval, logger: logger}
}

// List handles GET /admin/api/logs?page=&level=, newest first.
func (h *LogsHandler) List(w http.ResponseWriter, r *http.Request) {
	level := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("level")))
	if level != "" && !model.ValidLevel(level) {
		api.WriteBadRequest(w, "Unknown level", map[string]string{
			"level": "Level must be one of " + strings.Join(model.Levels, ", "),
		})
		return
	}
	page := queryInt(r, "page", 1)

	logs, total, err := h.events.ListPage(r.Context(), level, LogsPerPage, int64(page-1)*LogsPerPage)
	if err != nil {
		logAndInternalError(w, "listing security logs", "error", err)
		return
	}

	entries := make([]feed.Entry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, feed.EntryFromLog(l))
	}
	api.WriteSuccess(w, entries, api.NewMeta(total, page, LogsPerPage))
}

// Stream handles GET /admin/api/logs/stream. Only entries written after
// the request arrives are sent; the stream ends when the client goes away
// or the server shuts down.
func (h *LogsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	session := feed.NewSession(h.events, feed.Options{
		Interval: h.pollInterval,
		Logger:   h.logger,
	})

	fw, err := feed.PrepareResponse(w)
	if err != nil {
		if errors.Is(err, feed.ErrStreamingUnsupported) {
			h.logger.Error("live feed requires a flushing response writer")
			return
		}
		h.logger.Warn("live feed setup failed", "error", err)
		return
	}

	metrics.FeedSessionsActive.Inc()
	defer metrics.FeedSessionsActive.Dec()

	emit := func(f feed.Frame) error {
		if err := fw.WriteFrame(f); err != nil {
			return err
		}
		metrics.FeedFramesTotal.WithLabelValues(f.Type).Inc()
		return nil
	}

	if err := session.Run(r.Context(), emit); err != nil {
		h.logger.Debug("live feed closed", "error", err)
	}
}
