// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the use-case layer shared by the HTTP handlers:
// the security log, search, public content assembly and uploads.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/olegiv/folio-go/internal/metrics"
	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/store"
)

// EventService is the append-only security log. It exposes create and
// read operations only.
//
// Appends are serialized and stamped inside the lock, so timestamps
// strictly increase in insertion order. Pollers that read "newer than" a
// watermark rely on this: a row committed after a poll can never carry a
// timestamp at or below one already emitted.
type EventService struct {
	queries *store.Queries
	logger  *slog.Logger
	now     func() time.Time

	mu   sync.Mutex
	last time.Time
}

// NewEventService creates a new EventService.
func NewEventService(db store.DBTX, logger *slog.Logger) *EventService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventService{
		queries: store.New(db),
		logger:  logger,
		now:     time.Now,
	}
}

// MaxDetailsBytes caps the stored details text so every entry fits in one
// stream frame line.
const MaxDetailsBytes = 8 << 10

const truncatedSuffix = "..."

// truncateDetails cuts details to MaxDetailsBytes on a rune boundary.
func truncateDetails(details string) string {
	if len(details) <= MaxDetailsBytes {
		return details
	}
	cut := MaxDetailsBytes - len(truncatedSuffix)
	for cut > 0 && !utf8.RuneStart(details[cut]) {
		cut--
	}
	return details[:cut] + truncatedSuffix
}

// Append writes one entry and returns its id. Storage errors are returned
// to the caller unchanged and are not retried.
func (s *EventService) Append(ctx context.Context, event, level string, details *string) (int64, error) {
	if !model.ValidLevel(level) {
		return 0, fmt.Errorf("invalid security log level %q", level)
	}

	var d sql.NullString
	if details != nil {
		d = sql.NullString{String: truncateDetails(*details), Valid: true}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().UTC()
	if !ts.After(s.last) {
		ts = s.last.Add(time.Nanosecond)
	}

	entry, err := s.queries.CreateSecurityLog(ctx, store.CreateSecurityLogParams{
		Event:     event,
		Level:     level,
		Details:   d,
		CreatedAt: ts,
	})
	if err != nil {
		metrics.SecurityLogAppendErrorsTotal.Inc()
		return 0, fmt.Errorf("appending security log %s: %w", event, err)
	}

	s.last = ts
	metrics.SecurityLogAppendsTotal.WithLabelValues(level).Inc()
	return entry.ID, nil
}

// Record appends an entry on behalf of a mutation that has already
// succeeded. Failures are logged and swallowed.
func (s *EventService) Record(ctx context.Context, event, level, details string) {
	var d *string
	if details != "" {
		d = &details
	}
	if _, err := s.Append(context.WithoutCancel(ctx), event, level, d); err != nil {
		s.logger.Error("failed to write security log", "event", event, "error", err)
	}
}

// Info records an INFO entry.
func (s *EventService) Info(ctx context.Context, event, details string) {
	s.Record(ctx, event, model.LevelInfo, details)
}

// Success records a SUCCESS entry.
func (s *EventService) Success(ctx context.Context, event, details string) {
	s.Record(ctx, event, model.LevelSuccess, details)
}

// Warning records a WARNING entry.
func (s *EventService) Warning(ctx context.Context, event, details string) {
	s.Record(ctx, event, model.LevelWarning, details)
}

// Danger records a DANGER entry.
func (s *EventService) Danger(ctx context.Context, event, details string) {
	s.Record(ctx, event, model.LevelDanger, details)
}

// ListNewerThan returns entries strictly newer than after, ordered by
// timestamp and then id.
func (s *EventService) ListNewerThan(ctx context.Context, after time.Time) ([]store.SecurityLog, error) {
	return s.queries.ListSecurityLogsAfter(ctx, after.UTC())
}

// ListPage returns one page of entries, newest first, optionally filtered by level.
func (s *EventService) ListPage(ctx context.Context, level string, limit, offset int64) ([]store.SecurityLog, int64, error) {
	if level != "" {
		entries, err := s.queries.ListSecurityLogsByLevel(ctx, store.ListSecurityLogsByLevelParams{
			Level:  level,
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			return nil, 0, fmt.Errorf("listing security logs: %w", err)
		}
		total, err := s.queries.CountSecurityLogsByLevel(ctx, level)
		if err != nil {
			return nil, 0, fmt.Errorf("counting security logs: %w", err)
		}
		return entries, total, nil
	}

	entries, err := s.queries.ListSecurityLogs(ctx, store.ListSecurityLogsParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, 0, fmt.Errorf("listing security logs: %w", err)
	}
	total, err := s.queries.CountSecurityLogs(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("counting security logs: %w", err)
	}
	return entries, total, nil
}

// Latest returns the n most recent entries, newest first.
func (s *EventService) Latest(ctx context.Context, n int64) ([]store.SecurityLog, error) {
	return s.queries.ListSecurityLogs(ctx, store.ListSecurityLogsParams{Limit: n})
}
