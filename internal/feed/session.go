// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/olegiv/folio-go/internal/metrics"
	"github.com/olegiv/folio-go/internal/store"
)

// DefaultPollInterval is the delay between polls of the security log.
const DefaultPollInterval = 3 * time.Second

// Source is the read side of the security log used by a session.
// Results must be strictly newer than after, ordered by timestamp then id.
type Source interface {
	ListNewerThan(ctx context.Context, after time.Time) ([]store.SecurityLog, error)
}

// EmitFunc delivers a frame to the client. A non-nil error ends the session.
type EmitFunc func(Frame) error

// Options configures a Session.
type Options struct {
	Interval time.Duration
	Logger   *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Session is one client's stream. Its watermark is private to the
// goroutine running Run and starts at the moment the session is created,
// so entries written earlier are never replayed.
type Session struct {
	source    Source
	interval  time.Duration
	logger    *slog.Logger
	now       func() time.Time
	watermark time.Time
}

// NewSession creates a session whose watermark is the current time.
func NewSession(source Source, opts Options) *Session {
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{
		source:    source,
		interval:  opts.Interval,
		logger:    opts.Logger,
		now:       opts.Now,
		watermark: opts.Now().UTC(),
	}
}

// Watermark returns the timestamp of the last emitted entry, or the session
// start if nothing has been emitted. It must only be called from the
// goroutine running Run, or after Run has returned.
func (s *Session) Watermark() time.Time {
	return s.watermark
}

// Run emits the connected frame and then polls on every tick until ctx is
// done or emit fails. The ticker is stopped before Run returns, and no frame
// is emitted after that. Cancellation is not an error.
func (s *Session) Run(ctx context.Context, emit EmitFunc) error {
	if err := emit(ConnectedFrame()); err != nil {
		return err
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.Poll(ctx, emit); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

// Poll runs one tick: one log frame per new entry in order, or a single
// heartbeat if there are none. A failed query is logged and skipped without
// emitting anything. Only emit errors are returned.
func (s *Session) Poll(ctx context.Context, emit EmitFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := s.source.ListNewerThan(ctx, s.watermark)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		metrics.FeedPollErrorsTotal.Inc()
		s.logger.Error("live feed poll failed", "error", err)
		return nil
	}

	if len(entries) == 0 {
		return emit(HeartbeatFrame(s.now()))
	}

	for _, l := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := emit(LogFrame(EntryFromLog(l))); err != nil {
			return err
		}
		if l.CreatedAt.After(s.watermark) {
			s.watermark = l.CreatedAt.UTC()
		}
	}
	return nil
}
