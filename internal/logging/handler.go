// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors warnings and errors
// into the security log, so they show up in the admin live feed.
package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/olegiv/folio-go/internal/model"
)

// Appender writes one security log entry.
type Appender interface {
	Append(ctx context.Context, event, level string, details *string) (int64, error)
}

// appendTimeout bounds a single mirrored write.
const appendTimeout = 5 * time.Second

// EventLogHandler is a slog.Handler that wraps another handler and also
// appends WARN and ERROR records to the security log.
type EventLogHandler struct {
	inner    slog.Handler
	appender Appender
	level    slog.Level // minimum level to mirror (default: WARN)
	attrs    []slog.Attr
	group    string
}

// NewEventLogHandler creates a new EventLogHandler that wraps the given handler.
func NewEventLogHandler(inner slog.Handler, appender Appender) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, appender, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates a new EventLogHandler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, appender Appender, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:    inner,
		appender: appender,
		level:    level,
	}
}

// Enabled implements slog.Handler. Records at the mirror level pass even
// when the wrapped handler filters them out.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.mirrors(level) || h.inner.Enabled(ctx, level)
}

func (h *EventLogHandler) mirrors(level slog.Level) bool {
	return h.appender != nil && level >= h.level
}

// Handle implements slog.Handler. Append failures are dropped: reporting
// them through the logger would feed back into this handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.inner.Enabled(ctx, r.Level) {
		if err := h.inner.Handle(ctx, r); err != nil {
			return err
		}
	}

	if h.mirrors(r.Level) {
		event, level := eventForLevel(r.Level)
		details := h.details(r)

		actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), appendTimeout)
		defer cancel()
		_, _ = h.appender.Append(actx, event, level, &details)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, h.qualify(a))
	}
	return &clone
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.inner = h.inner.WithGroup(name)
	clone.group = h.qualifyKey(name)
	return &clone
}

func (h *EventLogHandler) qualifyKey(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}

func (h *EventLogHandler) qualify(a slog.Attr) slog.Attr {
	return slog.Attr{Key: h.qualifyKey(a.Key), Value: a.Value}
}

// eventForLevel maps a slog level onto a security log event and level.
func eventForLevel(level slog.Level) (string, string) {
	if level >= slog.LevelError {
		return model.EventSystemError, model.LevelDanger
	}
	return model.EventSystemWarning, model.LevelWarning
}

// details renders the message and attributes as a JSON object:
// {"message": "...", "attrs": {"key": "value"}}.
func (h *EventLogHandler) details(r slog.Record) string {
	payload := struct {
		Message string            `json:"message"`
		Attrs   map[string]string `json:"attrs,omitempty"`
	}{Message: r.Message}

	if n := len(h.attrs) + r.NumAttrs(); n > 0 {
		payload.Attrs = make(map[string]string, n)
		for _, a := range h.attrs {
			payload.Attrs[a.Key] = a.Value.Resolve().String()
		}
		r.Attrs(func(a slog.Attr) bool {
			a = h.qualify(a)
			payload.Attrs[a.Key] = a.Value.Resolve().String()
			return true
		})
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return r.Message
	}
	return string(b)
}
