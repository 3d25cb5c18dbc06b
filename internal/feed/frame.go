// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package feed implements the live security log stream: a per-connection
// session that polls the log for new entries and emits them as frames, and
// the client-side decoder and bounded backlog that consume those frames.
package feed

import (
	"time"

	"github.com/olegiv/folio-go/internal/store"
)

// Frame types.
const (
	TypeConnected = "connected"
	TypeLog       = "log"
	TypeHeartbeat = "heartbeat"
)

// ConnectedMessage is the message carried by the first frame of a session.
const ConnectedMessage = "SSE Connection Established"

// heartbeatLayout is ISO-8601 UTC with millisecond precision.
const heartbeatLayout = "2006-01-02T15:04:05.000Z"

// Entry is a security log entry as it appears on the wire.
type Entry struct {
	ID        int64     `json:"id"`
	Event     string    `json:"event"`
	Level     string    `json:"level"`
	Details   *string   `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// Frame is one message on the stream.
type Frame struct {
	Type      string `json:"type"`
	Message   string `json:"message,omitempty"`
	Data      *Entry `json:"data,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// EntryFromLog converts a stored row to its wire form.
func EntryFromLog(l store.SecurityLog) Entry {
	e := Entry{
		ID:        l.ID,
		Event:     l.Event,
		Level:     l.Level,
		Timestamp: l.CreatedAt.UTC(),
	}
	if l.Details.Valid {
		d := l.Details.String
		e.Details = &d
	}
	return e
}

// ConnectedFrame is sent once when a session opens.
func ConnectedFrame() Frame {
	return Frame{Type: TypeConnected, Message: ConnectedMessage}
}

// LogFrame wraps a single entry.
func LogFrame(e Entry) Frame {
	return Frame{Type: TypeLog, Data: &e}
}

// HeartbeatFrame is sent on a tick that found nothing new.
func HeartbeatFrame(at time.Time) Frame {
	return Frame{Type: TypeHeartbeat, Timestamp: at.UTC().Format(heartbeatLayout)}
}
