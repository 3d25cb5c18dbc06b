// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package feed

import (
	"fmt"
	"strconv"
	"sync"
	"time"
)

// DefaultBacklogSize is how many lines the feed view keeps.
const DefaultBacklogSize = 50

// Line kinds in a Backlog.
const (
	KindSystem    = "system"
	KindHeartbeat = "heartbeat"
	KindLog       = "log"
)

// Line is one rendered row of the feed view.
type Line struct {
	ID        string
	Timestamp time.Time
	Content   string
	Kind      string
	Level     string
}

// Backlog is the bounded rolling view of a feed. When full, the oldest line
// is dropped. It is safe for concurrent use.
type Backlog struct {
	mu    sync.Mutex
	size  int
	lines []Line
	now   func() time.Time
	seq   int
}

// NewBacklog returns a backlog holding at most size lines.
func NewBacklog(size int) *Backlog {
	if size <= 0 {
		size = DefaultBacklogSize
	}
	return &Backlog{size: size, now: time.Now}
}

// Apply converts a frame into a line and appends it.
func (b *Backlog) Apply(f Frame) {
	switch f.Type {
	case TypeConnected:
		b.System(f.Message, "")
	case TypeHeartbeat:
		ts, err := time.Parse(time.RFC3339Nano, f.Timestamp)
		if err != nil {
			ts = b.now()
		}
		b.append(Line{ID: b.nextID("hb"), Timestamp: ts, Content: "SYS_HEARTBEAT_ACK", Kind: KindHeartbeat})
	case TypeLog:
		if f.Data == nil {
			return
		}
		details := ""
		if f.Data.Details != nil {
			details = *f.Data.Details
		}
		b.append(Line{
			ID:        strconv.FormatInt(f.Data.ID, 10),
			Timestamp: f.Data.Timestamp,
			Content:   fmt.Sprintf("[%s] %s", f.Data.Event, details),
			Kind:      KindLog,
			Level:     f.Data.Level,
		})
	}
}

// System appends a local status line such as a connection notice.
func (b *Backlog) System(msg, level string) {
	b.append(Line{ID: b.nextID("sys"), Timestamp: b.now(), Content: msg, Kind: KindSystem, Level: level})
}

// Lines returns a copy of the view, oldest first.
func (b *Backlog) Lines() []Line {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Line, len(b.lines))
	copy(out, b.lines)
	return out
}

// Len returns the number of lines held.
func (b *Backlog) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}

func (b *Backlog) append(l Line) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.lines) >= b.size {
		n := copy(b.lines, b.lines[len(b.lines)-b.size+1:])
		b.lines = b.lines[:n]
	}
	b.lines = append(b.lines, l)
}

func (b *Backlog) nextID(prefix string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	return prefix + "-" + strconv.Itoa(b.seq)
}
