// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package feed

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBacklog_KeepsNewestLines(t *testing.T) {
	b := NewBacklog(0)
	for i := 1; i <= 60; i++ {
		b.Apply(LogFrame(Entry{ID: int64(i), Event: fmt.Sprintf("E%d", i), Level: "INFO", Timestamp: time.Now()}))
	}

	lines := b.Lines()
	require.Len(t, lines, DefaultBacklogSize)
	assert.Equal(t, "11", lines[0].ID, "oldest ten are dropped")
	assert.Equal(t, "60", lines[len(lines)-1].ID)
}

func TestBacklog_HeartbeatAndSystemLines(t *testing.T) {
	b := NewBacklog(3)
	b.Apply(ConnectedFrame())
	b.Apply(HeartbeatFrame(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	b.System("CONNECTION LOST", "DANGER")

	lines := b.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, ConnectedMessage, lines[0].Content)
	assert.Equal(t, KindHeartbeat, lines[1].Kind)
	assert.Equal(t, 2026, lines[1].Timestamp.Year())
	assert.Equal(t, "DANGER", lines[2].Level)
}

func TestBacklog_IgnoresLogFrameWithoutData(t *testing.T) {
	b := NewBacklog(5)
	b.Apply(Frame{Type: TypeLog})
	assert.Equal(t, 0, b.Len())
}
