// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package feed

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio-go/internal/store"
	"github.com/olegiv/folio-go/internal/testutil"
)

// memSource is an in-memory security log that honours the Source contract.
type memSource struct {
	mu      sync.Mutex
	entries []store.SecurityLog
	err     error
	calls   []time.Time
}

func (m *memSource) add(id int64, event string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, store.SecurityLog{ID: id, Event: event, Level: "INFO", CreatedAt: at})
}

func (m *memSource) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *memSource) ListNewerThan(_ context.Context, after time.Time) ([]store.SecurityLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, after)
	if m.err != nil {
		return nil, m.err
	}
	var out []store.SecurityLog
	for _, e := range m.entries {
		if e.CreatedAt.After(after) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type frameRecorder struct {
	mu     sync.Mutex
	frames []Frame
}

func (r *frameRecorder) emit(f Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
	return nil
}

func (r *frameRecorder) snapshot() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestPoll_EmitsEntriesInOrderAndAdvancesWatermark(t *testing.T) {
	src := &memSource{}
	s := NewSession(src, Options{Now: fixedNow(t0), Logger: testutil.TestLoggerSilent()})

	src.add(1, "CREATE_PROJECT", t0.Add(1*time.Second))
	src.add(2, "UPDATE_PROJECT", t0.Add(2*time.Second))
	src.add(3, "DELETE_PROJECT", t0.Add(3*time.Second))

	rec := &frameRecorder{}
	require.NoError(t, s.Poll(context.Background(), rec.emit))

	frames := rec.snapshot()
	require.Len(t, frames, 3)
	for i, want := range []string{"CREATE_PROJECT", "UPDATE_PROJECT", "DELETE_PROJECT"} {
		assert.Equal(t, TypeLog, frames[i].Type)
		assert.Equal(t, want, frames[i].Data.Event)
	}
	assert.Equal(t, t0.Add(3*time.Second), s.Watermark())
}

func TestPoll_HeartbeatWhenNothingNew(t *testing.T) {
	src := &memSource{}
	s := NewSession(src, Options{Now: fixedNow(t0), Logger: testutil.TestLoggerSilent()})

	rec := &frameRecorder{}
	require.NoError(t, s.Poll(context.Background(), rec.emit))

	frames := rec.snapshot()
	require.Len(t, frames, 1)
	assert.Equal(t, TypeHeartbeat, frames[0].Type)
	assert.Equal(t, "2026-03-01T12:00:00.000Z", frames[0].Timestamp)
	assert.Equal(t, t0, s.Watermark(), "heartbeat must not move the watermark")
}

func TestPoll_DoesNotReplayBacklog(t *testing.T) {
	src := &memSource{}
	src.add(1, "OLD", t0.Add(-time.Minute))
	src.add(2, "AT_START", t0)

	s := NewSession(src, Options{Now: fixedNow(t0), Logger: testutil.TestLoggerSilent()})
	rec := &frameRecorder{}
	require.NoError(t, s.Poll(context.Background(), rec.emit))

	frames := rec.snapshot()
	require.Len(t, frames, 1)
	assert.Equal(t, TypeHeartbeat, frames[0].Type)
}

func TestPoll_QueryErrorIsSwallowed(t *testing.T) {
	src := &memSource{}
	src.setErr(errors.New("database is locked"))
	s := NewSession(src, Options{Now: fixedNow(t0), Logger: testutil.TestLoggerSilent()})

	rec := &frameRecorder{}
	require.NoError(t, s.Poll(context.Background(), rec.emit))
	assert.Empty(t, rec.snapshot(), "failed tick emits nothing")
	assert.Equal(t, t0, s.Watermark())

	src.setErr(nil)
	src.add(1, "CREATE_SKILL", t0.Add(time.Second))
	require.NoError(t, s.Poll(context.Background(), rec.emit))
	require.Len(t, rec.snapshot(), 1, "next tick resumes")
}

func TestPoll_TiesAreEmittedInIDOrder(t *testing.T) {
	src := &memSource{}
	at := t0.Add(time.Second)
	src.add(7, "B", at)
	src.add(5, "A", at)

	s := NewSession(src, Options{Now: fixedNow(t0), Logger: testutil.TestLoggerSilent()})
	rec := &frameRecorder{}
	require.NoError(t, s.Poll(context.Background(), rec.emit))

	frames := rec.snapshot()
	require.Len(t, frames, 2)
	assert.Equal(t, int64(5), frames[0].Data.ID)
	assert.Equal(t, int64(7), frames[1].Data.ID)
}

func TestPoll_EmitErrorStopsBatch(t *testing.T) {
	src := &memSource{}
	src.add(1, "A", t0.Add(1*time.Second))
	src.add(2, "B", t0.Add(2*time.Second))

	s := NewSession(src, Options{Now: fixedNow(t0), Logger: testutil.TestLoggerSilent()})
	broken := errors.New("broken pipe")
	err := s.Poll(context.Background(), func(Frame) error { return broken })

	assert.ErrorIs(t, err, broken)
	assert.Equal(t, t0, s.Watermark(), "watermark only advances past delivered entries")
}

func TestRun_SendsConnectedFirstThenPolls(t *testing.T) {
	src := &memSource{}
	s := NewSession(src, Options{Interval: 5 * time.Millisecond, Logger: testutil.TestLoggerSilent()})

	ctx, cancel := context.WithCancel(context.Background())
	rec := &frameRecorder{}
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, rec.emit) }()

	require.Eventually(t, func() bool { return len(rec.snapshot()) >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	frames := rec.snapshot()
	assert.Equal(t, TypeConnected, frames[0].Type)
	assert.Equal(t, ConnectedMessage, frames[0].Message)
	for _, f := range frames[1:] {
		assert.Equal(t, TypeHeartbeat, f.Type)
	}
}

func TestRun_NoFramesAfterCancel(t *testing.T) {
	src := &memSource{}
	s := NewSession(src, Options{Interval: 2 * time.Millisecond, Logger: testutil.TestLoggerSilent()})

	ctx, cancel := context.WithCancel(context.Background())
	rec := &frameRecorder{}
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, rec.emit) }()

	require.Eventually(t, func() bool { return len(rec.snapshot()) >= 2 }, time.Second, 2*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	count := len(rec.snapshot())
	src.add(1, "LATE", time.Now().Add(time.Hour))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, count, len(rec.snapshot()))
}

func TestRun_EmitFailureEndsSession(t *testing.T) {
	src := &memSource{}
	s := NewSession(src, Options{Interval: 2 * time.Millisecond, Logger: testutil.TestLoggerSilent()})

	gone := errors.New("client gone")
	calls := 0
	err := s.Run(context.Background(), func(Frame) error {
		calls++
		if calls > 1 {
			return gone
		}
		return nil
	})
	assert.ErrorIs(t, err, gone)
}

func TestRun_ConnectedFailureEndsSession(t *testing.T) {
	s := NewSession(&memSource{}, Options{Logger: testutil.TestLoggerSilent()})
	gone := errors.New("client gone")
	assert.ErrorIs(t, s.Run(context.Background(), func(Frame) error { return gone }), gone)
}

func TestSessions_AreIndependent(t *testing.T) {
	src := &memSource{}
	a := NewSession(src, Options{Now: fixedNow(t0), Logger: testutil.TestLoggerSilent()})
	src.add(1, "BETWEEN", t0.Add(time.Second))
	b := NewSession(src, Options{Now: fixedNow(t0.Add(2 * time.Second)), Logger: testutil.TestLoggerSilent()})

	recA, recB := &frameRecorder{}, &frameRecorder{}
	require.NoError(t, a.Poll(context.Background(), recA.emit))
	require.NoError(t, b.Poll(context.Background(), recB.emit))

	require.Len(t, recA.snapshot(), 1)
	assert.Equal(t, TypeLog, recA.snapshot()[0].Type)
	require.Len(t, recB.snapshot(), 1)
	assert.Equal(t, TypeHeartbeat, recB.snapshot()[0].Type)
}

func TestEntryFromLog_Details(t *testing.T) {
	withDetails := EntryFromLog(store.SecurityLog{ID: 1, Details: sql.NullString{String: "x", Valid: true}})
	require.NotNil(t, withDetails.Details)
	assert.Equal(t, "x", *withDetails.Details)

	without := EntryFromLog(store.SecurityLog{ID: 2})
	assert.Nil(t, without.Details)
}
