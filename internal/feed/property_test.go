// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package feed

import (
	"context"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/olegiv/folio-go/internal/testutil"
)

// Property: however appends interleave with polls, every entry written after
// session start is emitted exactly once, in insertion order, and the
// watermark never moves backwards.
func TestSessionDeliveryProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("entries are emitted once and in order", prop.ForAll(
		func(gaps []int, pollAfter []bool, before int) bool {
			src := &memSource{}
			for i := 0; i < before; i++ {
				src.add(int64(-i-1), "OLD", t0.Add(-time.Duration(i+1)*time.Second))
			}

			s := NewSession(src, Options{Now: fixedNow(t0), Logger: testutil.TestLoggerSilent()})
			rec := &frameRecorder{}
			ctx := context.Background()

			at := t0
			last := s.Watermark()
			for i, gap := range gaps {
				at = at.Add(time.Duration(gap+1) * time.Millisecond)
				src.add(int64(i+1), "E", at)
				if i < len(pollAfter) && pollAfter[i] {
					if err := s.Poll(ctx, rec.emit); err != nil {
						return false
					}
					if s.Watermark().Before(last) {
						return false
					}
					last = s.Watermark()
				}
			}
			if err := s.Poll(ctx, rec.emit); err != nil {
				return false
			}

			var next int64 = 1
			for _, f := range rec.snapshot() {
				if f.Type != TypeLog {
					continue
				}
				if f.Data.ID != next {
					return false
				}
				next++
			}
			return next == int64(len(gaps))+1
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
		gen.SliceOf(gen.Bool()),
		gen.IntRange(0, 5),
	))

	properties.Property("heartbeat only when a tick finds nothing", prop.ForAll(
		func(n int) bool {
			src := &memSource{}
			s := NewSession(src, Options{Now: fixedNow(t0), Logger: testutil.TestLoggerSilent()})
			for i := 0; i < n; i++ {
				src.add(int64(i+1), "E", t0.Add(time.Duration(i+1)*time.Second))
			}

			rec := &frameRecorder{}
			if err := s.Poll(context.Background(), rec.emit); err != nil {
				return false
			}
			frames := rec.snapshot()
			if n == 0 {
				return len(frames) == 1 && frames[0].Type == TypeHeartbeat
			}
			for _, f := range frames {
				if f.Type != TypeLog {
					return false
				}
			}
			return len(frames) == n
		},
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}
