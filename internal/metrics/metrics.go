// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics exposes Prometheus collectors for HTTP traffic, the
// security log and the live feed.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "folio"

var (
	// HTTPRequestTotal counts requests by method, route pattern and status.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDurationSeconds is the request latency histogram.
	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2.5, 10),
		},
		[]string{"method", "route"},
	)

	// SecurityLogAppendsTotal counts successful appends by level.
	SecurityLogAppendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "security_log_appends_total",
			Help:      "Security log entries written, by level.",
		},
		[]string{"level"},
	)

	// SecurityLogAppendErrorsTotal counts appends that failed at the store.
	SecurityLogAppendErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "security_log_append_errors_total",
			Help:      "Security log appends that failed.",
		},
	)

	// FeedSessionsActive is the number of open live feed streams.
	FeedSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_sessions_active",
			Help:      "Number of open live feed streams.",
		},
	)

	// FeedFramesTotal counts frames written to live feed clients, by frame type.
	FeedFramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_frames_total",
			Help:      "Frames sent to live feed clients, by type.",
		},
		[]string{"type"},
	)

	// FeedPollErrorsTotal counts poll ticks that failed and were skipped.
	FeedPollErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_poll_errors_total",
			Help:      "Live feed poll ticks skipped because the store query failed.",
		},
	)

	// CacheLookupsTotal counts public content cache lookups by result (hit or miss).
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Public content cache lookups, by result.",
		},
		[]string{"result"},
	)
)
