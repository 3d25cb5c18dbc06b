// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Config selects and configures a backend.
type Config struct {
	// RedisURL selects Redis when set; otherwise the memory cache is used.
	RedisURL   string
	Prefix     string
	DefaultTTL time.Duration
	MaxSize    int
}

// New creates a Redis cache when RedisURL is set and reachable. An
// unreachable Redis falls back to the memory cache with a warning.
func New(ctx context.Context, cfg Config) Cache {
	memory := func() Cache {
		return NewMemoryCache(MemoryCacheOptions{DefaultTTL: cfg.DefaultTTL, MaxSize: cfg.MaxSize})
	}

	if cfg.RedisURL == "" {
		return memory()
	}

	opts := DefaultRedisCacheOptions()
	opts.URL = cfg.RedisURL
	if cfg.Prefix != "" {
		opts.Prefix = cfg.Prefix
	}
	if cfg.DefaultTTL > 0 {
		opts.DefaultTTL = cfg.DefaultTTL
	}

	rc, err := NewRedisCache(ctx, opts)
	if err != nil {
		slog.Warn("redis cache unavailable, using memory cache", "error", fmt.Errorf("connecting to redis: %w", err))
		return memory()
	}
	return rc
}
