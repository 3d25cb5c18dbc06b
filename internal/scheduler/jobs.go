// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
)

// Job names and their default schedules.
const (
	JobPurgeResetTokens = "purge-reset-tokens"
	JobWarmPublicCache  = "warm-public-cache"
	JobReloadGeoIP      = "reload-geoip"

	PurgeResetTokensSchedule = "15 * * * *"
	WarmPublicCacheSchedule  = "*/10 * * * *"
	ReloadGeoIPSchedule      = "@daily"
)

// TokenPurger deletes expired password reset tokens.
type TokenPurger interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

// CacheWarmer preloads the public content cache.
type CacheWarmer interface {
	Warm(ctx context.Context) error
}

// Reloader reopens a file-backed database when it changed on disk.
type Reloader interface {
	Reload() error
}

// RegisterMaintenance adds the built-in maintenance jobs.
func RegisterMaintenance(s *Scheduler, tokens TokenPurger, warmer CacheWarmer, logger *slog.Logger) error {
	err := s.Add(JobPurgeResetTokens, "Delete expired password reset tokens", PurgeResetTokensSchedule,
		func(ctx context.Context) error {
			n, err := tokens.PurgeExpiredTokens(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("purged expired reset tokens", "count", n)
			}
			return nil
		})
	if err != nil {
		return err
	}

	return s.Add(JobWarmPublicCache, "Preload the public site payload", WarmPublicCacheSchedule,
		warmer.Warm)
}

// RegisterGeoIPReload picks up a replaced GeoIP database without a restart.
func RegisterGeoIPReload(s *Scheduler, r Reloader) error {
	return s.Add(JobReloadGeoIP, "Reopen the GeoIP database if it changed", ReloadGeoIPSchedule,
		func(context.Context) error { return r.Reload() })
}
