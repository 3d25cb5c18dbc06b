// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the server configuration from FOLIO_* environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"FOLIO_DB_PATH" envDefault:"./data/folio.db"`
	SessionSecret string `env:"FOLIO_SESSION_SECRET,required"`
	ServerHost    string `env:"FOLIO_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"FOLIO_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"FOLIO_ENV" envDefault:"development"`
	LogLevel      string `env:"FOLIO_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"FOLIO_UPLOADS_DIR" envDefault:"./uploads"`

	// Optional log file, rotated by size. Logs always go to stderr too.
	LogFile      string `env:"FOLIO_LOG_FILE"`
	LogMaxSizeMB int    `env:"FOLIO_LOG_MAX_SIZE_MB" envDefault:"50"`
	LogMaxFiles  int    `env:"FOLIO_LOG_MAX_FILES" envDefault:"5"`

	// Cache configuration
	RedisURL     string `env:"FOLIO_REDIS_URL"`                          // Optional Redis URL for the public content cache
	CachePrefix  string `env:"FOLIO_CACHE_PREFIX" envDefault:"folio:"`   // Redis key prefix
	CacheTTL     int    `env:"FOLIO_CACHE_TTL" envDefault:"3600"`        // Default cache TTL in seconds
	CacheMaxSize int    `env:"FOLIO_CACHE_MAX_SIZE" envDefault:"1000"`   // Max memory cache entries

	// GeoIP configuration
	GeoIPDBPath string `env:"FOLIO_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Seeding configuration
	DoSeed        bool   `env:"FOLIO_DO_SEED" envDefault:"false"`
	AdminEmail    string `env:"FOLIO_ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPassword string `env:"FOLIO_ADMIN_PASSWORD"`

	// Live security feed
	FeedPollInterval time.Duration `env:"FOLIO_FEED_POLL_INTERVAL" envDefault:"3s"`

	// TrustedOrigins are host[:port] values allowed for CORS on /api and
	// for cross-origin admin requests.
	TrustedOrigins []string `env:"FOLIO_TRUSTED_ORIGINS" envSeparator:","`

	// PublicURL is the externally visible base URL, used in reset links.
	PublicURL string `env:"FOLIO_PUBLIC_URL" envDefault:"http://localhost:8080"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// CacheTTLDuration returns CacheTTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// SlogLevel maps LogLevel onto a slog level.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// CORSOrigins returns TrustedOrigins as full origins for the CORS handler.
// Bare hosts are assumed to be served over HTTPS.
func (c Config) CORSOrigins() []string {
	origins := make([]string, 0, len(c.TrustedOrigins))
	for _, o := range c.TrustedOrigins {
		if strings.HasPrefix(o, "http://") || strings.HasPrefix(o, "https://") {
			origins = append(origins, o)
			continue
		}
		origins = append(origins, "https://"+o)
	}
	return origins
}

// CSRFOrigins returns TrustedOrigins reduced to host[:port].
func (c Config) CSRFOrigins() []string {
	hosts := make([]string, 0, len(c.TrustedOrigins))
	for _, o := range c.TrustedOrigins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
			continue
		}
		hosts = append(hosts, o)
	}
	return hosts
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("FOLIO_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("FOLIO_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}
	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return fmt.Errorf("FOLIO_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	switch c.Env {
	case "development", "production":
	default:
		return fmt.Errorf("FOLIO_ENV must be development or production, got %q", c.Env)
	}

	if c.FeedPollInterval <= 0 {
		return fmt.Errorf("FOLIO_FEED_POLL_INTERVAL must be positive, got %s", c.FeedPollInterval)
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("FOLIO_SERVER_PORT out of range: %d", c.ServerPort)
	}
	if u, err := url.Parse(c.PublicURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("FOLIO_PUBLIC_URL must be an absolute http(s) URL, got %q", c.PublicURL)
	}

	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
