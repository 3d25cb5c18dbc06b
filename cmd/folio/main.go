// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command folio serves the portfolio site API, the admin API and the live
// security log stream.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/olegiv/folio-go/internal/cache"
	"github.com/olegiv/folio-go/internal/config"
	"github.com/olegiv/folio-go/internal/geoip"
	"github.com/olegiv/folio-go/internal/logging"
	"github.com/olegiv/folio-go/internal/middleware"
	"github.com/olegiv/folio-go/internal/scheduler"
	"github.com/olegiv/folio-go/internal/service"
	"github.com/olegiv/folio-go/internal/session"
	"github.com/olegiv/folio-go/internal/store"
	"github.com/olegiv/folio-go/internal/version"
)

// shutdownTimeout bounds the graceful shutdown.
const shutdownTimeout = 30 * time.Second

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "folio - portfolio CMS with a live security log\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_SESSION_SECRET      Session and CSRF key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_DB_PATH             SQLite database path (default: ./data/folio.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_SERVER_PORT         Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_ENV                 Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_UPLOADS_DIR         Upload directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_REDIS_URL           Redis URL for the public content cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_LOG_FILE            Rotated log file in addition to stderr (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_FEED_POLL_INTERVAL  Live feed poll interval (default: 3s)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Printf("folio %s\n", version.Current())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// newLogHandler writes text logs to stderr and, when a log file is
// configured, to a size-rotated file as well.
func newLogHandler(cfg *config.Config) (slog.Handler, func() error) {
	var (
		out     io.Writer = os.Stderr
		closeFn           = func() error { return nil }
	)
	if cfg.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxFiles,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stderr, rotator)
		closeFn = rotator.Close
	}
	return slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.SlogLevel()}), closeFn
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	textHandler, closeLog := newLogHandler(cfg)
	defer func() { _ = closeLog() }()
	baseLogger := slog.New(textHandler)
	slog.SetDefault(baseLogger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// The event service logs through the plain handler so a failed append
	// is never mirrored back into the security log.
	events := service.NewEventService(db, baseLogger)
	logger := slog.New(logging.NewEventLogHandler(textHandler, events))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.DoSeed {
		if err := store.Seed(ctx, db, store.SeedOptions{
			AdminEmail:    cfg.AdminEmail,
			AdminPassword: cfg.AdminPassword,
		}); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	contentCache := cache.New(ctx, cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTLDuration(),
		MaxSize:    cfg.CacheMaxSize,
	})
	defer func() { _ = contentCache.Close() }()

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("geoip disabled", "error", err)
	}
	defer func() { _ = geo.Close() }()

	md := service.NewMarkdown()
	content := service.NewContentService(db, events, contentCache, logger)
	authService := service.NewAuthService(db, events, service.LogResetNotifier{Logger: logger}, cfg.PublicURL)
	public := service.NewPublicService(db, content, contentCache, cfg.CacheTTLDuration(), md)

	sched := scheduler.New(logger)
	if err := scheduler.RegisterMaintenance(sched, authService, public, logger); err != nil {
		return fmt.Errorf("registering jobs: %w", err)
	}
	if geo.Enabled() {
		if err := scheduler.RegisterGeoIPReload(sched, geo); err != nil {
			return fmt.Errorf("registering jobs: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	a := &app{
		cfg:       cfg,
		db:        db,
		logger:    logger,
		sessions:  session.New(db, cfg.IsDevelopment()),
		queries:   store.New(db),
		events:    events,
		content:   content,
		auth:      authService,
		media:     service.NewMediaService(db, events, content, cfg.UploadsDir),
		public:    public,
		search:    service.NewSearchService(db),
		contact:   service.NewContactService(db, events, md),
		geo:       geo,
		login:     middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig()),
		scheduler: sched,
	}

	// WriteTimeout is cleared per response by the live stream.
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           newRouter(a),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	}

	slog.Info("shutting down server...")
	// Open streams end when the base context is cancelled.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
