// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command folio-tail follows the live security log of a folio server in a
// terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/olegiv/folio-go/internal/feed"
	"github.com/olegiv/folio-go/internal/session"
	"github.com/olegiv/folio-go/internal/version"
)

func main() {
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.url, "url", "http://localhost:8080/admin/api/logs/stream", "Stream endpoint")
	flag.StringVar(&opts.cookieName, "cookie-name", session.CookieName, "Session cookie name")
	flag.StringVar(&opts.cookie, "cookie", os.Getenv("FOLIO_TAIL_COOKIE"), "Session cookie value (default $FOLIO_TAIL_COOKIE)")
	flag.DurationVar(&opts.retry, "retry", 5*time.Second, "Delay before reconnecting")
	flag.IntVar(&opts.size, "lines", feed.DefaultBacklogSize, "Lines kept in the rolling view")
	flag.BoolVar(&opts.screen, "screen", false, "Redraw the whole view on every frame")
	flag.BoolVar(&opts.heartbeats, "heartbeats", false, "Show heartbeat lines")
	noColor := flag.Bool("no-color", false, "Disable colors")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("folio-tail %s\n", version.Current())
		return
	}
	if *noColor {
		color.NoColor = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newTailer(opts, color.Output).run(ctx); err != nil {
		os.Exit(1)
	}
}
