// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/olegiv/folio-go/internal/config"
	"github.com/olegiv/folio-go/internal/geoip"
	"github.com/olegiv/folio-go/internal/handler"
	"github.com/olegiv/folio-go/internal/handler/api"
	"github.com/olegiv/folio-go/internal/metrics"
	"github.com/olegiv/folio-go/internal/middleware"
	"github.com/olegiv/folio-go/internal/scheduler"
	"github.com/olegiv/folio-go/internal/service"
	"github.com/olegiv/folio-go/internal/session"
	"github.com/olegiv/folio-go/internal/store"
	"github.com/olegiv/folio-go/internal/version"
)

const (
	// requestTimeout bounds every request except the live log stream.
	requestTimeout = 30 * time.Second
	// uploadsMaxAge is the browser cache lifetime of uploaded files.
	uploadsMaxAge = 7 * 24 * 60 * 60

	publicRPS      = 10
	publicBurst    = 30
	contactRPS     = 3.0 / 60
	contactBurst   = 3
	corsMaxAgeSecs = 300
)

// app holds the wired services the router needs.
type app struct {
	cfg       *config.Config
	db        *sql.DB
	logger    *slog.Logger
	sessions  *scs.SessionManager
	queries   *store.Queries
	events    *service.EventService
	content   *service.ContentService
	auth      *service.AuthService
	media     *service.MediaService
	public    *service.PublicService
	search    *service.SearchService
	contact   *service.ContactService
	geo       *geoip.Resolver
	login     *middleware.LoginProtection
	scheduler *scheduler.Scheduler
}

func newRouter(a *app) http.Handler {
	authHandler := handler.NewAuthHandler(a.auth, a.events, a.sessions, a.login, a.geo)
	contentHandler := handler.NewContentHandler(a.content, a.events)
	logsHandler := handler.NewLogsHandler(a.events, a.cfg.FeedPollInterval, a.logger)
	publicHandler := handler.NewPublicHandler(a.public, a.search, a.contact, a.cfg.UploadsDir)
	uploadHandler := handler.NewUploadHandler(a.media)
	contactHandler := handler.NewContactHandler(a.contact)
	jobsHandler := handler.NewJobsHandler(a.scheduler)
	healthHandler := handler.NewHealthHandler(a.db, a.sessions, a.cfg.UploadsDir, version.Current())

	csrf := middleware.CSRF(middleware.DefaultCSRFConfig(
		[]byte(a.cfg.SessionSecret), a.cfg.IsDevelopment(), a.cfg.CSRFOrigins()...))
	timeout := chimw.Timeout(requestTimeout)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(a.cfg.IsDevelopment())))
	r.Use(middleware.Gate(middleware.DefaultGateConfig(session.CookieNames()...)))
	r.Use(a.sessions.LoadAndSave)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		api.WriteNotFound(w, "Not found")
	})

	r.With(timeout).Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Handle("/metrics", metrics.Handler())

	r.With(middleware.UploadHeaders(uploadsMaxAge)).Handle(service.UploadURLPrefix+"*",
		http.StripPrefix(service.UploadURLPrefix, noDirListing(http.FileServer(http.Dir(a.cfg.UploadsDir)))))

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: a.cfg.CORSOrigins(),
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         corsMaxAgeSecs,
		}).Handler)
		r.Use(timeout)
		r.Use(middleware.RateLimit(publicRPS, publicBurst))

		r.Get("/site", publicHandler.Site)
		r.Get("/projects", publicHandler.Projects)
		r.Get("/projects/{idOrSlug}", publicHandler.Project)
		r.Get("/search", publicHandler.Search)
		r.Get("/download-cv", publicHandler.DownloadCV)
		r.With(middleware.RateLimit(contactRPS, contactBurst)).Post("/contact", publicHandler.Contact)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(csrf)

		r.Group(func(r chi.Router) {
			r.Use(timeout)
			r.Use(a.login.Middleware())
			r.Post("/login", authHandler.Login)
			r.Post("/recovery", authHandler.Recovery)
			r.Post("/reset-password", authHandler.ResetPassword)
		})

		r.Route("/api", func(r chi.Router) {
			r.Use(middleware.RequireUser(a.sessions, a.queries))

			// The stream outlives any request timeout.
			r.Get("/logs/stream", logsHandler.Stream)

			r.Group(func(r chi.Router) {
				r.Use(timeout)

				r.Post("/logout", authHandler.Logout)
				r.Get("/dashboard", contentHandler.Dashboard)

				r.Route("/projects", func(r chi.Router) {
					r.Get("/", contentHandler.ListProjects)
					r.Post("/", contentHandler.CreateProject)
					r.Get("/{id}", contentHandler.GetProject)
					r.Put("/{id}", contentHandler.UpdateProject)
					r.Delete("/{id}", contentHandler.DeleteProject)
				})
				r.Route("/skills", func(r chi.Router) {
					r.Get("/", contentHandler.ListSkills)
					r.Post("/", contentHandler.CreateSkill)
					r.Get("/{id}", contentHandler.GetSkill)
					r.Put("/{id}", contentHandler.UpdateSkill)
					r.Delete("/{id}", contentHandler.DeleteSkill)
				})
				r.Route("/experience", func(r chi.Router) {
					r.Get("/", contentHandler.ListExperience)
					r.Post("/", contentHandler.CreateExperience)
					r.Get("/{id}", contentHandler.GetExperience)
					r.Put("/{id}", contentHandler.UpdateExperience)
					r.Delete("/{id}", contentHandler.DeleteExperience)
				})

				r.Get("/settings", contentHandler.GetSettings)
				r.Put("/settings", contentHandler.UpdateSettings)
				r.Get("/profile", contentHandler.GetProfile)
				r.Put("/profile", contentHandler.UpdateProfile)
				r.Get("/profile/stats", contentHandler.ProfileStats)

				r.Get("/logs", logsHandler.List)
				r.Post("/uploads", uploadHandler.Upload)
				r.Get("/contact", contactHandler.List)

				r.Get("/jobs", jobsHandler.List)
				r.Post("/jobs/{name}/run", jobsHandler.Run)
			})
		})
	})

	return r
}

// noDirListing hides directory indexes of the uploads file server.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			api.WriteNotFound(w, "Not found")
			return
		}
		next.ServeHTTP(w, r)
	})
}
