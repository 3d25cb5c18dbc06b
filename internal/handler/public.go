// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio-go/internal/handler/api"
	"github.com/olegiv/folio-go/internal/middleware"
	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/service"
	"github.com/olegiv/folio-go/internal/util"
)

const (
	// MaxDownloadSize caps documents proxied by DownloadCV.
	MaxDownloadSize = service.MaxDocumentSize
	// downloadTimeout bounds the whole remote fetch.
	downloadTimeout = 30 * time.Second
	// publicMaxAge is the browser cache lifetime of public payloads.
	publicMaxAge = 60
)

// PublicHandler serves the unauthenticated site API.
type PublicHandler struct {
	public     *service.PublicService
	search     *service.SearchService
	contact    *service.ContactService
	uploadsDir string
	client     *http.Client
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(public *service.PublicService, search *service.SearchService, contact *service.ContactService, uploadsDir string) *PublicHandler {
	return &PublicHandler{
		public:     public,
		search:     search,
		contact:    contact,
		uploadsDir: uploadsDir,
		client:     util.NewSafeHTTPClient(downloadTimeout),
	}
}

func setPublicCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", publicMaxAge))
}

// Site handles GET /api/site.
func (h *PublicHandler) Site(w http.ResponseWriter, r *http.Request) {
	site, err := h.public.Site(r.Context())
	if err != nil {
		logAndInternalError(w, "loading site payload", "error", err)
		return
	}
	setPublicCache(w)
	api.WriteSuccess(w, site, nil)
}

// Projects handles GET /api/projects.
func (h *PublicHandler) Projects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.public.Projects(r.Context())
	if err != nil {
		logAndInternalError(w, "loading projects", "error", err)
		return
	}
	setPublicCache(w)
	api.WriteSuccess(w, projects, api.NewMeta(int64(len(projects)), 0, 0))
}

// Project handles GET /api/projects/{idOrSlug}.
func (h *PublicHandler) Project(w http.ResponseWriter, r *http.Request) {
	p, err := h.public.Project(r.Context(), chi.URLParam(r, "idOrSlug"))
	if err != nil {
		writeServiceError(w, err, "Project")
		return
	}
	setPublicCache(w)
	api.WriteSuccess(w, p, nil)
}

// Search handles GET /api/search?q=.
func (h *PublicHandler) Search(w http.ResponseWriter, r *http.Request) {
	results, err := h.search.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		logAndInternalError(w, "search failed", "error", err)
		return
	}
	api.WriteSuccess(w, results, nil)
}

// Contact handles POST /api/contact.
func (h *PublicHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var in model.ContactInput
	if !decodeOrBadRequest(w, r, &in) {
		return
	}
	msg, err := h.contact.Submit(r.Context(), in, middleware.ClientIP(r))
	if err != nil {
		writeServiceError(w, err, "Message")
		return
	}
	api.WriteCreated(w, map[string]any{
		"id":      msg.ID,
		"message": "Thanks, your message has been sent.",
	})
}

// DownloadCV handles GET /api/download-cv?url=&name=. A local /uploads/
// path is served from disk; anything else must be a public http(s) URL.
// The document is returned as an attachment.
func (h *PublicHandler) DownloadCV(w http.ResponseWriter, r *http.Request) {
	rawURL := strings.TrimSpace(r.URL.Query().Get("url"))
	if rawURL == "" {
		api.WriteBadRequest(w, "Missing URL", nil)
		return
	}
	name := attachmentName(r.URL.Query().Get("name"))

	if strings.HasPrefix(rawURL, service.UploadURLPrefix) {
		h.serveLocalCV(w, r, strings.TrimPrefix(rawURL, service.UploadURLPrefix), name)
		return
	}

	u, err := util.ValidateRemoteURL(r.Context(), rawURL)
	if err != nil {
		api.WriteBadRequest(w, "URL not allowed", map[string]string{"url": err.Error()})
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, u.String(), nil)
	if err != nil {
		api.WriteBadRequest(w, "Invalid URL", nil)
		return
	}
	resp, err := h.client.Do(req)
	if err != nil {
		api.WriteError(w, http.StatusBadGateway, "bad_gateway", "Download failed", nil)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		api.WriteError(w, http.StatusBadGateway, "bad_gateway", "Failed to fetch file", nil)
		return
	}
	if resp.ContentLength > MaxDownloadSize {
		api.WriteError(w, http.StatusBadGateway, "bad_gateway", "File too large", nil)
		return
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxDownloadSize+1))
	if err != nil {
		api.WriteError(w, http.StatusBadGateway, "bad_gateway", "Download failed", nil)
		return
	}
	if len(body) > MaxDownloadSize {
		api.WriteError(w, http.StatusBadGateway, "bad_gateway", "File too large", nil)
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	writeAttachment(w, contentType, name, body)
}

func (h *PublicHandler) serveLocalCV(w http.ResponseWriter, r *http.Request, file, name string) {
	p, err := util.SafeJoin(h.uploadsDir, file)
	if err != nil {
		api.WriteNotFound(w, "File not found")
		return
	}
	f, err := os.Open(p)
	if err != nil {
		api.WriteNotFound(w, "File not found")
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		api.WriteNotFound(w, "File not found")
		return
	}

	contentType := mime.TypeByExtension(path.Ext(file))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, "", info.ModTime(), f)
}

func writeAttachment(w http.ResponseWriter, contentType, name string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// attachmentName strips path and control characters from a requested
// download name.
func attachmentName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == '"' {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" {
		return "resume"
	}
	return name
}
