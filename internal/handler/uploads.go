// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/olegiv/folio-go/internal/handler/api"
	"github.com/olegiv/folio-go/internal/service"
)

// maxMultipartBody leaves room for the multipart envelope around the
// largest accepted document.
const maxMultipartBody = service.MaxDocumentSize + 1<<20

// UploadHandler accepts admin file uploads.
type UploadHandler struct {
	media *service.MediaService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(media *service.MediaService) *UploadHandler {
	return &UploadHandler{media: media}
}

// Upload handles POST /admin/api/uploads with a multipart "file" field and
// an optional "purpose" of "image" or "cv".
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
	if err := r.ParseMultipartForm(maxMultipartBody); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.WriteError(w, http.StatusRequestEntityTooLarge, "file_too_large", "File is too large", nil)
			return
		}
		api.WriteBadRequest(w, "Invalid multipart form", nil)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	purpose := r.FormValue("purpose")
	switch purpose {
	case "", service.PurposeImage, service.PurposeCV:
	default:
		api.WriteValidationError(w, map[string]string{"purpose": "Purpose must be image or cv"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.WriteValidationError(w, map[string]string{"file": "File is required"})
		return
	}
	defer func() { _ = file.Close() }()

	up, err := h.media.Upload(r.Context(), file, header.Filename, purpose)
	switch {
	case err == nil:
		api.WriteCreated(w, up)
	case errors.Is(err, service.ErrFileTooLarge):
		api.WriteError(w, http.StatusRequestEntityTooLarge, "file_too_large", err.Error(), nil)
	case errors.Is(err, service.ErrUnsupportedType):
		api.WriteError(w, http.StatusUnsupportedMediaType, "unsupported_type", "Unsupported file type", nil)
	default:
		logAndInternalError(w, "upload failed", "error", err)
	}
}
