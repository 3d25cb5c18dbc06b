// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/olegiv/folio-go/internal/handler/api"
	"github.com/olegiv/folio-go/internal/service"
)

// ContactPerPage is the page size of the admin inbox.
const ContactPerPage = 50

// ContactHandler lists stored contact messages for the admin.
type ContactHandler struct {
	contact *service.ContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contact *service.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

// List handles GET /admin/api/contact?page=.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	msgs, err := h.contact.List(r.Context(), ContactPerPage, int64(page-1)*ContactPerPage)
	if err != nil {
		logAndInternalError(w, "listing contact messages", "error", err)
		return
	}
	api.WriteSuccess(w, msgs, nil)
}
