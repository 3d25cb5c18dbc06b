// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/store"
)

// ContactMessage is a message left through the public contact form.
type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	IPAddress string    `json:"ipAddress"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContactService stores contact form submissions.
type ContactService struct {
	queries *store.Queries
	events  *EventService
	md      *Markdown
	now     func() time.Time
}

// NewContactService creates a ContactService.
func NewContactService(db store.DBTX, events *EventService, md *Markdown) *ContactService {
	if md == nil {
		md = NewMarkdown()
	}
	return &ContactService{
		queries: store.New(db),
		events:  events,
		md:      md,
		now:     time.Now,
	}
}

// Submit validates and stores a message. Markup is stripped from the name
// and message before validation.
func (s *ContactService) Submit(ctx context.Context, in model.ContactInput, ip string) (ContactMessage, error) {
	in.Normalize()
	in.Name = s.md.PlainText(in.Name)
	in.Message = s.md.PlainText(in.Message)
	if err := in.Validate().Err(); err != nil {
		return ContactMessage{}, err
	}

	row, err := s.queries.CreateContactMessage(ctx, store.CreateContactMessageParams{
		Name:      in.Name,
		Email:     in.Email,
		Message:   in.Message,
		IpAddress: ip,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return ContactMessage{}, fmt.Errorf("storing contact message: %w", err)
	}

	s.events.Info(ctx, model.EventContactMessage, fmt.Sprintf("Contact message from %q <%s>.", row.Name, row.Email))
	return contactFromRow(row), nil
}

// List returns stored messages, newest first.
func (s *ContactService) List(ctx context.Context, limit, offset int64) ([]ContactMessage, error) {
	rows, err := s.queries.ListContactMessages(ctx, store.ListContactMessagesParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("listing contact messages: %w", err)
	}
	out := make([]ContactMessage, 0, len(rows))
	for _, r := range rows {
		out = append(out, contactFromRow(r))
	}
	return out, nil
}

func contactFromRow(r store.ContactMessage) ContactMessage {
	return ContactMessage{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Message:   r.Message,
		IPAddress: r.IpAddress,
		CreatedAt: r.CreatedAt,
	}
}
