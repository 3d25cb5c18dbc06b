// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio-go/internal/model"
)

func TestContactSubmit(t *testing.T) {
	f := newContentFixture(t)
	svc := NewContactService(f.db, f.events, nil)
	ctx := context.Background()
	faker := gofakeit.New(3)

	name := faker.Name()
	email := faker.Email()
	msg, err := svc.Submit(ctx, model.ContactInput{
		Name:    name,
		Email:   email,
		Message: "<b>Hi</b> there",
	}, "198.51.100.7")
	require.NoError(t, err)
	assert.Equal(t, "Hi there", msg.Message)
	assert.Equal(t, "198.51.100.7", msg.IPAddress)

	ev := f.lastEvent(t)
	assert.Equal(t, model.EventContactMessage, ev.Event)
	assert.Equal(t, model.LevelInfo, ev.Level)

	list, err := svc.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, email, list[0].Email)
}

func TestContactSubmit_Validation(t *testing.T) {
	f := newContentFixture(t)
	svc := NewContactService(f.db, f.events, nil)

	_, err := svc.Submit(context.Background(), model.ContactInput{Email: "not-an-email", Message: "<p></p>"}, "")

	var verrs model.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "name")
	assert.Contains(t, verrs, "email")
	assert.Contains(t, verrs, "message")
}

func TestMarkdown(t *testing.T) {
	md := NewMarkdown()

	assert.Empty(t, md.Render("   "))
	assert.Contains(t, md.Render("# Title"), "<h1")
	assert.NotContains(t, md.Render(`<img src=x onerror="alert(1)">`), "onerror")
	assert.Contains(t, md.Render("[x](https://example.com)"), "nofollow")
	assert.Equal(t, "bold", md.PlainText("<strong>bold</strong>"))
}
