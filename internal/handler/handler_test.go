// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio-go/internal/cache"
	"github.com/olegiv/folio-go/internal/middleware"
	"github.com/olegiv/folio-go/internal/service"
	"github.com/olegiv/folio-go/internal/session"
	"github.com/olegiv/folio-go/internal/store"
	"github.com/olegiv/folio-go/internal/testutil"
)

const (
	testAdminEmail    = testutil.AdminEmail
	testAdminPassword = testutil.AdminPassword
)

// handlerEnv wires real services over a migrated, seeded test database.
type handlerEnv struct {
	db      *sql.DB
	queries *store.Queries
	events  *service.EventService
	content *service.ContentService
	sm      *scs.SessionManager
	user    store.User
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()
	db, user := testutil.SeededDB(t)

	logger := testutil.TestLoggerSilent()
	events := service.NewEventService(db, logger)
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = mem.Close() })

	return &handlerEnv{
		db:      db,
		queries: store.New(db),
		events:  events,
		content: service.NewContentService(db, events, mem, logger),
		sm:      session.New(db, true),
		user:    user,
	}
}

// lastEvent returns the newest security log entry.
func (e *handlerEnv) lastEvent(t *testing.T) store.SecurityLog {
	t.Helper()
	entries, err := e.events.Latest(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	return entries[0]
}

// asUser attaches the admin to the request context the way RequireUser does.
func (e *handlerEnv) asUser(r *http.Request) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), e.user))
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

type envelopeMeta struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Pages   int   `json:"pages"`
}

type envelopeError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

// envelope decodes {"data":...,"meta":...} or {"error":...}.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  *envelopeMeta   `json:"meta"`
	Error *envelopeError  `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return env
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}
