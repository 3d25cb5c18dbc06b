// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio-go/internal/feed"
	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/testutil"
)

func newLogsRouter(e *handlerEnv, interval time.Duration) http.Handler {
	h := NewLogsHandler(e.events, interval, testutil.TestLoggerSilent())
	r := chi.NewRouter()
	r.Get("/logs", h.List)
	r.Get("/logs/stream", h.Stream)
	return r
}

func TestLogsList(t *testing.T) {
	e := newHandlerEnv(t)
	router := newLogsRouter(e, time.Second)
	ctx := context.Background()

	e.events.Info(ctx, model.EventUploadFile, "one")
	e.events.Danger(ctx, model.EventAccountLocked, "two")
	e.events.Warning(ctx, model.EventLoginFailed, "three")

	w := serve(router, httptest.NewRequest(http.MethodGet, "/logs", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(3), env.Meta.Total)
	assert.Equal(t, LogsPerPage, env.Meta.PerPage)

	entries := decodeData[[]feed.Entry](t, w)
	require.Len(t, entries, 3)
	assert.Equal(t, model.EventLoginFailed, entries[0].Event, "newest first")

	w = serve(router, httptest.NewRequest(http.MethodGet, "/logs?level=danger", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	entries = decodeData[[]feed.Entry](t, w)
	require.Len(t, entries, 1)
	assert.Equal(t, model.LevelDanger, entries[0].Level)

	w = serve(router, httptest.NewRequest(http.MethodGet, "/logs?level=CRITICAL", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogsList_Pagination(t *testing.T) {
	e := newHandlerEnv(t)
	router := newLogsRouter(e, time.Second)
	ctx := context.Background()
	for i := range LogsPerPage + 5 {
		e.events.Info(ctx, model.EventUploadFile, fmt.Sprintf("upload %d", i))
	}

	w := serve(router, httptest.NewRequest(http.MethodGet, "/logs?page=2", nil))
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 2, env.Meta.Page)
	assert.Equal(t, 2, env.Meta.Pages)
	assert.Len(t, decodeData[[]feed.Entry](t, w), 5)
}

func TestLogsStream(t *testing.T) {
	e := newHandlerEnv(t)
	ctx := context.Background()
	e.events.Info(ctx, model.EventUploadFile, "written before the stream opened")

	srv := httptest.NewServer(newLogsRouter(e, 20*time.Millisecond))
	defer srv.Close()

	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, srv.URL+"/logs/stream", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	dec := feed.NewDecoder(resp.Body)
	first, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, feed.TypeConnected, first.Type)
	assert.Equal(t, feed.ConnectedMessage, first.Message)

	e.events.Danger(ctx, model.EventAccountLocked, "streamed")

	for {
		f, err := dec.Next()
		require.NoError(t, err)
		if f.Type == feed.TypeHeartbeat {
			continue
		}
		require.Equal(t, feed.TypeLog, f.Type)
		assert.Equal(t, model.EventAccountLocked, f.Data.Event, "older entries are not replayed")
		assert.Equal(t, model.LevelDanger, f.Data.Level)
		break
	}
}
