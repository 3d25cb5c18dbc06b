// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const createSecurityLog = `-- name: CreateSecurityLog :one
INSERT INTO security_logs (event, level, details, created_at)
VALUES (?, ?, ?, ?)
RETURNING id, event, level, details, created_at
`

type CreateSecurityLogParams struct {
	Event     string         `json:"event"`
	Level     string         `json:"level"`
	Details   sql.NullString `json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}

func (q *Queries) CreateSecurityLog(ctx context.Context, arg CreateSecurityLogParams) (SecurityLog, error) {
	row := q.db.QueryRowContext(ctx, createSecurityLog,
		arg.Event,
		arg.Level,
		arg.Details,
		arg.CreatedAt,
	)
	var i SecurityLog
	err := row.Scan(
		&i.ID,
		&i.Event,
		&i.Level,
		&i.Details,
		&i.CreatedAt,
	)
	return i, err
}

const listSecurityLogsAfter = `-- name: ListSecurityLogsAfter :many
SELECT id, event, level, details, created_at FROM security_logs
WHERE created_at > ?
ORDER BY created_at ASC, id ASC
`

// ListSecurityLogsAfter returns entries strictly newer than after, oldest first.
func (q *Queries) ListSecurityLogsAfter(ctx context.Context, after time.Time) ([]SecurityLog, error) {
	rows, err := q.db.QueryContext(ctx, listSecurityLogsAfter, after)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanSecurityLogs(rows)
}

const listSecurityLogs = `-- name: ListSecurityLogs :many
SELECT id, event, level, details, created_at FROM security_logs
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?
`

type ListSecurityLogsParams struct {
	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
}

func (q *Queries) ListSecurityLogs(ctx context.Context, arg ListSecurityLogsParams) ([]SecurityLog, error) {
	rows, err := q.db.QueryContext(ctx, listSecurityLogs, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanSecurityLogs(rows)
}

const listSecurityLogsByLevel = `-- name: ListSecurityLogsByLevel :many
SELECT id, event, level, details, created_at FROM security_logs
WHERE level = ?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?
`

type ListSecurityLogsByLevelParams struct {
	Level  string `json:"level"`
	Limit  int64  `json:"limit"`
	Offset int64  `json:"offset"`
}

func (q *Queries) ListSecurityLogsByLevel(ctx context.Context, arg ListSecurityLogsByLevelParams) ([]SecurityLog, error) {
	rows, err := q.db.QueryContext(ctx, listSecurityLogsByLevel, arg.Level, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanSecurityLogs(rows)
}

const countSecurityLogs = `-- name: CountSecurityLogs :one
SELECT COUNT(*) FROM security_logs
`

func (q *Queries) CountSecurityLogs(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countSecurityLogs)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countSecurityLogsByLevel = `-- name: CountSecurityLogsByLevel :one
SELECT COUNT(*) FROM security_logs WHERE level = ?
`

func (q *Queries) CountSecurityLogsByLevel(ctx context.Context, level string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countSecurityLogsByLevel, level)
	var count int64
	err := row.Scan(&count)
	return count, err
}

func scanSecurityLogs(rows *sql.Rows) ([]SecurityLog, error) {
	items := []SecurityLog{}
	for rows.Next() {
		var i SecurityLog
		if err := rows.Scan(
			&i.ID,
			&i.Event,
			&i.Level,
			&i.Details,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
