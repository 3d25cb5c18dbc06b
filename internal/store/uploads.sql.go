// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const createUpload = `-- name: CreateUpload :one
INSERT INTO uploads (uuid, filename, mime_type, size, width, height, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id, uuid, filename, mime_type, size, width, height, created_at
`

type CreateUploadParams struct {
	Uuid      string        `json:"uuid"`
	Filename  string        `json:"filename"`
	MimeType  string        `json:"mime_type"`
	Size      int64         `json:"size"`
	Width     sql.NullInt64 `json:"width"`
	Height    sql.NullInt64 `json:"height"`
	CreatedAt time.Time     `json:"created_at"`
}

func (q *Queries) CreateUpload(ctx context.Context, arg CreateUploadParams) (Upload, error) {
	row := q.db.QueryRowContext(ctx, createUpload,
		arg.Uuid,
		arg.Filename,
		arg.MimeType,
		arg.Size,
		arg.Width,
		arg.Height,
		arg.CreatedAt,
	)
	var i Upload
	err := row.Scan(
		&i.ID,
		&i.Uuid,
		&i.Filename,
		&i.MimeType,
		&i.Size,
		&i.Width,
		&i.Height,
		&i.CreatedAt,
	)
	return i, err
}
