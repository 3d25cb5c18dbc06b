// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const experienceColumns = `id, company, role, start_date, end_date, current, description, sort_order, created_at, updated_at`

const createExperience = `-- name: CreateExperience :one
INSERT INTO experience (company, role, start_date, end_date, current, description, sort_order, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + experienceColumns

type CreateExperienceParams struct {
	Company     string       `json:"company"`
	Role        string       `json:"role"`
	StartDate   time.Time    `json:"start_date"`
	EndDate     sql.NullTime `json:"end_date"`
	Current     bool         `json:"current"`
	Description string       `json:"description"`
	SortOrder   int64        `json:"sort_order"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (q *Queries) CreateExperience(ctx context.Context, arg CreateExperienceParams) (Experience, error) {
	row := q.db.QueryRowContext(ctx, createExperience,
		arg.Company,
		arg.Role,
		arg.StartDate,
		arg.EndDate,
		arg.Current,
		arg.Description,
		arg.SortOrder,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanExperience(row)
}

const updateExperience = `-- name: UpdateExperience :one
UPDATE experience
SET company = ?, role = ?, start_date = ?, end_date = ?, current = ?, description = ?, sort_order = ?, updated_at = ?
WHERE id = ?
RETURNING ` + experienceColumns

type UpdateExperienceParams struct {
	Company     string       `json:"company"`
	Role        string       `json:"role"`
	StartDate   time.Time    `json:"start_date"`
	EndDate     sql.NullTime `json:"end_date"`
	Current     bool         `json:"current"`
	Description string       `json:"description"`
	SortOrder   int64        `json:"sort_order"`
	UpdatedAt   time.Time    `json:"updated_at"`
	ID          int64        `json:"id"`
}

func (q *Queries) UpdateExperience(ctx context.Context, arg UpdateExperienceParams) (Experience, error) {
	row := q.db.QueryRowContext(ctx, updateExperience,
		arg.Company,
		arg.Role,
		arg.StartDate,
		arg.EndDate,
		arg.Current,
		arg.Description,
		arg.SortOrder,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanExperience(row)
}

const deleteExperience = `-- name: DeleteExperience :execrows
DELETE FROM experience WHERE id = ?
`

func (q *Queries) DeleteExperience(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteExperience, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getExperience = `-- name: GetExperience :one
SELECT ` + experienceColumns + ` FROM experience WHERE id = ?
`

func (q *Queries) GetExperience(ctx context.Context, id int64) (Experience, error) {
	return scanExperience(q.db.QueryRowContext(ctx, getExperience, id))
}

const listExperience = `-- name: ListExperience :many
SELECT ` + experienceColumns + ` FROM experience
ORDER BY sort_order ASC, start_date DESC
`

func (q *Queries) ListExperience(ctx context.Context) ([]Experience, error) {
	rows, err := q.db.QueryContext(ctx, listExperience)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanExperiences(rows)
}

const searchExperience = `-- name: SearchExperience :many
SELECT ` + experienceColumns + ` FROM experience
WHERE company LIKE ? ESCAPE '\' OR role LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'
ORDER BY role ASC
LIMIT ?
`

func (q *Queries) SearchExperience(ctx context.Context, arg SearchParams) ([]Experience, error) {
	rows, err := q.db.QueryContext(ctx, searchExperience, arg.Pattern, arg.Pattern, arg.Pattern, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanExperiences(rows)
}

const countExperience = `-- name: CountExperience :one
SELECT COUNT(*) FROM experience
`

func (q *Queries) CountExperience(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countExperience)
	var count int64
	err := row.Scan(&count)
	return count, err
}

func scanExperience(row *sql.Row) (Experience, error) {
	var i Experience
	err := row.Scan(
		&i.ID,
		&i.Company,
		&i.Role,
		&i.StartDate,
		&i.EndDate,
		&i.Current,
		&i.Description,
		&i.SortOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func scanExperiences(rows *sql.Rows) ([]Experience, error) {
	items := []Experience{}
	for rows.Next() {
		var i Experience
		if err := rows.Scan(
			&i.ID,
			&i.Company,
			&i.Role,
			&i.StartDate,
			&i.EndDate,
			&i.Current,
			&i.Description,
			&i.SortOrder,
			&i.CreatedAt,
			&i.UpdatedAt,
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
