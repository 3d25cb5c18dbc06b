// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const skillColumns = `id, name, category, sort_order, created_at, updated_at`

const createSkill = `-- name: CreateSkill :one
INSERT INTO skills (name, category, sort_order, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
RETURNING ` + skillColumns

type CreateSkillParams struct {
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	SortOrder int64     `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Queries) CreateSkill(ctx context.Context, arg CreateSkillParams) (Skill, error) {
	row := q.db.QueryRowContext(ctx, createSkill,
		arg.Name,
		arg.Category,
		arg.SortOrder,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanSkill(row)
}

const updateSkill = `-- name: UpdateSkill :one
UPDATE skills SET name = ?, category = ?, sort_order = ?, updated_at = ?
WHERE id = ?
RETURNING ` + skillColumns

type UpdateSkillParams struct {
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	SortOrder int64     `json:"sort_order"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) UpdateSkill(ctx context.Context, arg UpdateSkillParams) (Skill, error) {
	row := q.db.QueryRowContext(ctx, updateSkill,
		arg.Name,
		arg.Category,
		arg.SortOrder,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanSkill(row)
}

const deleteSkill = `-- name: DeleteSkill :execrows
DELETE FROM skills WHERE id = ?
`

func (q *Queries) DeleteSkill(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSkill, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getSkill = `-- name: GetSkill :one
SELECT ` + skillColumns + ` FROM skills WHERE id = ?
`

func (q *Queries) GetSkill(ctx context.Context, id int64) (Skill, error) {
	return scanSkill(q.db.QueryRowContext(ctx, getSkill, id))
}

const getSkillByName = `-- name: GetSkillByName :one
SELECT ` + skillColumns + ` FROM skills WHERE name = ?
`

func (q *Queries) GetSkillByName(ctx context.Context, name string) (Skill, error) {
	return scanSkill(q.db.QueryRowContext(ctx, getSkillByName, name))
}

const listSkills = `-- name: ListSkills :many
SELECT ` + skillColumns + ` FROM skills
ORDER BY sort_order ASC, name ASC
`

func (q *Queries) ListSkills(ctx context.Context) ([]Skill, error) {
	rows, err := q.db.QueryContext(ctx, listSkills)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanSkills(rows)
}

const searchSkills = `-- name: SearchSkills :many
SELECT ` + skillColumns + ` FROM skills
WHERE name LIKE ? ESCAPE '\'
ORDER BY name ASC
LIMIT ?
`

func (q *Queries) SearchSkills(ctx context.Context, arg SearchParams) ([]Skill, error) {
	rows, err := q.db.QueryContext(ctx, searchSkills, arg.Pattern, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanSkills(rows)
}

const countSkills = `-- name: CountSkills :one
SELECT COUNT(*) FROM skills
`

func (q *Queries) CountSkills(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countSkills)
	var count int64
	err := row.Scan(&count)
	return count, err
}

func scanSkill(row *sql.Row) (Skill, error) {
	var i Skill
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Category,
		&i.SortOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func scanSkills(rows *sql.Rows) ([]Skill, error) {
	items := []Skill{}
	for rows.Next() {
		var i Skill
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Category,
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
