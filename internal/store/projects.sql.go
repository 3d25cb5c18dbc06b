// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const projectColumns = `id, title, slug, description, live_url, github_url, image, tags, featured, sort_order, created_at, updated_at`

const createProject = `-- name: CreateProject :one
INSERT INTO projects (title, slug, description, live_url, github_url, image, tags, featured, sort_order, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + projectColumns

type CreateProjectParams struct {
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	LiveUrl     string    `json:"live_url"`
	GithubUrl   string    `json:"github_url"`
	Image       string    `json:"image"`
	Tags        string    `json:"tags"`
	Featured    bool      `json:"featured"`
	SortOrder   int64     `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error) {
	row := q.db.QueryRowContext(ctx, createProject,
		arg.Title,
		arg.Slug,
		arg.Description,
		arg.LiveUrl,
		arg.GithubUrl,
		arg.Image,
		arg.Tags,
		arg.Featured,
		arg.SortOrder,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanProject(row)
}

const updateProject = `-- name: UpdateProject :one
UPDATE projects
SET title = ?, slug = ?, description = ?, live_url = ?, github_url = ?, image = ?, tags = ?, featured = ?, sort_order = ?, updated_at = ?
WHERE id = ?
RETURNING ` + projectColumns

type UpdateProjectParams struct {
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	LiveUrl     string    `json:"live_url"`
	GithubUrl   string    `json:"github_url"`
	Image       string    `json:"image"`
	Tags        string    `json:"tags"`
	Featured    bool      `json:"featured"`
	SortOrder   int64     `json:"sort_order"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          int64     `json:"id"`
}

func (q *Queries) UpdateProject(ctx context.Context, arg UpdateProjectParams) (Project, error) {
	row := q.db.QueryRowContext(ctx, updateProject,
		arg.Title,
		arg.Slug,
		arg.Description,
		arg.LiveUrl,
		arg.GithubUrl,
		arg.Image,
		arg.Tags,
		arg.Featured,
		arg.SortOrder,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanProject(row)
}

const deleteProject = `-- name: DeleteProject :execrows
DELETE FROM projects WHERE id = ?
`

func (q *Queries) DeleteProject(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteProject, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getProject = `-- name: GetProject :one
SELECT ` + projectColumns + ` FROM projects WHERE id = ?
`

func (q *Queries) GetProject(ctx context.Context, id int64) (Project, error) {
	return scanProject(q.db.QueryRowContext(ctx, getProject, id))
}

const getProjectBySlug = `-- name: GetProjectBySlug :one
SELECT ` + projectColumns + ` FROM projects WHERE slug = ?
`

func (q *Queries) GetProjectBySlug(ctx context.Context, slug string) (Project, error) {
	return scanProject(q.db.QueryRowContext(ctx, getProjectBySlug, slug))
}

const projectSlugExists = `-- name: ProjectSlugExists :one
SELECT EXISTS(SELECT 1 FROM projects WHERE slug = ? AND id != ?)
`

type ProjectSlugExistsParams struct {
	Slug string `json:"slug"`
	ID   int64  `json:"id"`
}

func (q *Queries) ProjectSlugExists(ctx context.Context, arg ProjectSlugExistsParams) (bool, error) {
	row := q.db.QueryRowContext(ctx, projectSlugExists, arg.Slug, arg.ID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listProjects = `-- name: ListProjects :many
SELECT ` + projectColumns + ` FROM projects
ORDER BY sort_order ASC, created_at DESC
`

func (q *Queries) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := q.db.QueryContext(ctx, listProjects)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanProjects(rows)
}

const listFeaturedProjects = `-- name: ListFeaturedProjects :many
SELECT ` + projectColumns + ` FROM projects
WHERE featured = 1
ORDER BY sort_order ASC, created_at DESC
`

func (q *Queries) ListFeaturedProjects(ctx context.Context) ([]Project, error) {
	rows, err := q.db.QueryContext(ctx, listFeaturedProjects)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanProjects(rows)
}

const searchProjects = `-- name: SearchProjects :many
SELECT ` + projectColumns + ` FROM projects
WHERE title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\'
ORDER BY title ASC
LIMIT ?
`

type SearchParams struct {
	Pattern string `json:"pattern"`
	Limit   int64  `json:"limit"`
}

func (q *Queries) SearchProjects(ctx context.Context, arg SearchParams) ([]Project, error) {
	rows, err := q.db.QueryContext(ctx, searchProjects, arg.Pattern, arg.Pattern, arg.Pattern, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanProjects(rows)
}

const countProjects = `-- name: CountProjects :one
SELECT COUNT(*) FROM projects
`

func (q *Queries) CountProjects(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countProjects)
	var count int64
	err := row.Scan(&count)
	return count, err
}

func scanProject(row *sql.Row) (Project, error) {
	var i Project
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Description,
		&i.LiveUrl,
		&i.GithubUrl,
		&i.Image,
		&i.Tags,
		&i.Featured,
		&i.SortOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func scanProjects(rows *sql.Rows) ([]Project, error) {
	items := []Project{}
	for rows.Next() {
		var i Project
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Slug,
			&i.Description,
			&i.LiveUrl,
			&i.GithubUrl,
			&i.Image,
			&i.Tags,
			&i.Featured,
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
