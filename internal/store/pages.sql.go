// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const pageColumns = `id, title, slug, description, is_published, owner_id, created_at, updated_at`

func scanPage(row rowScanner) (Page, error) {
	var i Page
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Description,
		&i.IsPublished,
		&i.OwnerID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func scanPages(rows *sql.Rows) ([]Page, error) {
	defer func() { _ = rows.Close() }()
	var items []Page
	for rows.Next() {
		i, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createPage = `-- name: CreatePage :one
INSERT INTO pages (title, slug, description, is_published, owner_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + pageColumns

type CreatePageParams struct {
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Description sql.NullString `json:"description"`
	IsPublished bool           `json:"is_published"`
	OwnerID     int64          `json:"owner_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (Page, error) {
	row := q.db.QueryRowContext(ctx, createPage,
		arg.Title,
		arg.Slug,
		arg.Description,
		arg.IsPublished,
		arg.OwnerID,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanPage(row)
}

const getPageByID = `-- name: GetPageByID :one
SELECT ` + pageColumns + ` FROM pages WHERE id = ?
`

func (q *Queries) GetPageByID(ctx context.Context, id int64) (Page, error) {
	row := q.db.QueryRowContext(ctx, getPageByID, id)
	return scanPage(row)
}

const getPageBySlug = `-- name: GetPageBySlug :one
SELECT ` + pageColumns + ` FROM pages WHERE slug = ?
`

func (q *Queries) GetPageBySlug(ctx context.Context, slug string) (Page, error) {
	row := q.db.QueryRowContext(ctx, getPageBySlug, slug)
	return scanPage(row)
}

const listPagesByOwner = `-- name: ListPagesByOwner :many
SELECT ` + pageColumns + ` FROM pages WHERE owner_id = ? ORDER BY updated_at DESC, id DESC
`

func (q *Queries) ListPagesByOwner(ctx context.Context, ownerID int64) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx, listPagesByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	return scanPages(rows)
}

const listPagesByOwnerAndStatus = `-- name: ListPagesByOwnerAndStatus :many
SELECT ` + pageColumns + ` FROM pages WHERE owner_id = ? AND is_published = ? ORDER BY updated_at DESC, id DESC
`

type ListPagesByOwnerAndStatusParams struct {
	OwnerID     int64 `json:"owner_id"`
	IsPublished bool  `json:"is_published"`
}

func (q *Queries) ListPagesByOwnerAndStatus(ctx context.Context, arg ListPagesByOwnerAndStatusParams) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx, listPagesByOwnerAndStatus, arg.OwnerID, arg.IsPublished)
	if err != nil {
		return nil, err
	}
	return scanPages(rows)
}

const listAllPages = `-- name: ListAllPages :many
SELECT ` + pageColumns + ` FROM pages ORDER BY updated_at DESC, id DESC
`

func (q *Queries) ListAllPages(ctx context.Context) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx, listAllPages)
	if err != nil {
		return nil, err
	}
	return scanPages(rows)
}

const listPublishedPages = `-- name: ListPublishedPages :many
SELECT ` + pageColumns + ` FROM pages WHERE is_published = 1 ORDER BY updated_at DESC, id DESC
`

func (q *Queries) ListPublishedPages(ctx context.Context) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx, listPublishedPages)
	if err != nil {
		return nil, err
	}
	return scanPages(rows)
}

const countPages = `-- name: CountPages :one
SELECT COUNT(*) FROM pages
`

func (q *Queries) CountPages(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countPages)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const pageSlugExists = `-- name: PageSlugExists :one
SELECT COUNT(*) FROM pages WHERE slug = ?
`

func (q *Queries) PageSlugExists(ctx context.Context, slug string) (int64, error) {
	row := q.db.QueryRowContext(ctx, pageSlugExists, slug)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const pageSlugExistsExcluding = `-- name: PageSlugExistsExcluding :one
SELECT COUNT(*) FROM pages WHERE slug = ? AND id != ?
`

type PageSlugExistsExcludingParams struct {
	Slug string `json:"slug"`
	ID   int64  `json:"id"`
}

func (q *Queries) PageSlugExistsExcluding(ctx context.Context, arg PageSlugExistsExcludingParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, pageSlugExistsExcluding, arg.Slug, arg.ID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const updatePage = `-- name: UpdatePage :one
UPDATE pages
SET title = ?, slug = ?, description = ?, is_published = ?, updated_at = ?
WHERE id = ?
RETURNING ` + pageColumns

type UpdatePageParams struct {
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Description sql.NullString `json:"description"`
	IsPublished bool           `json:"is_published"`
	UpdatedAt   time.Time      `json:"updated_at"`
	ID          int64          `json:"id"`
}

func (q *Queries) UpdatePage(ctx context.Context, arg UpdatePageParams) (Page, error) {
	row := q.db.QueryRowContext(ctx, updatePage,
		arg.Title,
		arg.Slug,
		arg.Description,
		arg.IsPublished,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanPage(row)
}

const setPagePublished = `-- name: SetPagePublished :one
UPDATE pages SET is_published = ?, updated_at = ? WHERE id = ?
RETURNING ` + pageColumns

type SetPagePublishedParams struct {
	IsPublished bool      `json:"is_published"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          int64     `json:"id"`
}

func (q *Queries) SetPagePublished(ctx context.Context, arg SetPagePublishedParams) (Page, error) {
	row := q.db.QueryRowContext(ctx, setPagePublished, arg.IsPublished, arg.UpdatedAt, arg.ID)
	return scanPage(row)
}

const deletePage = `-- name: DeletePage :exec
DELETE FROM pages WHERE id = ?
`

func (q *Queries) DeletePage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deletePage, id)
	return err
}
