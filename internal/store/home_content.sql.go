// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const homeContentColumns = `id, type, content, position, style, created_at, updated_at`

func scanHomeContent(row rowScanner) (HomeContent, error) {
	var i HomeContent
	err := row.Scan(
		&i.ID,
		&i.Type,
		&i.Content,
		&i.Position,
		&i.Style,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listHomeContent = `-- name: ListHomeContent :many
SELECT ` + homeContentColumns + ` FROM home_content ORDER BY position ASC, id ASC
`

func (q *Queries) ListHomeContent(ctx context.Context) ([]HomeContent, error) {
	rows, err := q.db.QueryContext(ctx, listHomeContent)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []HomeContent
	for rows.Next() {
		i, err := scanHomeContent(rows)
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

const getHomeContentByID = `-- name: GetHomeContentByID :one
SELECT ` + homeContentColumns + ` FROM home_content WHERE id = ?
`

func (q *Queries) GetHomeContentByID(ctx context.Context, id int64) (HomeContent, error) {
	row := q.db.QueryRowContext(ctx, getHomeContentByID, id)
	return scanHomeContent(row)
}

const getMaxHomeContentPosition = `-- name: GetMaxHomeContentPosition :one
SELECT CAST(COALESCE(MAX(position), 0) AS INTEGER) FROM home_content
`

func (q *Queries) GetMaxHomeContentPosition(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, getMaxHomeContentPosition)
	var max int64
	err := row.Scan(&max)
	return max, err
}

const createHomeContent = `-- name: CreateHomeContent :one
INSERT INTO home_content (type, content, position, style, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + homeContentColumns

type CreateHomeContentParams struct {
	Type      string         `json:"type"`
	Content   string         `json:"content"`
	Position  int64          `json:"position"`
	Style     sql.NullString `json:"style"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (q *Queries) CreateHomeContent(ctx context.Context, arg CreateHomeContentParams) (HomeContent, error) {
	row := q.db.QueryRowContext(ctx, createHomeContent,
		arg.Type,
		arg.Content,
		arg.Position,
		arg.Style,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanHomeContent(row)
}

const updateHomeContent = `-- name: UpdateHomeContent :one
UPDATE home_content SET type = ?, content = ?, position = ?, style = ?, updated_at = ?
WHERE id = ?
RETURNING ` + homeContentColumns

type UpdateHomeContentParams struct {
	Type      string         `json:"type"`
	Content   string         `json:"content"`
	Position  int64          `json:"position"`
	Style     sql.NullString `json:"style"`
	UpdatedAt time.Time      `json:"updated_at"`
	ID        int64          `json:"id"`
}

func (q *Queries) UpdateHomeContent(ctx context.Context, arg UpdateHomeContentParams) (HomeContent, error) {
	row := q.db.QueryRowContext(ctx, updateHomeContent,
		arg.Type,
		arg.Content,
		arg.Position,
		arg.Style,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanHomeContent(row)
}

const updateHomeContentPosition = `-- name: UpdateHomeContentPosition :execrows
UPDATE home_content SET position = ?, updated_at = ? WHERE id = ?
`

type UpdateHomeContentPositionParams struct {
	Position  int64     `json:"position"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) UpdateHomeContentPosition(ctx context.Context, arg UpdateHomeContentPositionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateHomeContentPosition, arg.Position, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteHomeContent = `-- name: DeleteHomeContent :execrows
DELETE FROM home_content WHERE id = ?
`

func (q *Queries) DeleteHomeContent(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteHomeContent, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteAllHomeContent = `-- name: DeleteAllHomeContent :exec
DELETE FROM home_content
`

func (q *Queries) DeleteAllHomeContent(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllHomeContent)
	return err
}
