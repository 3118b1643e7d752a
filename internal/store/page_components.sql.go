// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const pageComponentColumns = `id, page_id, name, type, config, position, created_at, updated_at`

func scanPageComponent(row rowScanner) (PageComponent, error) {
	var i PageComponent
	err := row.Scan(
		&i.ID,
		&i.PageID,
		&i.Name,
		&i.Type,
		&i.Config,
		&i.Position,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listPageComponents = `-- name: ListPageComponents :many
SELECT ` + pageComponentColumns + ` FROM page_components WHERE page_id = ? ORDER BY position ASC, id ASC
`

func (q *Queries) ListPageComponents(ctx context.Context, pageID int64) ([]PageComponent, error) {
	rows, err := q.db.QueryContext(ctx, listPageComponents, pageID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []PageComponent
	for rows.Next() {
		i, err := scanPageComponent(rows)
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

const createPageComponent = `-- name: CreatePageComponent :one
INSERT INTO page_components (page_id, name, type, config, position, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + pageComponentColumns

type CreatePageComponentParams struct {
	PageID    int64     `json:"page_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Config    string    `json:"config"`
	Position  int64     `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Queries) CreatePageComponent(ctx context.Context, arg CreatePageComponentParams) (PageComponent, error) {
	row := q.db.QueryRowContext(ctx, createPageComponent,
		arg.PageID,
		arg.Name,
		arg.Type,
		arg.Config,
		arg.Position,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanPageComponent(row)
}

const updatePageComponent = `-- name: UpdatePageComponent :execrows
UPDATE page_components SET name = ?, type = ?, config = ?, position = ?, updated_at = ?
WHERE id = ? AND page_id = ?
`

type UpdatePageComponentParams struct {
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Config    string    `json:"config"`
	Position  int64     `json:"position"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
	PageID    int64     `json:"page_id"`
}

func (q *Queries) UpdatePageComponent(ctx context.Context, arg UpdatePageComponentParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updatePageComponent,
		arg.Name,
		arg.Type,
		arg.Config,
		arg.Position,
		arg.UpdatedAt,
		arg.ID,
		arg.PageID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deletePageComponent = `-- name: DeletePageComponent :exec
DELETE FROM page_components WHERE id = ? AND page_id = ?
`

type DeletePageComponentParams struct {
	ID     int64 `json:"id"`
	PageID int64 `json:"page_id"`
}

func (q *Queries) DeletePageComponent(ctx context.Context, arg DeletePageComponentParams) error {
	_, err := q.db.ExecContext(ctx, deletePageComponent, arg.ID, arg.PageID)
	return err
}
