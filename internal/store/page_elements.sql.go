// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const pageElementColumns = `id, page_id, type, content, position, created_at, updated_at`

func scanPageElement(row rowScanner) (PageElement, error) {
	var i PageElement
	err := row.Scan(
		&i.ID,
		&i.PageID,
		&i.Type,
		&i.Content,
		&i.Position,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listPageElements = `-- name: ListPageElements :many
SELECT ` + pageElementColumns + ` FROM page_elements WHERE page_id = ? ORDER BY position ASC, id ASC
`

func (q *Queries) ListPageElements(ctx context.Context, pageID int64) ([]PageElement, error) {
	rows, err := q.db.QueryContext(ctx, listPageElements, pageID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []PageElement
	for rows.Next() {
		i, err := scanPageElement(rows)
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

const createPageElement = `-- name: CreatePageElement :one
INSERT INTO page_elements (page_id, type, content, position, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + pageElementColumns

type CreatePageElementParams struct {
	PageID    int64     `json:"page_id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Position  int64     `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Queries) CreatePageElement(ctx context.Context, arg CreatePageElementParams) (PageElement, error) {
	row := q.db.QueryRowContext(ctx, createPageElement,
		arg.PageID,
		arg.Type,
		arg.Content,
		arg.Position,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanPageElement(row)
}

const updatePageElement = `-- name: UpdatePageElement :execrows
UPDATE page_elements SET type = ?, content = ?, position = ?, updated_at = ?
WHERE id = ? AND page_id = ?
`

type UpdatePageElementParams struct {
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Position  int64     `json:"position"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
	PageID    int64     `json:"page_id"`
}

func (q *Queries) UpdatePageElement(ctx context.Context, arg UpdatePageElementParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updatePageElement,
		arg.Type,
		arg.Content,
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

const deletePageElement = `-- name: DeletePageElement :exec
DELETE FROM page_elements WHERE id = ? AND page_id = ?
`

type DeletePageElementParams struct {
	ID     int64 `json:"id"`
	PageID int64 `json:"page_id"`
}

func (q *Queries) DeletePageElement(ctx context.Context, arg DeletePageElementParams) error {
	_, err := q.db.ExecContext(ctx, deletePageElement, arg.ID, arg.PageID)
	return err
}
