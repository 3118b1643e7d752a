// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const archiveItemColumns = `id, owner_id, title, description, type, content, created_at, updated_at`

func scanArchiveItem(row rowScanner) (ArchiveItem, error) {
	var i ArchiveItem
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Title,
		&i.Description,
		&i.Type,
		&i.Content,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createArchiveItem = `-- name: CreateArchiveItem :one
INSERT INTO archive_items (owner_id, title, description, type, content, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + archiveItemColumns

type CreateArchiveItemParams struct {
	OwnerID     int64          `json:"owner_id"`
	Title       string         `json:"title"`
	Description sql.NullString `json:"description"`
	Type        string         `json:"type"`
	Content     string         `json:"content"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (q *Queries) CreateArchiveItem(ctx context.Context, arg CreateArchiveItemParams) (ArchiveItem, error) {
	row := q.db.QueryRowContext(ctx, createArchiveItem,
		arg.OwnerID,
		arg.Title,
		arg.Description,
		arg.Type,
		arg.Content,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanArchiveItem(row)
}

const getArchiveItemByID = `-- name: GetArchiveItemByID :one
SELECT ` + archiveItemColumns + ` FROM archive_items WHERE id = ?
`

func (q *Queries) GetArchiveItemByID(ctx context.Context, id int64) (ArchiveItem, error) {
	row := q.db.QueryRowContext(ctx, getArchiveItemByID, id)
	return scanArchiveItem(row)
}

// A negative Limit means no limit.
const listArchiveItemsByOwner = `-- name: ListArchiveItemsByOwner :many
SELECT ` + archiveItemColumns + ` FROM archive_items
WHERE owner_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?
`

type ListArchiveItemsByOwnerParams struct {
	OwnerID int64 `json:"owner_id"`
	Limit   int64 `json:"limit"`
}

func (q *Queries) ListArchiveItemsByOwner(ctx context.Context, arg ListArchiveItemsByOwnerParams) ([]ArchiveItem, error) {
	rows, err := q.db.QueryContext(ctx, listArchiveItemsByOwner, arg.OwnerID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []ArchiveItem
	for rows.Next() {
		i, err := scanArchiveItem(rows)
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

const updateArchiveItem = `-- name: UpdateArchiveItem :one
UPDATE archive_items SET title = ?, description = ?, type = ?, content = ?, updated_at = ?
WHERE id = ?
RETURNING ` + archiveItemColumns

type UpdateArchiveItemParams struct {
	Title       string         `json:"title"`
	Description sql.NullString `json:"description"`
	Type        string         `json:"type"`
	Content     string         `json:"content"`
	UpdatedAt   time.Time      `json:"updated_at"`
	ID          int64          `json:"id"`
}

func (q *Queries) UpdateArchiveItem(ctx context.Context, arg UpdateArchiveItemParams) (ArchiveItem, error) {
	row := q.db.QueryRowContext(ctx, updateArchiveItem,
		arg.Title,
		arg.Description,
		arg.Type,
		arg.Content,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanArchiveItem(row)
}

const deleteArchiveItem = `-- name: DeleteArchiveItem :exec
DELETE FROM archive_items WHERE id = ?
`

func (q *Queries) DeleteArchiveItem(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteArchiveItem, id)
	return err
}

const countArchiveItems = `-- name: CountArchiveItems :one
SELECT COUNT(*) FROM archive_items
`

func (q *Queries) CountArchiveItems(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countArchiveItems)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listArchiveItemsWithOwner = `-- name: ListArchiveItemsWithOwner :many
SELECT a.id, a.owner_id, a.title, a.description, a.type, a.content, a.created_at, a.updated_at,
       u.name AS owner_name, u.email AS owner_email
FROM archive_items a
JOIN users u ON u.id = a.owner_id
ORDER BY a.created_at DESC, a.id DESC
`

type ListArchiveItemsWithOwnerRow struct {
	ID          int64          `json:"id"`
	OwnerID     int64          `json:"owner_id"`
	Title       string         `json:"title"`
	Description sql.NullString `json:"description"`
	Type        string         `json:"type"`
	Content     string         `json:"content"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	OwnerName   string         `json:"owner_name"`
	OwnerEmail  string         `json:"owner_email"`
}

func (q *Queries) ListArchiveItemsWithOwner(ctx context.Context) ([]ListArchiveItemsWithOwnerRow, error) {
	rows, err := q.db.QueryContext(ctx, listArchiveItemsWithOwner)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []ListArchiveItemsWithOwnerRow
	for rows.Next() {
		var i ListArchiveItemsWithOwnerRow
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.Title,
			&i.Description,
			&i.Type,
			&i.Content,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.OwnerName,
			&i.OwnerEmail,
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
