// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createUpload = `-- name: CreateUpload :exec
INSERT INTO uploads (url, owner_id, created_at) VALUES (?, ?, ?)
`

type CreateUploadParams struct {
	Url       string    `json:"url"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (q *Queries) CreateUpload(ctx context.Context, arg CreateUploadParams) error {
	_, err := q.db.ExecContext(ctx, createUpload, arg.Url, arg.OwnerID, arg.CreatedAt)
	return err
}

const getUpload = `-- name: GetUpload :one
SELECT url, owner_id, created_at FROM uploads WHERE url = ?
`

func (q *Queries) GetUpload(ctx context.Context, url string) (Upload, error) {
	row := q.db.QueryRowContext(ctx, getUpload, url)
	var i Upload
	err := row.Scan(&i.Url, &i.OwnerID, &i.CreatedAt)
	return i, err
}

const deleteUpload = `-- name: DeleteUpload :exec
DELETE FROM uploads WHERE url = ?
`

func (q *Queries) DeleteUpload(ctx context.Context, url string) error {
	_, err := q.db.ExecContext(ctx, deleteUpload, url)
	return err
}

// Counts archive items other than ExcludeItemID and page elements whose
// content is the URL, plus image components pointing at it.
const countUploadReferences = `-- name: CountUploadReferences :one
SELECT
    (SELECT COUNT(*) FROM archive_items WHERE content = ?1 AND id != ?2)
  + (SELECT COUNT(*) FROM page_elements WHERE content = ?1)
  + (SELECT COUNT(*) FROM page_components WHERE type = 'image' AND json_extract(config, '$.url') = ?1)
`

type CountUploadReferencesParams struct {
	Url           string `json:"url"`
	ExcludeItemID int64  `json:"exclude_item_id"`
}

func (q *Queries) CountUploadReferences(ctx context.Context, arg CountUploadReferencesParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countUploadReferences, arg.Url, arg.ExcludeItemID)
	var n int64
	err := row.Scan(&n)
	return n, err
}
