// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const getSettings = `-- name: GetSettings :one
SELECT id, site_name, site_description, contact_email, max_upload_size, updated_at
FROM settings WHERE id = 1
`

func (q *Queries) GetSettings(ctx context.Context) (Setting, error) {
	row := q.db.QueryRowContext(ctx, getSettings)
	var i Setting
	err := row.Scan(
		&i.ID,
		&i.SiteName,
		&i.SiteDescription,
		&i.ContactEmail,
		&i.MaxUploadSize,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertSettings = `-- name: UpsertSettings :one
INSERT INTO settings (id, site_name, site_description, contact_email, max_upload_size, updated_at)
VALUES (1, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    site_name = excluded.site_name,
    site_description = excluded.site_description,
    contact_email = excluded.contact_email,
    max_upload_size = excluded.max_upload_size,
    updated_at = excluded.updated_at
RETURNING id, site_name, site_description, contact_email, max_upload_size, updated_at
`

type UpsertSettingsParams struct {
	SiteName        string    `json:"site_name"`
	SiteDescription string    `json:"site_description"`
	ContactEmail    string    `json:"contact_email"`
	MaxUploadSize   int64     `json:"max_upload_size"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (q *Queries) UpsertSettings(ctx context.Context, arg UpsertSettingsParams) (Setting, error) {
	row := q.db.QueryRowContext(ctx, upsertSettings,
		arg.SiteName,
		arg.SiteDescription,
		arg.ContactEmail,
		arg.MaxUploadSize,
		arg.UpdatedAt,
	)
	var i Setting
	err := row.Scan(
		&i.ID,
		&i.SiteName,
		&i.SiteDescription,
		&i.ContactEmail,
		&i.MaxUploadSize,
		&i.UpdatedAt,
	)
	return i, err
}
