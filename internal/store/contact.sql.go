// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const createContactForm = `-- name: CreateContactForm :one
INSERT INTO contact_forms (name, email, message, user_id, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id, name, email, message, user_id, created_at
`

type CreateContactFormParams struct {
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Message   string        `json:"message"`
	UserID    sql.NullInt64 `json:"user_id"`
	CreatedAt time.Time     `json:"created_at"`
}

func (q *Queries) CreateContactForm(ctx context.Context, arg CreateContactFormParams) (ContactForm, error) {
	row := q.db.QueryRowContext(ctx, createContactForm,
		arg.Name,
		arg.Email,
		arg.Message,
		arg.UserID,
		arg.CreatedAt,
	)
	var i ContactForm
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Message,
		&i.UserID,
		&i.CreatedAt,
	)
	return i, err
}

const listContactForms = `-- name: ListContactForms :many
SELECT id, name, email, message, user_id, created_at
FROM contact_forms ORDER BY created_at DESC, id DESC
`

func (q *Queries) ListContactForms(ctx context.Context) ([]ContactForm, error) {
	rows, err := q.db.QueryContext(ctx, listContactForms)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []ContactForm
	for rows.Next() {
		var i ContactForm
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Email,
			&i.Message,
			&i.UserID,
			&i.CreatedAt,
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
