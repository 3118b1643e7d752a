// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package editor holds client-side editing sessions over ordered content.
//
// PageEditor batches every change locally and writes the whole page with a
// single Save. HomeEditor applies each change to the server immediately and
// rolls the local list back when the server rejects it.
package editor

import (
	"context"

	"github.com/google/uuid"

	"github.com/olegiv/darchive/internal/model"
)

// PageAPI is the part of the API a PageEditor needs.
type PageAPI interface {
	GetPage(ctx context.Context, slug string) (model.Page, error)
	SavePage(ctx context.Context, slug string, in model.PageInput) (model.Page, error)
	TogglePublish(ctx context.Context, slug string) (bool, error)
}

// HomeAPI is the part of the API a HomeEditor needs.
type HomeAPI interface {
	ListHomeContent(ctx context.Context) ([]model.HomeContent, error)
	CreateHomeContent(ctx context.Context, in model.HomeContentInput) (model.HomeContent, error)
	UpdateHomeContent(ctx context.Context, id int64, patch model.HomeContentPatch) (model.HomeContent, error)
	DeleteHomeContent(ctx context.Context, id int64) error
	SetHomeOrder(ctx context.Context, ids []int64) ([]model.HomeContent, error)
}

// NewTempID returns an id for an element that has not been stored yet.
func NewTempID() string {
	return model.TempIDPrefix + uuid.NewString()
}
