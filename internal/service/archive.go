// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/darchive/internal/imaging"
	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/store"
	"github.com/olegiv/darchive/internal/util"
)

// ArchiveService manages personal archive items.
type ArchiveService struct {
	db        *sql.DB
	queries   *store.Queries
	processor *imaging.Processor
}

// NewArchiveService creates an ArchiveService. processor may be nil, in
// which case uploaded files are left in place when items are deleted.
func NewArchiveService(db *sql.DB, processor *imaging.Processor) *ArchiveService {
	return &ArchiveService{
		db:        db,
		queries:   store.New(db),
		processor: processor,
	}
}

// List returns the actor's items, newest first. limit <= 0 means all.
func (s *ArchiveService) List(ctx context.Context, actor Actor, limit int) ([]model.ArchiveItem, error) {
	if actor.Anonymous() {
		return nil, ErrUnauthorized
	}
	n := int64(-1)
	if limit > 0 {
		n = int64(limit)
	}
	rows, err := s.queries.ListArchiveItemsByOwner(ctx, store.ListArchiveItemsByOwnerParams{
		OwnerID: actor.UserID,
		Limit:   n,
	})
	if err != nil {
		return nil, fmt.Errorf("listing archive items: %w", err)
	}
	items := make([]model.ArchiveItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, toArchiveItem(r))
	}
	return items, nil
}

// ListAll returns every item with its owner, for admins.
func (s *ArchiveService) ListAll(ctx context.Context) ([]model.ArchiveItemWithOwner, error) {
	rows, err := s.queries.ListArchiveItemsWithOwner(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing archive items: %w", err)
	}
	items := make([]model.ArchiveItemWithOwner, 0, len(rows))
	for _, r := range rows {
		items = append(items, model.ArchiveItemWithOwner{
			ArchiveItem: toArchiveItem(store.ArchiveItem{
				ID:          r.ID,
				OwnerID:     r.OwnerID,
				Title:       r.Title,
				Description: r.Description,
				Type:        r.Type,
				Content:     r.Content,
				CreatedAt:   r.CreatedAt,
				UpdatedAt:   r.UpdatedAt,
			}),
			Owner: model.ArchiveOwner{Name: r.OwnerName, Email: r.OwnerEmail},
		})
	}
	return items, nil
}

// Create stores a new item owned by the actor.
func (s *ArchiveService) Create(ctx context.Context, actor Actor, in model.ArchiveInput) (model.ArchiveItem, error) {
	if actor.Anonymous() {
		return model.ArchiveItem{}, ErrUnauthorized
	}
	in, err := normalizeArchiveInput(in)
	if err != nil {
		return model.ArchiveItem{}, err
	}

	now := time.Now().UTC()
	row, err := s.queries.CreateArchiveItem(ctx, store.CreateArchiveItemParams{
		OwnerID:     actor.UserID,
		Title:       in.Title,
		Description: util.NullStringFromPtr(in.Description),
		Type:        in.Type,
		Content:     in.Content,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.ArchiveItem{}, fmt.Errorf("creating archive item: %w", err)
	}
	return toArchiveItem(row), nil
}

// Get returns an item the actor owns. Admins may read any item.
func (s *ArchiveService) Get(ctx context.Context, actor Actor, id int64) (model.ArchiveItem, error) {
	row, err := s.authorize(ctx, actor, id, true)
	if err != nil {
		return model.ArchiveItem{}, err
	}
	return toArchiveItem(row), nil
}

// Update replaces an item the actor owns. An image the item no longer
// points to is released like on Delete.
func (s *ArchiveService) Update(ctx context.Context, actor Actor, id int64, in model.ArchiveInput) (model.ArchiveItem, error) {
	old, err := s.authorize(ctx, actor, id, false)
	if err != nil {
		return model.ArchiveItem{}, err
	}
	in, err = normalizeArchiveInput(in)
	if err != nil {
		return model.ArchiveItem{}, err
	}

	var (
		row      store.ArchiveItem
		released string
	)
	err = store.WithTx(ctx, s.db, func(q *store.Queries) error {
		var err error
		row, err = q.UpdateArchiveItem(ctx, store.UpdateArchiveItemParams{
			Title:       in.Title,
			Description: util.NullStringFromPtr(in.Description),
			Type:        in.Type,
			Content:     in.Content,
			UpdatedAt:   time.Now().UTC(),
			ID:          id,
		})
		if err != nil {
			return notFound(err, "updating archive item")
		}
		if old.Type == model.ArchiveTypeImage && old.Content != row.Content {
			released, err = releaseUpload(ctx, q, old)
		}
		return err
	})
	if err != nil {
		return model.ArchiveItem{}, err
	}
	s.removeFile(released, id)
	return toArchiveItem(row), nil
}

// Delete removes an item the actor owns. Its image file is deleted only when
// the item's owner uploaded it and nothing else refers to it.
func (s *ArchiveService) Delete(ctx context.Context, actor Actor, id int64) error {
	row, err := s.authorize(ctx, actor, id, false)
	if err != nil {
		return err
	}

	var released string
	err = store.WithTx(ctx, s.db, func(q *store.Queries) error {
		if err := q.DeleteArchiveItem(ctx, id); err != nil {
			return fmt.Errorf("deleting archive item: %w", err)
		}
		if row.Type != model.ArchiveTypeImage {
			return nil
		}
		var err error
		released, err = releaseUpload(ctx, q, row)
		return err
	})
	if err != nil {
		return err
	}
	s.removeFile(released, id)
	return nil
}

// releaseUpload drops the upload record behind item's content and returns
// its URL when the item's owner uploaded it and no other item or page
// element uses it. Otherwise it returns "".
func releaseUpload(ctx context.Context, q *store.Queries, item store.ArchiveItem) (string, error) {
	up, err := q.GetUpload(ctx, item.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("loading upload: %w", err)
	}
	if up.OwnerID != item.OwnerID {
		return "", nil
	}

	refs, err := q.CountUploadReferences(ctx, store.CountUploadReferencesParams{
		Url:           up.Url,
		ExcludeItemID: item.ID,
	})
	if err != nil {
		return "", fmt.Errorf("counting upload references: %w", err)
	}
	if refs > 0 {
		return "", nil
	}
	if err := q.DeleteUpload(ctx, up.Url); err != nil {
		return "", fmt.Errorf("deleting upload: %w", err)
	}
	return up.Url, nil
}

func (s *ArchiveService) removeFile(url string, itemID int64) {
	if url == "" || s.processor == nil {
		return
	}
	if err := s.processor.Remove(url); err != nil {
		slog.Warn("failed to remove uploaded image", "item_id", itemID, "error", err)
	}
}

func (s *ArchiveService) authorize(ctx context.Context, actor Actor, id int64, adminRead bool) (store.ArchiveItem, error) {
	if actor.Anonymous() {
		return store.ArchiveItem{}, ErrUnauthorized
	}
	row, err := s.queries.GetArchiveItemByID(ctx, id)
	if err != nil {
		return store.ArchiveItem{}, notFound(err, "loading archive item")
	}
	if actor.Owns(row.OwnerID) || (adminRead && actor.IsAdmin) {
		return row, nil
	}
	return store.ArchiveItem{}, ErrForbidden
}

func normalizeArchiveInput(in model.ArchiveInput) (model.ArchiveInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Type = strings.TrimSpace(in.Type)

	verr := &ValidationError{}
	if in.Title == "" {
		verr.Add("title", "Title is required")
	}
	if in.Type == "" {
		verr.Add("type", "Type is required")
	} else if !model.ValidArchiveType(in.Type) {
		verr.Add("type", "Type must be text or image")
	}
	if strings.TrimSpace(in.Content) == "" {
		verr.Add("content", "Content is required")
	}
	return in, verr.Err()
}

func toArchiveItem(r store.ArchiveItem) model.ArchiveItem {
	return model.ArchiveItem{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Title:       r.Title,
		Description: util.PtrFromNullString(r.Description),
		Type:        r.Type,
		Content:     r.Content,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
