// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/darchive/internal/cache"
	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/ordering"
	"github.com/olegiv/darchive/internal/store"
)

const homeContentCacheKey = "home:content"

// HomeService manages the singleton homepage block list. Orders start at 1
// and stay contiguous after every mutation.
type HomeService struct {
	db      *sql.DB
	queries *store.Queries
	cache   *cache.Typed[[]model.HomeContent]
}

// NewHomeService creates a HomeService reading through c.
func NewHomeService(db *sql.DB, c cache.Cache, ttl time.Duration) *HomeService {
	return &HomeService{
		db:      db,
		queries: store.New(db),
		cache:   cache.NewTyped[[]model.HomeContent](c, ttl),
	}
}

// List returns the blocks in order.
func (s *HomeService) List(ctx context.Context) ([]model.HomeContent, error) {
	return s.cache.GetOrLoad(ctx, homeContentCacheKey, func(ctx context.Context) ([]model.HomeContent, error) {
		rows, err := s.queries.ListHomeContent(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing home content: %w", err)
		}
		if !ordering.Contiguous(rows, 1, homePosition) {
			if rows, err = s.renumber(ctx); err != nil {
				return nil, err
			}
		}
		return toHomeContents(rows), nil
	})
}

// renumber closes gaps and duplicates in the stored orders, as left by
// imports or older writers.
func (s *HomeService) renumber(ctx context.Context) ([]store.HomeContent, error) {
	var rows []store.HomeContent
	err := store.WithTx(ctx, s.db, func(q *store.Queries) error {
		var err error
		rows, err = q.ListHomeContent(ctx)
		if err != nil {
			return fmt.Errorf("listing home content: %w", err)
		}
		return writePositions(ctx, q, rows)
	})
	if err != nil {
		return nil, err
	}
	return ordering.Renumber(rows, 1, setHomePosition), nil
}

// Create appends a block with order max+1.
func (s *HomeService) Create(ctx context.Context, in model.HomeContentInput) (model.HomeContent, error) {
	in.Type = in.Type.Normalize()

	verr := &ValidationError{}
	if in.Type == "" {
		verr.Add("type", "Type is required")
	} else if !in.Type.Valid() {
		verr.Add("type", fmt.Sprintf("Unknown content type %q", in.Type))
	}
	if strings.TrimSpace(in.Content) == "" {
		verr.Add("content", "Content is required")
	}
	if err := verr.Err(); err != nil {
		return model.HomeContent{}, err
	}

	style, err := encodeStyle(in.Style)
	if err != nil {
		return model.HomeContent{}, err
	}

	var created store.HomeContent
	err = store.WithTx(ctx, s.db, func(q *store.Queries) error {
		maxPos, err := q.GetMaxHomeContentPosition(ctx)
		if err != nil {
			return fmt.Errorf("reading max position: %w", err)
		}
		now := time.Now().UTC()
		created, err = q.CreateHomeContent(ctx, store.CreateHomeContentParams{
			Type:      string(in.Type),
			Content:   in.Content,
			Position:  maxPos + 1,
			Style:     style,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("creating home content: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.HomeContent{}, err
	}
	s.invalidate(ctx)
	return toHomeContent(created), nil
}

// Update applies the non-nil fields of patch. A zero Style clears the style.
func (s *HomeService) Update(ctx context.Context, id int64, patch model.HomeContentPatch) (model.HomeContent, error) {
	current, err := s.queries.GetHomeContentByID(ctx, id)
	if err != nil {
		return model.HomeContent{}, notFound(err, "loading home content")
	}

	typ := model.HomeType(current.Type)
	content := current.Content
	style := current.Style

	verr := &ValidationError{}
	if patch.Type != nil {
		typ = patch.Type.Normalize()
		if !typ.Valid() {
			verr.Add("type", fmt.Sprintf("Unknown content type %q", *patch.Type))
		}
	}
	if patch.Content != nil {
		content = *patch.Content
		if strings.TrimSpace(content) == "" {
			verr.Add("content", "Content is required")
		}
	}
	if err := verr.Err(); err != nil {
		return model.HomeContent{}, err
	}
	if patch.Style != nil {
		if style, err = encodeStyle(patch.Style); err != nil {
			return model.HomeContent{}, err
		}
	}

	updated, err := s.queries.UpdateHomeContent(ctx, store.UpdateHomeContentParams{
		Type:      string(typ),
		Content:   content,
		Position:  current.Position,
		Style:     style,
		UpdatedAt: time.Now().UTC(),
		ID:        id,
	})
	if err != nil {
		return model.HomeContent{}, notFound(err, "updating home content")
	}
	s.invalidate(ctx)
	return toHomeContent(updated), nil
}

// Delete removes a block and renumbers the rest in the same transaction.
func (s *HomeService) Delete(ctx context.Context, id int64) error {
	err := store.WithTx(ctx, s.db, func(q *store.Queries) error {
		n, err := q.DeleteHomeContent(ctx, id)
		if err != nil {
			return fmt.Errorf("deleting home content: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		rows, err := q.ListHomeContent(ctx)
		if err != nil {
			return fmt.Errorf("listing home content: %w", err)
		}
		return writePositions(ctx, q, rows)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Move places block id at the 1-based position order, shifting the blocks
// in between.
func (s *HomeService) Move(ctx context.Context, id int64, order int) ([]model.HomeContent, error) {
	var result []store.HomeContent
	err := store.WithTx(ctx, s.db, func(q *store.Queries) error {
		rows, err := q.ListHomeContent(ctx)
		if err != nil {
			return fmt.Errorf("listing home content: %w", err)
		}
		from := ordering.IndexOf(rows, id, homeContentID)
		if from < 0 {
			return ErrNotFound
		}
		moved, err := ordering.Move(rows, from, order-1)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
		}
		if err := writePositions(ctx, q, moved); err != nil {
			return err
		}
		result = ordering.Renumber(moved, 1, setHomePosition)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return toHomeContents(result), nil
}

// SetOrder rewrites every order from ids, which must be a permutation of
// the current block ids. Nothing is written otherwise.
func (s *HomeService) SetOrder(ctx context.Context, ids []int64) ([]model.HomeContent, error) {
	var result []store.HomeContent
	err := store.WithTx(ctx, s.db, func(q *store.Queries) error {
		rows, err := q.ListHomeContent(ctx)
		if err != nil {
			return fmt.Errorf("listing home content: %w", err)
		}
		permuted, err := ordering.Permute(rows, ids, homeContentID)
		if err != nil {
			if errors.Is(err, ordering.ErrNotPermutation) {
				return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
			}
			return err
		}
		if err := writePositions(ctx, q, permuted); err != nil {
			return err
		}
		result = ordering.Renumber(permuted, 1, setHomePosition)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return toHomeContents(result), nil
}

// Reset replaces the list with the default blocks.
func (s *HomeService) Reset(ctx context.Context) ([]model.HomeContent, error) {
	return s.Replace(ctx, model.DefaultHomeContent())
}

// Replace swaps the whole list for items in one transaction. Orders follow
// the input order.
func (s *HomeService) Replace(ctx context.Context, items []model.HomeContentInput) ([]model.HomeContent, error) {
	items = append([]model.HomeContentInput(nil), items...)
	verr := &ValidationError{}
	for i := range items {
		items[i].Type = items[i].Type.Normalize()
		if !items[i].Type.Valid() {
			verr.Add(fmt.Sprintf("items[%d].type", i), fmt.Sprintf("Unknown content type %q", items[i].Type))
		}
		if strings.TrimSpace(items[i].Content) == "" {
			verr.Add(fmt.Sprintf("items[%d].content", i), "Content is required")
		}
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	var created []store.HomeContent
	err := store.WithTx(ctx, s.db, func(q *store.Queries) error {
		if err := q.DeleteAllHomeContent(ctx); err != nil {
			return fmt.Errorf("clearing home content: %w", err)
		}
		now := time.Now().UTC()
		for i, in := range items {
			style, err := encodeStyle(in.Style)
			if err != nil {
				return err
			}
			row, err := q.CreateHomeContent(ctx, store.CreateHomeContentParams{
				Type:      string(in.Type),
				Content:   in.Content,
				Position:  int64(i + 1),
				Style:     style,
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				return fmt.Errorf("creating home content: %w", err)
			}
			created = append(created, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return toHomeContents(created), nil
}

func (s *HomeService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, homeContentCacheKey); err != nil && !errors.Is(err, cache.ErrCacheClosed) {
		slog.Warn("failed to invalidate home content cache", "error", err)
	}
}

// writePositions stores 1..n as the positions of rows, skipping rows that
// already hold the right value.
func writePositions(ctx context.Context, q *store.Queries, rows []store.HomeContent) error {
	now := time.Now().UTC()
	for i, r := range rows {
		pos := int64(i + 1)
		if r.Position == pos {
			continue
		}
		if _, err := q.UpdateHomeContentPosition(ctx, store.UpdateHomeContentPositionParams{
			Position:  pos,
			UpdatedAt: now,
			ID:        r.ID,
		}); err != nil {
			return fmt.Errorf("updating position of %d: %w", r.ID, err)
		}
	}
	return nil
}

func homeContentID(r store.HomeContent) int64 { return r.ID }

func setHomePosition(r *store.HomeContent, pos int) { r.Position = int64(pos) }

func homePosition(r store.HomeContent) int { return int(r.Position) }

func encodeStyle(style *model.Style) (sql.NullString, error) {
	if style == nil || style.IsZero() {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(style)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encoding style: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func toHomeContent(r store.HomeContent) model.HomeContent {
	hc := model.HomeContent{
		ID:      r.ID,
		Type:    model.HomeType(r.Type).Normalize(),
		Content: r.Content,
		Order:   int(r.Position),
	}
	if r.Style.Valid && r.Style.String != "" {
		var st model.Style
		if err := json.Unmarshal([]byte(r.Style.String), &st); err == nil && !st.IsZero() {
			hc.Style = &st
		}
	}
	return hc
}

func toHomeContents(rows []store.HomeContent) []model.HomeContent {
	out := make([]model.HomeContent, 0, len(rows))
	for _, r := range rows {
		out = append(out, toHomeContent(r))
	}
	return out
}
