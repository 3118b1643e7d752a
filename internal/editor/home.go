// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/ordering"
)

// homeOrderBase is the order of the first homepage block.
const homeOrderBase = 1

// HomeEditor edits the homepage block list. Every change is sent to the
// server at once; the local list is restored when the server rejects it.
type HomeEditor struct {
	api HomeAPI

	mu    sync.Mutex
	items []model.HomeContent
}

// OpenHome loads the current homepage blocks.
func OpenHome(ctx context.Context, api HomeAPI) (*HomeEditor, error) {
	e := &HomeEditor{api: api}
	if err := e.Refresh(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Refresh replaces the local list with the server's.
func (e *HomeEditor) Refresh(ctx context.Context) error {
	items, err := e.api.ListHomeContent(ctx)
	if err != nil {
		return fmt.Errorf("loading home content: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.items = items
	return nil
}

// Items returns a copy of the block list.
func (e *HomeEditor) Items() []model.HomeContent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.items)
}

// AddElement creates a block at the end of the list. The block appears
// locally once the server has stored it.
func (e *HomeEditor) AddElement(ctx context.Context, t model.HomeType, content string) (model.HomeContent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, err := e.api.CreateHomeContent(ctx, model.HomeContentInput{Type: t, Content: content})
	if err != nil {
		return model.HomeContent{}, fmt.Errorf("adding home block: %w", err)
	}
	e.items = append(e.items, item)
	return item, nil
}

// UpdateElement applies patch to the block with the given id.
func (e *HomeEditor) UpdateElement(ctx context.Context, id int64, patch model.HomeContentPatch) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := ordering.IndexOf(e.items, id, homeID)
	if i < 0 {
		return fmt.Errorf("home block %d: not found", id)
	}
	previous := e.items[i]
	e.items[i] = applyHomePatch(previous, patch)

	updated, err := e.api.UpdateHomeContent(ctx, id, patch)
	if err != nil {
		e.items[i] = previous
		return fmt.Errorf("updating home block %d: %w", id, err)
	}
	e.items[i] = updated
	return nil
}

// RemoveElement deletes the block with the given id. On failure the block
// is put back at its old position.
func (e *HomeEditor) RemoveElement(ctx context.Context, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	previous := e.items
	items, removed := ordering.Remove(e.items, id, homeID)
	if !removed {
		return fmt.Errorf("home block %d: not found", id)
	}
	e.items = ordering.Renumber(items, homeOrderBase, setHomeOrder)

	if err := e.api.DeleteHomeContent(ctx, id); err != nil {
		e.items = previous
		return fmt.Errorf("removing home block %d: %w", id, err)
	}
	return nil
}

// Reorder moves the block at index from to index to and sends the full
// order in one request. On failure the previous order is restored.
func (e *HomeEditor) Reorder(ctx context.Context, from, to int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	moved, err := ordering.Move(e.items, from, to)
	if err != nil {
		return err
	}
	previous := e.items
	e.items = ordering.Renumber(moved, homeOrderBase, setHomeOrder)

	ids := make([]int64, len(e.items))
	for i, item := range e.items {
		ids[i] = item.ID
	}
	stored, err := e.api.SetHomeOrder(ctx, ids)
	if err != nil {
		e.items = previous
		return fmt.Errorf("reordering home content: %w", err)
	}
	e.items = stored
	return nil
}

func applyHomePatch(item model.HomeContent, patch model.HomeContentPatch) model.HomeContent {
	if patch.Type != nil {
		item.Type = patch.Type.Normalize()
	}
	if patch.Content != nil {
		item.Content = *patch.Content
	}
	if patch.Style != nil {
		style := *patch.Style
		item.Style = &style
	}
	return item
}

func homeID(item model.HomeContent) int64 { return item.ID }

func setHomeOrder(item *model.HomeContent, order int) { item.Order = order }
