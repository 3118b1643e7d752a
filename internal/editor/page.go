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

// ElementPatch changes selected fields of a page element.
type ElementPatch struct {
	Type    *model.ElementType
	Content *string
}

// PageEditor edits one page locally until Save. It is safe for concurrent
// use; Save and TogglePublish hold the editor for the duration of the
// request.
type PageEditor struct {
	api PageAPI

	mu sync.Mutex
	// savedSlug is the slug the server knows the page by.
	savedSlug string
	page      model.Page
	dirty     bool
}

// OpenPage loads the page stored under slug.
func OpenPage(ctx context.Context, api PageAPI, slug string) (*PageEditor, error) {
	page, err := api.GetPage(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("loading page %q: %w", slug, err)
	}
	return NewPageEditor(api, page), nil
}

// NewPageEditor starts editing an already loaded page.
func NewPageEditor(api PageAPI, page model.Page) *PageEditor {
	page.Content = slices.Clone(page.Content)
	return &PageEditor{
		api:       api,
		savedSlug: page.Slug,
		page:      page,
	}
}

// Page returns a copy of the page as currently edited.
func (e *PageEditor) Page() model.Page {
	e.mu.Lock()
	defer e.mu.Unlock()

	page := e.page
	page.Content = slices.Clone(e.page.Content)
	return page
}

// Elements returns a copy of the element list.
func (e *PageEditor) Elements() []model.PageElement {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.page.Content)
}

// Dirty reports whether there are unsaved changes.
func (e *PageEditor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// SetTitle changes the title.
func (e *PageEditor) SetTitle(title string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.page.Title = title
	e.dirty = true
}

// SetSlug renames the page on the next Save.
func (e *PageEditor) SetSlug(slug string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.page.Slug = slug
	e.dirty = true
}

// SetDescription changes the description. An empty string clears it.
func (e *PageEditor) SetDescription(desc string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if desc == "" {
		e.page.Description = nil
	} else {
		e.page.Description = &desc
	}
	e.dirty = true
}

// AddElement appends an empty element of type t and returns its temporary
// id.
func (e *PageEditor) AddElement(t model.ElementType) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := NewTempID()
	e.page.Content = append(e.page.Content, model.PageElement{
		ID:    id,
		Type:  t,
		Order: len(e.page.Content),
	})
	e.dirty = true
	return id
}

// UpdateElement applies patch to the element with the given id. It reports
// false and changes nothing when the id is unknown.
func (e *PageEditor) UpdateElement(id string, patch ElementPatch) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := ordering.IndexOf(e.page.Content, id, elementID)
	if i < 0 {
		return false
	}
	if patch.Type != nil {
		e.page.Content[i].Type = *patch.Type
	}
	if patch.Content != nil {
		e.page.Content[i].Content = *patch.Content
	}
	e.dirty = true
	return true
}

// RemoveElement drops the element with the given id.
func (e *PageEditor) RemoveElement(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	content, removed := ordering.Remove(e.page.Content, id, elementID)
	if !removed {
		return false
	}
	e.page.Content = ordering.Renumber(content, 0, setElementOrder)
	e.dirty = true
	return true
}

// Reorder moves the element at index from to index to.
func (e *PageEditor) Reorder(from, to int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	content, err := ordering.Move(e.page.Content, from, to)
	if err != nil {
		return err
	}
	e.page.Content = ordering.Renumber(content, 0, setElementOrder)
	e.dirty = true
	return nil
}

// Save writes the whole page in one request. On success the editor adopts
// the stored page, including the ids assigned to new elements. On failure
// local edits are kept and the editor stays dirty.
func (e *PageEditor) Save(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	published := e.page.IsPublished
	saved, err := e.api.SavePage(ctx, e.savedSlug, model.PageInput{
		Title:       e.page.Title,
		Slug:        e.page.Slug,
		Description: e.page.Description,
		IsPublished: &published,
		Content:     ordering.Renumber(e.page.Content, 0, setElementOrder),
	})
	if err != nil {
		return fmt.Errorf("saving page %q: %w", e.savedSlug, err)
	}

	e.page = saved
	e.savedSlug = saved.Slug
	e.dirty = false
	return nil
}

// TogglePublish flips the publication status on the server. The local flag
// follows the server's answer and is left unchanged on error.
func (e *PageEditor) TogglePublish(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	published, err := e.api.TogglePublish(ctx, e.savedSlug)
	if err != nil {
		return fmt.Errorf("toggling page %q: %w", e.savedSlug, err)
	}
	e.page.IsPublished = published
	return nil
}

func elementID(el model.PageElement) string { return el.ID }

func setElementOrder(el *model.PageElement, order int) { el.Order = order }
