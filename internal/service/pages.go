// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/store"
	"github.com/olegiv/darchive/internal/util"
)

// HomePageTitle is the title of an auto-created home page.
const HomePageTitle = "Home"

// PageService manages user pages and their ordered elements.
type PageService struct {
	db      *sql.DB
	queries *store.Queries
}

// NewPageService creates a PageService.
func NewPageService(db *sql.DB) *PageService {
	return &PageService{
		db:      db,
		queries: store.New(db),
	}
}

// List returns the actor's pages, most recently updated first. A non-nil
// published filters by publication state.
func (s *PageService) List(ctx context.Context, actor Actor, published *bool) ([]model.Page, error) {
	if actor.Anonymous() {
		return nil, ErrUnauthorized
	}

	var (
		rows []store.Page
		err  error
	)
	if published != nil {
		rows, err = s.queries.ListPagesByOwnerAndStatus(ctx, store.ListPagesByOwnerAndStatusParams{
			OwnerID:     actor.UserID,
			IsPublished: *published,
		})
	} else {
		rows, err = s.queries.ListPagesByOwner(ctx, actor.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	return s.withElements(ctx, rows)
}

// ListAll returns every page with its elements, regardless of owner.
func (s *PageService) ListAll(ctx context.Context) ([]model.Page, error) {
	rows, err := s.queries.ListAllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	return s.withElements(ctx, rows)
}

// ListPublished returns every published page.
func (s *PageService) ListPublished(ctx context.Context) ([]model.Page, error) {
	rows, err := s.queries.ListPublishedPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing published pages: %w", err)
	}
	pages := make([]model.Page, 0, len(rows))
	for _, p := range rows {
		pages = append(pages, toPage(p, nil))
	}
	return pages, nil
}

// Create stores a new page owned by the actor. Element ids in the input are
// ignored. An empty slug is derived from the title.
func (s *PageService) Create(ctx context.Context, actor Actor, in model.PageInput) (model.Page, error) {
	if actor.Anonymous() {
		return model.Page{}, ErrUnauthorized
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Slug == "" {
		in.Slug = util.Slugify(in.Title)
	}

	verr := validatePageInput(in, true)
	if err := verr.Err(); err != nil {
		return model.Page{}, err
	}

	published := in.IsPublished != nil && *in.IsPublished
	var page model.Page
	err := store.WithTx(ctx, s.db, func(q *store.Queries) error {
		var err error
		page, err = createPage(ctx, q, actor.UserID, in, published)
		return err
	})
	if err != nil {
		return model.Page{}, err
	}
	return page, nil
}

// Get resolves slug for the actor. Unpublished pages of other users are
// reported as ErrUnauthorized to anonymous callers and ErrNotFound to
// signed-in ones.
func (s *PageService) Get(ctx context.Context, actor Actor, slug string) (model.Page, error) {
	p, err := s.queries.GetPageBySlug(ctx, slug)
	if err != nil {
		return model.Page{}, notFound(err, "loading page")
	}
	if err := checkVisible(actor, p); err != nil {
		return model.Page{}, err
	}
	return s.load(ctx, s.queries, p)
}

// Save replaces the page identified by slug with in. Elements with a temp-
// id are created, stored elements missing from in.Content are deleted and
// the rest are updated. Every order is rewritten from the array position.
// A nil in.IsPublished, in.Description or in.Content keeps the stored value;
// an empty slug keeps the current one. An empty non-nil in.Content removes
// every element.
func (s *PageService) Save(ctx context.Context, actor Actor, slug string, in model.PageInput) (model.Page, error) {
	if actor.Anonymous() {
		return model.Page{}, ErrUnauthorized
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)

	if err := validatePageInput(in, false).Err(); err != nil {
		return model.Page{}, err
	}

	var page model.Page
	err := store.WithTx(ctx, s.db, func(q *store.Queries) error {
		p, err := q.GetPageBySlug(ctx, slug)
		if err != nil {
			return notFound(err, "loading page")
		}
		if !actor.Owns(p.OwnerID) {
			return ErrForbidden
		}
		page, err = savePage(ctx, q, p, in)
		return err
	})
	if err != nil {
		return model.Page{}, err
	}
	return page, nil
}

// Delete removes the actor's page and its elements.
func (s *PageService) Delete(ctx context.Context, actor Actor, slug string) error {
	if actor.Anonymous() {
		return ErrUnauthorized
	}
	p, err := s.queries.GetPageBySlug(ctx, slug)
	if err != nil {
		return notFound(err, "loading page")
	}
	if !actor.Owns(p.OwnerID) {
		return ErrForbidden
	}
	if err := s.queries.DeletePage(ctx, p.ID); err != nil {
		return fmt.Errorf("deleting page: %w", err)
	}
	return nil
}

// TogglePublish flips the publication state and returns the stored result.
func (s *PageService) TogglePublish(ctx context.Context, actor Actor, slug string) (model.Page, error) {
	if actor.Anonymous() {
		return model.Page{}, ErrUnauthorized
	}
	p, err := s.queries.GetPageBySlug(ctx, slug)
	if err != nil {
		return model.Page{}, notFound(err, "loading page")
	}
	if !actor.Owns(p.OwnerID) {
		return model.Page{}, ErrForbidden
	}

	updated, err := s.queries.SetPagePublished(ctx, store.SetPagePublishedParams{
		IsPublished: !p.IsPublished,
		UpdatedAt:   time.Now().UTC(),
		ID:          p.ID,
	})
	if err != nil {
		return model.Page{}, fmt.Errorf("updating page: %w", err)
	}
	return s.load(ctx, s.queries, updated)
}

// Home returns the page with slug "home", creating an empty published one
// owned by the actor when it does not exist yet.
func (s *PageService) Home(ctx context.Context, actor Actor) (model.Page, error) {
	p, err := s.queries.GetPageBySlug(ctx, model.HomeSlug)
	if err == nil {
		if err := checkVisible(actor, p); err != nil {
			return model.Page{}, err
		}
		return s.load(ctx, s.queries, p)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Page{}, fmt.Errorf("loading home page: %w", err)
	}
	if actor.Anonymous() {
		return model.Page{}, ErrNotFound
	}

	var page model.Page
	err = store.WithTx(ctx, s.db, func(q *store.Queries) error {
		var err error
		page, err = createPage(ctx, q, actor.UserID, model.PageInput{
			Title: HomePageTitle,
			Slug:  model.HomeSlug,
		}, true)
		return err
	})
	if errors.Is(err, ErrSlugTaken) {
		return s.Home(ctx, actor)
	}
	return page, err
}

// SaveHome creates or replaces the home page. The owner and admins may
// replace an existing one.
func (s *PageService) SaveHome(ctx context.Context, actor Actor, in model.PageInput) (model.Page, error) {
	if actor.Anonymous() {
		return model.Page{}, ErrUnauthorized
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = model.HomeSlug

	if err := validatePageInput(in, false).Err(); err != nil {
		return model.Page{}, err
	}

	var page model.Page
	err := store.WithTx(ctx, s.db, func(q *store.Queries) error {
		p, err := q.GetPageBySlug(ctx, model.HomeSlug)
		if errors.Is(err, sql.ErrNoRows) {
			page, err = createPage(ctx, q, actor.UserID, in, true)
			return err
		}
		if err != nil {
			return fmt.Errorf("loading home page: %w", err)
		}
		if !actor.Owns(p.OwnerID) && !actor.IsAdmin {
			return ErrForbidden
		}
		page, err = savePage(ctx, q, p, in)
		return err
	})
	if err != nil {
		return model.Page{}, err
	}
	return page, nil
}

// checkVisible hides unpublished pages from everyone but the owner.
// Anonymous callers get ErrUnauthorized so the client can offer a sign-in;
// signed-in non-owners get ErrNotFound. Earlier versions of the site
// answered the other way round (404 anonymous, 401 signed in).
func checkVisible(actor Actor, p store.Page) error {
	if p.IsPublished || actor.Owns(p.OwnerID) {
		return nil
	}
	if actor.Anonymous() {
		return ErrUnauthorized
	}
	return ErrNotFound
}

// validatePageInput checks fields that do not need the store. The title is
// always required; the slug only on create.
func validatePageInput(in model.PageInput, create bool) *ValidationError {
	verr := &ValidationError{}
	if in.Title == "" {
		verr.Add("title", "Title is required")
	}
	switch {
	case in.Slug == "" && create:
		verr.Add("slug", "Slug is required")
	case in.Slug != "" && !util.IsValidSlug(in.Slug):
		verr.Add("slug", "Invalid slug format")
	}
	for i, el := range in.Content {
		if !el.Type.Valid() {
			verr.Add(fmt.Sprintf("content[%d].type", i), fmt.Sprintf("Unknown element type %q", el.Type))
		}
	}
	return verr
}

func createPage(ctx context.Context, q *store.Queries, ownerID int64, in model.PageInput, published bool) (model.Page, error) {
	taken, err := q.PageSlugExists(ctx, in.Slug)
	if err != nil {
		return model.Page{}, fmt.Errorf("checking slug: %w", err)
	}
	if taken > 0 {
		return model.Page{}, ErrSlugTaken
	}

	now := time.Now().UTC()
	p, err := q.CreatePage(ctx, store.CreatePageParams{
		Title:       in.Title,
		Slug:        in.Slug,
		Description: util.NullStringFromPtr(in.Description),
		IsPublished: published,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return model.Page{}, ErrSlugTaken
		}
		return model.Page{}, fmt.Errorf("creating page: %w", err)
	}

	elements := make([]store.PageElement, 0, len(in.Content))
	for i, el := range in.Content {
		row, err := q.CreatePageElement(ctx, store.CreatePageElementParams{
			PageID:    p.ID,
			Type:      string(el.Type),
			Content:   el.Content,
			Position:  int64(i),
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return model.Page{}, fmt.Errorf("creating element %d: %w", i, err)
		}
		elements = append(elements, row)
	}
	return toPage(p, elements), nil
}

// savePage applies the full-replace diff of in onto p. It must run inside a
// transaction.
func savePage(ctx context.Context, q *store.Queries, p store.Page, in model.PageInput) (model.Page, error) {
	slug := p.Slug
	if in.Slug != "" && in.Slug != p.Slug {
		taken, err := q.PageSlugExistsExcluding(ctx, store.PageSlugExistsExcludingParams{Slug: in.Slug, ID: p.ID})
		if err != nil {
			return model.Page{}, fmt.Errorf("checking slug: %w", err)
		}
		if taken > 0 {
			return model.Page{}, ErrSlugTaken
		}
		slug = in.Slug
	}

	description := p.Description
	if in.Description != nil {
		description = util.NullStringFromPtr(in.Description)
	}
	published := p.IsPublished
	if in.IsPublished != nil {
		published = *in.IsPublished
	}

	now := time.Now().UTC()
	updated, err := q.UpdatePage(ctx, store.UpdatePageParams{
		Title:       in.Title,
		Slug:        slug,
		Description: description,
		IsPublished: published,
		UpdatedAt:   now,
		ID:          p.ID,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return model.Page{}, ErrSlugTaken
		}
		return model.Page{}, fmt.Errorf("updating page: %w", err)
	}

	existing, err := q.ListPageElements(ctx, p.ID)
	if err != nil {
		return model.Page{}, fmt.Errorf("loading elements: %w", err)
	}
	if in.Content == nil {
		return toPage(updated, existing), nil
	}
	stored := make(map[int64]bool, len(existing))
	for _, el := range existing {
		stored[el.ID] = true
	}

	kept := make(map[int64]bool, len(in.Content))
	for i, el := range in.Content {
		if el.ID == "" || model.IsTempID(el.ID) {
			if _, err := q.CreatePageElement(ctx, store.CreatePageElementParams{
				PageID:    p.ID,
				Type:      string(el.Type),
				Content:   el.Content,
				Position:  int64(i),
				CreatedAt: now,
				UpdatedAt: now,
			}); err != nil {
				return model.Page{}, fmt.Errorf("creating element %d: %w", i, err)
			}
			continue
		}

		id, err := strconv.ParseInt(el.ID, 10, 64)
		if err != nil || !stored[id] || kept[id] {
			return model.Page{}, NewValidationError(fmt.Sprintf("content[%d].id", i), "Unknown element id")
		}
		kept[id] = true
		if _, err := q.UpdatePageElement(ctx, store.UpdatePageElementParams{
			Type:      string(el.Type),
			Content:   el.Content,
			Position:  int64(i),
			UpdatedAt: now,
			ID:        id,
			PageID:    p.ID,
		}); err != nil {
			return model.Page{}, fmt.Errorf("updating element %d: %w", i, err)
		}
	}

	for _, el := range existing {
		if kept[el.ID] {
			continue
		}
		if err := q.DeletePageElement(ctx, store.DeletePageElementParams{ID: el.ID, PageID: p.ID}); err != nil {
			return model.Page{}, fmt.Errorf("deleting element %d: %w", el.ID, err)
		}
	}

	elements, err := q.ListPageElements(ctx, p.ID)
	if err != nil {
		return model.Page{}, fmt.Errorf("loading elements: %w", err)
	}
	return toPage(updated, elements), nil
}

func (s *PageService) load(ctx context.Context, q *store.Queries, p store.Page) (model.Page, error) {
	elements, err := q.ListPageElements(ctx, p.ID)
	if err != nil {
		return model.Page{}, fmt.Errorf("loading elements: %w", err)
	}
	return toPage(p, elements), nil
}

func (s *PageService) withElements(ctx context.Context, rows []store.Page) ([]model.Page, error) {
	pages := make([]model.Page, 0, len(rows))
	for _, p := range rows {
		page, err := s.load(ctx, s.queries, p)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func toPage(p store.Page, elements []store.PageElement) model.Page {
	content := make([]model.PageElement, 0, len(elements))
	for i, el := range elements {
		content = append(content, model.PageElement{
			ID:      strconv.FormatInt(el.ID, 10),
			Type:    model.ElementType(el.Type),
			Content: el.Content,
			Order:   i,
		})
	}
	return model.Page{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: util.PtrFromNullString(p.Description),
		IsPublished: p.IsPublished,
		OwnerID:     p.OwnerID,
		Content:     content,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
