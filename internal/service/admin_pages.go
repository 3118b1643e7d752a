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

// AdminPageService backs the admin page builder. Every method expects an
// admin actor; the HTTP layer enforces that before calling.
type AdminPageService struct {
	db      *sql.DB
	queries *store.Queries
}

// NewAdminPageService creates an AdminPageService.
func NewAdminPageService(db *sql.DB) *AdminPageService {
	return &AdminPageService{
		db:      db,
		queries: store.New(db),
	}
}

// List returns every page without components.
func (s *AdminPageService) List(ctx context.Context) ([]model.AdminPage, error) {
	rows, err := s.queries.ListAllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	pages := make([]model.AdminPage, 0, len(rows))
	for _, p := range rows {
		pages = append(pages, toAdminPage(p, nil))
	}
	return pages, nil
}

// Create stores an unpublished page owned by the actor. An empty slug is
// derived from the title.
func (s *AdminPageService) Create(ctx context.Context, actor Actor, in model.AdminPageInput) (model.AdminPage, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Slug == "" {
		in.Slug = util.Slugify(in.Title)
	}

	verr := &ValidationError{}
	if in.Title == "" {
		verr.Add("title", "Title is required")
	}
	if in.Slug == "" {
		verr.Add("slug", "Slug is required")
	} else if !util.IsValidSlug(in.Slug) {
		verr.Add("slug", "Invalid slug format")
	}
	if err := verr.Err(); err != nil {
		return model.AdminPage{}, err
	}

	taken, err := s.queries.PageSlugExists(ctx, in.Slug)
	if err != nil {
		return model.AdminPage{}, fmt.Errorf("checking slug: %w", err)
	}
	if taken > 0 {
		return model.AdminPage{}, ErrSlugTaken
	}

	now := time.Now().UTC()
	p, err := s.queries.CreatePage(ctx, store.CreatePageParams{
		Title:       in.Title,
		Slug:        in.Slug,
		Description: util.NullStringFromPtr(in.Description),
		IsPublished: in.IsPublished != nil && *in.IsPublished,
		OwnerID:     actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return model.AdminPage{}, ErrSlugTaken
		}
		return model.AdminPage{}, fmt.Errorf("creating page: %w", err)
	}
	return toAdminPage(p, nil), nil
}

// Get returns a page with its components ordered by position.
func (s *AdminPageService) Get(ctx context.Context, id int64) (model.AdminPage, error) {
	p, err := s.queries.GetPageByID(ctx, id)
	if err != nil {
		return model.AdminPage{}, notFound(err, "loading page")
	}
	components, err := s.queries.ListPageComponents(ctx, id)
	if err != nil {
		return model.AdminPage{}, fmt.Errorf("loading components: %w", err)
	}
	return toAdminPage(p, components), nil
}

// Update replaces page metadata and, when in.Components is non-nil, applies
// the same full-replace diff as PageService.Save to the components. Every
// component config is validated against its type first.
func (s *AdminPageService) Update(ctx context.Context, id int64, in model.AdminPageInput) (model.AdminPage, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)

	verr := &ValidationError{}
	if in.Title == "" {
		verr.Add("title", "Title is required")
	}
	if in.Slug != "" && !util.IsValidSlug(in.Slug) {
		verr.Add("slug", "Invalid slug format")
	}
	configs := make([]string, len(in.Components))
	for i, c := range in.Components {
		cfg, err := model.DecodeComponentConfig(c.Type, c.Config)
		if err != nil {
			var cerr *model.ConfigError
			if errors.As(err, &cerr) {
				verr.Add(fmt.Sprintf("components[%d].%s", i, cerr.Field), cerr.Message)
				continue
			}
			return model.AdminPage{}, err
		}
		raw, err := model.EncodeComponentConfig(cfg)
		if err != nil {
			return model.AdminPage{}, fmt.Errorf("encoding component %d: %w", i, err)
		}
		configs[i] = string(raw)
	}
	if err := verr.Err(); err != nil {
		return model.AdminPage{}, err
	}

	var page model.AdminPage
	err := store.WithTx(ctx, s.db, func(q *store.Queries) error {
		p, err := q.GetPageByID(ctx, id)
		if err != nil {
			return notFound(err, "loading page")
		}

		slug := p.Slug
		if in.Slug != "" && in.Slug != p.Slug {
			taken, err := q.PageSlugExistsExcluding(ctx, store.PageSlugExistsExcludingParams{Slug: in.Slug, ID: id})
			if err != nil {
				return fmt.Errorf("checking slug: %w", err)
			}
			if taken > 0 {
				return ErrSlugTaken
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
			ID:          id,
		})
		if err != nil {
			if isUniqueViolation(err) {
				return ErrSlugTaken
			}
			return fmt.Errorf("updating page: %w", err)
		}

		if in.Components != nil {
			if err := replaceComponents(ctx, q, id, in.Components, configs, now); err != nil {
				return err
			}
		}

		components, err := q.ListPageComponents(ctx, id)
		if err != nil {
			return fmt.Errorf("loading components: %w", err)
		}
		page = toAdminPage(updated, components)
		return nil
	})
	if err != nil {
		return model.AdminPage{}, err
	}
	return page, nil
}

// Delete removes a page; its components go with it.
func (s *AdminPageService) Delete(ctx context.Context, id int64) error {
	if _, err := s.queries.GetPageByID(ctx, id); err != nil {
		return notFound(err, "loading page")
	}
	if err := s.queries.DeletePage(ctx, id); err != nil {
		return fmt.Errorf("deleting page: %w", err)
	}
	return nil
}

func replaceComponents(ctx context.Context, q *store.Queries, pageID int64, components []model.PageComponent, configs []string, now time.Time) error {
	existing, err := q.ListPageComponents(ctx, pageID)
	if err != nil {
		return fmt.Errorf("loading components: %w", err)
	}
	stored := make(map[int64]bool, len(existing))
	for _, c := range existing {
		stored[c.ID] = true
	}

	kept := make(map[int64]bool, len(components))
	for i, c := range components {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			name = string(c.Type)
		}

		if c.ID == "" || model.IsTempID(c.ID) {
			if _, err := q.CreatePageComponent(ctx, store.CreatePageComponentParams{
				PageID:    pageID,
				Name:      name,
				Type:      string(c.Type),
				Config:    configs[i],
				Position:  int64(i),
				CreatedAt: now,
				UpdatedAt: now,
			}); err != nil {
				return fmt.Errorf("creating component %d: %w", i, err)
			}
			continue
		}

		id, err := strconv.ParseInt(c.ID, 10, 64)
		if err != nil || !stored[id] || kept[id] {
			return NewValidationError(fmt.Sprintf("components[%d].id", i), "Unknown component id")
		}
		kept[id] = true
		if _, err := q.UpdatePageComponent(ctx, store.UpdatePageComponentParams{
			Name:      name,
			Type:      string(c.Type),
			Config:    configs[i],
			Position:  int64(i),
			UpdatedAt: now,
			ID:        id,
			PageID:    pageID,
		}); err != nil {
			return fmt.Errorf("updating component %d: %w", i, err)
		}
	}

	for _, c := range existing {
		if kept[c.ID] {
			continue
		}
		if err := q.DeletePageComponent(ctx, store.DeletePageComponentParams{ID: c.ID, PageID: pageID}); err != nil {
			return fmt.Errorf("deleting component %d: %w", c.ID, err)
		}
	}
	return nil
}

func toAdminPage(p store.Page, components []store.PageComponent) model.AdminPage {
	out := make([]model.PageComponent, 0, len(components))
	for i, c := range components {
		out = append(out, model.PageComponent{
			ID:     strconv.FormatInt(c.ID, 10),
			PageID: c.PageID,
			Name:   c.Name,
			Type:   model.ComponentType(c.Type),
			Config: []byte(c.Config),
			Order:  i,
		})
	}
	return model.AdminPage{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: util.PtrFromNullString(p.Description),
		IsPublished: p.IsPublished,
		OwnerID:     p.OwnerID,
		Components:  out,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
