// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/darchive/internal/middleware"
	"github.com/olegiv/darchive/internal/model"
)

// PublishResponse is returned by the publish toggle.
type PublishResponse struct {
	Message     string `json:"message"`
	IsPublished bool   `json:"isPublished"`
}

// ListPages handles GET /pages. The optional ?published=true|false filters
// by status.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	var published *bool
	if raw := r.URL.Query().Get("published"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			WriteBadRequest(w, "Invalid published filter", map[string]string{"published": "must be true or false"})
			return
		}
		published = &v
	}

	pages, err := h.services.Pages.List(r.Context(), middleware.GetActor(r), published)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(pages))
}

// CreatePage handles POST /pages.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var in model.PageInput
	if !decodeJSON(w, r, &in) {
		return
	}

	page, err := h.services.Pages.Create(r.Context(), middleware.GetActor(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	_ = h.services.Events.LogInfo(r.Context(), model.EventCategoryPage, "Page created", page.OwnerID, middleware.Client(r), map[string]any{
		"page_id": page.ID,
		"slug":    page.Slug,
	})
	WriteJSON(w, http.StatusCreated, page)
}

// GetPage handles GET /pages/{slug}. Unpublished pages are visible to their
// owner only.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.services.Pages.Get(r.Context(), middleware.GetActor(r), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

// UpdatePage handles PUT /pages/{slug}. The body replaces the page: stored
// elements missing from content are deleted, temp- ids are created, and the
// slug may change.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	var in model.PageInput
	if !decodeJSON(w, r, &in) {
		return
	}

	page, err := h.services.Pages.Save(r.Context(), middleware.GetActor(r), chi.URLParam(r, "slug"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

// DeletePage handles DELETE /pages/{slug}.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	actor := middleware.GetActor(r)
	if err := h.services.Pages.Delete(r.Context(), actor, slug); err != nil {
		writeServiceError(w, r, err)
		return
	}

	_ = h.services.Events.LogInfo(r.Context(), model.EventCategoryPage, "Page deleted", actor.UserID, middleware.Client(r), map[string]any{
		"slug": slug,
	})
	WriteMessage(w, "Page deleted successfully")
}

// TogglePublish handles POST /pages/{slug}/publish.
func (h *Handler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r)
	page, err := h.services.Pages.TogglePublish(r.Context(), actor, chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	message := "Page unpublished"
	if page.IsPublished {
		message = "Page published"
	}
	_ = h.services.Events.LogInfo(r.Context(), model.EventCategoryPage, message, actor.UserID, middleware.Client(r), map[string]any{
		"page_id": page.ID,
		"slug":    page.Slug,
	})
	WriteJSON(w, http.StatusOK, PublishResponse{
		Message:     message,
		IsPublished: page.IsPublished,
	})
}

// GetHomePage handles GET /pages/home, creating the caller's published home
// page on first use.
func (h *Handler) GetHomePage(w http.ResponseWriter, r *http.Request) {
	page, err := h.services.Pages.Home(r.Context(), middleware.GetActor(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

// SaveHomePage handles PUT /pages/home.
func (h *Handler) SaveHomePage(w http.ResponseWriter, r *http.Request) {
	var in model.PageInput
	if !decodeJSON(w, r, &in) {
		return
	}

	page, err := h.services.Pages.SaveHome(r.Context(), middleware.GetActor(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

// nonNil turns a nil slice into an empty one so lists encode as [].
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
