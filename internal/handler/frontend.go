// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/darchive/internal/middleware"
	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/render"
	"github.com/olegiv/darchive/internal/service"
)

// recentArchiveLimit is the number of items shown by an archive-preview block.
const recentArchiveLimit = 6

// FrontendHandler renders the public site.
type FrontendHandler struct {
	renderer *render.Renderer
	services *service.Services
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(renderer *render.Renderer, services *service.Services) *FrontendHandler {
	return &FrontendHandler{
		renderer: renderer,
		services: services,
	}
}

// HomeView is the data of the homepage view.
type HomeView struct {
	Blocks []model.HomeContent
	Recent []model.ArchiveItem
}

// Home handles GET /. Signed-in callers see their latest archive items
// under an archive-preview block.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.services.Home.List(r.Context())
	if err != nil {
		slog.Error("failed to list home content", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view := HomeView{Blocks: blocks}
	if actor := middleware.GetActor(r); !actor.Anonymous() && hasArchivePreview(blocks) {
		recent, err := h.services.Archive.List(r.Context(), actor, recentArchiveLimit)
		if err != nil {
			slog.Warn("failed to list recent archive items", "error", err, "user_id", actor.UserID)
		}
		view.Recent = recent
	}

	renderView(w, h.renderer, http.StatusOK, "public/home", templateData(r, h.services.Settings, "", view))
}

func hasArchivePreview(blocks []model.HomeContent) bool {
	for _, b := range blocks {
		if b.Type == model.HomeArchivePreview {
			return true
		}
	}
	return false
}

// Page handles GET /p/{slug}. Only published pages are rendered.
func (h *FrontendHandler) Page(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	page, err := h.services.Pages.Get(r.Context(), middleware.GetActor(r), slug)
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUnauthorized):
		h.NotFound(w, r)
		return
	case err != nil:
		slog.Error("failed to load page", "slug", slug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !page.IsPublished {
		h.NotFound(w, r)
		return
	}

	renderView(w, h.renderer, http.StatusOK, "public/page", templateData(r, h.services.Settings, page.Title, page))
}

// NotFound renders the 404 view.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderView(w, h.renderer, http.StatusNotFound, "public/not_found", templateData(r, h.services.Settings, "Not found", nil))
}
