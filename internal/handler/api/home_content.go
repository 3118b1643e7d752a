// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/darchive/internal/middleware"
	"github.com/olegiv/darchive/internal/model"
)

// MoveRequest is the body of PATCH /home-content/{id}.
type MoveRequest struct {
	Order *int `json:"order"`
}

// SetOrderRequest is the body of PUT /home-content/order.
type SetOrderRequest struct {
	IDs []int64 `json:"ids"`
}

// HomeContentListResponse is a message together with the full list.
type HomeContentListResponse struct {
	Message string              `json:"message"`
	Content []model.HomeContent `json:"content"`
}

// ListHomeContent handles GET /home-content.
func (h *Handler) ListHomeContent(w http.ResponseWriter, r *http.Request) {
	items, err := h.services.Home.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(items))
}

// CreateHomeContent handles POST /home-content.
func (h *Handler) CreateHomeContent(w http.ResponseWriter, r *http.Request) {
	var in model.HomeContentInput
	if !decodeJSON(w, r, &in) {
		return
	}

	item, err := h.services.Home.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, item)
}

// UpdateHomeContent handles PUT /home-content/{id} and the legacy
// PUT /home-content?id=.
func (h *Handler) UpdateHomeContent(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIDParam(w, r, "content")
	if !ok {
		return
	}
	var patch model.HomeContentPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	item, err := h.services.Home.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

// DeleteHomeContent handles DELETE /home-content/{id} and the legacy
// DELETE /home-content?id=. The remaining blocks are renumbered.
func (h *Handler) DeleteHomeContent(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIDParam(w, r, "content")
	if !ok {
		return
	}

	if err := h.services.Home.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteMessage(w, "Content deleted successfully")
}

// MoveHomeContent handles PATCH /home-content/{id} with {order}.
func (h *Handler) MoveHomeContent(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIDParam(w, r, "content")
	if !ok {
		return
	}
	var req MoveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Order == nil || *req.Order < 1 {
		WriteBadRequest(w, "Invalid order value", map[string]string{"order": "must be a positive integer"})
		return
	}

	items, err := h.services.Home.Move(r.Context(), id, *req.Order)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

// SetHomeContentOrder handles PUT /home-content/order. ids must list every
// block exactly once.
func (h *Handler) SetHomeContentOrder(w http.ResponseWriter, r *http.Request) {
	var req SetOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.IDs == nil {
		WriteBadRequest(w, "ids is required", map[string]string{"ids": "is required"})
		return
	}

	items, err := h.services.Home.SetOrder(r.Context(), req.IDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(items))
}

// SetupHomeContent handles POST /home-content/setup.
func (h *Handler) SetupHomeContent(w http.ResponseWriter, r *http.Request) {
	items, err := h.services.Home.Reset(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	_ = h.services.Events.LogInfo(r.Context(), model.EventCategoryConfig, "Home content reset to defaults", middleware.GetUserID(r), middleware.Client(r), nil)
	WriteJSON(w, http.StatusOK, HomeContentListResponse{
		Message: "Default home content created successfully",
		Content: items,
	})
}
