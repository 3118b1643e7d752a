// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"

	"github.com/olegiv/darchive/internal/middleware"
	"github.com/olegiv/darchive/internal/model"
)

// Event log paging bounds.
const (
	defaultEventsLimit = 50
	maxEventsLimit     = 500
)

// SetAdminRequest is the body of PUT /admin/users/{id}/admin.
type SetAdminRequest struct {
	IsAdmin *bool `json:"isAdmin"`
}

// EventsResponse is a page of the event log.
type EventsResponse struct {
	Events []model.Event `json:"events"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// GetSettings handles GET /admin/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.services.Settings.Get(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, settings)
}

// UpdateSettings handles PUT /admin/settings.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var in model.Settings
	if !decodeJSON(w, r, &in) {
		return
	}

	settings, err := h.services.Settings.Update(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	_ = h.services.Events.LogInfo(r.Context(), model.EventCategoryConfig, "Settings updated", middleware.GetUserID(r), middleware.Client(r), map[string]any{
		"site_name":       settings.SiteName,
		"max_upload_size": settings.MaxUploadSize,
	})
	WriteJSON(w, http.StatusOK, settings)
}

// GetStats handles GET /admin/stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.services.Stats.Get(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	stats.RecentUsers = nonNil(stats.RecentUsers)
	WriteJSON(w, http.StatusOK, stats)
}

// ListUsers handles GET /admin/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.services.Users.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(users))
}

// SetUserAdmin handles PUT /admin/users/{id}/admin.
func (h *Handler) SetUserAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIDParam(w, r, "user")
	if !ok {
		return
	}
	var req SetAdminRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.IsAdmin == nil {
		WriteBadRequest(w, "isAdmin is required", map[string]string{"isAdmin": "is required"})
		return
	}

	user, err := h.services.Users.SetAdmin(r.Context(), id, *req.IsAdmin)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	_ = h.services.Events.LogInfo(r.Context(), model.EventCategoryUser, "User admin flag changed", middleware.GetUserID(r), middleware.Client(r), map[string]any{
		"target_user_id": user.ID,
		"is_admin":       user.IsAdmin,
	})
	WriteJSON(w, http.StatusOK, user)
}

// ListAllItems handles GET /admin/items.
func (h *Handler) ListAllItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.services.Archive.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(items))
}

// ListAdminPages handles GET /admin/pages.
func (h *Handler) ListAdminPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.services.AdminPages.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(pages))
}

// CreateAdminPage handles POST /admin/pages.
func (h *Handler) CreateAdminPage(w http.ResponseWriter, r *http.Request) {
	var in model.AdminPageInput
	if !decodeJSON(w, r, &in) {
		return
	}

	page, err := h.services.AdminPages.Create(r.Context(), middleware.GetActor(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, page)
}

// GetAdminPage handles GET /admin/pages/{id}.
func (h *Handler) GetAdminPage(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIDParam(w, r, "page")
	if !ok {
		return
	}

	page, err := h.services.AdminPages.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

// UpdateAdminPage handles PUT /admin/pages/{id}. Components are replaced as
// a whole; temp- ids are created.
func (h *Handler) UpdateAdminPage(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIDParam(w, r, "page")
	if !ok {
		return
	}
	var in model.AdminPageInput
	if !decodeJSON(w, r, &in) {
		return
	}

	page, err := h.services.AdminPages.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

// DeleteAdminPage handles DELETE /admin/pages/{id}.
func (h *Handler) DeleteAdminPage(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIDParam(w, r, "page")
	if !ok {
		return
	}

	if err := h.services.AdminPages.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListContactForms handles GET /admin/contact.
func (h *Handler) ListContactForms(w http.ResponseWriter, r *http.Request) {
	forms, err := h.services.Contact.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(forms))
}

// ListEvents handles GET /admin/events?limit=&offset=.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultEventsLimit)
	if limit <= 0 || limit > maxEventsLimit {
		limit = defaultEventsLimit
	}
	offset := max(queryInt(r, "offset", 0), 0)

	events, total, err := h.services.Events.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, EventsResponse{
		Events: nonNil(events),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// queryInt returns the integer query parameter key, or def when it is
// missing or malformed.
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
