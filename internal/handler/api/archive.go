// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/olegiv/darchive/internal/middleware"
	"github.com/olegiv/darchive/internal/model"
)

// uploadFormField is the multipart field carrying the image.
const uploadFormField = "file"

// multipartOverhead is added to the upload limit for form boundaries and
// headers.
const multipartOverhead = 64 << 10

// ListArchive handles GET /archive. ?limit=n returns the n newest items.
func (h *Handler) ListArchive(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteBadRequest(w, "Invalid limit", map[string]string{"limit": "must be a non-negative integer"})
			return
		}
		limit = n
	}

	items, err := h.services.Archive.List(r.Context(), middleware.GetActor(r), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(items))
}

// CreateArchiveItem handles POST /archive.
func (h *Handler) CreateArchiveItem(w http.ResponseWriter, r *http.Request) {
	var in model.ArchiveInput
	if !decodeJSON(w, r, &in) {
		return
	}

	actor := middleware.GetActor(r)
	item, err := h.services.Archive.Create(r.Context(), actor, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	_ = h.services.Events.LogInfo(r.Context(), model.EventCategoryArchive, "Archive item created", actor.UserID, middleware.Client(r), map[string]any{
		"item_id": item.ID,
		"type":    item.Type,
	})
	WriteJSON(w, http.StatusCreated, item)
}

// GetArchiveItem handles GET /archive/{id}.
func (h *Handler) GetArchiveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIDParam(w, r, "item")
	if !ok {
		return
	}

	item, err := h.services.Archive.Get(r.Context(), middleware.GetActor(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

// UpdateArchiveItem handles PUT /archive/{id}.
func (h *Handler) UpdateArchiveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIDParam(w, r, "item")
	if !ok {
		return
	}
	var in model.ArchiveInput
	if !decodeJSON(w, r, &in) {
		return
	}

	item, err := h.services.Archive.Update(r.Context(), middleware.GetActor(r), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

// DeleteArchiveItem handles DELETE /archive/{id}.
func (h *Handler) DeleteArchiveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIDParam(w, r, "item")
	if !ok {
		return
	}

	actor := middleware.GetActor(r)
	if err := h.services.Archive.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	_ = h.services.Events.LogInfo(r.Context(), model.EventCategoryArchive, "Archive item deleted", actor.UserID, middleware.Client(r), map[string]any{
		"item_id": id,
	})
	WriteMessage(w, "Item deleted successfully")
}

// UploadArchiveImage handles POST /archive/upload. The multipart field
// "file" must hold a JPEG, PNG, GIF or WebP image within the upload limit
// from the site settings.
func (h *Handler) UploadArchiveImage(w http.ResponseWriter, r *http.Request) {
	limit, err := h.services.Media.MaxUploadBytes(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	if err := r.ParseMultipartForm(limit + multipartOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteBadRequest(w, fmt.Sprintf("File exceeds the %d MB limit", limit>>20), map[string]string{uploadFormField: "too large"})
			return
		}
		WriteBadRequest(w, "Invalid multipart form", nil)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		WriteBadRequest(w, "No file uploaded", map[string]string{uploadFormField: "is required"})
		return
	}
	defer func() { _ = file.Close() }()

	actor := middleware.GetActor(r)
	result, err := h.services.Media.Upload(r.Context(), actor, file)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.Info("image uploaded", "user_id", actor.UserID, "filename", header.Filename, "url", result.URL)
	WriteJSON(w, http.StatusCreated, result)
}
