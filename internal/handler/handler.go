// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler serves the server-rendered HTML views and the health
// endpoints. The JSON API lives in the api subpackage.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/darchive/internal/middleware"
	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/render"
	"github.com/olegiv/darchive/internal/service"
)

// templateData fills the layout fields shared by every view.
func templateData(r *http.Request, settings *service.SettingsService, title string, data any) render.TemplateData {
	s, err := settings.Get(r.Context())
	if err != nil {
		slog.Error("failed to load settings", "error", err)
		s = model.DefaultSettings()
	}

	td := render.TemplateData{
		Title:           title,
		SiteName:        s.SiteName,
		SiteDescription: s.SiteDescription,
		Data:            data,
	}
	if id := middleware.GetIdentity(r); id != nil {
		td.Viewer = &render.Viewer{UserID: id.UserID, Name: id.Name, IsAdmin: id.IsAdmin}
	}
	return td
}

// renderView writes a view, falling back to a plain 500 when the template
// fails.
func renderView(w http.ResponseWriter, renderer *render.Renderer, status int, name string, data render.TemplateData) {
	if err := renderer.RenderStatus(w, status, name, data); err != nil {
		slog.Error("failed to render view", "view", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
