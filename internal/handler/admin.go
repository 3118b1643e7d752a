// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/render"
	"github.com/olegiv/darchive/internal/service"
)

// dashboardEvents is the number of events listed on the dashboard.
const dashboardEvents = 10

// AdminHandler renders the admin area. Routes are expected to sit behind
// middleware.AdminArea.
type AdminHandler struct {
	renderer *render.Renderer
	services *service.Services
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(renderer *render.Renderer, services *service.Services) *AdminHandler {
	return &AdminHandler{
		renderer: renderer,
		services: services,
	}
}

// DashboardView is the data of the admin dashboard.
type DashboardView struct {
	Stats    model.Stats
	Settings model.Settings
	Events   []model.Event
}

// Dashboard handles GET /admin.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.services.Stats.Get(ctx)
	if err != nil {
		slog.Error("failed to load stats", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	settings, err := h.services.Settings.Get(ctx)
	if err != nil {
		slog.Error("failed to load settings", "error", err)
		settings = model.DefaultSettings()
	}
	events, _, err := h.services.Events.List(ctx, dashboardEvents, 0)
	if err != nil {
		slog.Warn("failed to list events", "error", err)
	}

	view := DashboardView{Stats: stats, Settings: settings, Events: events}
	renderView(w, h.renderer, http.StatusOK, "admin/dashboard", templateData(r, h.services.Settings, "Dashboard", view))
}
