// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/darchive/internal/middleware"
)

// Routes returns the API router. It expects the session to be loaded and
// the request identity resolved by the caller's middleware stack.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	requireAdmin := middleware.RequireAdmin(h.services.Events)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		if h.loginProtection != nil {
			r.With(h.loginProtection.Middleware()).Post("/login", h.Login)
		} else {
			r.Post("/login", h.Login)
		}
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
		r.Get("/verify-user", h.VerifyUser)
	})

	r.Route("/pages", func(r chi.Router) {
		// Signed-in callers may auto-create the home page; anonymous ones
		// only read it once it exists.
		r.Get("/home", h.GetHomePage)
		r.Get("/{slug}", h.GetPage)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", h.ListPages)
			r.Post("/", h.CreatePage)
			r.Put("/home", h.SaveHomePage)
			r.Put("/{slug}", h.UpdatePage)
			r.Delete("/{slug}", h.DeletePage)
			r.Post("/{slug}/publish", h.TogglePublish)
		})
	})

	r.Route("/archive", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.ListArchive)
		r.Post("/", h.CreateArchiveItem)
		r.Post("/upload", h.UploadArchiveImage)
		r.Get("/{id}", h.GetArchiveItem)
		r.Put("/{id}", h.UpdateArchiveItem)
		r.Delete("/{id}", h.DeleteArchiveItem)
	})

	r.Route("/home-content", func(r chi.Router) {
		r.Get("/", h.ListHomeContent)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/", h.CreateHomeContent)
			r.Put("/", h.UpdateHomeContent)
			r.Delete("/", h.DeleteHomeContent)
			r.Put("/order", h.SetHomeContentOrder)
			r.Post("/setup", h.SetupHomeContent)
			r.Put("/{id}", h.UpdateHomeContent)
			r.Patch("/{id}", h.MoveHomeContent)
			r.Delete("/{id}", h.DeleteHomeContent)
		})
	})

	r.Post("/contact", h.SubmitContact)

	r.Route("/admin", func(r chi.Router) {
		r.Use(requireAdmin)
		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.UpdateSettings)
		r.Get("/stats", h.GetStats)
		r.Get("/users", h.ListUsers)
		r.Put("/users/{id}/admin", h.SetUserAdmin)
		r.Get("/items", h.ListAllItems)
		r.Get("/pages", h.ListAdminPages)
		r.Post("/pages", h.CreateAdminPage)
		r.Get("/pages/{id}", h.GetAdminPage)
		r.Put("/pages/{id}", h.UpdateAdminPage)
		r.Delete("/pages/{id}", h.DeleteAdminPage)
		r.Get("/contact", h.ListContactForms)
		r.Get("/events", h.ListEvents)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteNotFound(w, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", nil)
	})

	return r
}
