// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/olegiv/darchive/internal/model"
)

func TestAdmin_RequiresAdmin(t *testing.T) {
	api := newTestAPI(t)
	admin := api.client(t)
	admin.register("Admin", "admin@example.com")
	user := api.client(t)
	user.register("User", "user@example.com")
	anon := api.client(t)

	paths := []string{
		"/admin/settings",
		"/admin/stats",
		"/admin/users",
		"/admin/items",
		"/admin/pages",
		"/admin/contact",
		"/admin/events",
	}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			if code := anon.do(http.MethodGet, p, nil, nil); code != http.StatusUnauthorized {
				t.Errorf("anonymous: status = %d, want 401", code)
			}
			if code := user.do(http.MethodGet, p, nil, nil); code != http.StatusForbidden {
				t.Errorf("user: status = %d, want 403", code)
			}
			if code := admin.do(http.MethodGet, p, nil, nil); code != http.StatusOK {
				t.Errorf("admin: status = %d, want 200", code)
			}
		})
	}
}

func TestAdmin_Settings(t *testing.T) {
	api := newTestAPI(t)
	admin := api.client(t)
	admin.register("Admin", "admin@example.com")

	var settings model.Settings
	admin.do(http.MethodGet, "/admin/settings", nil, &settings)
	if settings != model.DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", settings)
	}

	update := model.Settings{
		SiteName:        "Family Archive",
		SiteDescription: "Photos and letters",
		ContactEmail:    "family@example.com",
		MaxUploadSize:   20,
	}
	if code := admin.do(http.MethodPut, "/admin/settings", update, &settings); code != http.StatusOK {
		t.Fatalf("update: status = %d", code)
	}
	admin.do(http.MethodGet, "/admin/settings", nil, &settings)
	if settings != update {
		t.Errorf("settings = %+v, want %+v", settings, update)
	}

	var resp apiError
	update.MaxUploadSize = 0
	if code := admin.do(http.MethodPut, "/admin/settings", update, &resp); code != http.StatusBadRequest {
		t.Errorf("invalid size: status = %d, want 400", code)
	}
	if _, ok := resp.Details["maxUploadSize"]; !ok {
		t.Errorf("details = %v", resp.Details)
	}
}

func TestAdmin_StatsAndUsers(t *testing.T) {
	api := newTestAPI(t)
	admin := api.client(t)
	admin.register("Admin", "admin@example.com")
	user := api.client(t)
	created := user.register("User", "user@example.com")
	user.do(http.MethodPost, "/archive", model.ArchiveInput{Title: "x", Type: model.ArchiveTypeText, Content: "y"}, nil)
	user.do(http.MethodPost, "/pages", model.PageInput{Title: "P", Slug: "p"}, nil)

	var stats model.Stats
	admin.do(http.MethodGet, "/admin/stats", nil, &stats)
	if stats.TotalUsers != 2 || stats.TotalArchives != 1 || stats.TotalPages != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if len(stats.RecentUsers) != 2 {
		t.Errorf("recent users = %d, want 2", len(stats.RecentUsers))
	}

	var users []model.User
	admin.do(http.MethodGet, "/admin/users", nil, &users)
	if len(users) != 2 {
		t.Fatalf("users = %d, want 2", len(users))
	}

	var promoted model.User
	path := fmt.Sprintf("/admin/users/%d/admin", created.User.ID)
	if code := admin.do(http.MethodPut, path, SetAdminRequest{IsAdmin: boolPtr(true)}, &promoted); code != http.StatusOK {
		t.Fatalf("promote: status = %d", code)
	}
	if !promoted.IsAdmin {
		t.Error("user should be admin after promotion")
	}
	// The promoted user now passes the admin gate.
	if code := user.do(http.MethodGet, "/admin/stats", nil, nil); code != http.StatusOK {
		t.Errorf("promoted user: status = %d, want 200", code)
	}

	if code := admin.do(http.MethodPut, path, map[string]any{}, nil); code != http.StatusBadRequest {
		t.Errorf("missing isAdmin: status = %d, want 400", code)
	}
	if code := admin.do(http.MethodPut, "/admin/users/9999/admin", SetAdminRequest{IsAdmin: boolPtr(true)}, nil); code != http.StatusNotFound {
		t.Errorf("missing user: status = %d, want 404", code)
	}
}

func TestAdmin_Items(t *testing.T) {
	api := newTestAPI(t)
	admin := api.client(t)
	admin.register("Admin", "admin@example.com")
	user := api.client(t)
	user.register("User", "user@example.com")
	user.do(http.MethodPost, "/archive", model.ArchiveInput{Title: "x", Type: model.ArchiveTypeText, Content: "y"}, nil)

	var items []model.ArchiveItemWithOwner
	admin.do(http.MethodGet, "/admin/items", nil, &items)
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].Owner.Email != "user@example.com" || items[0].Owner.Name != "User" {
		t.Errorf("owner = %+v", items[0].Owner)
	}
}

func TestAdmin_Pages(t *testing.T) {
	api := newTestAPI(t)
	admin := api.client(t)
	admin.register("Admin", "admin@example.com")

	var page model.AdminPage
	if code := admin.do(http.MethodPost, "/admin/pages", model.AdminPageInput{Title: "Landing", Slug: "landing"}, &page); code != http.StatusCreated {
		t.Fatalf("create: status = %d", code)
	}

	textConfig, _ := json.Marshal(model.TextConfig{Content: "Hello"})
	buttonConfig, _ := json.Marshal(model.ButtonConfig{Label: "Go", Href: "/archive"})
	path := fmt.Sprintf("/admin/pages/%d", page.ID)
	if code := admin.do(http.MethodPut, path, model.AdminPageInput{
		Title: "Landing",
		Slug:  "landing",
		Components: []model.PageComponent{
			{ID: "temp-1", Name: "Intro", Type: model.ComponentText, Config: textConfig},
			{ID: "temp-2", Name: "CTA", Type: model.ComponentButton, Config: buttonConfig},
		},
	}, &page); code != http.StatusOK {
		t.Fatalf("update: status = %d", code)
	}

	var fetched model.AdminPage
	admin.do(http.MethodGet, path, nil, &fetched)
	if len(fetched.Components) != 2 {
		t.Fatalf("components = %+v", fetched.Components)
	}
	if fetched.Components[0].Name != "Intro" || fetched.Components[1].Order != 1 {
		t.Errorf("components = %+v", fetched.Components)
	}

	badConfig, _ := json.Marshal(map[string]any{"level": 9, "content": "x"})
	var resp apiError
	if code := admin.do(http.MethodPut, path, model.AdminPageInput{
		Title:      "Landing",
		Slug:       "landing",
		Components: []model.PageComponent{{ID: "temp-3", Name: "H", Type: model.ComponentHeading, Config: badConfig}},
	}, &resp); code != http.StatusBadRequest {
		t.Errorf("invalid config: status = %d, want 400", code)
	}

	if code := admin.do(http.MethodPost, "/admin/pages", model.AdminPageInput{Title: "Dup", Slug: "landing"}, nil); code != http.StatusBadRequest {
		t.Errorf("duplicate slug: status = %d, want 400", code)
	}

	if code := admin.do(http.MethodDelete, path, nil, nil); code != http.StatusNoContent {
		t.Errorf("delete: status = %d, want 204", code)
	}
	if code := admin.do(http.MethodGet, path, nil, nil); code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", code)
	}
}

func TestContact(t *testing.T) {
	api := newTestAPI(t)
	admin := api.client(t)
	admin.register("Admin", "admin@example.com")
	anon := api.client(t)

	var resp ContactResponse
	code := anon.do(http.MethodPost, "/contact", map[string]string{
		"name": "Visitor", "email": "visitor@example.com", "message": "Hello there",
	}, &resp)
	if code != http.StatusCreated {
		t.Fatalf("anonymous submit: status = %d, want 201", code)
	}
	if resp.Message != "Message sent successfully" || resp.ContactForm.UserID != nil {
		t.Errorf("resp = %+v", resp)
	}

	admin.do(http.MethodPost, "/contact", map[string]string{
		"name": "Admin", "email": "admin@example.com", "message": "Signed in",
	}, &resp)
	if resp.ContactForm.UserID == nil {
		t.Error("signed-in submission should record the user id")
	}

	var apiErr apiError
	if code := anon.do(http.MethodPost, "/contact", map[string]string{"name": "X"}, &apiErr); code != http.StatusBadRequest {
		t.Errorf("missing fields: status = %d, want 400", code)
	}

	var forms []model.ContactForm
	admin.do(http.MethodGet, "/admin/contact", nil, &forms)
	if len(forms) != 2 {
		t.Errorf("forms = %d, want 2", len(forms))
	}
}

func TestAdmin_Events(t *testing.T) {
	api := newTestAPI(t)
	admin := api.client(t)
	admin.register("Admin", "admin@example.com")

	var resp EventsResponse
	if code := admin.do(http.MethodGet, "/admin/events?limit=1", nil, &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	// Registration and login were both recorded.
	if resp.Total < 2 {
		t.Errorf("total = %d, want at least 2", resp.Total)
	}
	if len(resp.Events) != 1 || resp.Limit != 1 {
		t.Errorf("events = %d, limit = %d", len(resp.Events), resp.Limit)
	}
}
