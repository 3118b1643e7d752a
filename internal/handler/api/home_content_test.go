// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/olegiv/darchive/internal/model"
)

func createBlocks(t *testing.T, c *testClient, contents ...string) []model.HomeContent {
	t.Helper()
	var out []model.HomeContent
	for _, content := range contents {
		var item model.HomeContent
		if code := c.do(http.MethodPost, "/home-content", model.HomeContentInput{
			Type:    model.HomeParagraph,
			Content: content,
		}, &item); code != http.StatusCreated {
			t.Fatalf("create %q: status = %d", content, code)
		}
		out = append(out, item)
	}
	return out
}

func listBlocks(t *testing.T, c *testClient) []model.HomeContent {
	t.Helper()
	var items []model.HomeContent
	if code := c.do(http.MethodGet, "/home-content", nil, &items); code != http.StatusOK {
		t.Fatalf("list: status = %d", code)
	}
	return items
}

func assertBlockOrder(t *testing.T, items []model.HomeContent, want ...string) {
	t.Helper()
	if len(items) != len(want) {
		t.Fatalf("len = %d, want %d (%+v)", len(items), len(want), items)
	}
	for i, item := range items {
		if item.Content != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, item.Content, want[i])
		}
		if item.Order != i+1 {
			t.Errorf("items[%d].order = %d, want %d", i, item.Order, i+1)
		}
	}
}

func TestHomeContent_CreateAppends(t *testing.T) {
	api := newTestAPI(t)
	admin := api.client(t)
	admin.register("Admin", "admin@example.com")

	items := createBlocks(t, admin, "A", "B", "C")
	for i, item := range items {
		if item.Order != i+1 {
			t.Errorf("created[%d].order = %d, want %d", i, item.Order, i+1)
		}
	}

	assertBlockOrder(t, listBlocks(t, api.client(t)), "A", "B", "C")
}

func TestHomeContent_AdminOnly(t *testing.T) {
	api := newTestAPI(t)
	admin := api.client(t)
	admin.register("Admin", "admin@example.com")
	user := api.client(t)
	user.register("User", "user@example.com")
	anon := api.client(t)

	body := model.HomeContentInput{Type: model.HomeHeading, Content: "x"}
	if code := user.do(http.MethodPost, "/home-content", body, nil); code != http.StatusForbidden {
		t.Errorf("user create: status = %d, want 403", code)
	}
	if code := anon.do(http.MethodPost, "/home-content", body, nil); code != http.StatusUnauthorized {
		t.Errorf("anonymous create: status = %d, want 401", code)
	}
	if code := user.do(http.MethodPost, "/home-content/setup", nil, nil); code != http.StatusForbidden {
		t.Errorf("user setup: status = %d, want 403", code)
	}
	if code := anon.do(http.MethodGet, "/home-content", nil, nil); code != http.StatusOK {
		t.Errorf("anonymous list: status = %d, want 200", code)
	}
}

func TestHomeContent_UpdateBothRouteForms(t *testing.T) {
	api := newTestAPI(t)
	admin := api.client(t)
	admin.register("Admin", "admin@example.com")
	items := createBlocks(t, admin, "A", "B")

	content := "A2"
	var updated model.HomeContent
	if code := admin.do(http.MethodPut, fmt.Sprintf("/home-content/%d", items[0].ID), model.HomeContentPatch{Content: &content}, &updated); code != http.StatusOK {
		t.Fatalf("update by path: status = %d", code)
	}
	if updated.Content != "A2" || updated.Type != model.HomeParagraph {
		t.Errorf("updated = %+v", updated)
	}

	heading := model.HomeHeading
	style := &model.Style{FontSize: "2rem"}
	if code := admin.do(http.MethodPut, fmt.Sprintf("/home-content?id=%d", items[1].ID), model.HomeContentPatch{Type: &heading, Style: style}, &updated); code != http.StatusOK {
		t.Fatalf("update by query: status = %d", code)
	}
	if updated.Type != model.HomeHeading || updated.Content != "B" || updated.Style == nil || updated.Style.FontSize != "2rem" {
		t.Errorf("updated = %+v", updated)
	}

	if code := admin.do(http.MethodPut, "/home-content/9999", model.HomeContentPatch{Content: &content}, nil); code != http.StatusNotFound {
		t.Errorf("missing: status = %d, want 404", code)
	}
	if code := admin.do(http.MethodPut, "/home-content", model.HomeContentPatch{Content: &content}, nil); code != http.StatusBadRequest {
		t.Errorf("no id: status = %d, want 400", code)
	}
}

func TestHomeContent_DeleteRenumbers(t *testing.T) {
	api := newTestAPI(t)
	admin := api.client(t)
	admin.register("Admin", "admin@example.com")
	items := createBlocks(t, admin, "A", "B", "C", "D")

	var msg MessageResponse
	if code := admin.do(http.MethodDelete, fmt.Sprintf("/home-content/%d", items[1].ID), nil, &msg); code != http.StatusOK {
		t.Fatalf("delete by path: status = %d", code)
	}
	if msg.Message != "Content deleted successfully" {
		t.Errorf("message = %q", msg.Message)
	}
	assertBlockOrder(t, listBlocks(t, admin), "A", "C", "D")

	if code := admin.do(http.MethodDelete, fmt.Sprintf("/home-content?id=%d", items[0].ID), nil, nil); code != http.StatusOK {
		t.Fatalf("delete by query: status = %d", code)
	}
	assertBlockOrder(t, listBlocks(t, admin), "C", "D")
}

func TestHomeContent_Move(t *testing.T) {
	api := newTestAPI(t)
	admin := api.client(t)
	admin.register("Admin", "admin@example.com")
	items := createBlocks(t, admin, "A", "B", "C", "D")

	var moved []model.HomeContent
	if code := admin.do(http.MethodPatch, fmt.Sprintf("/home-content/%d", items[0].ID), MoveRequest{Order: intPtr(3)}, &moved); code != http.StatusOK {
		t.Fatalf("move: status = %d", code)
	}
	assertBlockOrder(t, moved, "B", "C", "A", "D")
	assertBlockOrder(t, listBlocks(t, admin), "B", "C", "A", "D")

	if code := admin.do(http.MethodPatch, fmt.Sprintf("/home-content/%d", items[0].ID), MoveRequest{}, nil); code != http.StatusBadRequest {
		t.Errorf("missing order: status = %d, want 400", code)
	}
	if code := admin.do(http.MethodPatch, fmt.Sprintf("/home-content/%d", items[0].ID), MoveRequest{Order: intPtr(9)}, nil); code != http.StatusBadRequest {
		t.Errorf("order out of range: status = %d, want 400", code)
	}
}

func TestHomeContent_SetOrder(t *testing.T) {
	api := newTestAPI(t)
	admin := api.client(t)
	admin.register("Admin", "admin@example.com")
	items := createBlocks(t, admin, "A", "B", "C")

	ids := []int64{items[2].ID, items[0].ID, items[1].ID}
	var reordered []model.HomeContent
	if code := admin.do(http.MethodPut, "/home-content/order", SetOrderRequest{IDs: ids}, &reordered); code != http.StatusOK {
		t.Fatalf("set order: status = %d", code)
	}
	assertBlockOrder(t, reordered, "C", "A", "B")

	tests := []struct {
		name string
		ids  []int64
	}{
		{"missing id", []int64{items[0].ID, items[1].ID}},
		{"duplicate id", []int64{items[0].ID, items[0].ID, items[1].ID}},
		{"unknown id", []int64{items[0].ID, items[1].ID, 9999}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := admin.do(http.MethodPut, "/home-content/order", SetOrderRequest{IDs: tt.ids}, nil); code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", code)
			}
			assertBlockOrder(t, listBlocks(t, admin), "C", "A", "B")
		})
	}

	if code := admin.do(http.MethodPut, "/home-content/order", map[string]any{}, nil); code != http.StatusBadRequest {
		t.Errorf("no ids: status = %d, want 400", code)
	}
}

func TestHomeContent_Setup(t *testing.T) {
	api := newTestAPI(t)
	admin := api.client(t)
	admin.register("Admin", "admin@example.com")
	createBlocks(t, admin, "old")

	var resp HomeContentListResponse
	if code := admin.do(http.MethodPost, "/home-content/setup", nil, &resp); code != http.StatusOK {
		t.Fatalf("setup: status = %d", code)
	}
	if resp.Message != "Default home content created successfully" {
		t.Errorf("message = %q", resp.Message)
	}

	items := listBlocks(t, admin)
	assertBlockOrder(t, items,
		"Welcome to Digital Archive",
		"Your personal space for storing and organizing digital memories.",
		"Recent Archives",
		"View All Archives",
	)
	if items[0].Type != model.HomeHeading || items[2].Type != model.HomeArchivePreview || items[3].Type != model.HomeButton {
		t.Errorf("types = %v %v %v", items[0].Type, items[2].Type, items[3].Type)
	}
}

func intPtr(n int) *int { return &n }
