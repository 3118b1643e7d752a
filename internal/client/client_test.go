// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newStub(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL + "/api/")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_InvalidURL(t *testing.T) {
	if _, err := New("not a url"); err == nil {
		t.Error("expected error for invalid base URL")
	}
}

func TestClient_ErrorEnvelope(t *testing.T) {
	c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Slug already exists","code":"validation","details":{"slug":"taken"}}`))
	})

	_, err := c.GetPage(context.Background(), "about")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v; want *Error", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "Slug already exists" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if apiErr.Details["slug"] != "taken" {
		t.Errorf("details = %v", apiErr.Details)
	}
	if got := StatusCode(err); got != http.StatusBadRequest {
		t.Errorf("StatusCode() = %d", got)
	}
}

func TestClient_PlainTextError(t *testing.T) {
	c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	err := c.DeletePage(context.Background(), "about")
	if StatusCode(err) != http.StatusBadGateway {
		t.Fatalf("err = %v", err)
	}
	if got := err.Error(); got != "api: status 502: upstream down" {
		t.Errorf("Error() = %q", got)
	}
	if StatusCode(errors.New("other")) != 0 {
		t.Error("non-API errors have no status")
	}
}

func TestClient_SessionCookie(t *testing.T) {
	c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
			_, _ = w.Write([]byte(`{"message":"ok","user":{"id":1,"email":"a@example.com"}}`))
		case "/api/pages/about/publish":
			if ck, err := r.Cookie("session"); err != nil || ck.Value != "abc" {
				http.Error(w, `{"message":"Unauthorized"}`, http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"message":"Page published","isPublished":true}`))
		default:
			http.NotFound(w, r)
		}
	})

	ctx := context.Background()
	user, err := c.Login(ctx, "a@example.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != 1 {
		t.Errorf("user = %+v", user)
	}

	published, err := c.TogglePublish(ctx, "about")
	if err != nil {
		t.Fatalf("TogglePublish: %v", err)
	}
	if !published {
		t.Error("published = false; want true")
	}
}

func TestClient_SetHomeOrder(t *testing.T) {
	var got struct {
		IDs []int64 `json:"ids"`
	}
	c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/home-content/order" {
			http.NotFound(w, r)
			return
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if ua := r.Header.Get("User-Agent"); ua != UserAgent {
			t.Errorf("User-Agent = %q", ua)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write([]byte(`[{"id":3,"order":1},{"id":1,"order":2}]`))
	})

	items, err := c.SetHomeOrder(context.Background(), []int64{3, 1})
	if err != nil {
		t.Fatalf("SetHomeOrder: %v", err)
	}
	if len(got.IDs) != 2 || got.IDs[0] != 3 || got.IDs[1] != 1 {
		t.Errorf("sent ids = %v", got.IDs)
	}
	if len(items) != 2 || items[0].ID != 3 || items[0].Order != 1 {
		t.Errorf("items = %+v", items)
	}
}

func TestClient_NoContent(t *testing.T) {
	c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if err := c.Logout(context.Background()); err != nil {
		t.Errorf("Logout: %v", err)
	}
}
