// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestStaticCache(t *testing.T) {
	tests := []struct {
		name   string
		policy CachePolicy
		want   string
	}{
		{"one hour", CachePolicy{MaxAge: time.Hour}, "public, max-age=3600"},
		{"one week", CachePolicy{MaxAge: 7 * 24 * time.Hour}, "public, max-age=604800"},
		{"immutable", CachePolicy{MaxAge: 24 * time.Hour, Immutable: true}, "public, max-age=86400, immutable"},
		{"zero", CachePolicy{}, "public, max-age=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("body"))
			})

			req := httptest.NewRequest(http.MethodGet, "/static/file.js", nil)
			rr := httptest.NewRecorder()
			StaticCache(tt.policy)(handler).ServeHTTP(rr, req)

			if got := rr.Header().Get("Cache-Control"); got != tt.want {
				t.Errorf("Cache-Control = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStaticCachePreservesResponse(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("console.log('test')"))
	})

	req := httptest.NewRequest(http.MethodGet, "/static/file.js", nil)
	rr := httptest.NewRecorder()
	StaticCache(CachePolicy{MaxAge: time.Hour})(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusOK)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/javascript" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/javascript")
	}
	if body := rr.Body.String(); body != "console.log('test')" {
		t.Errorf("Body = %q, want %q", body, "console.log('test')")
	}
	if cc := rr.Header().Get("Cache-Control"); cc != "public, max-age=3600" {
		t.Errorf("Cache-Control = %q, want %q", cc, "public, max-age=3600")
	}
}

func TestStaticCacheSkipsErrors(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	req := httptest.NewRequest(http.MethodGet, "/uploads/missing.png", nil)
	rr := httptest.NewRecorder()
	StaticCache(CachePolicy{MaxAge: time.Hour, Immutable: true})(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("Status = %d, want 404", rr.Code)
	}
	if cc := rr.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", cc)
	}
}

func TestStaticCacheIgnoresWrites(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	})

	req := httptest.NewRequest(http.MethodPost, "/static/file.js", nil)
	rr := httptest.NewRecorder()
	StaticCache(CachePolicy{MaxAge: time.Hour})(handler).ServeHTTP(rr, req)

	if cc := rr.Header().Get("Cache-Control"); cc != "" {
		t.Errorf("Cache-Control = %q, want none", cc)
	}
}
