// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStripTrailingSlash(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := StripTrailingSlash(next)

	tests := []struct {
		name     string
		method   string
		target   string
		wantCode int
		wantLoc  string
	}{
		{"root passes", http.MethodGet, "/", http.StatusTeapot, ""},
		{"no slash passes", http.MethodGet, "/p/about", http.StatusTeapot, ""},
		{"get redirects", http.MethodGet, "/p/about/", http.StatusMovedPermanently, "/p/about"},
		{"query kept", http.MethodGet, "/p/about/?preview=1", http.StatusMovedPermanently, "/p/about?preview=1"},
		{"put keeps method", http.MethodPut, "/api/pages/about/", http.StatusPermanentRedirect, "/api/pages/about"},
		{"double slash collapses", http.MethodGet, "//evil.example/", http.StatusMovedPermanently, "/evil.example"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantCode)
			}
			if got := rr.Header().Get("Location"); got != tt.wantLoc {
				t.Errorf("Location = %q, want %q", got, tt.wantLoc)
			}
		})
	}
}
