// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteAPIError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAPIError(rec, http.StatusBadRequest, CodeBadRequest, "Validation failed", map[string]string{"title": "Title is required"})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body APIError
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Message != "Validation failed" || body.Code != CodeBadRequest {
		t.Errorf("body = %+v", body)
	}
	if body.Details["title"] != "Title is required" {
		t.Errorf("details = %v", body.Details)
	}
}

func TestWriteAPIError_OmitsEmptyFields(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAPIError(rec, http.StatusNotFound, "", "Page not found", nil)

	var raw map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(raw) != 1 || raw["message"] != "Page not found" {
		t.Errorf("body = %v, want only message", raw)
	}
}

func TestGlobalRateLimiter(t *testing.T) {
	rl := NewGlobalRateLimiter(0.001, 3)
	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/pages", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		if code := send("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, code)
		}
	}
	if code := send("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429 after burst", code)
	}
	if code := send("10.0.0.2"); code != http.StatusOK {
		t.Errorf("other IP status = %d, want 200", code)
	}
}

func TestLimiterCacheClearIfExceeds(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	for i := 0; i < 5; i++ {
		lc.get(fmt.Sprintf("10.0.0.%d", i))
	}

	if lc.clearIfExceeds(10) {
		t.Error("cache below the bound should not be cleared")
	}
	if !lc.clearIfExceeds(4) {
		t.Error("cache above the bound should be cleared")
	}
	if n := lc.len(); n != 0 {
		t.Errorf("len = %d, want 0", n)
	}
}

func TestLimiterCacheReturnsSameLimiter(t *testing.T) {
	lc := newLimiterCache[int64](1, 1)
	if lc.get(1) != lc.get(1) {
		t.Error("get should return the cached limiter")
	}
	if lc.get(1) == lc.get(2) {
		t.Error("different keys should get different limiters")
	}
}
