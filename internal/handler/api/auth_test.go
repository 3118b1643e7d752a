// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/olegiv/darchive/internal/middleware"
	"github.com/olegiv/darchive/internal/model"
)

func TestRegister(t *testing.T) {
	api := newTestAPI(t)
	c := api.client(t)

	var first UserResponse
	code := c.do(http.MethodPost, "/auth/register", map[string]string{
		"name": "Alice", "email": "Alice@Example.com", "password": "secret-password",
	}, &first)
	if code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", code)
	}
	if first.Message != "User created successfully" {
		t.Errorf("message = %q", first.Message)
	}
	if !first.User.IsAdmin {
		t.Error("first user should be admin")
	}
	if first.User.Email != "alice@example.com" {
		t.Errorf("email = %q, want normalized", first.User.Email)
	}

	var second UserResponse
	c.do(http.MethodPost, "/auth/register", map[string]string{
		"name": "Bob", "email": "bob@example.com", "password": "secret-password",
	}, &second)
	if second.User.IsAdmin {
		t.Error("second user should not be admin")
	}
}

func TestRegister_Errors(t *testing.T) {
	api := newTestAPI(t)
	c := api.client(t)
	c.do(http.MethodPost, "/auth/register", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret-password",
	}, nil)

	tests := []struct {
		name        string
		body        map[string]string
		wantMessage string
		wantField   string
	}{
		{"duplicate email", map[string]string{"name": "A", "email": "alice@example.com", "password": "secret-password"}, "User already exists", "email"},
		{"missing name", map[string]string{"email": "x@example.com", "password": "secret-password"}, "Name is required", "name"},
		{"missing password", map[string]string{"name": "X", "email": "x@example.com"}, "Password is required", "password"},
		{"bad email", map[string]string{"name": "X", "email": "not-an-email", "password": "secret-password"}, "Invalid email address", "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp apiError
			if code := c.do(http.MethodPost, "/auth/register", tt.body, &resp); code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", code)
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMessage)
			}
			if _, ok := resp.Details[tt.wantField]; !ok {
				t.Errorf("details = %v, want field %q", resp.Details, tt.wantField)
			}
		})
	}
}

func TestLoginLogoutMe(t *testing.T) {
	api := newTestAPI(t)
	c := api.client(t)

	if code := c.do(http.MethodGet, "/auth/me", nil, nil); code != http.StatusUnauthorized {
		t.Errorf("me before login: status = %d, want 401", code)
	}

	c.register("Alice", "alice@example.com")

	var me MeResponse
	if code := c.do(http.MethodGet, "/auth/me", nil, &me); code != http.StatusOK {
		t.Fatalf("me: status = %d", code)
	}
	if me.Email != "alice@example.com" || !me.IsAdmin || me.Name != "Alice" {
		t.Errorf("me = %+v", me)
	}

	var msg MessageResponse
	if code := c.do(http.MethodGet, "/auth/verify-user", nil, &msg); code != http.StatusOK || msg.Message != "User verified" {
		t.Errorf("verify-user: %d %+v", code, msg)
	}

	if code := c.do(http.MethodPost, "/auth/logout", nil, &msg); code != http.StatusOK || msg.Message != "Logged out successfully" {
		t.Errorf("logout: %d %+v", code, msg)
	}
	if code := c.do(http.MethodGet, "/auth/me", nil, nil); code != http.StatusUnauthorized {
		t.Errorf("me after logout: status = %d, want 401", code)
	}
	if code := c.do(http.MethodGet, "/auth/verify-user", nil, nil); code != http.StatusUnauthorized {
		t.Errorf("verify-user after logout: status = %d, want 401", code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	api := newTestAPI(t)
	c := api.client(t)
	c.register("Alice", "alice@example.com")

	other := api.client(t)
	var resp apiError
	code := other.do(http.MethodPost, "/auth/login", LoginRequest{Email: "alice@example.com", Password: "wrong-password"}, &resp)
	if code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", code)
	}
	if resp.Code != middleware.CodeUnauthorized {
		t.Errorf("code = %q", resp.Code)
	}

	events, _, err := api.services.Events.List(context.Background(), 50, 0)
	if err != nil {
		t.Fatalf("Events.List: %v", err)
	}
	found := false
	for _, e := range events {
		if e.Message == "Failed login attempt" && e.Level == model.EventLevelWarning {
			found = true
			if !strings.Contains(e.Metadata, "alice@example.com") {
				t.Errorf("metadata = %s, want the email", e.Metadata)
			}
		}
	}
	if !found {
		t.Error("failed login was not recorded in the event log")
	}
}

func TestLogin_AccountLockout(t *testing.T) {
	api := newTestAPIWithProtection(t, middleware.LoginProtectionConfig{
		IPRateLimit:       1000,
		IPBurst:           1000,
		MaxFailedAttempts: 2,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})
	c := api.client(t)
	c.register("Alice", "alice@example.com")

	attacker := api.client(t)
	bad := LoginRequest{Email: "alice@example.com", Password: "wrong-password"}
	for i := 0; i < 2; i++ {
		if code := attacker.do(http.MethodPost, "/auth/login", bad, nil); code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d, want 401", i+1, code)
		}
	}

	// Even the right password is refused while locked.
	var resp apiError
	good := LoginRequest{Email: "alice@example.com", Password: "secret-password"}
	if code := attacker.do(http.MethodPost, "/auth/login", good, &resp); code != http.StatusTooManyRequests {
		t.Fatalf("locked login: status = %d, want 429", code)
	}
	if !strings.Contains(resp.Message, "locked") {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestLogin_IPRateLimit(t *testing.T) {
	api := newTestAPIWithProtection(t, middleware.LoginProtectionConfig{
		IPRateLimit: 0.001,
		IPBurst:     1,
	})
	c := api.client(t)

	req := LoginRequest{Email: "nobody@example.com", Password: "whatever"}
	c.do(http.MethodPost, "/auth/login", req, nil)
	if code := c.do(http.MethodPost, "/auth/login", req, nil); code != http.StatusTooManyRequests {
		t.Errorf("second login: status = %d, want 429", code)
	}
}

func TestFormatLockDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{30 * time.Second, "1 minute"},
		{time.Minute, "1 minute"},
		{61 * time.Second, "2 minutes"},
		{15 * time.Minute, "15 minutes"},
	}
	for _, tt := range tests {
		if got := formatLockDuration(tt.in); got != tt.want {
			t.Errorf("formatLockDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
