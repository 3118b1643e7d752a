// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/darchive/internal/middleware"
	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/service"
	"github.com/olegiv/darchive/internal/session"
)

// UserResponse is a message together with a user.
type UserResponse struct {
	Message string     `json:"message"`
	User    model.User `json:"user"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MeResponse describes the signed-in identity.
type MeResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Register handles POST /auth/register. The first account is an admin.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.services.Users.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	_ = h.services.Events.LogInfo(r.Context(), model.EventCategoryAuth, "User registered", user.ID, middleware.Client(r), map[string]any{
		"email":    user.Email,
		"is_admin": user.IsAdmin,
	})

	WriteJSON(w, http.StatusCreated, UserResponse{
		Message: "User created successfully",
		User:    user,
	})
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	email := service.NormalizeEmail(req.Email)
	client := middleware.Client(r)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			slog.Warn("login attempt on locked account", "email", email, "ip", client.IP)
			_ = h.services.Events.LogWarning(r.Context(), model.EventCategoryAuth, "Login attempt on locked account", 0, client, map[string]any{"email": email})
			middleware.WriteAPIError(w, http.StatusTooManyRequests, middleware.CodeRateLimitExceeded,
				fmt.Sprintf("Account temporarily locked. Try again in %s.", formatLockDuration(remaining)), nil)
			return
		}
	}

	user, err := h.services.Users.Authenticate(r.Context(), email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.recordFailedLogin(r, email, client)
		}
		writeServiceError(w, r, err)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	if err := session.Login(r.Context(), h.sessionManager, user.ID); err != nil {
		slog.Error("failed to start session", "user_id", user.ID, "error", err)
		WriteInternalError(w, "Internal server error")
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	_ = h.services.Events.LogInfo(r.Context(), model.EventCategoryAuth, "User logged in", user.ID, client, nil)

	WriteJSON(w, http.StatusOK, UserResponse{
		Message: "Logged in successfully",
		User:    user,
	})
}

func (h *Handler) recordFailedLogin(r *http.Request, email string, client service.Client) {
	meta := map[string]any{"email": email}
	if h.loginProtection != nil {
		locked, duration := h.loginProtection.RecordFailedAttempt(email)
		if locked {
			meta["locked_for"] = duration.String()
			_ = h.services.Events.LogWarning(r.Context(), model.EventCategorySecurity, "Account locked after failed logins", 0, client, meta)
			return
		}
		meta["remaining_attempts"] = h.loginProtection.RemainingAttempts(email)
	}
	_ = h.services.Events.LogWarning(r.Context(), model.EventCategoryAuth, "Failed login attempt", 0, client, meta)
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if err := session.Logout(r.Context(), h.sessionManager); err != nil {
		slog.Error("failed to destroy session", "error", err)
		WriteInternalError(w, "Error logging out")
		return
	}
	if userID != 0 {
		_ = h.services.Events.LogInfo(r.Context(), model.EventCategoryAuth, "User logged out", userID, middleware.Client(r), nil)
	}
	WriteMessage(w, "Logged out successfully")
}

// Me handles GET /auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetIdentity(r)
	if id == nil {
		WriteUnauthorized(w, "Unauthorized")
		return
	}
	WriteJSON(w, http.StatusOK, MeResponse{
		ID:      id.UserID,
		Name:    id.Name,
		Email:   id.Email,
		IsAdmin: id.IsAdmin,
	})
}

// VerifyUser handles GET /auth/verify-user. It fails with 404 when the
// session points at an account that no longer exists.
func (h *Handler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	userID := session.UserID(r.Context(), h.sessionManager)
	if userID == 0 {
		WriteUnauthorized(w, "Unauthorized")
		return
	}
	if _, err := h.services.Users.Get(r.Context(), userID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			WriteNotFound(w, "User not found")
			return
		}
		writeServiceError(w, r, err)
		return
	}
	WriteMessage(w, "User verified")
}

// formatLockDuration rounds d up to whole minutes.
func formatLockDuration(d time.Duration) string {
	minutes := int((d + time.Minute - 1) / time.Minute)
	if minutes <= 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
