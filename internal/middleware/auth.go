// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/darchive/internal/logging"
	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/service"
	"github.com/olegiv/darchive/internal/session"
	"github.com/olegiv/darchive/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyIdentity holds the request Identity.
const ContextKeyIdentity ContextKey = "identity"

// Identity is the signed-in user resolved for a single request.
type Identity struct {
	UserID  int64
	IsAdmin bool
	Email   string
	Name    string
}

// Actor returns the service-layer view of the identity. A nil identity is
// the anonymous actor.
func (id *Identity) Actor() service.Actor {
	if id == nil {
		return service.Actor{}
	}
	return service.Actor{UserID: id.UserID, IsAdmin: id.IsAdmin}
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, id)
}

// GetIdentity returns the identity of the request, or nil when anonymous.
func GetIdentity(r *http.Request) *Identity {
	id, ok := r.Context().Value(ContextKeyIdentity).(Identity)
	if !ok {
		return nil
	}
	return &id
}

// GetActor returns the service actor of the request.
func GetActor(r *http.Request) service.Actor {
	return GetIdentity(r).Actor()
}

// GetUserID returns the signed-in user's id, or 0.
func GetUserID(r *http.Request) int64 {
	if id := GetIdentity(r); id != nil {
		return id.UserID
	}
	return 0
}

// LoadIdentity resolves the session user into an Identity in the request
// context. A session that points at a deleted user is treated as anonymous
// and left in place so /auth/verify-user can report it.
func LoadIdentity(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := session.UserID(r.Context(), sm)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil {
				if !errors.Is(err, sql.ErrNoRows) {
					slog.Error("failed to load session user", "user_id", userID, "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithIdentity(r.Context(), Identity{
				UserID:  user.ID,
				IsAdmin: user.IsAdmin,
				Email:   user.Email,
				Name:    user.Name,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetIdentity(r) == nil {
			WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects anonymous requests with 401 and signed-in non-admins
// with 403. Denials are recorded in the event log when events is non-nil.
func RequireAdmin(events *service.EventService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := GetIdentity(r)
			if id == nil {
				WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Unauthorized", nil)
				return
			}
			if !id.IsAdmin {
				logAccessDenied(r, events, id.UserID)
				WriteAPIError(w, http.StatusForbidden, CodeForbidden, "Forbidden", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminArea guards server-rendered admin pages. Non-admin callers lose their
// session and are sent back to the homepage.
func AdminArea(sm *scs.SessionManager, events *service.EventService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := GetIdentity(r)
			if id == nil || !id.IsAdmin {
				if id != nil {
					logAccessDenied(r, events, id.UserID)
				}
				if err := session.Logout(r.Context(), sm); err != nil {
					slog.Error("failed to destroy session", "error", err)
				}
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func logAccessDenied(r *http.Request, events *service.EventService, userID int64) {
	slog.Warn("access denied",
		"status", http.StatusForbidden,
		"method", r.Method,
		"path", r.URL.Path,
		"user_id", userID,
		"remote_addr", ClientIP(r),
	)
	if events == nil {
		return
	}
	_ = events.LogWarning(r.Context(), model.EventCategorySecurity, "Access denied: admin required", userID, Client(r), map[string]any{
		"method": r.Method,
		"status": http.StatusForbidden,
	})
}

// Client describes the origin of r for event logging.
func Client(r *http.Request) service.Client {
	return service.Client{
		IP:        ClientIP(r),
		UserAgent: r.UserAgent(),
		URL:       r.URL.Path,
	}
}

// RequestPath attaches the request path to log records written while
// serving the request.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithRequestURL(r.Context(), r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
