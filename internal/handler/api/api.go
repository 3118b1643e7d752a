// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON API handlers of the archive.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/darchive/internal/middleware"
	"github.com/olegiv/darchive/internal/service"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	services        *service.Services
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
}

// NewHandler creates a new API handler. loginProtection may be nil.
func NewHandler(services *service.Services, sm *scs.SessionManager, loginProtection *middleware.LoginProtection) *Handler {
	return &Handler{
		services:        services,
		sessionManager:  sm,
		loginProtection: loginProtection,
	}
}

// MessageResponse is a response carrying only a message.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteMessage writes a 200 response with a message.
func WriteMessage(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusOK, MessageResponse{Message: message})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	middleware.WriteAPIError(w, http.StatusBadRequest, middleware.CodeBadRequest, message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusNotFound, middleware.CodeNotFound, message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusUnauthorized, middleware.CodeUnauthorized, message, nil)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusForbidden, middleware.CodeForbidden, message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusInternalServerError, middleware.CodeInternalError, message, nil)
}

// writeServiceError maps a service error onto the API error envelope.
// Unexpected errors are logged and reported without their text.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteBadRequest(w, firstValidationMessage(verr), verr.Fields)
	case errors.Is(err, service.ErrSlugTaken):
		WriteBadRequest(w, "Slug already exists", map[string]string{"slug": "Slug already exists"})
	case errors.Is(err, service.ErrEmailTaken):
		WriteBadRequest(w, "User already exists", map[string]string{"email": "User already exists"})
	case errors.Is(err, service.ErrInvalidOrder):
		WriteBadRequest(w, "Invalid order", nil)
	case errors.Is(err, service.ErrUploadsDisabled):
		WriteBadRequest(w, "Uploads are disabled", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		WriteUnauthorized(w, "Invalid credentials")
	case errors.Is(err, service.ErrUnauthorized):
		WriteUnauthorized(w, "Unauthorized")
	case errors.Is(err, service.ErrForbidden):
		WriteForbidden(w, "Forbidden")
	case errors.Is(err, service.ErrNotFound):
		WriteNotFound(w, "Not found")
	default:
		slog.Error("api request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		WriteInternalError(w, "Internal server error")
	}
}

// firstValidationMessage picks a stable top-level message for a validation
// error: the message of the alphabetically first field.
func firstValidationMessage(verr *service.ValidationError) string {
	field := ""
	for k := range verr.Fields {
		if field == "" || k < field {
			field = k
		}
	}
	if field == "" {
		return "Validation failed"
	}
	return verr.Fields[field]
}

// decodeJSON decodes the request body into dst. A 400 response is written
// and false returned when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			WriteBadRequest(w, "Request body is required", nil)
			return false
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteBadRequest(w, "Request body too large", nil)
			return false
		}
		WriteBadRequest(w, "Invalid JSON body", nil)
		return false
	}
	return true
}

// parseID parses a positive integer id.
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// requireIDParam reads the {id} URL parameter, falling back to the ?id=
// query parameter of the legacy routes. A 400 response is written and false
// returned when it is missing or malformed.
func requireIDParam(w http.ResponseWriter, r *http.Request, entityName string) (int64, bool) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		raw = r.URL.Query().Get("id")
	}
	if raw == "" {
		WriteBadRequest(w, capitalizeFirst(entityName)+" ID is required", nil)
		return 0, false
	}
	id, ok := parseID(raw)
	if !ok {
		WriteBadRequest(w, "Invalid "+entityName+" ID", nil)
		return 0, false
	}
	return id, true
}

// capitalizeFirst returns s with its first letter uppercased.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
