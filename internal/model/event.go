// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth     = "auth"
	EventCategoryPage     = "page"
	EventCategoryArchive  = "archive"
	EventCategoryUser     = "user"
	EventCategoryConfig   = "config"
	EventCategorySecurity = "security"
	EventCategorySystem   = "system"
	EventCategoryCache    = "cache"
)

// Event is an audit log entry.
type Event struct {
	ID         int64     `json:"id"`
	Level      string    `json:"level"`
	Category   string    `json:"category"`
	Message    string    `json:"message"`
	UserID     *int64    `json:"userId,omitempty"`
	Metadata   string    `json:"metadata"`
	IPAddress  string    `json:"ipAddress,omitempty"`
	RequestURL string    `json:"requestUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
