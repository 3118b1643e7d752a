// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Settings is the singleton site configuration. MaxUploadSize is in megabytes.
type Settings struct {
	SiteName        string `json:"siteName"`
	SiteDescription string `json:"siteDescription"`
	ContactEmail    string `json:"contactEmail"`
	MaxUploadSize   int    `json:"maxUploadSize"`
}

// DefaultSettings is returned when no settings row exists.
func DefaultSettings() Settings {
	return Settings{
		SiteName:        "Digital Archive",
		SiteDescription: "A platform for preserving and sharing digital content",
		ContactEmail:    "contact@example.com",
		MaxUploadSize:   5,
	}
}

// MaxUploadBytes returns the upload limit in bytes.
func (s Settings) MaxUploadBytes() int64 {
	return int64(s.MaxUploadSize) << 20
}

// Stats summarizes the archive for the admin dashboard.
type Stats struct {
	TotalUsers    int64  `json:"totalUsers"`
	TotalArchives int64  `json:"totalArchives"`
	TotalPages    int64  `json:"totalPages"`
	RecentUsers   []User `json:"recentUsers"`
}

// ContactForm is a message submitted through the contact endpoint.
type ContactForm struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	UserID    *int64    `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
