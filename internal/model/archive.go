// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Archive item types
const (
	ArchiveTypeText  = "text"
	ArchiveTypeImage = "image"
)

// ValidArchiveType reports whether t is a known archive item type.
func ValidArchiveType(t string) bool {
	return t == ArchiveTypeText || t == ArchiveTypeImage
}

// ArchiveItem is a user-owned text or image record. For images Content holds
// the image URL.
type ArchiveItem struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"ownerId"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Type        string    `json:"type"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ArchiveItemWithOwner adds owner details for the admin listing.
type ArchiveItemWithOwner struct {
	ArchiveItem
	Owner ArchiveOwner `json:"user"`
}

// ArchiveOwner identifies the owner of an archive item.
type ArchiveOwner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ArchiveInput is the writable part of an archive item.
type ArchiveInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Type        string  `json:"type"`
	Content     string  `json:"content"`
}

// UploadResult describes a stored image upload.
type UploadResult struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}
