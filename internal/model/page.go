// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// ElementType is the kind of a page content element.
type ElementType string

// Page element types
const (
	ElementHeading     ElementType = "heading"
	ElementParagraph   ElementType = "paragraph"
	ElementImage       ElementType = "image"
	ElementArchiveGrid ElementType = "archive-grid"
)

// Valid reports whether t is a known element type.
func (t ElementType) Valid() bool {
	switch t {
	case ElementHeading, ElementParagraph, ElementImage, ElementArchiveGrid:
		return true
	}
	return false
}

// TempIDPrefix marks ids generated by a client for elements that have not
// been stored yet.
const TempIDPrefix = "temp-"

// IsTempID reports whether id was generated client-side.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// HomeSlug is the slug of the per-user home page.
const HomeSlug = "home"

// PageElement is one typed unit of page content. Order always equals the
// element's index in Page.Content.
type PageElement struct {
	ID      string      `json:"id"`
	Type    ElementType `json:"type"`
	Content string      `json:"content"`
	Order   int         `json:"order"`
}

// Page is a titled, slugged page with ordered content.
type Page struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Description *string       `json:"description,omitempty"`
	IsPublished bool          `json:"isPublished"`
	OwnerID     int64         `json:"ownerId"`
	Content     []PageElement `json:"content"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// VisibleTo reports whether userID may read the page. A zero userID is an
// anonymous caller.
func (p *Page) VisibleTo(userID int64) bool {
	return p.IsPublished || (userID != 0 && p.OwnerID == userID)
}

// PageInput is the writable part of a page. On update a missing or null
// content keeps the stored elements, while an empty array clears them.
type PageInput struct {
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Description *string       `json:"description,omitempty"`
	IsPublished *bool         `json:"isPublished,omitempty"`
	Content     []PageElement `json:"content"`
}
