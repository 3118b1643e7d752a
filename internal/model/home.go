// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// HomeType is the kind of a homepage content block.
type HomeType string

// Homepage block types
const (
	HomeHeading        HomeType = "heading"
	HomeParagraph      HomeType = "paragraph"
	HomeButton         HomeType = "button"
	HomeArchivePreview HomeType = "archive-preview"
)

// homeTypeAliases maps accepted spellings onto canonical types.
var homeTypeAliases = map[HomeType]HomeType{
	"archive-grid": HomeArchivePreview,
}

// Normalize returns the canonical form of t.
func (t HomeType) Normalize() HomeType {
	if canonical, ok := homeTypeAliases[t]; ok {
		return canonical
	}
	return t
}

// Valid reports whether t (after normalization) is a known block type.
func (t HomeType) Valid() bool {
	switch t.Normalize() {
	case HomeHeading, HomeParagraph, HomeButton, HomeArchivePreview:
		return true
	}
	return false
}

// Style holds optional presentation hints for a homepage block.
type Style struct {
	Color           string `json:"color,omitempty"`
	FontSize        string `json:"fontSize,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
}

// IsZero reports whether no style property is set.
func (s Style) IsZero() bool {
	return s == Style{}
}

// HomeContent is one block of the singleton homepage list. Order starts at 1.
type HomeContent struct {
	ID      int64    `json:"id"`
	Type    HomeType `json:"type"`
	Content string   `json:"content"`
	Order   int      `json:"order"`
	Style   *Style   `json:"style,omitempty"`
}

// HomeContentInput creates a block.
type HomeContentInput struct {
	Type    HomeType `json:"type"`
	Content string   `json:"content"`
	Style   *Style   `json:"style,omitempty"`
}

// HomeContentPatch updates selected fields of a block.
type HomeContentPatch struct {
	Type    *HomeType `json:"type,omitempty"`
	Content *string   `json:"content,omitempty"`
	Style   *Style    `json:"style,omitempty"`
}

// DefaultHomeContent returns the blocks installed by a homepage reset.
func DefaultHomeContent() []HomeContentInput {
	return []HomeContentInput{
		{
			Type:    HomeHeading,
			Content: "Welcome to Digital Archive",
			Style:   &Style{FontSize: "3rem", Color: "hsl(var(--primary))"},
		},
		{
			Type:    HomeParagraph,
			Content: "Your personal space for storing and organizing digital memories.",
			Style:   &Style{FontSize: "1.25rem", Color: "hsl(var(--muted-foreground))"},
		},
		{
			Type:    HomeArchivePreview,
			Content: "Recent Archives",
		},
		{
			Type:    HomeButton,
			Content: "View All Archives",
		},
	}
}
