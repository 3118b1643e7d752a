// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ComponentType selects the config payload of a page component.
type ComponentType string

// Page component types
const (
	ComponentText        ComponentType = "text"
	ComponentHeading     ComponentType = "heading"
	ComponentImage       ComponentType = "image"
	ComponentList        ComponentType = "list"
	ComponentButton      ComponentType = "button"
	ComponentDivider     ComponentType = "divider"
	ComponentSpacer      ComponentType = "spacer"
	ComponentVideo       ComponentType = "video"
	ComponentArchiveGrid ComponentType = "archive-grid"
)

// PageComponent is an element of an admin-built page.
type PageComponent struct {
	ID     string          `json:"id"`
	PageID int64           `json:"pageId,omitempty"`
	Name   string          `json:"name"`
	Type   ComponentType   `json:"type"`
	Config json.RawMessage `json:"config"`
	Order  int             `json:"order"`
}

// AdminPage is a page together with its components.
type AdminPage struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description *string         `json:"description,omitempty"`
	IsPublished bool            `json:"isPublished"`
	OwnerID     int64           `json:"ownerId"`
	Components  []PageComponent `json:"components"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// AdminPageInput is the writable part of an admin-built page. A nil
// Components leaves the stored components untouched.
type AdminPageInput struct {
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description *string         `json:"description,omitempty"`
	IsPublished *bool           `json:"isPublished,omitempty"`
	Components  []PageComponent `json:"components,omitempty"`
}

// ComponentConfig is the typed payload of a page component.
type ComponentConfig interface {
	ComponentType() ComponentType
	Validate() error
}

// ConfigError describes an invalid component config field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

// TextConfig is a block of Markdown text.
type TextConfig struct {
	Content string `json:"content"`
}

// HeadingConfig is a heading of the given level.
type HeadingConfig struct {
	Content string `json:"content"`
	Level   int    `json:"level"`
}

// ImageConfig is an image reference.
type ImageConfig struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// ListConfig is a bulleted or numbered list.
type ListConfig struct {
	Items   []string `json:"items"`
	Ordered bool     `json:"ordered"`
}

// ButtonConfig is a link rendered as a button.
type ButtonConfig struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// DividerConfig is a horizontal rule.
type DividerConfig struct{}

// SpacerConfig is vertical whitespace in pixels.
type SpacerConfig struct {
	Height int `json:"height"`
}

// VideoConfig is an embedded video URL.
type VideoConfig struct {
	URL string `json:"url"`
}

// ArchiveGridConfig shows the most recent archive items.
type ArchiveGridConfig struct {
	Limit int `json:"limit"`
}

func (TextConfig) ComponentType() ComponentType        { return ComponentText }
func (HeadingConfig) ComponentType() ComponentType     { return ComponentHeading }
func (ImageConfig) ComponentType() ComponentType       { return ComponentImage }
func (ListConfig) ComponentType() ComponentType        { return ComponentList }
func (ButtonConfig) ComponentType() ComponentType      { return ComponentButton }
func (DividerConfig) ComponentType() ComponentType     { return ComponentDivider }
func (SpacerConfig) ComponentType() ComponentType      { return ComponentSpacer }
func (VideoConfig) ComponentType() ComponentType       { return ComponentVideo }
func (ArchiveGridConfig) ComponentType() ComponentType { return ComponentArchiveGrid }

func (c TextConfig) Validate() error { return nil }

func (c HeadingConfig) Validate() error {
	if c.Level == 0 {
		return nil
	}
	if c.Level < 1 || c.Level > 6 {
		return &ConfigError{Field: "level", Message: "must be between 1 and 6"}
	}
	return nil
}

func (c ImageConfig) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return &ConfigError{Field: "url", Message: "is required"}
	}
	return validateLink("url", c.URL)
}

func (c ListConfig) Validate() error {
	for i, item := range c.Items {
		if strings.TrimSpace(item) == "" {
			return &ConfigError{Field: fmt.Sprintf("items[%d]", i), Message: "must not be empty"}
		}
	}
	return nil
}

func (c ButtonConfig) Validate() error {
	if strings.TrimSpace(c.Label) == "" {
		return &ConfigError{Field: "label", Message: "is required"}
	}
	if strings.TrimSpace(c.Href) == "" {
		return &ConfigError{Field: "href", Message: "is required"}
	}
	return validateLink("href", c.Href)
}

func (c DividerConfig) Validate() error { return nil }

func (c SpacerConfig) Validate() error {
	if c.Height < 0 || c.Height > 1000 {
		return &ConfigError{Field: "height", Message: "must be between 0 and 1000"}
	}
	return nil
}

func (c VideoConfig) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return &ConfigError{Field: "url", Message: "is required"}
	}
	return validateLink("url", c.URL)
}

func (c ArchiveGridConfig) Validate() error {
	if c.Limit < 0 || c.Limit > 100 {
		return &ConfigError{Field: "limit", Message: "must be between 0 and 100"}
	}
	return nil
}

// validateLink accepts relative paths and http(s) URLs.
func validateLink(field, raw string) error {
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ConfigError{Field: field, Message: "must be a relative path or an http(s) URL"}
	}
	return nil
}

// newConfig returns an empty config value for typ.
func newConfig(typ ComponentType) (ComponentConfig, bool) {
	switch typ {
	case ComponentText:
		return &TextConfig{}, true
	case ComponentHeading:
		return &HeadingConfig{}, true
	case ComponentImage:
		return &ImageConfig{}, true
	case ComponentList:
		return &ListConfig{}, true
	case ComponentButton:
		return &ButtonConfig{}, true
	case ComponentDivider:
		return &DividerConfig{}, true
	case ComponentSpacer:
		return &SpacerConfig{}, true
	case ComponentVideo:
		return &VideoConfig{}, true
	case ComponentArchiveGrid:
		return &ArchiveGridConfig{}, true
	}
	return nil, false
}

// DecodeComponentConfig parses raw as the config variant selected by typ.
// Unknown fields are rejected. An empty payload decodes to the zero config.
func DecodeComponentConfig(typ ComponentType, raw json.RawMessage) (ComponentConfig, error) {
	cfg, ok := newConfig(typ)
	if !ok {
		return nil, &ConfigError{Field: "type", Message: fmt.Sprintf("unknown component type %q", typ)}
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, &ConfigError{Field: "config", Message: err.Error()}
	}
	if dec.More() {
		return nil, &ConfigError{Field: "config", Message: "unexpected data after config object"}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// EncodeComponentConfig returns the canonical JSON form of cfg.
func EncodeComponentConfig(cfg ComponentConfig) (json.RawMessage, error) {
	b, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	return b, nil
}
