// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer exports and imports archive content as YAML snapshots.
// A snapshot carries the site settings, the homepage blocks and the user
// pages. Accounts, archive items and uploaded files are not included.
package transfer

import "time"

// SnapshotVersion is the current version of the snapshot format.
const SnapshotVersion = "1"

// Snapshot is the complete document written by an export.
type Snapshot struct {
	Version    string            `yaml:"version"`
	ExportedAt time.Time         `yaml:"exported_at"`
	Settings   *SnapshotSettings `yaml:"settings,omitempty"`
	Home       []SnapshotBlock   `yaml:"home,omitempty"`
	Pages      []SnapshotPage    `yaml:"pages,omitempty"`
}

// SnapshotSettings is the site configuration.
type SnapshotSettings struct {
	SiteName        string `yaml:"site_name"`
	SiteDescription string `yaml:"site_description"`
	ContactEmail    string `yaml:"contact_email"`
	MaxUploadSize   int    `yaml:"max_upload_size"`
}

// SnapshotBlock is one homepage block. Blocks are listed in display order.
type SnapshotBlock struct {
	Type    string         `yaml:"type"`
	Content string         `yaml:"content"`
	Style   *SnapshotStyle `yaml:"style,omitempty"`
}

// SnapshotStyle holds the presentation hints of a block.
type SnapshotStyle struct {
	Color           string `yaml:"color,omitempty"`
	FontSize        string `yaml:"font_size,omitempty"`
	BackgroundColor string `yaml:"background_color,omitempty"`
}

// SnapshotPage is a page with its elements in display order. Owner is the
// owner's email address.
type SnapshotPage struct {
	Title       string            `yaml:"title"`
	Slug        string            `yaml:"slug"`
	Description string            `yaml:"description,omitempty"`
	Published   bool              `yaml:"published"`
	Owner       string            `yaml:"owner"`
	Elements    []SnapshotElement `yaml:"elements,omitempty"`
	UpdatedAt   time.Time         `yaml:"updated_at"`
}

// SnapshotElement is one page element.
type SnapshotElement struct {
	Type    string `yaml:"type"`
	Content string `yaml:"content"`
}

// ExportOptions selects the sections of an export.
type ExportOptions struct {
	IncludeSettings bool
	IncludeHome     bool
	IncludePages    bool
	// PageStatus is "all", "published" or "draft".
	PageStatus string
}

// DefaultExportOptions returns options that include everything.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		IncludeSettings: true,
		IncludeHome:     true,
		IncludePages:    true,
		PageStatus:      "all",
	}
}

// ConflictStrategy decides what happens to a page whose slug already exists.
type ConflictStrategy string

// Conflict strategies
const (
	ConflictSkip      ConflictStrategy = "skip"
	ConflictOverwrite ConflictStrategy = "overwrite"
)

// ImportOptions selects the sections applied by an import.
type ImportOptions struct {
	DryRun           bool
	ImportSettings   bool
	ImportHome       bool
	ImportPages      bool
	ConflictStrategy ConflictStrategy
}

// DefaultImportOptions applies every section and skips existing pages.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		ImportSettings:   true,
		ImportHome:       true,
		ImportPages:      true,
		ConflictStrategy: ConflictSkip,
	}
}

// ImportError describes one rejected entry.
type ImportError struct {
	Entity  string `json:"entity"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (e ImportError) Error() string {
	if e.ID == "" {
		return e.Entity + ": " + e.Message
	}
	return e.Entity + " " + e.ID + ": " + e.Message
}

// ImportResult counts what an import did, per entity.
type ImportResult struct {
	DryRun  bool           `json:"dry_run"`
	Created map[string]int `json:"created"`
	Updated map[string]int `json:"updated"`
	Skipped map[string]int `json:"skipped"`
	Errors  []ImportError  `json:"errors,omitempty"`
}

// NewImportResult returns an empty result.
func NewImportResult(dryRun bool) *ImportResult {
	return &ImportResult{
		DryRun:  dryRun,
		Created: make(map[string]int),
		Updated: make(map[string]int),
		Skipped: make(map[string]int),
	}
}

// AddError records a rejected entry.
func (r *ImportResult) AddError(entity, id, message string) {
	r.Errors = append(r.Errors, ImportError{Entity: entity, ID: id, Message: message})
}

// IncrementCreated counts a created entity.
func (r *ImportResult) IncrementCreated(entity string) { r.Created[entity]++ }

// IncrementUpdated counts an updated entity.
func (r *ImportResult) IncrementUpdated(entity string) { r.Updated[entity]++ }

// IncrementSkipped counts a skipped entity.
func (r *ImportResult) IncrementSkipped(entity string) { r.Skipped[entity]++ }

// Success reports whether the import had no errors.
func (r *ImportResult) Success() bool { return len(r.Errors) == 0 }
