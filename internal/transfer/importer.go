// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/service"
	"github.com/olegiv/darchive/internal/util"
)

// Entity names used in results and errors.
const (
	entitySnapshot = "snapshot"
	entitySettings = "settings"
	entityHome     = "home"
	entityPage     = "page"
)

// ErrValidationFailed is returned when a snapshot is rejected before any
// change is made. The result lists the reasons.
var ErrValidationFailed = errors.New("validation failed")

// Importer applies snapshots through the live services.
type Importer struct {
	services *service.Services
	logger   *slog.Logger
}

// NewImporter creates a new Importer instance.
func NewImporter(services *service.Services, logger *slog.Logger) *Importer {
	return &Importer{
		services: services,
		logger:   logger,
	}
}

// Import validates snap and applies the sections selected by opts. Settings
// and home content are replaced as a whole. Pages are created one by one;
// a page that fails is recorded in the result and the rest continue.
func (i *Importer) Import(ctx context.Context, snap *Snapshot, opts ImportOptions) (*ImportResult, error) {
	result := NewImportResult(opts.DryRun)

	if errs := i.Validate(snap); len(errs) > 0 {
		for _, err := range errs {
			result.AddError(err.Entity, err.ID, err.Message)
		}
		return result, ErrValidationFailed
	}

	if opts.ImportSettings && snap.Settings != nil {
		if err := i.importSettings(ctx, snap.Settings, opts, result); err != nil {
			return result, err
		}
	}

	if opts.ImportHome && len(snap.Home) > 0 {
		if err := i.importHome(ctx, snap.Home, opts, result); err != nil {
			return result, err
		}
	}

	if opts.ImportPages && len(snap.Pages) > 0 {
		if err := i.importPages(ctx, snap.Pages, opts, result); err != nil {
			return result, err
		}
	}

	i.logger.Info("import completed",
		"dry_run", opts.DryRun,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"errors", len(result.Errors))
	return result, nil
}

// ImportFromReader decodes a YAML snapshot from r and imports it.
func (i *Importer) ImportFromReader(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	snap, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return i.Import(ctx, snap, opts)
}

// ImportFromFile imports the YAML snapshot stored at path.
func (i *Importer) ImportFromFile(ctx context.Context, path string, opts ImportOptions) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening import file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return i.ImportFromReader(ctx, f, opts)
}

// Decode reads a YAML snapshot. Unknown keys are rejected.
func Decode(r io.Reader) (*Snapshot, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("decoding snapshot: empty document")
		}
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &snap, nil
}

// Validate checks the snapshot without touching the database.
func (i *Importer) Validate(snap *Snapshot) []ImportError {
	var errs []ImportError
	add := func(entity, id, msg string) {
		errs = append(errs, ImportError{Entity: entity, ID: id, Message: msg})
	}

	if snap.Version != SnapshotVersion {
		add(entitySnapshot, "", fmt.Sprintf("unsupported version %q, want %q", snap.Version, SnapshotVersion))
	}

	if s := snap.Settings; s != nil {
		if strings.TrimSpace(s.SiteName) == "" {
			add(entitySettings, "site_name", "is required")
		}
		if s.MaxUploadSize < 1 || s.MaxUploadSize > service.MaxUploadSizeLimit {
			add(entitySettings, "max_upload_size", fmt.Sprintf("must be between 1 and %d", service.MaxUploadSizeLimit))
		}
	}

	for n, b := range snap.Home {
		id := strconv.Itoa(n + 1)
		if !model.HomeType(b.Type).Valid() {
			add(entityHome, id, fmt.Sprintf("unknown type %q", b.Type))
		}
		if strings.TrimSpace(b.Content) == "" {
			add(entityHome, id, "content is required")
		}
	}

	seen := make(map[string]bool, len(snap.Pages))
	for n, p := range snap.Pages {
		id := p.Slug
		if id == "" {
			id = "#" + strconv.Itoa(n+1)
		}
		if strings.TrimSpace(p.Title) == "" {
			add(entityPage, id, "title is required")
		}
		if !util.IsValidSlug(p.Slug) {
			add(entityPage, id, "invalid slug")
		} else if seen[p.Slug] {
			add(entityPage, id, "duplicate slug")
		}
		seen[p.Slug] = true
		if strings.TrimSpace(p.Owner) == "" {
			add(entityPage, id, "owner is required")
		}
		for k, el := range p.Elements {
			if !model.ElementType(el.Type).Valid() {
				add(entityPage, id, fmt.Sprintf("element %d: unknown type %q", k, el.Type))
			}
		}
	}

	return errs
}

func (i *Importer) importSettings(ctx context.Context, s *SnapshotSettings, opts ImportOptions, result *ImportResult) error {
	if opts.DryRun {
		result.IncrementUpdated(entitySettings)
		return nil
	}
	_, err := i.services.Settings.Update(ctx, model.Settings{
		SiteName:        s.SiteName,
		SiteDescription: s.SiteDescription,
		ContactEmail:    s.ContactEmail,
		MaxUploadSize:   s.MaxUploadSize,
	})
	if err != nil {
		return fmt.Errorf("importing settings: %w", err)
	}
	result.IncrementUpdated(entitySettings)
	return nil
}

func (i *Importer) importHome(ctx context.Context, blocks []SnapshotBlock, opts ImportOptions, result *ImportResult) error {
	if !opts.DryRun {
		items := make([]model.HomeContentInput, 0, len(blocks))
		for _, b := range blocks {
			items = append(items, importBlock(b))
		}
		if _, err := i.services.Home.Replace(ctx, items); err != nil {
			return fmt.Errorf("importing home content: %w", err)
		}
	}
	result.Created[entityHome] += len(blocks)
	return nil
}

func (i *Importer) importPages(ctx context.Context, pages []SnapshotPage, opts ImportOptions, result *ImportResult) error {
	users, err := i.services.Users.List(ctx)
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}
	owners := make(map[string]int64, len(users))
	for _, u := range users {
		owners[strings.ToLower(u.Email)] = u.ID
	}

	existing, err := i.services.Pages.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("listing pages: %w", err)
	}
	bySlug := make(map[string]model.Page, len(existing))
	for _, p := range existing {
		bySlug[p.Slug] = p
	}

	for _, p := range pages {
		ownerID, ok := owners[strings.ToLower(p.Owner)]
		if !ok {
			result.AddError(entityPage, p.Slug, fmt.Sprintf("owner %q not found", p.Owner))
			continue
		}

		current, exists := bySlug[p.Slug]
		if exists && opts.ConflictStrategy != ConflictOverwrite {
			result.IncrementSkipped(entityPage)
			continue
		}
		if opts.DryRun {
			if exists {
				result.IncrementUpdated(entityPage)
			} else {
				result.IncrementCreated(entityPage)
			}
			continue
		}

		in := importPage(p)
		if exists {
			// Overwrites keep the stored owner.
			_, err = i.services.Pages.Save(ctx, service.Actor{UserID: current.OwnerID}, p.Slug, in)
		} else {
			_, err = i.services.Pages.Create(ctx, service.Actor{UserID: ownerID}, in)
		}
		if err != nil {
			result.AddError(entityPage, p.Slug, err.Error())
			i.logger.Warn("failed to import page", "slug", p.Slug, "error", err)
			continue
		}
		if exists {
			result.IncrementUpdated(entityPage)
		} else {
			result.IncrementCreated(entityPage)
		}
	}
	return nil
}

func importBlock(b SnapshotBlock) model.HomeContentInput {
	in := model.HomeContentInput{
		Type:    model.HomeType(b.Type),
		Content: b.Content,
	}
	if b.Style != nil {
		in.Style = &model.Style{
			Color:           b.Style.Color,
			FontSize:        b.Style.FontSize,
			BackgroundColor: b.Style.BackgroundColor,
		}
	}
	return in
}

func importPage(p SnapshotPage) model.PageInput {
	published := p.Published
	in := model.PageInput{
		Title:       p.Title,
		Slug:        p.Slug,
		IsPublished: &published,
		Content:     make([]model.PageElement, 0, len(p.Elements)),
	}
	if p.Description != "" {
		desc := p.Description
		in.Description = &desc
	}
	for n, el := range p.Elements {
		in.Content = append(in.Content, model.PageElement{
			ID:      model.TempIDPrefix + strconv.Itoa(n),
			Type:    model.ElementType(el.Type),
			Content: el.Content,
			Order:   n,
		})
	}
	return in
}
