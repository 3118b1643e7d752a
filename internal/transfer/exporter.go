// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/service"
)

// Exporter builds snapshots from the live services.
type Exporter struct {
	services *service.Services
	logger   *slog.Logger
}

// NewExporter creates a new Exporter instance.
func NewExporter(services *service.Services, logger *slog.Logger) *Exporter {
	return &Exporter{
		services: services,
		logger:   logger,
	}
}

// Export builds a Snapshot holding the sections selected by opts.
func (e *Exporter) Export(ctx context.Context, opts ExportOptions) (*Snapshot, error) {
	snap := &Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: time.Now().UTC(),
	}

	if opts.IncludeSettings {
		settings, err := e.services.Settings.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("exporting settings: %w", err)
		}
		snap.Settings = &SnapshotSettings{
			SiteName:        settings.SiteName,
			SiteDescription: settings.SiteDescription,
			ContactEmail:    settings.ContactEmail,
			MaxUploadSize:   settings.MaxUploadSize,
		}
	}

	if opts.IncludeHome {
		blocks, err := e.services.Home.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("exporting home content: %w", err)
		}
		for _, b := range blocks {
			snap.Home = append(snap.Home, exportBlock(b))
		}
	}

	if opts.IncludePages {
		if err := e.exportPages(ctx, snap, opts.PageStatus); err != nil {
			return nil, err
		}
	}

	e.logger.Info("export completed",
		"pages", len(snap.Pages),
		"home_blocks", len(snap.Home),
		"settings", snap.Settings != nil)
	return snap, nil
}

func (e *Exporter) exportPages(ctx context.Context, snap *Snapshot, status string) error {
	users, err := e.services.Users.List(ctx)
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}
	emails := make(map[int64]string, len(users))
	for _, u := range users {
		emails[u.ID] = u.Email
	}

	pages, err := e.services.Pages.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("exporting pages: %w", err)
	}
	for _, p := range pages {
		switch {
		case status == "published" && !p.IsPublished:
			continue
		case status == "draft" && p.IsPublished:
			continue
		}

		owner, ok := emails[p.OwnerID]
		if !ok {
			e.logger.Warn("skipping page without owner", "slug", p.Slug, "owner_id", p.OwnerID)
			continue
		}
		snap.Pages = append(snap.Pages, exportPage(p, owner))
	}
	return nil
}

// ExportToWriter writes the snapshot as YAML to w.
func (e *Exporter) ExportToWriter(ctx context.Context, opts ExportOptions, w io.Writer) error {
	snap, err := e.Export(ctx, opts)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return enc.Close()
}

// ExportToFile writes the snapshot as YAML to path.
func (e *Exporter) ExportToFile(ctx context.Context, opts ExportOptions, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := e.ExportToWriter(ctx, opts, f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func exportBlock(b model.HomeContent) SnapshotBlock {
	block := SnapshotBlock{
		Type:    string(b.Type),
		Content: b.Content,
	}
	if b.Style != nil && !b.Style.IsZero() {
		block.Style = &SnapshotStyle{
			Color:           b.Style.Color,
			FontSize:        b.Style.FontSize,
			BackgroundColor: b.Style.BackgroundColor,
		}
	}
	return block
}

func exportPage(p model.Page, owner string) SnapshotPage {
	page := SnapshotPage{
		Title:     p.Title,
		Slug:      p.Slug,
		Published: p.IsPublished,
		Owner:     owner,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Description != nil {
		page.Description = *p.Description
	}
	for _, el := range p.Content {
		page.Elements = append(page.Elements, SnapshotElement{
			Type:    string(el.Type),
			Content: el.Content,
		})
	}
	return page
}
