// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Seed values for a fresh installation.
const (
	SeedSiteName        = "Digital Archive"
	SeedSiteDescription = "A digital archive system"
	SeedContactEmail    = "admin@example.com"
	SeedMaxUploadSize   = 10
)

// Seed creates the settings row when it does not exist yet.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	_, err := queries.GetSettings(ctx)
	if err == nil {
		slog.Info("settings already exist, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking settings: %w", err)
	}

	s, err := queries.UpsertSettings(ctx, UpsertSettingsParams{
		SiteName:        SeedSiteName,
		SiteDescription: SeedSiteDescription,
		ContactEmail:    SeedContactEmail,
		MaxUploadSize:   SeedMaxUploadSize,
		UpdatedAt:       time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("seeding settings: %w", err)
	}

	slog.Info("seeded site settings", "site_name", s.SiteName)
	return nil
}
