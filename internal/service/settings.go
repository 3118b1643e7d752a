// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/olegiv/darchive/internal/cache"
	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/store"
)

const (
	settingsCacheKey = "settings"

	// MaxUploadSizeLimit bounds the configurable upload size in MB.
	MaxUploadSizeLimit = 100
)

// SettingsService reads and writes the singleton settings row.
type SettingsService struct {
	queries *store.Queries
	cache   *cache.Typed[model.Settings]
}

// NewSettingsService creates a SettingsService reading through c.
func NewSettingsService(db *sql.DB, c cache.Cache, ttl time.Duration) *SettingsService {
	return &SettingsService{
		queries: store.New(db),
		cache:   cache.NewTyped[model.Settings](c, ttl),
	}
}

// Get returns the stored settings, or the defaults when no row exists.
func (s *SettingsService) Get(ctx context.Context) (model.Settings, error) {
	return s.cache.GetOrLoad(ctx, settingsCacheKey, func(ctx context.Context) (model.Settings, error) {
		row, err := s.queries.GetSettings(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return model.DefaultSettings(), nil
		}
		if err != nil {
			return model.Settings{}, fmt.Errorf("loading settings: %w", err)
		}
		return toSettings(row), nil
	})
}

// Update validates and upserts the settings.
func (s *SettingsService) Update(ctx context.Context, in model.Settings) (model.Settings, error) {
	in.SiteName = strings.TrimSpace(in.SiteName)
	in.SiteDescription = strings.TrimSpace(in.SiteDescription)
	in.ContactEmail = strings.TrimSpace(in.ContactEmail)

	verr := &ValidationError{}
	if in.SiteName == "" {
		verr.Add("siteName", "Site name is required")
	}
	if in.ContactEmail != "" {
		if _, err := mail.ParseAddress(in.ContactEmail); err != nil {
			verr.Add("contactEmail", "Invalid email address")
		}
	}
	if in.MaxUploadSize < 1 || in.MaxUploadSize > MaxUploadSizeLimit {
		verr.Add("maxUploadSize", fmt.Sprintf("Max upload size must be between 1 and %d MB", MaxUploadSizeLimit))
	}
	if err := verr.Err(); err != nil {
		return model.Settings{}, err
	}

	row, err := s.queries.UpsertSettings(ctx, store.UpsertSettingsParams{
		SiteName:        in.SiteName,
		SiteDescription: in.SiteDescription,
		ContactEmail:    in.ContactEmail,
		MaxUploadSize:   int64(in.MaxUploadSize),
		UpdatedAt:       time.Now().UTC(),
	})
	if err != nil {
		return model.Settings{}, fmt.Errorf("saving settings: %w", err)
	}

	if err := s.cache.Delete(ctx, settingsCacheKey); err != nil && !errors.Is(err, cache.ErrCacheClosed) {
		slog.Warn("failed to invalidate settings cache", "error", err)
	}
	return toSettings(row), nil
}

func toSettings(row store.Setting) model.Settings {
	return model.Settings{
		SiteName:        row.SiteName,
		SiteDescription: row.SiteDescription,
		ContactEmail:    row.ContactEmail,
		MaxUploadSize:   int(row.MaxUploadSize),
	}
}
