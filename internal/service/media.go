// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/olegiv/darchive/internal/imaging"
	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/store"
)

// ErrUploadsDisabled is returned when no uploads directory is configured.
var ErrUploadsDisabled = errors.New("uploads are disabled")

// MediaService stores archive image uploads within the size limit from the
// site settings. Every stored file is recorded with its uploader, so only
// that user's items can release it.
type MediaService struct {
	queries   *store.Queries
	processor *imaging.Processor
	settings  *SettingsService
}

// NewMediaService creates a MediaService. A nil processor disables uploads.
func NewMediaService(db *sql.DB, processor *imaging.Processor, settings *SettingsService) *MediaService {
	return &MediaService{
		queries:   store.New(db),
		processor: processor,
		settings:  settings,
	}
}

// MaxUploadBytes returns the current upload limit.
func (s *MediaService) MaxUploadBytes(ctx context.Context) (int64, error) {
	st, err := s.settings.Get(ctx)
	if err != nil {
		return 0, err
	}
	return st.MaxUploadBytes(), nil
}

// Upload stores an image read from r.
func (s *MediaService) Upload(ctx context.Context, actor Actor, r io.Reader) (model.UploadResult, error) {
	if actor.Anonymous() {
		return model.UploadResult{}, ErrUnauthorized
	}
	if s.processor == nil {
		return model.UploadResult{}, ErrUploadsDisabled
	}

	limit, err := s.MaxUploadBytes(ctx)
	if err != nil {
		return model.UploadResult{}, err
	}

	res, err := s.processor.Store(r, limit)
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		return model.UploadResult{}, NewValidationError("file", fmt.Sprintf("File exceeds the %d MB limit", limit>>20))
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		return model.UploadResult{}, NewValidationError("file", "File must be a JPEG, PNG, GIF or WebP image")
	case err != nil:
		return model.UploadResult{}, fmt.Errorf("storing upload: %w", err)
	}

	if err := s.queries.CreateUpload(ctx, store.CreateUploadParams{
		Url:       res.URL,
		OwnerID:   actor.UserID,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		if rmErr := s.processor.Remove(res.URL); rmErr != nil {
			slog.Warn("failed to remove unrecorded upload", "url", res.URL, "error", rmErr)
		}
		return model.UploadResult{}, fmt.Errorf("recording upload: %w", err)
	}
	return res, nil
}
