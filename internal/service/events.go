// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/darchive/internal/geoip"
	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/store"
	"github.com/olegiv/darchive/internal/util"
)

// Client describes where a request came from.
type Client struct {
	IP        string
	UserAgent string
	URL       string
}

// EventService writes and reads the audit log.
type EventService struct {
	queries *store.Queries
	geo     *geoip.Lookup
}

// NewEventService creates an EventService. geo may be nil.
func NewEventService(db *sql.DB, geo *geoip.Lookup) *EventService {
	return &EventService{
		queries: store.New(db),
		geo:     geo,
	}
}

// LogEvent records an event. Client details are folded into the metadata
// as the parsed user agent and the country of the address. Failures are
// logged and returned.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, userID int64, client Client, metadata map[string]any) error {
	meta := make(map[string]any, len(metadata)+2)
	for k, v := range metadata {
		meta[k] = v
	}
	if client.UserAgent != "" {
		meta["client"] = util.ParseUserAgent(client.UserAgent)
	}
	if country := s.geo.Country(client.IP); country != "" {
		meta["country"] = country
	}

	metadataJSON := "{}"
	if len(meta) > 0 {
		if b, err := json.Marshal(meta); err == nil {
			metadataJSON = string(b)
		}
	}

	err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:      level,
		Category:   category,
		Message:    message,
		UserID:     util.NullInt64FromID(userID),
		Metadata:   metadataJSON,
		IpAddress:  client.IP,
		RequestUrl: client.URL,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		slog.Error("failed to log event", "category", category, "error", err)
		return err
	}
	return nil
}

// LogInfo records an info-level event.
func (s *EventService) LogInfo(ctx context.Context, category, message string, userID int64, client Client, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelInfo, category, message, userID, client, metadata)
}

// LogWarning records a warning-level event.
func (s *EventService) LogWarning(ctx context.Context, category, message string, userID int64, client Client, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelWarning, category, message, userID, client, metadata)
}

// List returns a page of events, newest first, and the total count.
func (s *EventService) List(ctx context.Context, limit, offset int) ([]model.Event, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.queries.ListEvents(ctx, store.ListEventsParams{Limit: int64(limit), Offset: int64(offset)})
	if err != nil {
		return nil, 0, fmt.Errorf("listing events: %w", err)
	}
	total, err := s.queries.CountEvents(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("counting events: %w", err)
	}

	events := make([]model.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, model.Event{
			ID:         r.ID,
			Level:      r.Level,
			Category:   r.Category,
			Message:    r.Message,
			UserID:     util.PtrFromNullInt64(r.UserID),
			Metadata:   r.Metadata,
			IPAddress:  r.IpAddress,
			RequestURL: r.RequestUrl,
			CreatedAt:  r.CreatedAt,
		})
	}
	return events, total, nil
}

// DeleteOldEvents removes events older than olderThan and returns how many
// were deleted.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error) {
	n, err := s.queries.DeleteOldEvents(ctx, time.Now().UTC().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("deleting old events: %w", err)
	}
	return n, nil
}
