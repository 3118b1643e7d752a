// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/olegiv/darchive/internal/geoip"
	"github.com/olegiv/darchive/internal/service"
)

// Default schedules
const (
	PruneEventsSchedule     = "0 3 * * *"
	ReloadGeoIPSchedule     = "0 4 * * 0"
	CleanupLimitersSchedule = "*/10 * * * *"
)

// PruneEventsJob deletes event log entries older than retention.
func PruneEventsJob(events *service.EventService, retention time.Duration, logger *slog.Logger) Job {
	return Job{
		Name:        "prune-events",
		Description: "Delete old event log entries",
		Schedule:    PruneEventsSchedule,
		Run: func(ctx context.Context) error {
			n, err := events.DeleteOldEvents(ctx, retention)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("pruned event log", "deleted", n, "retention", retention.String())
			}
			return nil
		},
	}
}

// ReloadGeoIPJob reopens the GeoIP database when its file was replaced.
func ReloadGeoIPJob(lookup *geoip.Lookup) Job {
	return Job{
		Name:        "reload-geoip",
		Description: "Pick up an updated GeoIP database",
		Schedule:    ReloadGeoIPSchedule,
		Run: func(context.Context) error {
			return lookup.Reload()
		},
	}
}

// CleanupJob wraps in-memory housekeeping such as limiter cleanup.
func CleanupJob(name, description string, cleanups ...func()) Job {
	return Job{
		Name:        name,
		Description: description,
		Schedule:    CleanupLimitersSchedule,
		Run: func(context.Context) error {
			for _, fn := range cleanups {
				fn()
			}
			return nil
		},
	}
}
