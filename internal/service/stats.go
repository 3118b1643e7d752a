// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/store"
)

// DefaultRecentUsers is the size of the recent-users list in Stats.
const DefaultRecentUsers = 5

// StatsService computes the admin dashboard counters.
type StatsService struct {
	queries *store.Queries
	recent  int
}

// NewStatsService creates a StatsService listing recent recent users.
func NewStatsService(db *sql.DB, recent int) *StatsService {
	if recent <= 0 {
		recent = DefaultRecentUsers
	}
	return &StatsService{queries: store.New(db), recent: recent}
}

// Get returns the current counters.
func (s *StatsService) Get(ctx context.Context) (model.Stats, error) {
	users, err := s.queries.CountUsers(ctx)
	if err != nil {
		return model.Stats{}, fmt.Errorf("counting users: %w", err)
	}
	archives, err := s.queries.CountArchiveItems(ctx)
	if err != nil {
		return model.Stats{}, fmt.Errorf("counting archive items: %w", err)
	}
	pages, err := s.queries.CountPages(ctx)
	if err != nil {
		return model.Stats{}, fmt.Errorf("counting pages: %w", err)
	}
	recent, err := s.queries.ListRecentUsers(ctx, int64(s.recent))
	if err != nil {
		return model.Stats{}, fmt.Errorf("listing recent users: %w", err)
	}

	return model.Stats{
		TotalUsers:    users,
		TotalArchives: archives,
		TotalPages:    pages,
		RecentUsers:   toUsers(recent),
	}, nil
}
