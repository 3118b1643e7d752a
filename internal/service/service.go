// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the archive's business rules on top of the
// store: ownership checks, validation, slug uniqueness and the ordered
// content lists of pages and the homepage. Every multi-row mutation runs in
// a single transaction.
package service

import (
	"database/sql"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/olegiv/darchive/internal/cache"
	"github.com/olegiv/darchive/internal/geoip"
	"github.com/olegiv/darchive/internal/imaging"
)

// Sentinel errors mapped to HTTP statuses by the API layer.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrSlugTaken          = errors.New("slug already exists")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidOrder       = errors.New("invalid order")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries per-field messages.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an error for a single field.
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// Add records a message for field. The first message for a field wins.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// Err returns e when it holds at least one field, and nil otherwise.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Actor is the caller of a service operation. A zero UserID is anonymous.
type Actor struct {
	UserID  int64
	IsAdmin bool
}

// Anonymous reports whether the caller is signed out.
func (a Actor) Anonymous() bool {
	return a.UserID == 0
}

// Owns reports whether the actor is ownerID.
func (a Actor) Owns(ownerID int64) bool {
	return !a.Anonymous() && a.UserID == ownerID
}

// Options configures the service set.
type Options struct {
	Cache      cache.Cache
	CacheTTL   time.Duration
	Processor  *imaging.Processor
	GeoIP      *geoip.Lookup
	Logger     *slog.Logger
	RecentSize int
}

// Services bundles every service sharing one database.
type Services struct {
	Users      *UserService
	Pages      *PageService
	AdminPages *AdminPageService
	Archive    *ArchiveService
	Home       *HomeService
	Settings   *SettingsService
	Stats      *StatsService
	Contact    *ContactService
	Media      *MediaService
	Events     *EventService
}

// New wires all services.
func New(db *sql.DB, opts Options) *Services {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewMemoryCache(cache.MemoryCacheOptions{})
	}

	events := NewEventService(db, opts.GeoIP)
	settings := NewSettingsService(db, opts.Cache, opts.CacheTTL)

	return &Services{
		Users:      NewUserService(db, opts.Logger),
		Pages:      NewPageService(db),
		AdminPages: NewAdminPageService(db),
		Archive:    NewArchiveService(db, opts.Processor),
		Home:       NewHomeService(db, opts.Cache, opts.CacheTTL),
		Settings:   settings,
		Stats:      NewStatsService(db, opts.RecentSize),
		Contact:    NewContactService(db),
		Media:      NewMediaService(db, opts.Processor, settings),
		Events:     events,
	}
}
