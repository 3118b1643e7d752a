// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging builds the process logger. Records at WARN and above are
// also written to the events table so operators can review them from the
// admin event log.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/store"
)

// CategoryKey is the attribute that selects the event category.
const CategoryKey = "category"

type requestURLKey struct{}

// WithRequestURL returns a copy of ctx whose log records carry url.
func WithRequestURL(ctx context.Context, url string) context.Context {
	return context.WithValue(ctx, requestURLKey{}, url)
}

// RequestURL returns the url stored by WithRequestURL.
func RequestURL(ctx context.Context) string {
	url, _ := ctx.Value(requestURLKey{}).(string)
	return url
}

// ParseLevel maps a level name to a slog.Level. Unknown names map to INFO.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewTextHandler returns the base handler written to w.
func NewTextHandler(w io.Writer, level string) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
}

// EventLogHandler forwards every record to an inner handler and copies
// records at or above its threshold into the events table.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
	attrs   []slog.Attr
	group   string
}

// NewEventLogHandler wraps inner with a WARN threshold.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel wraps inner with a custom threshold.
func NewEventLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *EventLogHandler {
	return &EventLogHandler{inner: inner, queries: store.New(db), level: level}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.persist(ctx, r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithGroup(name)
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return &clone
}

// persist writes r to the events table. Failures are dropped: logging them
// through slog would recurse.
func (h *EventLogHandler) persist(ctx context.Context, r slog.Record) {
	category := model.EventCategorySystem
	metadata := make(map[string]any)

	collect := func(a slog.Attr) bool {
		if a.Key == CategoryKey {
			category = a.Value.String()
			return true
		}
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		metadata[key] = a.Value.Resolve().Any()
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(collect)

	if category == model.EventCategorySystem {
		category = inferCategory(r.Message)
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	requestURL := ""
	if ctx != nil {
		requestURL = RequestURL(ctx)
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = h.queries.CreateEvent(writeCtx, store.CreateEventParams{
		Level:      eventLevel(r.Level),
		Category:   category,
		Message:    r.Message,
		Metadata:   encodeMetadata(metadata),
		RequestUrl: requestURL,
		CreatedAt:  ts.UTC(),
	})
}

func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// inferCategory guesses a category from message keywords.
func inferCategory(msg string) string {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "login") || strings.Contains(m, "auth") || strings.Contains(m, "session"):
		return model.EventCategoryAuth
	case strings.Contains(m, "archive") || strings.Contains(m, "upload"):
		return model.EventCategoryArchive
	case strings.Contains(m, "page") || strings.Contains(m, "home content"):
		return model.EventCategoryPage
	case strings.Contains(m, "user"):
		return model.EventCategoryUser
	case strings.Contains(m, "setting") || strings.Contains(m, "config"):
		return model.EventCategoryConfig
	case strings.Contains(m, "cache") || strings.Contains(m, "redis"):
		return model.EventCategoryCache
	default:
		return model.EventCategorySystem
	}
}

func encodeMetadata(m map[string]any) string {
	if len(m) == 0 {
		return "{}"
	}
	b, err := json.Marshal(m)
	if err != nil {
		// Values that cannot be marshaled fall back to their string form.
		flat := make(map[string]string, len(m))
		for k, v := range m {
			flat[k] = slog.AnyValue(v).String()
		}
		b, _ = json.Marshal(flat)
	}
	return string(b)
}
