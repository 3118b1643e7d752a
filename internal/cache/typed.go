// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Typed stores JSON-encoded values of type T in a Cache.
//
// Every Delete bumps a per-key generation. GetOrLoad only stores a loaded
// value when no Delete happened while it was loading, so a slow load cannot
// put back data that an invalidation already dropped. Generations are kept
// per process.
type Typed[T any] struct {
	cache Cache
	ttl   time.Duration

	mu  sync.Mutex
	gen map[string]uint64
}

// NewTyped wraps c. A zero ttl uses the backend default.
func NewTyped[T any](c Cache, ttl time.Duration) *Typed[T] {
	return &Typed[T]{cache: c, ttl: ttl, gen: make(map[string]uint64)}
}

// Get decodes the cached value. Decode failures count as a miss.
func (t *Typed[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	data, err := t.cache.Get(ctx, key)
	if err != nil {
		return zero, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, false
	}
	return v, true
}

// Set encodes and stores v.
func (t *Typed[T]) Set(ctx context.Context, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return t.cache.Set(ctx, key, data, t.ttl)
}

// Delete removes key and discards loads of key that are still in flight.
func (t *Typed[T]) Delete(ctx context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen[key]++
	return t.cache.Delete(ctx, key)
}

func (t *Typed[T]) generation(key string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen[key]
}

// GetOrLoad returns the cached value or calls load and caches its result.
// The result is not cached when key was deleted during the load. Cache write
// failures are logged and do not fail the call.
func (t *Typed[T]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := t.Get(ctx, key); ok {
		return v, nil
	}

	start := t.generation(key)
	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gen[key] != start {
		return v, nil
	}
	if err := t.Set(ctx, key, v); err != nil && !errors.Is(err, ErrCacheClosed) {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
	return v, nil
}
