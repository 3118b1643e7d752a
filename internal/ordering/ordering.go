// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package ordering implements the list operations shared by every ordered
// collection in the archive: page elements, page components and homepage
// blocks. All functions return new slices and leave their input untouched.
package ordering

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned when a move index is outside the list.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNotPermutation is returned when a proposed order does not contain
	// exactly the current ids.
	ErrNotPermutation = errors.New("ids are not a permutation of the current list")
)

// Move removes the element at from and reinserts it at to. Every element in
// between shifts by one position.
func Move[T any](items []T, from, to int) ([]T, error) {
	n := len(items)
	if from < 0 || from >= n {
		return nil, fmt.Errorf("from %d: %w", from, ErrIndexOutOfRange)
	}
	if to < 0 || to >= n {
		return nil, fmt.Errorf("to %d: %w", to, ErrIndexOutOfRange)
	}

	out := make([]T, 0, n)
	moved := items[from]
	for i, item := range items {
		if i == from {
			continue
		}
		if len(out) == to {
			out = append(out, moved)
		}
		out = append(out, item)
	}
	if len(out) == to {
		out = append(out, moved)
	}
	return out, nil
}

// Remove drops every element whose key equals id and keeps the relative order
// of the rest. The second result reports whether anything was removed.
func Remove[T any, K comparable](items []T, id K, key func(T) K) ([]T, bool) {
	out := make([]T, 0, len(items))
	removed := false
	for _, item := range items {
		if key(item) == id {
			removed = true
			continue
		}
		out = append(out, item)
	}
	return out, removed
}

// IndexOf returns the index of the first element with the given key, or -1.
func IndexOf[T any, K comparable](items []T, id K, key func(T) K) int {
	for i, item := range items {
		if key(item) == id {
			return i
		}
	}
	return -1
}

// ValidatePermutation checks that proposed holds exactly the ids of current,
// each once.
func ValidatePermutation[K comparable](current, proposed []K) error {
	if len(current) != len(proposed) {
		return fmt.Errorf("got %d ids, want %d: %w", len(proposed), len(current), ErrNotPermutation)
	}
	want := make(map[K]struct{}, len(current))
	for _, id := range current {
		want[id] = struct{}{}
	}
	seen := make(map[K]struct{}, len(proposed))
	for _, id := range proposed {
		if _, ok := want[id]; !ok {
			return fmt.Errorf("unknown id %v: %w", id, ErrNotPermutation)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate id %v: %w", id, ErrNotPermutation)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Permute returns items rearranged to follow ids. ids must be a permutation
// of the items' keys.
func Permute[T any, K comparable](items []T, ids []K, key func(T) K) ([]T, error) {
	current := make([]K, len(items))
	byID := make(map[K]T, len(items))
	for i, item := range items {
		k := key(item)
		current[i] = k
		byID[k] = item
	}
	if err := ValidatePermutation(current, ids); err != nil {
		return nil, err
	}
	out := make([]T, len(ids))
	for i, id := range ids {
		out[i] = byID[id]
	}
	return out, nil
}

// Renumber assigns base+index as the order of every element.
func Renumber[T any](items []T, base int, set func(*T, int)) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := range out {
		set(&out[i], base+i)
	}
	return out
}

// Contiguous reports whether the orders are exactly base..base+n-1 in list
// order.
func Contiguous[T any](items []T, base int, get func(T) int) bool {
	for i, item := range items {
		if get(item) != base+i {
			return false
		}
	}
	return true
}
