// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"database/sql"
	"strings"
)

// NullInt64FromPtr converts an optional id into a nullable column value.
func NullInt64FromPtr(ptr *int64) sql.NullInt64 {
	if ptr != nil {
		return sql.NullInt64{Int64: *ptr, Valid: true}
	}
	return sql.NullInt64{}
}

// NullInt64FromID treats a zero id as NULL.
func NullInt64FromID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

// PtrFromNullInt64 is the inverse of NullInt64FromPtr.
func PtrFromNullInt64(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// NullStringFromPtr stores a nil or blank string as NULL.
func NullStringFromPtr(ptr *string) sql.NullString {
	if ptr == nil || strings.TrimSpace(*ptr) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *ptr, Valid: true}
}

// PtrFromNullString is the inverse of NullStringFromPtr.
func PtrFromNullString(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}
