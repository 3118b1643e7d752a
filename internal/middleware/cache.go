// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strconv"
	"time"
)

// CachePolicy describes the Cache-Control header served with file responses.
type CachePolicy struct {
	MaxAge time.Duration
	// Immutable marks content whose URL changes whenever its bytes do,
	// such as uploads stored under generated names.
	Immutable bool
}

func (p CachePolicy) header() string {
	v := "public, max-age=" + strconv.Itoa(int(p.MaxAge/time.Second))
	if p.Immutable {
		v += ", immutable"
	}
	return v
}

// StaticCache adds Cache-Control headers to successful file responses.
// Errors such as a missing file are left uncached.
func StaticCache(policy CachePolicy) func(http.Handler) http.Handler {
	value := policy.header()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(&cacheWriter{ResponseWriter: w, value: value}, r)
		})
	}
}

type cacheWriter struct {
	http.ResponseWriter
	value       string
	wroteHeader bool
}

func (cw *cacheWriter) WriteHeader(code int) {
	if !cw.wroteHeader {
		cw.wroteHeader = true
		if code < http.StatusBadRequest {
			cw.Header().Set("Cache-Control", cw.value)
		} else {
			cw.Header().Set("Cache-Control", "no-store")
		}
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *cacheWriter) Write(b []byte) (int, error) {
	if !cw.wroteHeader {
		cw.WriteHeader(http.StatusOK)
	}
	return cw.ResponseWriter.Write(b)
}
