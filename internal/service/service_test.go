// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/darchive/internal/cache"
	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/testutil"
)

func newTestServices(t *testing.T) (*Services, *sql.DB) {
	t.Helper()
	db := testutil.TestDB(t)
	c := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = c.Close() })
	return New(db, Options{Cache: c, Logger: testutil.DiscardLogger()}), db
}

func registerUser(t *testing.T, svc *Services, name string) (model.User, Actor) {
	t.Helper()
	u, err := svc.Users.Register(context.Background(), RegisterInput{
		Name:     name,
		Email:    name + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	return u, Actor{UserID: u.ID, IsAdmin: u.IsAdmin}
}

func TestValidationError(t *testing.T) {
	var verr ValidationError
	assert.NoError(t, verr.Err())

	verr.Add("title", "Title is required")
	verr.Add("title", "ignored")
	verr.Add("slug", "Invalid slug format")

	require.Error(t, verr.Err())
	assert.Equal(t, "Title is required", verr.Fields["title"])
	assert.Equal(t, "validation failed: slug: Invalid slug format; title: Title is required", verr.Error())
}

func TestActor(t *testing.T) {
	anon := Actor{}
	assert.True(t, anon.Anonymous())
	assert.False(t, anon.Owns(0))

	a := Actor{UserID: 3}
	assert.True(t, a.Owns(3))
	assert.False(t, a.Owns(4))
}
