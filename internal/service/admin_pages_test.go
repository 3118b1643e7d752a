// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/darchive/internal/model"
)

func TestAdminPageLifecycle(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	_, admin := registerUser(t, svc, "admin")

	page, err := svc.AdminPages.Create(ctx, admin, model.AdminPageInput{Title: "Landing", Slug: "landing"})
	require.NoError(t, err)
	assert.False(t, page.IsPublished)
	assert.Empty(t, page.Components)

	_, err = svc.AdminPages.Create(ctx, admin, model.AdminPageInput{Title: "Again", Slug: "landing"})
	assert.ErrorIs(t, err, ErrSlugTaken)

	updated, err := svc.AdminPages.Update(ctx, page.ID, model.AdminPageInput{
		Title:       "Landing",
		IsPublished: boolPtr(true),
		Components: []model.PageComponent{
			{ID: "temp-1", Type: model.ComponentHeading, Config: json.RawMessage(`{"content":"Hi","level":2}`)},
			{ID: "temp-2", Name: "cta", Type: model.ComponentButton, Config: json.RawMessage(`{"label":"Go","href":"/archive"}`)},
			{ID: "temp-3", Type: model.ComponentDivider},
		},
	})
	require.NoError(t, err)
	assert.True(t, updated.IsPublished)
	require.Len(t, updated.Components, 3)
	assert.Equal(t, "heading", updated.Components[0].Name)
	assert.Equal(t, "cta", updated.Components[1].Name)
	assert.JSONEq(t, `{}`, string(updated.Components[2].Config))
	for i, c := range updated.Components {
		assert.Equal(t, i, c.Order)
	}

	// Drop the heading, swap the rest.
	reordered, err := svc.AdminPages.Update(ctx, page.ID, model.AdminPageInput{
		Title:      "Landing",
		Components: []model.PageComponent{updated.Components[2], updated.Components[1]},
	})
	require.NoError(t, err)
	require.Len(t, reordered.Components, 2)
	assert.Equal(t, updated.Components[2].ID, reordered.Components[0].ID)
	assert.Equal(t, updated.Components[1].ID, reordered.Components[1].ID)

	// A nil component list keeps the components.
	renamed, err := svc.AdminPages.Update(ctx, page.ID, model.AdminPageInput{Title: "Start"})
	require.NoError(t, err)
	assert.Equal(t, "Start", renamed.Title)
	assert.Len(t, renamed.Components, 2)

	got, err := svc.AdminPages.Get(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, renamed.Components, got.Components)

	list, err := svc.AdminPages.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.AdminPages.Delete(ctx, page.ID))
	_, err = svc.AdminPages.Get(ctx, page.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.AdminPages.Delete(ctx, page.ID), ErrNotFound)
}

func TestAdminPageComponentValidation(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	_, admin := registerUser(t, svc, "admin")

	page, err := svc.AdminPages.Create(ctx, admin, model.AdminPageInput{Title: "Landing", Slug: "landing"})
	require.NoError(t, err)

	_, err = svc.AdminPages.Update(ctx, page.ID, model.AdminPageInput{
		Title: "Landing",
		Components: []model.PageComponent{
			{Type: model.ComponentHeading, Config: json.RawMessage(`{"level":9}`)},
			{Type: model.ComponentImage, Config: json.RawMessage(`{"url":"javascript:alert(1)"}`)},
			{Type: "carousel"},
			{Type: model.ComponentText, Config: json.RawMessage(`{"content":"x","extra":1}`)},
		},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "components[0].level")
	assert.Contains(t, verr.Fields, "components[1].url")
	assert.Contains(t, verr.Fields, "components[2].type")
	assert.Contains(t, verr.Fields, "components[3].config")

	_, err = svc.AdminPages.Update(ctx, page.ID, model.AdminPageInput{
		Title:      "Landing",
		Components: []model.PageComponent{{ID: "42", Type: model.ComponentDivider}},
	})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "components[0].id")

	got, err := svc.AdminPages.Get(ctx, page.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Components)
}

func TestAdminPageCreate_SlugFromTitle(t *testing.T) {
	svc, _ := newTestServices(t)
	_, admin := registerUser(t, svc, "admin")

	page, err := svc.AdminPages.Create(context.Background(), admin, model.AdminPageInput{Title: "Über uns"})
	require.NoError(t, err)
	assert.Equal(t, "uber-uns", page.Slug)
}
