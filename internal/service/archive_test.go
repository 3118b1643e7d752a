// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/darchive/internal/cache"
	"github.com/olegiv/darchive/internal/imaging"
	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/testutil"
)

func TestArchiveOwnership(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	_, admin := registerUser(t, svc, "admin")
	_, alice := registerUser(t, svc, "alice")
	_, bob := registerUser(t, svc, "bob")

	item, err := svc.Archive.Create(ctx, alice, model.ArchiveInput{
		Title:   " Note ",
		Type:    model.ArchiveTypeText,
		Content: "remember the milk",
	})
	require.NoError(t, err)
	assert.Equal(t, "Note", item.Title)
	assert.Equal(t, alice.UserID, item.OwnerID)

	_, err = svc.Archive.Get(ctx, bob, item.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Archive.Get(ctx, Actor{}, item.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Archive.Get(ctx, admin, item.ID)
	assert.NoError(t, err, "admins may read any item")

	in := model.ArchiveInput{Title: "Changed", Type: model.ArchiveTypeText, Content: "x"}
	_, err = svc.Archive.Update(ctx, bob, item.ID, in)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Archive.Update(ctx, admin, item.ID, in)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.Archive.Delete(ctx, bob, item.ID), ErrForbidden)

	updated, err := svc.Archive.Update(ctx, alice, item.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Changed", updated.Title)

	all, err := svc.Archive.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "alice@example.com", all[0].Owner.Email)

	require.NoError(t, svc.Archive.Delete(ctx, alice, item.ID))
	_, err = svc.Archive.Get(ctx, alice, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArchiveListLimit(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	_, alice := registerUser(t, svc, "alice")
	_, bob := registerUser(t, svc, "bob")

	for i := range 5 {
		_, err := svc.Archive.Create(ctx, alice, model.ArchiveInput{
			Title:   fmt.Sprintf("Item %d", i),
			Type:    model.ArchiveTypeText,
			Content: "x",
		})
		require.NoError(t, err)
	}

	all, err := svc.Archive.List(ctx, alice, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	latest, err := svc.Archive.List(ctx, alice, 3)
	require.NoError(t, err)
	assert.Len(t, latest, 3)

	none, err := svc.Archive.List(ctx, bob, 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = svc.Archive.List(ctx, Actor{}, 0)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestArchiveValidation(t *testing.T) {
	svc, _ := newTestServices(t)
	_, alice := registerUser(t, svc, "alice")

	_, err := svc.Archive.Create(context.Background(), alice, model.ArchiveInput{Type: "video"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "type")
	assert.Contains(t, verr.Fields, "content")
}

// newUploadServices returns services that store uploads under the returned
// directory.
func newUploadServices(t *testing.T) (*Services, string) {
	t.Helper()
	dir := t.TempDir()
	c := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = c.Close() })
	return New(testutil.TestDB(t), Options{
		Cache:     c,
		Processor: imaging.NewProcessor(dir, "/uploads"),
		Logger:    testutil.DiscardLogger(),
	}), dir
}

func uploadPNG(t *testing.T, svc *Services, actor Actor) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	res, err := svc.Media.Upload(context.Background(), actor, &buf)
	require.NoError(t, err)
	return res.URL
}

func uploadExists(dir, url string) bool {
	_, err := os.Stat(filepath.Join(dir, imaging.OriginalsDir, filepath.Base(url)))
	return err == nil
}

func imageItem(t *testing.T, svc *Services, actor Actor, url string) model.ArchiveItem {
	t.Helper()
	item, err := svc.Archive.Create(context.Background(), actor, model.ArchiveInput{
		Title:   "Photo",
		Type:    model.ArchiveTypeImage,
		Content: url,
	})
	require.NoError(t, err)
	return item
}

func TestArchiveDelete_ForeignUploadSurvives(t *testing.T) {
	svc, dir := newUploadServices(t)
	ctx := context.Background()
	_, alice := registerUser(t, svc, "alice")
	_, bob := registerUser(t, svc, "bob")

	url := uploadPNG(t, svc, alice)
	require.True(t, strings.HasPrefix(url, "/uploads/images/"))
	imageItem(t, svc, alice, url)

	borrowed := imageItem(t, svc, bob, url)
	require.NoError(t, svc.Archive.Delete(ctx, bob, borrowed.ID))
	assert.True(t, uploadExists(dir, url), "deleting another user's reference must keep the file")
}

func TestArchiveDelete_SharedUploadSurvives(t *testing.T) {
	svc, dir := newUploadServices(t)
	ctx := context.Background()
	_, alice := registerUser(t, svc, "alice")

	url := uploadPNG(t, svc, alice)
	first := imageItem(t, svc, alice, url)
	second := imageItem(t, svc, alice, url)

	require.NoError(t, svc.Archive.Delete(ctx, alice, first.ID))
	assert.True(t, uploadExists(dir, url), "file is still used by the second item")

	require.NoError(t, svc.Archive.Delete(ctx, alice, second.ID))
	assert.False(t, uploadExists(dir, url), "last reference removes the file")
}

func TestArchiveDelete_UploadUsedByPage(t *testing.T) {
	svc, dir := newUploadServices(t)
	ctx := context.Background()
	_, alice := registerUser(t, svc, "alice")

	url := uploadPNG(t, svc, alice)
	item := imageItem(t, svc, alice, url)
	_, err := svc.Pages.Create(ctx, alice, model.PageInput{
		Title:   "Gallery",
		Slug:    "gallery",
		Content: []model.PageElement{{ID: "temp-1", Type: model.ElementImage, Content: url}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Archive.Delete(ctx, alice, item.ID))
	assert.True(t, uploadExists(dir, url))
}

func TestArchiveDelete_UploadUsedByComponent(t *testing.T) {
	svc, dir := newUploadServices(t)
	ctx := context.Background()
	_, alice := registerUser(t, svc, "alice")

	url := uploadPNG(t, svc, alice)
	item := imageItem(t, svc, alice, url)
	page, err := svc.AdminPages.Create(ctx, alice, model.AdminPageInput{Title: "Landing", Slug: "landing"})
	require.NoError(t, err)
	_, err = svc.AdminPages.Update(ctx, page.ID, model.AdminPageInput{
		Title: "Landing",
		Components: []model.PageComponent{
			{ID: "temp-1", Type: model.ComponentImage, Config: json.RawMessage(fmt.Sprintf(`{"url":%q}`, url))},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Archive.Delete(ctx, alice, item.ID))
	assert.True(t, uploadExists(dir, url), "image component still shows the file")
}

func TestArchiveUpdate_ReleasesReplacedUpload(t *testing.T) {
	svc, dir := newUploadServices(t)
	ctx := context.Background()
	_, alice := registerUser(t, svc, "alice")

	oldURL := uploadPNG(t, svc, alice)
	newURL := uploadPNG(t, svc, alice)
	item := imageItem(t, svc, alice, oldURL)

	_, err := svc.Archive.Update(ctx, alice, item.ID, model.ArchiveInput{
		Title:   "Photo",
		Type:    model.ArchiveTypeImage,
		Content: newURL,
	})
	require.NoError(t, err)
	assert.False(t, uploadExists(dir, oldURL), "replaced image is removed")
	assert.True(t, uploadExists(dir, newURL))
}
