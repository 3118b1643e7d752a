// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/service"
	"github.com/olegiv/darchive/internal/testutil"
)

func newServices(t *testing.T) *service.Services {
	t.Helper()
	return service.New(testutil.TestDB(t), service.Options{Logger: testutil.DiscardLogger()})
}

func register(t *testing.T, svc *service.Services, email string) service.Actor {
	t.Helper()
	u, err := svc.Users.Register(context.Background(), service.RegisterInput{
		Name:     strings.Split(email, "@")[0],
		Email:    email,
		Password: "password123",
	})
	require.NoError(t, err)
	return service.Actor{UserID: u.ID, IsAdmin: u.IsAdmin}
}

func boolPtr(b bool) *bool { return &b }

// seedSource fills svc with settings, two home blocks and two pages.
func seedSource(t *testing.T, svc *service.Services) {
	t.Helper()
	ctx := context.Background()

	alice := register(t, svc, "alice@example.com")
	bob := register(t, svc, "bob@example.com")

	_, err := svc.Settings.Update(ctx, model.Settings{
		SiteName:        "Family Archive",
		SiteDescription: "Letters and photos",
		ContactEmail:    "family@example.com",
		MaxUploadSize:   12,
	})
	require.NoError(t, err)

	_, err = svc.Home.Replace(ctx, []model.HomeContentInput{
		{Type: model.HomeHeading, Content: "Welcome", Style: &model.Style{FontSize: "3rem"}},
		{Type: model.HomeArchivePreview, Content: "Recent"},
	})
	require.NoError(t, err)

	_, err = svc.Pages.Create(ctx, alice, model.PageInput{
		Title:       "About",
		Slug:        "about",
		IsPublished: boolPtr(true),
		Content: []model.PageElement{
			{ID: "temp-1", Type: model.ElementHeading, Content: "Hi"},
			{ID: "temp-2", Type: model.ElementParagraph, Content: "We keep *things*."},
		},
	})
	require.NoError(t, err)

	_, err = svc.Pages.Create(ctx, bob, model.PageInput{Title: "Draft", Slug: "draft"})
	require.NoError(t, err)
}

func TestExport(t *testing.T) {
	svc := newServices(t)
	seedSource(t, svc)

	snap, err := NewExporter(svc, testutil.DiscardLogger()).Export(context.Background(), DefaultExportOptions())
	require.NoError(t, err)

	assert.Equal(t, SnapshotVersion, snap.Version)
	require.NotNil(t, snap.Settings)
	assert.Equal(t, "Family Archive", snap.Settings.SiteName)
	assert.Equal(t, 12, snap.Settings.MaxUploadSize)

	require.Len(t, snap.Home, 2)
	assert.Equal(t, "heading", snap.Home[0].Type)
	require.NotNil(t, snap.Home[0].Style)
	assert.Equal(t, "3rem", snap.Home[0].Style.FontSize)
	assert.Nil(t, snap.Home[1].Style)

	require.Len(t, snap.Pages, 2)
	bySlug := map[string]SnapshotPage{}
	for _, p := range snap.Pages {
		bySlug[p.Slug] = p
	}
	about := bySlug["about"]
	assert.Equal(t, "alice@example.com", about.Owner)
	assert.True(t, about.Published)
	assert.Equal(t, []SnapshotElement{
		{Type: "heading", Content: "Hi"},
		{Type: "paragraph", Content: "We keep *things*."},
	}, about.Elements)
	assert.Equal(t, "bob@example.com", bySlug["draft"].Owner)
}

func TestExport_PageStatusFilter(t *testing.T) {
	svc := newServices(t)
	seedSource(t, svc)
	exp := NewExporter(svc, testutil.DiscardLogger())

	tests := []struct {
		status string
		want   []string
	}{
		{"published", []string{"about"}},
		{"draft", []string{"draft"}},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			snap, err := exp.Export(context.Background(), ExportOptions{IncludePages: true, PageStatus: tt.status})
			require.NoError(t, err)
			var slugs []string
			for _, p := range snap.Pages {
				slugs = append(slugs, p.Slug)
			}
			assert.Equal(t, tt.want, slugs)
			assert.Nil(t, snap.Settings)
			assert.Empty(t, snap.Home)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newServices(t)
	seedSource(t, src)

	var buf bytes.Buffer
	require.NoError(t, NewExporter(src, testutil.DiscardLogger()).ExportToWriter(ctx, DefaultExportOptions(), &buf))
	assert.Contains(t, buf.String(), "site_name: Family Archive")

	dst := newServices(t)
	register(t, dst, "alice@example.com")
	register(t, dst, "bob@example.com")

	result, err := NewImporter(dst, testutil.DiscardLogger()).ImportFromReader(ctx, &buf, DefaultImportOptions())
	require.NoError(t, err)
	assert.True(t, result.Success(), "errors: %v", result.Errors)
	assert.Equal(t, 2, result.Created["page"])
	assert.Equal(t, 2, result.Created["home"])
	assert.Equal(t, 1, result.Updated["settings"])

	settings, err := dst.Settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Family Archive", settings.SiteName)

	home, err := dst.Home.List(ctx)
	require.NoError(t, err)
	require.Len(t, home, 2)
	assert.Equal(t, "Welcome", home[0].Content)
	assert.Equal(t, 1, home[0].Order)
	require.NotNil(t, home[0].Style)
	assert.Equal(t, "3rem", home[0].Style.FontSize)

	about, err := dst.Pages.Get(ctx, service.Actor{}, "about")
	require.NoError(t, err)
	assert.True(t, about.IsPublished)
	require.Len(t, about.Content, 2)
	assert.Equal(t, "Hi", about.Content[0].Content)
	assert.False(t, model.IsTempID(about.Content[0].ID))
}

func TestImport_Conflicts(t *testing.T) {
	ctx := context.Background()
	svc := newServices(t)
	alice := register(t, svc, "alice@example.com")
	_, err := svc.Pages.Create(ctx, alice, model.PageInput{Title: "Old", Slug: "about"})
	require.NoError(t, err)

	snap := &Snapshot{
		Version: SnapshotVersion,
		Pages: []SnapshotPage{{
			Title:    "New",
			Slug:     "about",
			Owner:    "alice@example.com",
			Elements: []SnapshotElement{{Type: "paragraph", Content: "fresh"}},
		}},
	}
	imp := NewImporter(svc, testutil.DiscardLogger())

	result, err := imp.Import(ctx, snap, ImportOptions{ImportPages: true, ConflictStrategy: ConflictSkip})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped["page"])
	page, err := svc.Pages.Get(ctx, alice, "about")
	require.NoError(t, err)
	assert.Equal(t, "Old", page.Title)

	result, err = imp.Import(ctx, snap, ImportOptions{ImportPages: true, ConflictStrategy: ConflictOverwrite})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated["page"])
	page, err = svc.Pages.Get(ctx, alice, "about")
	require.NoError(t, err)
	assert.Equal(t, "New", page.Title)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "fresh", page.Content[0].Content)
}

func TestImport_DryRun(t *testing.T) {
	ctx := context.Background()
	svc := newServices(t)
	register(t, svc, "alice@example.com")

	snap := &Snapshot{
		Version:  SnapshotVersion,
		Settings: &SnapshotSettings{SiteName: "X", ContactEmail: "x@example.com", MaxUploadSize: 3},
		Home:     []SnapshotBlock{{Type: "heading", Content: "Hello"}},
		Pages:    []SnapshotPage{{Title: "A", Slug: "a", Owner: "alice@example.com"}},
	}

	result, err := NewImporter(svc, testutil.DiscardLogger()).Import(ctx, snap, ImportOptions{
		DryRun:         true,
		ImportSettings: true,
		ImportHome:     true,
		ImportPages:    true,
	})
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.Created["page"])

	settings, err := svc.Settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)
	home, err := svc.Home.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, home)
	pages, err := svc.Pages.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestImport_UnknownOwner(t *testing.T) {
	svc := newServices(t)
	register(t, svc, "alice@example.com")

	result, err := NewImporter(svc, testutil.DiscardLogger()).Import(context.Background(), &Snapshot{
		Version: SnapshotVersion,
		Pages: []SnapshotPage{
			{Title: "A", Slug: "a", Owner: "ghost@example.com"},
			{Title: "B", Slug: "b", Owner: "ALICE@example.com"},
		},
	}, DefaultImportOptions())
	require.NoError(t, err)
	assert.False(t, result.Success())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "a", result.Errors[0].ID)
	assert.Equal(t, 1, result.Created["page"])
}

func TestValidate(t *testing.T) {
	imp := NewImporter(newServices(t), testutil.DiscardLogger())

	tests := []struct {
		name string
		snap Snapshot
		want string
	}{
		{"version", Snapshot{Version: "9"}, "unsupported version"},
		{"settings", Snapshot{Version: SnapshotVersion, Settings: &SnapshotSettings{SiteName: "X"}}, "must be between 1 and 100"},
		{"upload size limit", Snapshot{Version: SnapshotVersion, Settings: &SnapshotSettings{SiteName: "X", MaxUploadSize: 500}}, "must be between 1 and 100"},
		{"home type", Snapshot{Version: SnapshotVersion, Home: []SnapshotBlock{{Type: "carousel", Content: "x"}}}, "unknown type"},
		{"home content", Snapshot{Version: SnapshotVersion, Home: []SnapshotBlock{{Type: "heading"}}}, "content is required"},
		{"slug", Snapshot{Version: SnapshotVersion, Pages: []SnapshotPage{{Title: "A", Slug: "Not A Slug", Owner: "a@example.com"}}}, "invalid slug"},
		{"duplicate", Snapshot{Version: SnapshotVersion, Pages: []SnapshotPage{
			{Title: "A", Slug: "a", Owner: "a@example.com"},
			{Title: "A", Slug: "a", Owner: "a@example.com"},
		}}, "duplicate slug"},
		{"element", Snapshot{Version: SnapshotVersion, Pages: []SnapshotPage{{
			Title: "A", Slug: "a", Owner: "a@example.com",
			Elements: []SnapshotElement{{Type: "video"}},
		}}}, "unknown type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := imp.Validate(&tt.snap)
			require.NotEmpty(t, errs)
			assert.Contains(t, errs[0].Message, tt.want)
		})
	}

	result, err := imp.Import(context.Background(), &Snapshot{Version: "9"}, DefaultImportOptions())
	require.ErrorIs(t, err, ErrValidationFailed)
	assert.False(t, result.Success())
}

func TestDecode(t *testing.T) {
	snap, err := Decode(strings.NewReader("version: \"1\"\nhome:\n  - type: heading\n    content: Hello\n"))
	require.NoError(t, err)
	require.Len(t, snap.Home, 1)
	assert.Equal(t, "Hello", snap.Home[0].Content)

	_, err = Decode(strings.NewReader("version: \"1\"\nmenus: []\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = Decode(strings.NewReader(""))
	assert.Error(t, err)
}

func TestExportToFile(t *testing.T) {
	ctx := context.Background()
	svc := newServices(t)
	seedSource(t, svc)

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, NewExporter(svc, testutil.DiscardLogger()).ExportToFile(ctx, DefaultExportOptions(), path))

	dst := newServices(t)
	register(t, dst, "alice@example.com")
	register(t, dst, "bob@example.com")
	result, err := NewImporter(dst, testutil.DiscardLogger()).ImportFromFile(ctx, path, DefaultImportOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created["page"])
}
