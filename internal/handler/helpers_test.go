// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/darchive/internal/imaging"
	"github.com/olegiv/darchive/internal/middleware"
	"github.com/olegiv/darchive/internal/render"
	"github.com/olegiv/darchive/internal/service"
	"github.com/olegiv/darchive/internal/session"
	"github.com/olegiv/darchive/internal/testutil"
	"github.com/olegiv/darchive/web"
)

type testSite struct {
	db       *sql.DB
	services *service.Services
	server   *httptest.Server
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()

	db := testutil.TestDB(t)
	uploads := t.TempDir()
	services := service.New(db, service.Options{
		Processor: imaging.NewProcessor(uploads, "/uploads"),
		Logger:    testutil.DiscardLogger(),
	})
	renderer, err := render.New(render.Config{TemplatesFS: web.TemplateFS()})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	sm := session.New(db, session.Options{IsDev: true})

	frontend := NewFrontendHandler(renderer, services)
	admin := NewAdminHandler(renderer, services)
	health := NewHealthHandler(db, uploads)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(middleware.LoadIdentity(sm, db))

	// Signs the client in as the given user id.
	r.Post("/test/login/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err := session.Login(r.Context(), sm, id); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	r.Get("/health", health.Health)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Get("/", frontend.Home)
	r.Get("/p/{slug}", frontend.Page)
	r.With(middleware.AdminArea(sm, services.Events)).Get("/admin", admin.Dashboard)
	r.NotFound(frontend.NotFound)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testSite{db: db, services: services, server: srv}
}

type siteClient struct {
	t    *testing.T
	base string
	http *http.Client
}

// client returns a cookie-keeping client that does not follow redirects.
func (s *testSite) client(t *testing.T) *siteClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	return &siteClient{
		t:    t,
		base: s.server.URL,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *siteClient) login(userID int64) {
	c.t.Helper()
	resp, err := c.http.Post(fmt.Sprintf("%s/test/login/%d", c.base, userID), "", nil)
	if err != nil {
		c.t.Fatalf("login: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.t.Fatalf("login: status = %d", resp.StatusCode)
	}
}

// get returns the response with its body already read.
func (c *siteClient) get(path string) (*http.Response, string) {
	c.t.Helper()
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		c.t.Fatalf("GET %s: %v", path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("reading %s: %v", path, err)
	}
	return resp, string(body)
}

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}
