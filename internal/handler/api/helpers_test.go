// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/darchive/internal/imaging"
	"github.com/olegiv/darchive/internal/middleware"
	"github.com/olegiv/darchive/internal/service"
	"github.com/olegiv/darchive/internal/session"
	"github.com/olegiv/darchive/internal/testutil"
)

// testAPI is an API server over a fresh migrated database.
type testAPI struct {
	db       *sql.DB
	services *service.Services
	server   *httptest.Server
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPIWithProtection(t, middleware.LoginProtectionConfig{
		IPRateLimit: 1000,
		IPBurst:     1000,
	})
}

func newTestAPIWithProtection(t *testing.T, cfg middleware.LoginProtectionConfig) *testAPI {
	t.Helper()

	db := testutil.TestDB(t)
	services := service.New(db, service.Options{
		Processor: imaging.NewProcessor(t.TempDir(), "/uploads"),
		Logger:    testutil.DiscardLogger(),
	})
	sm := session.New(db, session.Options{IsDev: true})
	h := NewHandler(services, sm, middleware.NewLoginProtection(cfg))

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(middleware.LoadIdentity(sm, db))
	r.Mount("/api", h.Routes())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testAPI{db: db, services: services, server: srv}
}

// testClient is a cookie-keeping API client.
type testClient struct {
	t    *testing.T
	base string
	http *http.Client
}

func (a *testAPI) client(t *testing.T) *testClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	return &testClient{t: t, base: a.server.URL + "/api", http: &http.Client{Jar: jar}}
}

// do sends body as JSON and decodes a JSON response into out when out is
// non-nil. It returns the status code.
func (c *testClient) do(method, path string, body, out any) int {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		c.t.Fatalf("NewRequest: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *testClient) send(req *http.Request, out any) int {
	c.t.Helper()

	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("reading body: %v", err)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			c.t.Fatalf("%s %s: decoding %q: %v", req.Method, req.URL.Path, data, err)
		}
	}
	return resp.StatusCode
}

// register creates an account and signs it in.
func (c *testClient) register(name, email string) UserResponse {
	c.t.Helper()

	var created UserResponse
	if code := c.do(http.MethodPost, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": "secret-password",
	}, &created); code != http.StatusCreated {
		c.t.Fatalf("register %s: status = %d", email, code)
	}
	if code := c.do(http.MethodPost, "/auth/login", LoginRequest{Email: email, Password: "secret-password"}, nil); code != http.StatusOK {
		c.t.Fatalf("login %s: status = %d", email, code)
	}
	return created
}

// apiError decodes an error envelope.
type apiError = middleware.APIError
