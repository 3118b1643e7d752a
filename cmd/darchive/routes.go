// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"database/sql"
	"io/fs"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/darchive/internal/handler"
	"github.com/olegiv/darchive/internal/handler/api"
	"github.com/olegiv/darchive/internal/middleware"
	"github.com/olegiv/darchive/internal/render"
	"github.com/olegiv/darchive/internal/service"
	"github.com/olegiv/darchive/web"
)

var (
	staticCache  = middleware.CachePolicy{MaxAge: 365 * 24 * time.Hour}
	uploadsCache = middleware.CachePolicy{MaxAge: 7 * 24 * time.Hour, Immutable: true}
)

// routerDeps carries everything newRouter wires together.
type routerDeps struct {
	DB              *sql.DB
	Services        *service.Services
	SessionManager  *scs.SessionManager
	Renderer        *render.Renderer
	LoginProtection *middleware.LoginProtection
	APILimiter      *middleware.GlobalRateLimiter
	UploadsDir      string
	SessionSecret   string
	IsDev           bool
	// RequestLog enables chi's access log.
	RequestLog bool
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if d.RequestLog {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(d.IsDev)))
	r.Use(middleware.RequestPath)
	r.Use(d.SessionManager.LoadAndSave)
	r.Use(middleware.LoadIdentity(d.SessionManager, d.DB))
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(d.SessionSecret), d.IsDev)))

	health := handler.NewHealthHandler(d.DB, d.UploadsDir)
	r.Get("/health", health.Health)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	apiHandler := api.NewHandler(d.Services, d.SessionManager, d.LoginProtection)
	if d.APILimiter != nil {
		r.With(d.APILimiter.Middleware()).Mount("/api", apiHandler.Routes())
	} else {
		r.Mount("/api", apiHandler.Routes())
	}

	frontend := handler.NewFrontendHandler(d.Renderer, d.Services)
	admin := handler.NewAdminHandler(d.Renderer, d.Services)
	r.Get("/", frontend.Home)
	r.Get("/p/{slug}", frontend.Page)
	r.With(middleware.AdminArea(d.SessionManager, d.Services.Events)).Get("/admin", admin.Dashboard)

	staticHandler := http.StripPrefix("/static/", http.FileServer(filesOnly{http.FS(web.StaticFS())}))
	r.Handle("/static/*", middleware.StaticCache(staticCache)(staticHandler))

	uploadsHandler := http.StripPrefix("/uploads/", http.FileServer(filesOnly{http.Dir(d.UploadsDir)}))
	r.Handle("/uploads/*", middleware.StaticCache(uploadsCache)(uploadsHandler))

	r.NotFound(frontend.NotFound)

	return r
}

// filesOnly hides directories so file servers never list their contents.
type filesOnly struct {
	root http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.root.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
