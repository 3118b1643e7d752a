// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render executes the server-rendered HTML views.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/olegiv/darchive/internal/model"
)

// Renderer handles template rendering with caching.
type Renderer struct {
	templates map[string]*template.Template
	markdown  goldmark.Markdown
	policy    *bluemonday.Policy
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
}

// New creates a Renderer and parses every template up front.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		markdown:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:    bluemonday.UGCPolicy(),
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

const baseLayout = "layouts/base.html"

// parseTemplates builds one template set per view. Public views get the
// base layout, admin views additionally get the admin layout.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	groups := []struct {
		dir     string
		layouts []string
	}{
		{"public", []string{baseLayout}},
		{"admin", []string{baseLayout, "layouts/admin.html"}},
	}

	for _, g := range groups {
		views, err := templateFiles(templatesFS, g.dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", g.dir, err)
		}
		for _, view := range views {
			name := g.dir + "/" + strings.TrimSuffix(path.Base(view), ".html")

			files := append([]string{}, g.layouts...)
			files = append(files, partials...)
			files = append(files, view)

			tmpl, err := template.New("").Funcs(r.templateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}

	return nil
}

// templateFiles returns the .html files in dir. A missing dir is empty.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		return nil, nil
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

func (r *Renderer) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
		"truncate": func(s string, length int) string {
			runes := []rune(s)
			if len(runes) <= length {
				return s
			}
			return string(runes[:length]) + "..."
		},
		"markdown":   r.Markdown,
		"blockStyle": BlockStyle,
	}
}

// Markdown converts src to HTML and strips anything outside the UGC policy.
func (r *Renderer) Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(src), &buf); err != nil {
		slog.Warn("markdown conversion failed", "error", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes()))
}

// BlockStyle turns a homepage block style into an inline style attribute
// value. Properties with characters outside a conservative CSS value set are
// dropped.
func BlockStyle(s *model.Style) template.CSS {
	if s == nil || s.IsZero() {
		return ""
	}

	var decls []string
	add := func(prop, value string) {
		if value != "" && safeCSSValue(value) {
			decls = append(decls, prop+": "+value)
		}
	}
	add("color", s.Color)
	add("font-size", s.FontSize)
	add("background-color", s.BackgroundColor)

	return template.CSS(strings.Join(decls, "; "))
}

func safeCSSValue(v string) bool {
	lower := strings.ToLower(v)
	if strings.Contains(lower, "url") || strings.Contains(lower, "expression") {
		return false
	}
	for _, c := range v {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.ContainsRune(" #%.,()-", c):
		default:
			return false
		}
	}
	return true
}

// Viewer describes the signed-in caller, if any.
type Viewer struct {
	UserID  int64
	Name    string
	IsAdmin bool
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title           string
	SiteName        string
	SiteDescription string
	Viewer          *Viewer
	Data            any
	CurrentYear     int
}

// Render writes the named view with status 200.
func (r *Renderer) Render(w http.ResponseWriter, name string, data TemplateData) error {
	return r.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus writes the named view with the given status code.
func (r *Renderer) RenderStatus(w http.ResponseWriter, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

// Has reports whether a view with the given name was parsed.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}
