// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package client is a typed HTTP client for the archive JSON API. It keeps
// the session cookie in a cookie jar, so a Login carries over to every later
// call made through the same Client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/darchive/internal/middleware"
	"github.com/olegiv/darchive/internal/model"
)

// Client configuration constants
const (
	RequestTimeout = 30 * time.Second
	MaxErrorBody   = 10 * 1024
	UserAgent      = "darchive-client/1.0"
)

// Error is a non-2xx API response.
type Error struct {
	StatusCode int
	middleware.APIError
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// StatusCode returns the HTTP status of an API error, or 0 when err is not
// one.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Client talks to one API base URL, for example http://localhost:8080/api.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for baseURL.
func New(baseURL string) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: RequestTimeout,
		},
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	c.httpClient.Jar = jar
	return c, nil
}

// do sends body as JSON and decodes the response into out when out is
// non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBody))
		if err := json.Unmarshal(data, &apiErr.APIError); err != nil {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

type userResponse struct {
	Message string     `json:"message"`
	User    model.User `json:"user"`
}

// Register creates an account. It does not sign in.
func (c *Client) Register(ctx context.Context, name, email, password string) (model.User, error) {
	var resp userResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &resp)
	return resp.User, err
}

// Login signs in and stores the session cookie.
func (c *Client) Login(ctx context.Context, email, password string) (model.User, error) {
	var resp userResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	return resp.User, err
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Pages

func pagePath(slug string) string {
	return "/pages/" + url.PathEscape(slug)
}

// GetPage fetches a page by slug.
func (c *Client) GetPage(ctx context.Context, slug string) (model.Page, error) {
	var page model.Page
	err := c.do(ctx, http.MethodGet, pagePath(slug), nil, &page)
	return page, err
}

// CreatePage creates a page owned by the signed-in user.
func (c *Client) CreatePage(ctx context.Context, in model.PageInput) (model.Page, error) {
	var page model.Page
	err := c.do(ctx, http.MethodPost, "/pages", in, &page)
	return page, err
}

// SavePage replaces the page stored under slug with in. Elements with a
// temporary id are created by the server.
func (c *Client) SavePage(ctx context.Context, slug string, in model.PageInput) (model.Page, error) {
	var page model.Page
	err := c.do(ctx, http.MethodPut, pagePath(slug), in, &page)
	return page, err
}

// DeletePage removes a page.
func (c *Client) DeletePage(ctx context.Context, slug string) error {
	return c.do(ctx, http.MethodDelete, pagePath(slug), nil, nil)
}

// TogglePublish flips the publication status and returns the new value.
func (c *Client) TogglePublish(ctx context.Context, slug string) (bool, error) {
	var resp struct {
		IsPublished bool `json:"isPublished"`
	}
	err := c.do(ctx, http.MethodPost, pagePath(slug)+"/publish", nil, &resp)
	return resp.IsPublished, err
}

// Home content

func homePath(id int64) string {
	return "/home-content/" + strconv.FormatInt(id, 10)
}

// ListHomeContent returns the homepage blocks in order.
func (c *Client) ListHomeContent(ctx context.Context) ([]model.HomeContent, error) {
	var items []model.HomeContent
	err := c.do(ctx, http.MethodGet, "/home-content", nil, &items)
	return items, err
}

// CreateHomeContent appends a block.
func (c *Client) CreateHomeContent(ctx context.Context, in model.HomeContentInput) (model.HomeContent, error) {
	var item model.HomeContent
	err := c.do(ctx, http.MethodPost, "/home-content", in, &item)
	return item, err
}

// UpdateHomeContent changes the fields set in patch.
func (c *Client) UpdateHomeContent(ctx context.Context, id int64, patch model.HomeContentPatch) (model.HomeContent, error) {
	var item model.HomeContent
	err := c.do(ctx, http.MethodPut, homePath(id), patch, &item)
	return item, err
}

// DeleteHomeContent removes a block.
func (c *Client) DeleteHomeContent(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, homePath(id), nil, nil)
}

// SetHomeOrder applies a full ordering of the block ids.
func (c *Client) SetHomeOrder(ctx context.Context, ids []int64) ([]model.HomeContent, error) {
	var items []model.HomeContent
	err := c.do(ctx, http.MethodPut, "/home-content/order", map[string][]int64{"ids": ids}, &items)
	return items, err
}

// SetupHomeContent resets the homepage to the default blocks.
func (c *Client) SetupHomeContent(ctx context.Context) ([]model.HomeContent, error) {
	var resp struct {
		Content []model.HomeContent `json:"content"`
	}
	err := c.do(ctx, http.MethodPost, "/home-content/setup", nil, &resp)
	return resp.Content, err
}
