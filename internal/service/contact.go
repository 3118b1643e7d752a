// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/store"
	"github.com/olegiv/darchive/internal/util"
)

// MaxContactMessageLength bounds contact form messages.
const MaxContactMessageLength = 5000

// ContactInput is a contact form submission.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactService records contact form submissions.
type ContactService struct {
	queries *store.Queries
}

// NewContactService creates a ContactService.
func NewContactService(db *sql.DB) *ContactService {
	return &ContactService{queries: store.New(db)}
}

// Submit stores a message. The actor's id is attached when signed in.
func (s *ContactService) Submit(ctx context.Context, actor Actor, in ContactInput) (model.ContactForm, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)

	verr := &ValidationError{}
	if in.Name == "" {
		verr.Add("name", "Name is required")
	}
	if in.Email == "" {
		verr.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		verr.Add("email", "Invalid email address")
	}
	if in.Message == "" {
		verr.Add("message", "Message is required")
	} else if len(in.Message) > MaxContactMessageLength {
		verr.Add("message", fmt.Sprintf("Message must be at most %d characters", MaxContactMessageLength))
	}
	if err := verr.Err(); err != nil {
		return model.ContactForm{}, err
	}

	row, err := s.queries.CreateContactForm(ctx, store.CreateContactFormParams{
		Name:      in.Name,
		Email:     in.Email,
		Message:   in.Message,
		UserID:    util.NullInt64FromID(actor.UserID),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return model.ContactForm{}, fmt.Errorf("saving contact form: %w", err)
	}
	return toContactForm(row), nil
}

// List returns every submission, newest first.
func (s *ContactService) List(ctx context.Context) ([]model.ContactForm, error) {
	rows, err := s.queries.ListContactForms(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing contact forms: %w", err)
	}
	out := make([]model.ContactForm, 0, len(rows))
	for _, r := range rows {
		out = append(out, toContactForm(r))
	}
	return out, nil
}

func toContactForm(r store.ContactForm) model.ContactForm {
	return model.ContactForm{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Message:   r.Message,
		UserID:    util.PtrFromNullInt64(r.UserID),
		CreatedAt: r.CreatedAt,
	}
}
