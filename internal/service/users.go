// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/olegiv/darchive/internal/auth"
	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/store"
)

// RegisterInput is the body of a registration request.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserService manages accounts and credentials.
type UserService struct {
	db      *sql.DB
	queries *store.Queries
	logger  *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(db *sql.DB, logger *slog.Logger) *UserService {
	return &UserService{
		db:      db,
		queries: store.New(db),
		logger:  logger,
	}
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. The first account ever created is an admin;
// counting and inserting share one transaction.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)

	verr := &ValidationError{}
	if in.Name == "" {
		verr.Add("name", "Name is required")
	}
	if in.Email == "" {
		verr.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		verr.Add("email", "Invalid email address")
	}
	if in.Password == "" {
		verr.Add("password", "Password is required")
	} else if len(in.Password) < auth.MinPasswordLength {
		verr.Add("password", fmt.Sprintf("Password must be at least %d characters", auth.MinPasswordLength))
	}
	if err := verr.Err(); err != nil {
		return model.User{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	var created store.User
	err = store.WithTx(ctx, s.db, func(q *store.Queries) error {
		exists, err := q.CountUsersByEmail(ctx, in.Email)
		if err != nil {
			return fmt.Errorf("checking email: %w", err)
		}
		if exists > 0 {
			return ErrEmailTaken
		}

		total, err := q.CountUsers(ctx)
		if err != nil {
			return fmt.Errorf("counting users: %w", err)
		}

		now := time.Now().UTC()
		created, err = q.CreateUser(ctx, store.CreateUserParams{
			Name:         in.Name,
			Email:        in.Email,
			PasswordHash: hash,
			IsAdmin:      total == 0,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			if isUniqueViolation(err) {
				return ErrEmailTaken
			}
			return fmt.Errorf("creating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.User{}, err
	}
	return toUser(created), nil
}

// Authenticate checks credentials. Unknown emails and wrong passwords both
// return ErrInvalidCredentials after comparable work. Legacy hashes are
// upgraded on success.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return model.User{}, NewValidationError("credentials", "Email and password are required")
	}

	u, err := s.queries.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		auth.CheckDummy(password)
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, fmt.Errorf("loading user: %w", err)
	}

	ok, err := auth.CheckPassword(password, u.PasswordHash)
	if err != nil {
		return model.User{}, fmt.Errorf("checking password: %w", err)
	}
	if !ok {
		return model.User{}, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if auth.NeedsRehash(u.PasswordHash) {
		if hash, err := auth.HashPassword(password); err == nil {
			if err := s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				PasswordHash: hash,
				UpdatedAt:    now,
				ID:           u.ID,
			}); err != nil {
				s.logger.Warn("failed to upgrade password hash", "user_id", u.ID, "error", err)
			}
		}
	}
	if err := s.queries.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: now, Valid: true},
		ID:          u.ID,
	}); err != nil {
		s.logger.Warn("failed to record last login", "user_id", u.ID, "error", err)
	}

	return toUser(u), nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	u, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		return model.User{}, notFound(err, "loading user")
	}
	return toUser(u), nil
}

// List returns every user, newest first.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	rows, err := s.queries.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return toUsers(rows), nil
}

// SetAdmin grants or revokes admin rights.
func (s *UserService) SetAdmin(ctx context.Context, id int64, isAdmin bool) (model.User, error) {
	u, err := s.queries.UpdateUserAdmin(ctx, store.UpdateUserAdminParams{
		IsAdmin:   isAdmin,
		UpdatedAt: time.Now().UTC(),
		ID:        id,
	})
	if err != nil {
		return model.User{}, notFound(err, "updating user")
	}
	return toUser(u), nil
}

// MakeAdmin promotes the account with the given email.
func (s *UserService) MakeAdmin(ctx context.Context, email string) (model.User, error) {
	u, err := s.queries.UpdateUserAdminByEmail(ctx, store.UpdateUserAdminByEmailParams{
		IsAdmin:   true,
		UpdatedAt: time.Now().UTC(),
		Email:     NormalizeEmail(email),
	})
	if err != nil {
		return model.User{}, notFound(err, "updating user")
	}
	return toUser(u), nil
}

func toUser(u store.User) model.User {
	return model.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

func toUsers(rows []store.User) []model.User {
	users := make([]model.User, 0, len(rows))
	for _, u := range rows {
		users = append(users, toUser(u))
	}
	return users
}

// notFound maps sql.ErrNoRows to ErrNotFound and wraps anything else.
func notFound(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isUniqueViolation matches the UNIQUE constraint error of both SQLite
// drivers.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
