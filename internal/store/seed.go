// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"goblog/internal/auth"
	"goblog/internal/model"
)

// SeedAdminParams holds the first-boot admin credentials.
type SeedAdminParams struct {
	Email    string
	Password string
	Name     string
}

// SeedAdmin creates the admin account on first boot. The admin must be the
// first row inserted so it receives the reserved id 1; if any user already
// exists, seeding is skipped.
func SeedAdmin(ctx context.Context, db *sql.DB, arg SeedAdminParams) error {
	queries := New(db)

	count, err := queries.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		slog.Debug("users exist, skipping admin seed")
		return nil
	}

	passwordHash, err := auth.HashPassword(arg.Password)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        arg.Email,
		PasswordHash: passwordHash,
		Name:         arg.Name,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	if user.ID != model.AdminUserID {
		return errors.New("admin user did not receive the reserved id")
	}

	slog.Info("created admin user", "id", user.ID, "email", user.Email)
	return nil
}
