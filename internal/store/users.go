// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"goblog/internal/model"
)

// CreateUserParams holds the fields for CreateUser.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}

// CreateUser inserts a new user and returns the stored row.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, name, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id, email, password_hash, name, created_at`,
		arg.Email, arg.PasswordHash, arg.Name, arg.CreatedAt,
	)
	return scanUser(row)
}

// GetUserByID returns the user with the given id, or sql.ErrNoRows.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, created_at
		FROM users WHERE id = ?`, id,
	)
	return scanUser(row)
}

// GetUserByEmail returns the user with the given email, or sql.ErrNoRows.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, created_at
		FROM users WHERE email = ?`, email,
	)
	return scanUser(row)
}

// CountUsers returns the total number of registered users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// UpdateUserPasswordParams holds the fields for UpdateUserPassword.
type UpdateUserPasswordParams struct {
	ID           int64
	PasswordHash string
}

// UpdateUserPassword replaces a user's password hash. Used when a stored
// hash needs re-creation with current parameters.
func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ? WHERE id = ?`,
		arg.PasswordHash, arg.ID,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt)
	return u, err
}
