// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sql.DB used by Queries. It allows running the
// same queries inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries wraps a database handle with typed query methods.
type Queries struct {
	db DBTX
}

// New creates a Queries value over the given database handle.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}
