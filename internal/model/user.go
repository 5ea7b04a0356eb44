// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types shared across the application:
// User, Post, Comment and the audit Event record.
package model

import "time"

// AdminUserID is the reserved id of the single admin account. Only this
// identity may create, edit, or delete posts.
const AdminUserID = 1

// User represents a registered account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin returns true if the user is the reserved admin account.
func (u *User) IsAdmin() bool {
	return u.ID == AdminUserID
}
