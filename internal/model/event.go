// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Event levels.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories.
const (
	EventCategoryAuth    = "auth"
	EventCategoryContent = "content"
	EventCategorySystem  = "system"
)

// Event is an audit log record. Auth and admin actions write events
// directly; the logging handler mirrors WARN+ slog records here too.
type Event struct {
	ID        int64         `json:"id"`
	Level     string        `json:"level"`
	Category  string        `json:"category"`
	Message   string        `json:"message"`
	UserID    sql.NullInt64 `json:"user_id,omitempty"`
	Metadata  string        `json:"metadata"`
	CreatedAt time.Time     `json:"created_at"`
}
