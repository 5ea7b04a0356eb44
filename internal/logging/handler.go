// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors WARN and ERROR
// records into the events table for auditing.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"goblog/internal/model"
	"goblog/internal/store"
)

// EventLogHandler wraps another slog.Handler and also writes records at
// or above its threshold to the events table.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
}

// NewEventLogHandler creates an EventLogHandler forwarding WARN and above.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   slog.LevelWarn,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.writeEvent(r)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{inner: h.inner.WithAttrs(attrs), queries: h.queries, level: h.level}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{inner: h.inner.WithGroup(name), queries: h.queries, level: h.level}
}

// writeEvent stores a log record in the events table. A background context
// is used so the event survives request cancellation.
func (h *EventLogHandler) writeEvent(r slog.Record) {
	level := model.EventLevelWarning
	if r.Level >= slog.LevelError {
		level = model.EventLevelError
	}

	category := model.EventCategorySystem
	attrs := make(map[string]string)
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return true
		}
		attrs[a.Key] = a.Value.String()
		return true
	})

	metadata := "{}"
	if len(attrs) > 0 {
		if b, err := json.Marshal(attrs); err == nil {
			metadata = string(b)
		}
	}

	_, _ = h.queries.CreateEvent(context.Background(), store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   r.Message,
		UserID:    sql.NullInt64{},
		Metadata:  metadata,
		CreatedAt: r.Time,
	})
}
