// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for current-user resolution,
// the admin guard, CSRF protection, and request hygiene.
package middleware

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"goblog/internal/model"
	"goblog/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyUser is the context key holding the current user.
const ContextKeyUser ContextKey = "user"

// SessionKeyUserID is the session key for the authenticated user id.
const SessionKeyUserID = "user_id"

// LoadUser resolves the session's user id into a model.User in the request
// context. Requests without a session, or with a stale user id, continue
// anonymously; stale ids also get their session destroyed.
func LoadUser(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), SessionKeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil {
				// Stale session pointing at a user that no longer resolves.
				_ = sm.Destroy(r.Context())
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil for anonymous requests.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}

// IsAdmin reports whether the request's identity is the reserved admin.
func IsAdmin(r *http.Request) bool {
	user := GetUser(r)
	return user != nil && user.IsAdmin()
}

// RequireAdmin gates a route on the reserved admin identity (user id 1).
// Anonymous requests and any other identity receive 403 Forbidden and the
// wrapped handler never runs.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r)
		if user == nil || !user.IsAdmin() {
			userID := int64(0)
			if user != nil {
				userID = user.ID
			}
			slog.Warn("access denied",
				"status", http.StatusForbidden,
				"method", r.Method,
				"path", r.URL.Path,
				"user_id", userID,
				"remote_addr", r.RemoteAddr,
			)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
