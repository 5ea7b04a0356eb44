// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"goblog/internal/model"
	"goblog/internal/render"
	"goblog/internal/store"
)

// Route patterns for chi router registration.
const (
	RouteRoot     = "/"
	RouteRegister = "/register"
	RouteLogin    = "/login"
	RouteLogout   = "/logout"
	RoutePost     = "/post/{id}"
	RouteAbout    = "/about"
	RouteContact  = "/contact"
	RouteNewPost  = "/new-post"
	RouteEditPost = "/edit-post/{id}"
	RouteDelete   = "/delete/{id}"
	RouteHealth   = "/health"
)

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) for POST redirects.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, "error")
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, "success")
}

// parseFormOrRedirect parses the request form and redirects with an error
// message on failure. Returns true if parsing succeeded.
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, renderer, redirectURL, "Invalid form data")
		return false
	}
	return true
}

// logAndInternalError logs an error and writes a 500 response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// recordEvent appends an audit event. Failures are logged and swallowed;
// auditing never blocks the request.
func recordEvent(ctx context.Context, queries *store.Queries, level, category, message string, userID *int64, metadata map[string]any) {
	uid := sql.NullInt64{}
	if userID != nil {
		uid = sql.NullInt64{Int64: *userID, Valid: true}
	}

	meta := "{}"
	if len(metadata) > 0 {
		if b, err := json.Marshal(metadata); err == nil {
			meta = string(b)
		}
	}

	if _, err := queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    uid,
		Metadata:  meta,
		CreatedAt: time.Now(),
	}); err != nil {
		slog.Error("failed to record event", "error", err, "message", message)
	}
}

// renderOrError renders a template and falls back to a 500 on failure.
func renderOrError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, name string, data render.TemplateData) {
	if err := renderer.Render(w, r, name, data); err != nil {
		logAndInternalError(w, "template rendering error", "error", err, "template", name)
	}
}

// renderNotFound renders the 404 page.
func renderNotFound(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, user *model.User, isAdmin bool) {
	data := render.TemplateData{
		Title:   "Page Not Found",
		User:    user,
		IsAdmin: isAdmin,
	}
	if err := renderer.RenderStatus(w, r, http.StatusNotFound, "404", data); err != nil {
		slog.Error("template rendering error", "error", err, "template", "404")
		http.NotFound(w, r)
	}
}
