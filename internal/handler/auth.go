// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers: registration and login,
// the public blog pages, and the admin-only post authoring routes.
package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"goblog/internal/auth"
	"goblog/internal/middleware"
	"goblog/internal/model"
	"goblog/internal/render"
	"goblog/internal/store"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager) *AuthHandler {
	return &AuthHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
	}
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}

	renderOrError(w, r, h.renderer, "register", render.TemplateData{Title: "Register"})
}

// Register handles the registration form submission. A duplicate email is
// not an error condition: the visitor is sent to the login page instead.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteRegister) {
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	name := strings.TrimSpace(r.FormValue("name"))

	if email == "" || password == "" || name == "" {
		flashError(w, r, h.renderer, RouteRegister, "All fields are required")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		flashError(w, r, h.renderer, RouteRegister, "Invalid email address")
		return
	}

	// Duplicate email: point at the existing account rather than failing.
	if _, err := h.queries.GetUserByEmail(r.Context(), email); err == nil {
		flashError(w, r, h.renderer, RouteLogin, "You've already signed up with that email, log in instead!")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		logAndInternalError(w, "database error during registration", "error", err)
		return
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		logAndInternalError(w, "password hashing error", "error", err)
		return
	}

	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		logAndInternalError(w, "failed to create user", "error", err)
		return
	}

	if err := h.establishSession(r, user.ID); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	recordEvent(r.Context(), h.queries, model.EventLevelInfo, model.EventCategoryAuth,
		"User registered", &user.ID, map[string]any{"email": user.Email})

	flashSuccess(w, r, h.renderer, RouteRoot, "Welcome, "+user.Name+"!")
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}

	renderOrError(w, r, h.renderer, "login", render.TemplateData{Title: "Log In"})
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteLogin) {
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		flashError(w, r, h.renderer, RouteLogin, "Email and password are required")
		return
	}

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Debug("login attempt for non-existent user", "email", email)
			recordEvent(r.Context(), h.queries, model.EventLevelWarning, model.EventCategoryAuth,
				"Login failed: user not found", nil, map[string]any{"email": email})
			flashError(w, r, h.renderer, RouteLogin, "That email does not exist, please try again.")
			return
		}
		logAndInternalError(w, "database error during login", "error", err)
		return
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err)
		flashError(w, r, h.renderer, RouteLogin, "Password incorrect, please try again.")
		return
	}
	if !valid {
		slog.Debug("invalid password attempt", "email", email)
		recordEvent(r.Context(), h.queries, model.EventLevelWarning, model.EventCategoryAuth,
			"Login failed: invalid password", &user.ID, map[string]any{"email": email})
		flashError(w, r, h.renderer, RouteLogin, "Password incorrect, please try again.")
		return
	}

	// Re-hash if the stored hash uses outdated parameters.
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
				ID:           user.ID,
				PasswordHash: newHash,
			}); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			}
		}
	}

	if err := h.establishSession(r, user.ID); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	recordEvent(r.Context(), h.queries, model.EventLevelInfo, model.EventCategoryAuth,
		"User logged in", &user.ID, map[string]any{"email": user.Email})

	flashSuccess(w, r, h.renderer, RouteRoot, "Welcome back, "+user.Name+"!")
}

// Logout destroys the session and returns to the post listing.
// Always succeeds, authenticated or not.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID)

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	if userID > 0 {
		slog.Info("user logged out", "user_id", userID)
		recordEvent(r.Context(), h.queries, model.EventLevelInfo, model.EventCategoryAuth,
			"User logged out", &userID, nil)
	}

	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// establishSession regenerates the session token (preventing fixation)
// and stores the user id.
func (h *AuthHandler) establishSession(r *http.Request, userID int64) error {
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		return err
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, userID)
	return nil
}
