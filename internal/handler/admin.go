// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"goblog/internal/middleware"
	"goblog/internal/model"
	"goblog/internal/render"
	"goblog/internal/store"
)

// AdminHandler handles post authoring: create, edit, and delete. All of
// its routes sit behind middleware.RequireAdmin.
type AdminHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer) *AdminHandler {
	return &AdminHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// PostFormData holds data for the shared create/edit template.
type PostFormData struct {
	Heading string
	Action  string
	Post    model.Post
}

// NewPostForm handles GET /new-post.
func (h *AdminHandler) NewPostForm(w http.ResponseWriter, r *http.Request) {
	data := render.TemplateData{
		Title:   "New Post",
		User:    middleware.GetUser(r),
		IsAdmin: true,
		Data: PostFormData{
			Heading: "New Post",
			Action:  RouteNewPost,
		},
	}
	renderOrError(w, r, h.renderer, "make-post", data)
}

// CreatePost handles POST /new-post. The date field is stamped at
// creation and never changes afterwards.
func (h *AdminHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	if !parseFormOrRedirect(w, r, h.renderer, RouteNewPost) {
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	subtitle := strings.TrimSpace(r.FormValue("subtitle"))
	body := r.FormValue("body")
	imgURL := strings.TrimSpace(r.FormValue("img_url"))

	if title == "" || body == "" {
		flashError(w, r, h.renderer, RouteNewPost, "Title and body are required")
		return
	}

	if _, err := h.queries.GetPostByTitle(r.Context(), title); err == nil {
		flashError(w, r, h.renderer, RouteNewPost, "A post with that title already exists.")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		logAndInternalError(w, "failed to check post title", "error", err)
		return
	}

	now := time.Now()
	post, err := h.queries.CreatePost(r.Context(), store.CreatePostParams{
		AuthorID:  user.ID,
		Title:     title,
		Subtitle:  subtitle,
		Date:      now.Format(model.DateFormat),
		Body:      body,
		ImgURL:    imgURL,
		CreatedAt: now,
	})
	if err != nil {
		logAndInternalError(w, "failed to create post", "error", err, "title", title)
		return
	}

	slog.Info("post created", "post_id", post.ID, "title", post.Title)
	recordEvent(r.Context(), h.queries, model.EventLevelInfo, model.EventCategoryContent,
		"post created", &user.ID, map[string]any{"post_id": post.ID, "title": post.Title})

	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// EditPostForm handles GET /edit-post/{id} - the create form pre-filled
// with the post's current fields.
func (h *AdminHandler) EditPostForm(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok {
		return
	}

	data := render.TemplateData{
		Title:   "Edit Post",
		User:    middleware.GetUser(r),
		IsAdmin: true,
		Data: PostFormData{
			Heading: "Edit Post",
			Action:  "/edit-post/" + strconv.FormatInt(post.ID, 10),
			Post:    post,
		},
	}
	renderOrError(w, r, h.renderer, "make-post", data)
}

// UpdatePost handles POST /edit-post/{id}. Only title, subtitle, body
// and image URL change; date and author are preserved.
func (h *AdminHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok {
		return
	}

	editURL := "/edit-post/" + strconv.FormatInt(post.ID, 10)
	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	subtitle := strings.TrimSpace(r.FormValue("subtitle"))
	body := r.FormValue("body")
	imgURL := strings.TrimSpace(r.FormValue("img_url"))

	if title == "" || body == "" {
		flashError(w, r, h.renderer, editURL, "Title and body are required")
		return
	}

	// The new title may only collide with this post's own.
	if existing, err := h.queries.GetPostByTitle(r.Context(), title); err == nil {
		if existing.ID != post.ID {
			flashError(w, r, h.renderer, editURL, "A post with that title already exists.")
			return
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		logAndInternalError(w, "failed to check post title", "error", err)
		return
	}

	if err := h.queries.UpdatePost(r.Context(), store.UpdatePostParams{
		ID:       post.ID,
		Title:    title,
		Subtitle: subtitle,
		Body:     body,
		ImgURL:   imgURL,
	}); err != nil {
		logAndInternalError(w, "failed to update post", "error", err, "post_id", post.ID)
		return
	}

	user := middleware.GetUser(r)
	slog.Info("post updated", "post_id", post.ID)
	recordEvent(r.Context(), h.queries, model.EventLevelInfo, model.EventCategoryContent,
		"post updated", &user.ID, map[string]any{"post_id": post.ID})

	http.Redirect(w, r, postURL(post.ID), http.StatusSeeOther)
}

// DeletePost handles GET /delete/{id}. The post's comments go with it
// via the cascade on comments.post_id.
func (h *AdminHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeletePost(r.Context(), post.ID); err != nil {
		logAndInternalError(w, "failed to delete post", "error", err, "post_id", post.ID)
		return
	}

	user := middleware.GetUser(r)
	slog.Info("post deleted", "post_id", post.ID, "title", post.Title)
	recordEvent(r.Context(), h.queries, model.EventLevelWarning, model.EventCategoryContent,
		"post deleted", &user.ID, map[string]any{"post_id": post.ID, "title": post.Title})

	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// loadPost resolves the {id} route parameter to a post, rendering a 404
// when the id is malformed or the post does not exist.
func (h *AdminHandler) loadPost(w http.ResponseWriter, r *http.Request) (model.Post, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		renderNotFound(w, r, h.renderer, middleware.GetUser(r), true)
		return model.Post{}, false
	}

	post, err := h.queries.GetPostByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			renderNotFound(w, r, h.renderer, middleware.GetUser(r), true)
			return model.Post{}, false
		}
		logAndInternalError(w, "failed to get post", "error", err, "post_id", id)
		return model.Post{}, false
	}
	return post, true
}
