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

// BlogHandler handles the public blog routes: listing, post detail with
// comments, comment submission, and the static pages.
type BlogHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(db *sql.DB, renderer *render.Renderer) *BlogHandler {
	return &BlogHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// baseData builds the template data every view receives: the current
// identity and the derived admin flag.
func (h *BlogHandler) baseData(r *http.Request, title string) render.TemplateData {
	return render.TemplateData{
		Title:   title,
		User:    middleware.GetUser(r),
		IsAdmin: middleware.IsAdmin(r),
	}
}

// Index handles GET / - the post listing, all posts in storage order.
func (h *BlogHandler) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := h.queries.ListPosts(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list posts", "error", err)
		return
	}

	data := h.baseData(r, "")
	data.Data = posts
	renderOrError(w, r, h.renderer, "index", data)
}

// PostDetailData holds data for the post detail template.
type PostDetailData struct {
	Post     model.Post
	Comments []model.CommentWithAuthor
}

// ShowPost handles GET /post/{id} - the post with its comments, each
// comment's author resolved to name and email for display.
func (h *BlogHandler) ShowPost(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(r)
	if !ok {
		renderNotFound(w, r, h.renderer, middleware.GetUser(r), middleware.IsAdmin(r))
		return
	}

	post, err := h.queries.GetPostByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			renderNotFound(w, r, h.renderer, middleware.GetUser(r), middleware.IsAdmin(r))
			return
		}
		logAndInternalError(w, "failed to get post", "error", err, "post_id", id)
		return
	}

	comments, err := h.queries.GetCommentsForPost(r.Context(), id)
	if err != nil {
		logAndInternalError(w, "failed to get comments", "error", err, "post_id", id)
		return
	}

	data := h.baseData(r, post.Title)
	data.Data = PostDetailData{Post: post, Comments: comments}
	renderOrError(w, r, h.renderer, "post", data)
}

// AddComment handles POST /post/{id} - the comment form on the post
// detail page. Requires an authenticated identity; anonymous submissions
// create nothing and are sent to the login page.
func (h *BlogHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		flashError(w, r, h.renderer, RouteLogin, "You need to log in to comment.")
		return
	}

	id, ok := h.postID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	// The post must exist before a comment can reference it.
	if _, err := h.queries.GetPostByID(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to get post", "error", err, "post_id", id)
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, postURL(id)) {
		return
	}

	text := strings.TrimSpace(r.FormValue("text"))
	if text == "" {
		flashError(w, r, h.renderer, postURL(id), "Comment text is required")
		return
	}

	comment, err := h.queries.CreateComment(r.Context(), store.CreateCommentParams{
		AuthorID:  user.ID,
		PostID:    id,
		Text:      text,
		CreatedAt: time.Now(),
	})
	if err != nil {
		logAndInternalError(w, "failed to create comment", "error", err, "post_id", id)
		return
	}

	slog.Info("comment created", "comment_id", comment.ID, "post_id", id, "user_id", user.ID)

	// Return to the conversation, not the listing.
	http.Redirect(w, r, postURL(id), http.StatusSeeOther)
}

// About handles GET /about.
func (h *BlogHandler) About(w http.ResponseWriter, r *http.Request) {
	renderOrError(w, r, h.renderer, "about", h.baseData(r, "About Me"))
}

// Contact handles GET /contact.
func (h *BlogHandler) Contact(w http.ResponseWriter, r *http.Request) {
	renderOrError(w, r, h.renderer, "contact", h.baseData(r, "Contact Me"))
}

// NotFound handles unmatched routes.
func (h *BlogHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderNotFound(w, r, h.renderer, middleware.GetUser(r), middleware.IsAdmin(r))
}

// postID parses the {id} route parameter.
func (h *BlogHandler) postID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// postURL returns the detail URL for a post id.
func postURL(id int64) string {
	return "/post/" + strconv.FormatInt(id, 10)
}
