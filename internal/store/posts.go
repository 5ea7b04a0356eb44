// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"goblog/internal/model"
)

// CreatePostParams holds the fields for CreatePost.
type CreatePostParams struct {
	AuthorID  int64
	Title     string
	Subtitle  string
	Date      string
	Body      string
	ImgURL    string
	CreatedAt time.Time
}

// CreatePost inserts a new post and returns the stored row. The title
// carries a UNIQUE constraint; callers check for an existing title first.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO posts (author_id, title, subtitle, date, body, img_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id, author_id, title, subtitle, date, body, img_url, created_at`,
		arg.AuthorID, arg.Title, arg.Subtitle, arg.Date, arg.Body, arg.ImgURL, arg.CreatedAt,
	)
	return scanPost(row)
}

// GetPostByID returns the post with the given id, or sql.ErrNoRows.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, author_id, title, subtitle, date, body, img_url, created_at
		FROM posts WHERE id = ?`, id,
	)
	return scanPost(row)
}

// GetPostByTitle returns the post with the given title, or sql.ErrNoRows.
// Used for the duplicate-title check on creation.
func (q *Queries) GetPostByTitle(ctx context.Context, title string) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, author_id, title, subtitle, date, body, img_url, created_at
		FROM posts WHERE title = ?`, title,
	)
	return scanPost(row)
}

// ListPosts returns all posts in storage (id) order.
func (q *Queries) ListPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, author_id, title, subtitle, date, body, img_url, created_at
		FROM posts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// UpdatePostParams holds the editable fields for UpdatePost. Date and
// author are never modified by edit.
type UpdatePostParams struct {
	ID       int64
	Title    string
	Subtitle string
	Body     string
	ImgURL   string
}

// UpdatePost overwrites the four editable fields of a post in place.
func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE posts SET title = ?, subtitle = ?, body = ?, img_url = ?
		WHERE id = ?`,
		arg.Title, arg.Subtitle, arg.Body, arg.ImgURL, arg.ID,
	)
	return err
}

// DeletePost removes a post. Its comments are removed by the cascade on
// comments.post_id.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	return err
}

func scanPost(row rowScanner) (model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Subtitle, &p.Date, &p.Body, &p.ImgURL, &p.CreatedAt)
	return p, err
}
