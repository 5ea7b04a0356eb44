// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"goblog/internal/model"
)

// CreateCommentParams holds the fields for CreateComment.
type CreateCommentParams struct {
	AuthorID  int64
	PostID    int64
	Text      string
	CreatedAt time.Time
}

// CreateComment inserts a new comment and returns the stored row. Both
// foreign keys must reference existing rows; the caller verifies the post
// exists first, the acting user comes from the session.
func (q *Queries) CreateComment(ctx context.Context, arg CreateCommentParams) (model.Comment, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO comments (author_id, post_id, text, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id, author_id, post_id, text, created_at`,
		arg.AuthorID, arg.PostID, arg.Text, arg.CreatedAt,
	)
	var c model.Comment
	err := row.Scan(&c.ID, &c.AuthorID, &c.PostID, &c.Text, &c.CreatedAt)
	return c, err
}

// GetCommentsForPost returns a post's comments in storage order, each
// joined with its author's name and email for display.
func (q *Queries) GetCommentsForPost(ctx context.Context, postID int64) ([]model.CommentWithAuthor, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT c.id, c.author_id, c.post_id, c.text, c.created_at, u.name, u.email
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ?
		ORDER BY c.id`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []model.CommentWithAuthor
	for rows.Next() {
		var c model.CommentWithAuthor
		if err := rows.Scan(&c.ID, &c.AuthorID, &c.PostID, &c.Text, &c.CreatedAt, &c.AuthorName, &c.AuthorEmail); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CountCommentsForPost returns the number of comments on a post.
func (q *Queries) CountCommentsForPost(ctx context.Context, postID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM comments WHERE post_id = ?`, postID).Scan(&n)
	return n, err
}
