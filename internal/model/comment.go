// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Comment represents a reader comment on a post. Comments are never edited
// or deleted through the application; deleting a post cascades to them.
type Comment struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"author_id"`
	PostID    int64     `json:"post_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentWithAuthor is a comment joined with its author's display fields.
type CommentWithAuthor struct {
	Comment
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
}
