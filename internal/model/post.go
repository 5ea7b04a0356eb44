// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// DateFormat is the human-readable creation date stamped on every post.
// The stamp is immutable after creation.
const DateFormat = "January 2, 2006"

// Post represents a blog post. Title is unique across all posts; AuthorID
// always references the admin account that created it.
type Post struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"author_id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	Date      string    `json:"date"`
	Body      string    `json:"body"`
	ImgURL    string    `json:"img_url"`
	CreatedAt time.Time `json:"created_at"`
}
