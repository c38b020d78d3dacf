// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Article is a blog post. Body holds Markdown source.
type Article struct {
	ID         uuid.UUID   `json:"id"`
	Title      string      `json:"title"`
	Slug       string      `json:"slug"`
	Body       string      `json:"body"`
	CategoryID uuid.UUID   `json:"category_id"`
	AuthorID   uuid.UUID   `json:"author_id"`
	Views      int64       `json:"views"`
	TagIDs     []uuid.UUID `json:"tag_ids"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// ArticleFilter narrows ArticleStore.List. Zero values match everything.
type ArticleFilter struct {
	CategoryID *uuid.UUID
	TagID      *uuid.UUID
}
