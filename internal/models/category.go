// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups articles. Every article belongs to exactly one category.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual field populated by CategoryStore.List.
	ArticleCount int `json:"article_count"`
}

// Ref returns the compact {id, name} form embedded in statistics.
func (c *Category) Ref() CategoryRef {
	return CategoryRef{ID: c.ID, Name: c.Name}
}
