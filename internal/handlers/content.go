// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"inkwell/internal/cache"
	"inkwell/internal/store"
)

// Content groups the category, tag, article and favorite handlers.
type Content struct {
	categories *store.CategoryStore
	tags       *store.TagStore
	articles   *store.ArticleStore
	favorites  *store.FavoriteStore
	htmlCache  *cache.ArticleCache
}

// NewContent creates the content handler group. htmlCache may be nil, in
// which case article bodies are rendered on every read.
func NewContent(categories *store.CategoryStore, tags *store.TagStore, articles *store.ArticleStore, favorites *store.FavoriteStore, htmlCache *cache.ArticleCache) *Content {
	return &Content{
		categories: categories,
		tags:       tags,
		articles:   articles,
		favorites:  favorites,
		htmlCache:  htmlCache,
	}
}
