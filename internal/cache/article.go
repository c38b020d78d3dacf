// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// article.go caches the HTML rendering of article bodies in Valkey so a
// read skips the markdown conversion. Keys carry the article's updated_at,
// so an edit naturally misses the stale entry; Invalidate drops the old
// versions eagerly.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	articleKeyPrefix = "article:html:"

	// DefaultArticleTTL is how long a rendered body stays cached.
	DefaultArticleTTL = 10 * time.Minute
)

// ArticleCache stores rendered article HTML.
type ArticleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewArticleCache creates an article cache. A zero ttl uses DefaultArticleTTL.
func NewArticleCache(client *redis.Client, ttl time.Duration) *ArticleCache {
	if ttl == 0 {
		ttl = DefaultArticleTTL
	}
	return &ArticleCache{client: client, ttl: ttl}
}

// ArticleKey returns the cache key for one revision of an article.
func ArticleKey(id uuid.UUID, updatedAt time.Time) string {
	return fmt.Sprintf("%s%s:%d", articleKeyPrefix, id, updatedAt.UnixNano())
}

// Get returns the cached HTML. Errors count as a miss.
func (c *ArticleCache) Get(ctx context.Context, id uuid.UUID, updatedAt time.Time) (string, bool) {
	key := ArticleKey(id, updatedAt)
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		slog.Warn("article cache get error", "key", key, "error", err)
		return "", false
	}
	return val, true
}

// Set stores rendered HTML for one revision of an article.
func (c *ArticleCache) Set(ctx context.Context, id uuid.UUID, updatedAt time.Time, html string) {
	key := ArticleKey(id, updatedAt)
	if err := c.client.Set(ctx, key, html, c.ttl).Err(); err != nil {
		slog.Warn("article cache set error", "key", key, "error", err)
	}
}

// Render returns the cached HTML or computes it with render and caches it.
func (c *ArticleCache) Render(ctx context.Context, id uuid.UUID, updatedAt time.Time, render func() (string, error)) (string, error) {
	if html, ok := c.Get(ctx, id, updatedAt); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.Set(ctx, id, updatedAt, html)
	return html, nil
}

// Invalidate removes every cached revision of an article.
func (c *ArticleCache) Invalidate(ctx context.Context, id uuid.UUID) {
	var cursor uint64
	pattern := articleKeyPrefix + id.String() + ":*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("article cache scan error", "article_id", id, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("article cache delete error", "article_id", id, "error", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}
