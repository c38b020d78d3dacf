// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// FavoriteStore records which users favorited which articles.
type FavoriteStore struct {
	db *sql.DB
}

// NewFavoriteStore creates a new FavoriteStore.
func NewFavoriteStore(db *sql.DB) *FavoriteStore {
	return &FavoriteStore{db: db}
}

// Add favorites an article for a user. It is idempotent: the second call
// for the same pair reports created=false. A missing article or user
// yields ErrNotFound.
func (s *FavoriteStore) Add(ctx context.Context, articleID, userID uuid.UUID) (bool, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO favorites (article_id, user_id) VALUES ($1, $2)
		ON CONFLICT (article_id, user_id) DO NOTHING
		RETURNING id
	`, articleID, userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if pgCode(err) == pgForeignKeyViolation {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	return true, nil
}

// Remove deletes a user's favorite. Reports whether a row was removed.
func (s *FavoriteStore) Remove(ctx context.Context, articleID, userID uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE article_id = $1 AND user_id = $2`, articleID, userID)
	if err != nil {
		return false, fmt.Errorf("remove favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// CountForArticle returns how many users favorited an article.
func (s *FavoriteStore) CountForArticle(ctx context.Context, articleID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE article_id = $1`, articleID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return n, nil
}

// ListByUser returns a user's favorites, newest first.
func (s *FavoriteStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, article_id, user_id, created_at
		FROM favorites WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	items := []models.Favorite{}
	for rows.Next() {
		var f models.Favorite
		if err := rows.Scan(&f.ID, &f.ArticleID, &f.UserID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		items = append(items, f)
	}
	return items, rows.Err()
}
