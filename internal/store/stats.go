// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// stats.go implements the read side the dashboard statistics engine
// consumes. Each method is a single statement; the engine does the
// grouping in one pass per relation.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"inkwell/internal/models"
	"inkwell/internal/stats"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// StatsStore serves stats.Reader on top of PostgreSQL.
type StatsStore struct {
	db *sql.DB
}

// NewStatsStore returns a new StatsStore.
func NewStatsStore(db *sql.DB) *StatsStore {
	return &StatsStore{db: db}
}

// ReadSnapshot runs fn inside a read-only REPEATABLE READ transaction so
// every query fn issues sees the same committed state.
func (s *StatsStore) ReadSnapshot(ctx context.Context, fn func(stats.Source) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if err != nil {
		return fmt.Errorf("begin stats tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(statsSource{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit stats tx: %w", err)
	}
	return nil
}

// statsSource runs the stats queries against one transaction.
type statsSource struct {
	q queryer
}

func (s statsSource) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("stats categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

func (s statsSource) Tags(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+tagColumns+` FROM tags ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("stats tags: %w", err)
	}
	defer rows.Close()

	var items []models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

func (s statsSource) Articles(ctx context.Context) ([]stats.ArticleRow, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT id, category_id, views FROM articles`)
	if err != nil {
		return nil, fmt.Errorf("stats articles: %w", err)
	}
	defer rows.Close()

	var items []stats.ArticleRow
	for rows.Next() {
		var a stats.ArticleRow
		if err := rows.Scan(&a.ID, &a.CategoryID, &a.Views); err != nil {
			return nil, fmt.Errorf("scan article row: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (s statsSource) FavoriteTallies(ctx context.Context) ([]stats.FavoriteTally, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT article_id, COUNT(*)
		FROM favorites
		GROUP BY article_id
	`)
	if err != nil {
		return nil, fmt.Errorf("stats favorites: %w", err)
	}
	defer rows.Close()

	var items []stats.FavoriteTally
	for rows.Next() {
		var f stats.FavoriteTally
		if err := rows.Scan(&f.ArticleID, &f.Count); err != nil {
			return nil, fmt.Errorf("scan favorite tally: %w", err)
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

func (s statsSource) TagLinks(ctx context.Context) ([]stats.TagLink, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT tag_id, article_id FROM article_tags`)
	if err != nil {
		return nil, fmt.Errorf("stats tag links: %w", err)
	}
	defer rows.Close()

	var items []stats.TagLink
	for rows.Next() {
		var l stats.TagLink
		if err := rows.Scan(&l.TagID, &l.ArticleID); err != nil {
			return nil, fmt.Errorf("scan tag link: %w", err)
		}
		items = append(items, l)
	}
	return items, rows.Err()
}
