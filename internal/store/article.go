// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// ArticleStore handles article persistence, including the article/tag links.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore creates a new ArticleStore.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// articleSelect reads articles with their tag ids folded into one
// comma-separated column.
const articleSelect = `
	SELECT a.id, a.title, a.slug, a.body, a.category_id, a.author_id, a.views,
	       a.created_at, a.updated_at,
	       COALESCE(string_agg(at.tag_id::text, ',' ORDER BY at.tag_id), '') AS tag_ids
	FROM articles a
	LEFT JOIN article_tags at ON at.article_id = a.id
`

func scanArticle(scanner interface{ Scan(...any) error }) (*models.Article, error) {
	var a models.Article
	var tagIDs string
	err := scanner.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Body, &a.CategoryID, &a.AuthorID, &a.Views,
		&a.CreatedAt, &a.UpdatedAt, &tagIDs,
	)
	if err != nil {
		return nil, err
	}
	a.TagIDs, err = parseIDList(tagIDs)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func parseIDList(s string) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if s == "" {
		return ids, nil
	}
	for _, part := range strings.Split(s, ",") {
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, fmt.Errorf("parse tag id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// List returns articles newest first, optionally narrowed by category or tag.
func (s *ArticleStore) List(ctx context.Context, f models.ArticleFilter) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, articleSelect+`
		WHERE ($1::uuid IS NULL OR a.category_id = $1)
		  AND ($2::uuid IS NULL OR EXISTS (
		        SELECT 1 FROM article_tags ft WHERE ft.article_id = a.id AND ft.tag_id = $2))
		GROUP BY a.id
		ORDER BY a.created_at DESC
	`, f.CategoryID, f.TagID)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	items := []models.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// FindByID retrieves an article by ID. Returns nil if not found.
func (s *ArticleStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	return s.findOne(ctx, "a.id = $1", id)
}

// FindBySlug retrieves an article by slug. Returns nil if not found.
func (s *ArticleStore) FindBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return s.findOne(ctx, "a.slug = $1", slug)
}

func (s *ArticleStore) findOne(ctx context.Context, where string, arg any) (*models.Article, error) {
	row := s.db.QueryRowContext(ctx, articleSelect+` WHERE `+where+` GROUP BY a.id`, arg)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article: %w", err)
	}
	return a, nil
}

// Create inserts an article and its tag links in one transaction.
func (s *ArticleStore) Create(ctx context.Context, a *models.Article) (*models.Article, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id uuid.UUID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO articles (title, slug, body, category_id, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, a.Title, a.Slug, a.Body, a.CategoryID, a.AuthorID).Scan(&id)
	if err != nil {
		return nil, articleWriteError("create article", err)
	}

	if err := linkTags(ctx, tx, id, a.TagIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit article: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Update replaces an article's fields and its whole tag set atomically.
// Views are not touched; they only move through IncrementViews.
func (s *ArticleStore) Update(ctx context.Context, a *models.Article) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE articles SET title = $1, slug = $2, body = $3, category_id = $4,
		       updated_at = NOW()
		WHERE id = $5
	`, a.Title, a.Slug, a.Body, a.CategoryID, a.ID)
	if err != nil {
		return articleWriteError("update article", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM article_tags WHERE article_id = $1`, a.ID); err != nil {
		return fmt.Errorf("clear article tags: %w", err)
	}
	if err := linkTags(ctx, tx, a.ID, a.TagIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes an article. Its favorites and tag links go with it in the
// same statement (ON DELETE CASCADE).
func (s *ArticleStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return requireAffected(res)
}

// IncrementViews bumps the view counter and returns the new value.
func (s *ArticleStore) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	var views int64
	err := s.db.QueryRowContext(ctx,
		`UPDATE articles SET views = views + 1 WHERE id = $1 RETURNING views`, id,
	).Scan(&views)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment views: %w", err)
	}
	return views, nil
}

// linkTags inserts the article/tag rows. Duplicate ids collapse to one link.
func linkTags(ctx context.Context, tx *sql.Tx, articleID uuid.UUID, tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO article_tags (article_id, tag_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("prepare tag link: %w", err)
	}
	defer stmt.Close()

	for _, tagID := range tagIDs {
		if _, err := stmt.ExecContext(ctx, articleID, tagID); err != nil {
			if pgCode(err) == pgForeignKeyViolation {
				return fmt.Errorf("%w: %s", ErrUnknownTag, tagID)
			}
			return fmt.Errorf("link tag %s: %w", tagID, err)
		}
	}
	return nil
}

// articleWriteError maps constraint violations on the articles table.
func articleWriteError(op string, err error) error {
	switch pgCode(err) {
	case pgUniqueViolation:
		return ErrDuplicate
	case pgForeignKeyViolation:
		if strings.Contains(pgConstraint(err), "category") {
			return ErrUnknownCategory
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
