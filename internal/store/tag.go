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

// TagStore manages tags in the database.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

const tagColumns = `id, name, slug, builtin, created_at, updated_at`

func scanTag(scanner interface{ Scan(...any) error }) (*models.Tag, error) {
	var t models.Tag
	if err := scanner.Scan(&t.ID, &t.Name, &t.Slug, &t.Builtin, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all tags, builtin tags first, then by name.
func (s *TagStore) List(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+tagColumns+` FROM tags ORDER BY builtin DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	items := []models.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// FindByID retrieves a tag by ID. Returns nil if not found.
func (s *TagStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	t, err := scanTag(s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by id: %w", err)
	}
	return t, nil
}

// Create inserts a user-managed tag. The builtin flag is never set here;
// builtin tags only come from the database seed.
func (s *TagStore) Create(ctx context.Context, t *models.Tag) (*models.Tag, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO tags (name, slug) VALUES ($1, $2)
		RETURNING `+tagColumns,
		t.Name, t.Slug,
	)
	result, err := scanTag(row)
	if pgCode(err) == pgUniqueViolation {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return result, nil
}

// Update renames a tag. Builtin tags are rejected with ErrBuiltinTag.
func (s *TagStore) Update(ctx context.Context, t *models.Tag) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tags SET name = $1, slug = $2, updated_at = NOW()
		WHERE id = $3 AND NOT builtin
	`, t.Name, t.Slug, t.ID)
	if pgCode(err) == pgUniqueViolation {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("update tag: %w", err)
	}
	return s.explainMiss(ctx, res, t.ID)
}

// Delete removes a tag and its article links. Builtin tags are rejected.
func (s *TagStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1 AND NOT builtin`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return s.explainMiss(ctx, res, id)
}

// explainMiss distinguishes "no such tag" from "tag is builtin" after a
// guarded mutation touched zero rows.
func (s *TagStore) explainMiss(ctx context.Context, res sql.Result, id uuid.UUID) error {
	err := requireAffected(res)
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	t, ferr := s.FindByID(ctx, id)
	if ferr != nil {
		return ferr
	}
	if t != nil && t.Builtin {
		return ErrBuiltinTag
	}
	return ErrNotFound
}
