// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned by mutations that target a missing row.
	// Lookups (FindByID, FindBySlug) return (nil, nil) instead.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique name or slug is already taken.
	ErrDuplicate = errors.New("duplicate")

	// ErrCategoryInUse rejects deleting a category that still has articles.
	ErrCategoryInUse = errors.New("category has articles")

	// ErrBuiltinTag rejects renaming or deleting a system-managed tag.
	ErrBuiltinTag = errors.New("builtin tag cannot be modified")

	// ErrUnknownCategory is returned when an article names a missing category.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrUnknownTag is returned when an article names a missing tag.
	ErrUnknownTag = errors.New("unknown tag")
)

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// pgCode extracts the SQLSTATE from a pgx error, or "" if err is not one.
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// pgConstraint returns the violated constraint name, if any.
func pgConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
