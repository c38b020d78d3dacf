// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/slug"
)

// BuiltinTags are created by Seed and flagged as system-managed.
var BuiltinTags = []string{"Featured", "Announcement"}

// DefaultCategory is created by Seed so authors can publish right away.
const DefaultCategory = "General"

// Seed populates the database with initial development data: a default
// admin user (only when no users exist), the builtin tags, and a default
// category. Safe to call repeatedly.
func Seed(db *sql.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}

	for _, name := range BuiltinTags {
		_, err := db.Exec(`
			INSERT INTO tags (name, slug, builtin) VALUES ($1, $2, TRUE)
			ON CONFLICT (name) DO UPDATE SET builtin = TRUE
		`, name, slug.Generate(name))
		if err != nil {
			return fmt.Errorf("seed builtin tag %q: %w", name, err)
		}
	}

	_, err := db.Exec(`
		INSERT INTO categories (name, slug, description) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING
	`, DefaultCategory, slug.Generate(DefaultCategory), "Articles without a more specific home.")
	if err != nil {
		return fmt.Errorf("seed default category: %w", err)
	}

	slog.Info("database seed applied", "builtin_tags", len(BuiltinTags))
	return nil
}

func seedAdmin(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("users already present, skipping admin seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
	`, "admin@inkwell.local", string(hash), "Admin", "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@inkwell.local",
		"password", "admin",
	)
	return nil
}
