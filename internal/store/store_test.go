// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"

	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/slug"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	require.NoError(t, database.Migrate(db), "run migrations")

	t.Cleanup(func() { db.Close() })
	return db
}

// suffix returns a short random string for unique test names.
func suffix() string {
	return uuid.NewString()[:8]
}

// testUser creates a throwaway reader account, removed on cleanup.
func testUser(t *testing.T, db *sql.DB) *models.User {
	t.Helper()
	ctx := context.Background()

	u, err := NewUserStore(db).Create(ctx, "user-"+suffix()+"@inkwell.test", "secret-pass", "Test User", models.RoleAuthor)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Exec("DELETE FROM articles WHERE author_id = $1", u.ID)
		db.Exec("DELETE FROM users WHERE id = $1", u.ID)
	})
	return u
}

// testCategory creates a category, removed on cleanup after its articles.
func testCategory(t *testing.T, db *sql.DB, name string) *models.Category {
	t.Helper()
	name = name + " " + suffix()

	c, err := NewCategoryStore(db).Create(context.Background(), &models.Category{
		Name: name,
		Slug: slug.Generate(name),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Exec("DELETE FROM articles WHERE category_id = $1", c.ID)
		db.Exec("DELETE FROM categories WHERE id = $1", c.ID)
	})
	return c
}

// testTag creates a user-managed tag, removed on cleanup.
func testTag(t *testing.T, db *sql.DB, name string) *models.Tag {
	t.Helper()
	name = name + " " + suffix()

	tag, err := NewTagStore(db).Create(context.Background(), &models.Tag{
		Name: name,
		Slug: slug.Generate(name),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Exec("DELETE FROM tags WHERE id = $1", tag.ID) })
	return tag
}

// testArticle creates an article with the given view count.
func testArticle(t *testing.T, db *sql.DB, author *models.User, cat *models.Category, views int64, tags ...uuid.UUID) *models.Article {
	t.Helper()
	ctx := context.Background()
	title := "Article " + suffix()

	a, err := NewArticleStore(db).Create(ctx, &models.Article{
		Title:      title,
		Slug:       slug.Generate(title),
		Body:       "# Hello",
		CategoryID: cat.ID,
		AuthorID:   author.ID,
		TagIDs:     tags,
	})
	require.NoError(t, err)

	if views > 0 {
		_, err = db.Exec("UPDATE articles SET views = $1 WHERE id = $2", views, a.ID)
		require.NoError(t, err)
		a.Views = views
	}
	t.Cleanup(func() { db.Exec("DELETE FROM articles WHERE id = $1", a.ID) })
	return a
}
