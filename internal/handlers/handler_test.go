// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"inkwell/internal/cache"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/session"
	"inkwell/internal/stats"
	"inkwell/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}
	require.NoError(t, database.Migrate(db), "migrate")

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "article:html:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})
	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB        *sql.DB
	Sessions  *session.Store
	Users     *store.UserStore
	Content   *Content
	Auth      *Auth
	Dashboard *Dashboard
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	users := store.NewUserStore(db)

	return &testEnv{
		DB:       db,
		Sessions: sessions,
		Users:    users,
		Content: NewContent(store.NewCategoryStore(db), store.NewTagStore(db), store.NewArticleStore(db),
			store.NewFavoriteStore(db), cache.NewArticleCache(vk, time.Minute)),
		Auth:      NewAuth(sessions, users),
		Dashboard: NewDashboard(stats.New(store.NewStatsStore(db)), 5*time.Second),
	}
}

// newUser creates a user with the given role, removed on cleanup along
// with its articles.
func (e *testEnv) newUser(t *testing.T, role models.Role) *models.User {
	t.Helper()
	u, err := e.Users.Create(context.Background(), "h-"+uuid.NewString()[:8]+"@inkwell.test", "password1", "Handler Test", role)
	require.NoError(t, err)
	t.Cleanup(func() {
		e.DB.Exec("DELETE FROM articles WHERE author_id = $1", u.ID)
		e.DB.Exec("DELETE FROM users WHERE id = $1", u.ID)
	})
	return u
}

// call routes a single request through a chi router holding one handler,
// so URL parameters resolve as in production. A non-nil user is put into
// the request context as the session.
func call(t *testing.T, method, pattern, target string, h http.HandlerFunc, body any, user *models.User) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if user != nil {
		req = req.WithContext(middleware.WithSession(req.Context(), session.FromUser(user)))
	}

	r := chi.NewRouter()
	r.Method(method, pattern, h)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

// decode unmarshals a response body into T.
func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}
