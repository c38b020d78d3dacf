// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every key Load reads. Empty values fall through to the
// defaults, the same as unset ones.
func clearEnv(t *testing.T) {
	t.Helper()
	for key := range defaults {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "inkwell", cfg.DBUser)
	assert.Equal(t, "changeme", cfg.DBPassword)
	assert.Equal(t, "localhost", cfg.ValkeyHost)
	assert.Equal(t, 0, cfg.ValkeyDB)
	assert.Equal(t, 10*time.Second, cfg.StatsTimeout)
	assert.Empty(t, cfg.CORSOrigins)
	assert.Equal(t, 10, cfg.LoginRateLimit)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.SecureCookies())
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("STATS_TIMEOUT", "250ms")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,,")
	t.Setenv("LOGIN_RATE_LIMIT", "3")
	t.Setenv("VALKEY_DB", "2")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.StatsTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 3, cfg.LoginRateLimit)
	assert.Equal(t, 2, cfg.ValkeyDB)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "7070")

	path := filepath.Join(t.TempDir(), "inkwell.env")
	require.NoError(t, os.WriteFile(path, []byte("APP_PORT=6060\nPOSTGRES_DB=fromfile\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.DBName)
	assert.Equal(t, "7070", cfg.Port, "environment wins over the file")
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"production default password", map[string]string{"APP_ENV": "production"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
		{"bad timeout", map[string]string{"STATS_TIMEOUT": "soon"}},
		{"zero timeout", map[string]string{"STATS_TIMEOUT": "0s"}},
		{"zero rate limit", map[string]string{"LOGIN_RATE_LIMIT": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadProduction(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("POSTGRES_PASSWORD", "s3cret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.SecureCookies())
	assert.False(t, cfg.IsDev())
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p@ss", DBHost: "db", DBPort: "5432", DBName: "ink"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/ink?sslmode=disable", cfg.DSN())
}
