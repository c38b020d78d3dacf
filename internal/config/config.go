// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config loads application configuration from environment variables
// and, optionally, a config file carrying the same keys.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	LogLevel slog.Level

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int

	// StatsTimeout bounds one dashboard statistics computation.
	StatsTimeout time.Duration

	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string

	// LoginRateLimit is the number of login attempts allowed per IP per minute.
	LoginRateLimit int
}

var defaults = map[string]any{
	"APP_HOST":          "0.0.0.0",
	"APP_PORT":          "8080",
	"APP_ENV":           "development",
	"LOG_LEVEL":         "info",
	"POSTGRES_HOST":     "localhost",
	"POSTGRES_PORT":     "5432",
	"POSTGRES_USER":     "inkwell",
	"POSTGRES_PASSWORD": "changeme",
	"POSTGRES_DB":       "inkwell",
	"VALKEY_HOST":       "localhost",
	"VALKEY_PORT":       "6379",
	"VALKEY_PASSWORD":   "",
	"VALKEY_DB":         0,
	"STATS_TIMEOUT":     "10s",
	"CORS_ORIGINS":      "",
	"LOGIN_RATE_LIMIT":  10,
}

// Load reads configuration from the environment, layered over the optional
// config file (any format viper reads, e.g. .env or YAML) and the
// development defaults. Environment variables win over the file.
func Load(file string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	statsTimeout, err := time.ParseDuration(v.GetString("STATS_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("STATS_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Host:     v.GetString("APP_HOST"),
		Port:     v.GetString("APP_PORT"),
		Env:      v.GetString("APP_ENV"),
		LogLevel: level,

		DBHost:     v.GetString("POSTGRES_HOST"),
		DBPort:     v.GetString("POSTGRES_PORT"),
		DBUser:     v.GetString("POSTGRES_USER"),
		DBPassword: v.GetString("POSTGRES_PASSWORD"),
		DBName:     v.GetString("POSTGRES_DB"),

		ValkeyHost:     v.GetString("VALKEY_HOST"),
		ValkeyPort:     v.GetString("VALKEY_PORT"),
		ValkeyPassword: v.GetString("VALKEY_PASSWORD"),
		ValkeyDB:       v.GetInt("VALKEY_DB"),

		StatsTimeout:   statsTimeout,
		CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
		LoginRateLimit: v.GetInt("LOGIN_RATE_LIMIT"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Env == "production" && c.DBPassword == "changeme" {
		return errors.New("POSTGRES_PASSWORD must be set in production")
	}
	if c.StatsTimeout <= 0 {
		return errors.New("STATS_TIMEOUT must be positive")
	}
	if c.LoginRateLimit <= 0 {
		return errors.New("LOGIN_RATE_LIMIT must be positive")
	}
	return nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// SecureCookies reports whether session cookies should be marked Secure.
func (c *Config) SecureCookies() bool {
	return c.Env == "production"
}
