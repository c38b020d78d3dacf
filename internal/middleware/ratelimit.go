// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateKeyPrefix = "ratelimit:"

// RateLimiter is a fixed-window per-IP limiter kept in Valkey, so every
// server instance shares the same counters.
type RateLimiter struct {
	client *redis.Client
	name   string
	limit  int64
	window time.Duration
}

// NewRateLimiter allows limit requests per window for each client IP.
// name separates the counters of different limited routes.
func NewRateLimiter(client *redis.Client, name string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		name:   name,
		limit:  int64(limit),
		window: window,
	}
}

// allow counts one request for key. When the limit is exceeded it returns
// false and the time until the window resets.
func (rl *RateLimiter) allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := rateKeyPrefix + rl.name + ":" + key

	var incr *redis.IntCmd
	_, err := rl.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.ExpireNX(ctx, k, rl.window)
		return nil
	})
	if err != nil {
		return true, 0, err
	}
	if incr.Val() <= rl.limit {
		return true, 0, nil
	}

	ttl, err := rl.client.PTTL(ctx, k).Result()
	if err != nil || ttl < 0 {
		ttl = rl.window
	}
	return false, ttl, nil
}

// Middleware rejects requests over the limit with 429 and Retry-After.
// If Valkey is unreachable requests are let through.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait, err := rl.allow(r.Context(), clientIP(r))
		if err != nil {
			slog.Warn("rate limiter unavailable", "limiter", rl.name, "error", err)
		}
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client's IP address, checking X-Forwarded-For
// and X-Real-IP headers for proxied requests.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
