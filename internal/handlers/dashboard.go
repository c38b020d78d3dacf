// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/stats"
)

// storeRetryAfter is the Retry-After hint, in seconds, sent while the
// statistics store is unavailable.
const storeRetryAfter = "5"

// StatsComputer produces a dashboard snapshot. *stats.Engine implements it.
type StatsComputer interface {
	Compute(ctx context.Context) (*models.StatsSnapshot, error)
}

// Dashboard serves the statistics endpoint.
type Dashboard struct {
	stats   StatsComputer
	timeout time.Duration
}

// NewDashboard creates the dashboard handler. A zero timeout leaves the
// computation bounded only by the request context.
func NewDashboard(s StatsComputer, timeout time.Duration) *Dashboard {
	return &Dashboard{stats: s, timeout: timeout}
}

// Stats handles GET /dashboard/stats. The request carries no parameters;
// any query string or body is rejected before the store is touched.
func (d *Dashboard) Stats(w http.ResponseWriter, r *http.Request) {
	if r.URL.RawQuery != "" {
		writeError(w, http.StatusBadRequest, "this endpoint takes no parameters")
		return
	}
	if hasBody(r) {
		writeError(w, http.StatusBadRequest, "this endpoint takes no request body")
		return
	}

	ctx := r.Context()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	snap, err := d.stats.Compute(ctx)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, snap)
	case errors.Is(err, stats.ErrIntegrityViolation):
		writeError(w, http.StatusInternalServerError, "statistics integrity violation")
	case errors.Is(err, stats.ErrStoreUnavailable):
		w.Header().Set("Retry-After", storeRetryAfter)
		writeError(w, http.StatusServiceUnavailable, "statistics store unavailable")
	default:
		slog.Error("dashboard stats failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func hasBody(r *http.Request) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return false
	}
	b, _ := io.ReadAll(io.LimitReader(r.Body, 1))
	return len(b) > 0
}
