// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package stats

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultOK          = "ok"
	resultUnavailable = "store_unavailable"
	resultIntegrity   = "integrity_violation"
)

var (
	computeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inkwell_stats_compute_duration_seconds",
			Help:    "Time spent computing a dashboard statistics snapshot.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	computeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkwell_stats_compute_total",
			Help: "Dashboard statistics computations by result.",
		},
		[]string{"result"},
	)
)

func resultLabel(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, ErrIntegrityViolation):
		return resultIntegrity
	default:
		return resultUnavailable
	}
}
