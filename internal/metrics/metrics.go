// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

// Package metrics exposes Prometheus instrumentation for the process
// host.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hydrowire/hydrowire/internal/errs"
)

var (
	executions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hydrowire",
			Subsystem: "processes",
			Name:      "executions_total",
			Help:      "Process executions by process id and outcome kind.",
		},
		[]string{"process", "outcome"},
	)

	duration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hydrowire",
			Subsystem: "processes",
			Name:      "execution_duration_seconds",
			Help:      "Wall time of process executions.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"process"},
	)

	// StoreBreakerOpen reports whether the store circuit breaker is
	// shedding load.
	StoreBreakerOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "hydrowire",
			Subsystem: "store",
			Name:      "breaker_open",
			Help:      "1 while the store circuit breaker is open.",
		},
	)
)

// ObserveExecution records one process execution. The outcome label is
// "ok" or the machine-readable error kind.
func ObserveExecution(process string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = errs.KindOf(err).String()
	}
	executions.WithLabelValues(process, outcome).Inc()
	duration.WithLabelValues(process).Observe(elapsed.Seconds())
}

// Handler serves the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
