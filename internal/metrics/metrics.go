// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

// Package metrics provides Prometheus instrumentation for sync cycles,
// remote fetches, store writes, and the HTTP API. Metrics are exposed at
// /metrics in Prometheus text format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Sync engine metrics
	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sync_duration_seconds",
			Help:    "Duration of sync cycles in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
	)

	SyncWorkoutsUpserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_workouts_upserted_total",
			Help: "Total workouts written to the local store by sync cycles",
		},
	)

	SyncCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_cycles_total",
			Help: "Total sync cycles by outcome",
		},
		[]string{"outcome"}, // "synced", "fresh", "forced", "error"
	)

	SyncErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_errors_total",
			Help: "Total sync failures by error kind",
		},
		[]string{"kind"}, // "auth", "transient", "malformed", "store", "other"
	)

	SyncLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful sync",
		},
	)

	// Remote fetcher metrics
	FetchPagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "concept2_fetch_pages_total",
			Help: "Total result pages fetched from the Concept2 Logbook",
		},
	)

	FetchRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "concept2_fetch_retries_total",
			Help: "Total page-fetch retry attempts",
		},
	)

	FetchPageSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "concept2_fetch_page_records",
			Help:    "Records returned per fetched page",
			Buckets: []float64{0, 10, 50, 100, 150, 200, 250},
		},
	)

	// Store metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total DuckDB query errors",
		},
		[]string{"operation"},
	)

	// HTTP API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Circuit breaker requests by result",
		},
		[]string{"name", "result"},
	)
)

// RecordSyncSuccess records the metrics for one completed sync cycle.
func RecordSyncSuccess(duration time.Duration, upserted int, forced bool) {
	SyncDuration.Observe(duration.Seconds())
	SyncWorkoutsUpserted.Add(float64(upserted))
	SyncLastSuccess.SetToCurrentTime()
	outcome := "synced"
	if forced {
		outcome = "forced"
	}
	SyncCycles.WithLabelValues(outcome).Inc()
}

// RecordSyncSkipped records a cycle that found the store fresh.
func RecordSyncSkipped() {
	SyncCycles.WithLabelValues("fresh").Inc()
}

// RecordSyncError records a failed cycle with its error kind.
func RecordSyncError(kind string) {
	SyncCycles.WithLabelValues("error").Inc()
	SyncErrors.WithLabelValues(kind).Inc()
}
