// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

// Package api provides the HTTP surface using the Chi router.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the full route tree.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogging)
	r.Use(chimiddleware.Timeout(120 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(prometheusMetrics)

		r.Get("/health", h.Health)
		r.Get("/dashboard", h.Dashboard)
		r.Get("/workouts", h.Workouts)
		r.Get("/summary", h.Summary)
		r.Post("/sync", h.Sync)
		r.Get("/export/csv", h.ExportCSV)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
