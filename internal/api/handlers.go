// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package api

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/oarlock/oarlock/internal/analytics"
	"github.com/oarlock/oarlock/internal/logging"
	"github.com/oarlock/oarlock/internal/models"
	syncengine "github.com/oarlock/oarlock/internal/sync"
)

// Syncer runs sync cycles against the Logbook.
type Syncer interface {
	Sync(ctx context.Context) (*models.SyncResult, error)
	ForceSync(ctx context.Context) (*models.SyncResult, error)
	NeedsSync(ctx context.Context) (syncengine.State, error)
}

// Store reads the cached workout set.
type Store interface {
	LoadWorkouts(ctx context.Context, from, to string) ([]models.Workout, error)
	WorkoutCount(ctx context.Context) (int, error)
	LastSync(ctx context.Context) (*time.Time, error)
	Ping(ctx context.Context) error
}

// Handler serves the JSON API.
type Handler struct {
	store   Store
	manager Syncer
	version string

	// now anchors days-since calculations; injectable for tests.
	now func() time.Time
}

// NewHandler creates the API handler.
func NewHandler(store Store, manager Syncer, version string) *Handler {
	return &Handler{store: store, manager: manager, version: version, now: time.Now}
}

// Dashboard is the single-call endpoint behind the main view: it runs an
// incremental sync if the cache is stale, then returns every analytics
// block computed over the full history.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	syncResult, err := h.manager.Sync(ctx)
	if err != nil && !errors.Is(err, syncengine.ErrSyncInProgress) {
		// A failed sync does not make the cached data worthless; serve
		// what we have and surface the failure in the payload.
		logging.Warn().Err(err).Msg("Dashboard sync failed, serving cached data")
	}

	workouts, loadErr := h.store.LoadWorkouts(ctx, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if loadErr != nil {
		respondError(w, loadErr)
		return
	}

	payload := map[string]interface{}{
		"sync":           syncResult,
		"summary":        analytics.Summarize(workouts, h.now()),
		"monthly_volume": analytics.MonthlyVolume(workouts),
		"weekly_volume":  analytics.WeeklyVolume(workouts),
		"personal_bests": analytics.PersonalBests(workouts),
		"heatmap":        analytics.TrainingHeatmap(workouts),
		"pace_trend":     analytics.PaceTrend(workouts),
		"clustering":     analytics.ClusterWorkouts(workouts),
	}
	if err != nil && !errors.Is(err, syncengine.ErrSyncInProgress) {
		payload["sync_error"] = err.Error()
	}
	respondJSON(w, http.StatusOK, &models.APIResponse{Success: true, Data: payload})
}

// Workouts returns the cached workout list, optionally bounded by
// from/to (YYYY-MM-DD, inclusive).
func (h *Handler) Workouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := h.store.LoadWorkouts(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, &models.APIResponse{Success: true, Data: map[string]interface{}{
		"workouts": workouts,
		"count":    len(workouts),
	}})
}

// Summary returns aggregate statistics over the cached workout set.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	workouts, err := h.store.LoadWorkouts(r.Context(), "", "")
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Success: true,
		Data:    analytics.Summarize(workouts, h.now()),
	})
}

// Sync triggers a sync cycle. ?force=true refetches the full history.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	var result *models.SyncResult
	var err error
	if r.URL.Query().Get("force") == "true" {
		result, err = h.manager.ForceSync(r.Context())
	} else {
		result, err = h.manager.Sync(r.Context())
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, &models.APIResponse{Success: true, Data: result})
}

// Health reports liveness plus store and sync status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := "ok"
	httpStatus := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
		logging.Error().Err(err).Msg("Health check: store unreachable")
	}

	count, _ := h.store.WorkoutCount(ctx)
	lastSync, _ := h.store.LastSync(ctx)
	state, _ := h.manager.NeedsSync(ctx)

	respondJSON(w, httpStatus, &models.APIResponse{Success: httpStatus == http.StatusOK, Data: map[string]interface{}{
		"status":     status,
		"version":    h.version,
		"workouts":   count,
		"last_sync":  lastSync,
		"sync_state": state,
	}})
}

// ExportCSV streams the cached workouts as CSV, one row per workout.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	workouts, err := h.store.LoadWorkouts(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="workouts.csv"`)

	cw := csv.NewWriter(w)
	header := []string{"id", "date", "type", "distance_m", "time_seconds", "pace_500m", "stroke_rate", "calories", "heart_rate_avg"}
	if err := cw.Write(header); err != nil {
		logging.Error().Err(err).Msg("CSV header write failed")
		return
	}
	for i := range workouts {
		wo := &workouts[i]
		pace := ""
		if p, ok := wo.PacePer500m(); ok {
			pace = strconv.FormatFloat(p, 'f', 2, 64)
		}
		row := []string{
			strconv.Itoa(wo.ID),
			wo.Date,
			wo.Type,
			strconv.Itoa(wo.Distance),
			strconv.FormatFloat(wo.TimeSeconds(), 'f', 1, 64),
			pace,
			optionalInt(wo.StrokeRate),
			optionalInt(wo.CaloriesTotal),
			optionalHeartRate(wo.HeartRate),
		}
		if err := cw.Write(row); err != nil {
			logging.Error().Err(err).Msg("CSV row write failed")
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		logging.Error().Err(err).Msg("CSV flush failed")
	}
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optionalHeartRate(hr *models.HeartRate) string {
	if hr == nil || hr.Average == nil {
		return ""
	}
	return strconv.Itoa(*hr.Average)
}

// respondError maps sync and store errors to HTTP statuses: auth failures
// are 401, transient upstream failures 503, a cycle already running 409,
// everything else 500.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, syncengine.ErrAuth):
		status = http.StatusUnauthorized
	case errors.Is(err, syncengine.ErrSyncInProgress):
		status = http.StatusConflict
	case syncengine.IsRetryable(err):
		status = http.StatusServiceUnavailable
	}
	logging.Error().Err(err).Int("status", status).Msg("Request failed")
	respondJSON(w, status, &models.APIResponse{Success: false, Error: err.Error()})
}

func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"success":false,"error":"internal error"}`)
		return
	}
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}
