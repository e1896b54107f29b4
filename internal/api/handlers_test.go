// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/oarlock/oarlock/internal/models"
	syncengine "github.com/oarlock/oarlock/internal/sync"
)

type fakeStore struct {
	workouts []models.Workout
	lastSync *time.Time
	pingErr  error
	loadErr  error
}

func (s *fakeStore) LoadWorkouts(_ context.Context, from, to string) ([]models.Workout, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	var out []models.Workout
	for _, w := range s.workouts {
		if from != "" && w.Day() < from {
			continue
		}
		if to != "" && w.Day() > to {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (s *fakeStore) WorkoutCount(_ context.Context) (int, error) { return len(s.workouts), nil }
func (s *fakeStore) LastSync(_ context.Context) (*time.Time, error) {
	return s.lastSync, nil
}
func (s *fakeStore) Ping(_ context.Context) error { return s.pingErr }

type fakeSyncer struct {
	result     *models.SyncResult
	err        error
	state      syncengine.State
	syncs      int
	forceSyncs int
}

func (f *fakeSyncer) Sync(_ context.Context) (*models.SyncResult, error) {
	f.syncs++
	return f.result, f.err
}

func (f *fakeSyncer) ForceSync(_ context.Context) (*models.SyncResult, error) {
	f.forceSyncs++
	return f.result, f.err
}

func (f *fakeSyncer) NeedsSync(_ context.Context) (syncengine.State, error) {
	return f.state, nil
}

func sampleWorkouts() []models.Workout {
	return []models.Workout{
		{ID: 1, Date: "2026-01-10 06:00:00", Distance: 5000, Time: 12000, Type: models.ActivityRower},
		{ID: 2, Date: "2026-02-14 06:00:00", Distance: 2000, Time: 4498, Type: models.ActivityRower},
	}
}

func newTestServer(store *fakeStore, syncer *fakeSyncer) *httptest.Server {
	h := NewHandler(store, syncer, "test")
	h.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return httptest.NewServer(NewRouter(h))
}

func decodeResponse(t *testing.T, resp *http.Response) models.APIResponse {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var out models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return out
}

func TestHealthOK(t *testing.T) {
	last := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{workouts: sampleWorkouts(), lastSync: &last}
	server := newTestServer(store, &fakeSyncer{state: syncengine.StateFresh})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	body := decodeResponse(t, resp)
	data := body.Data.(map[string]interface{})
	if data["status"] != "ok" {
		t.Errorf("status field = %v, want ok", data["status"])
	}
	if data["sync_state"] != string(syncengine.StateFresh) {
		t.Errorf("sync_state = %v, want fresh", data["sync_state"])
	}
}

func TestHealthDegradedWhenStoreDown(t *testing.T) {
	store := &fakeStore{pingErr: errors.New("connection refused")}
	server := newTestServer(store, &fakeSyncer{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestWorkoutsDateFilter(t *testing.T) {
	store := &fakeStore{workouts: sampleWorkouts()}
	server := newTestServer(store, &fakeSyncer{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/workouts?from=2026-02-01")
	if err != nil {
		t.Fatalf("GET /workouts error = %v", err)
	}
	body := decodeResponse(t, resp)
	data := body.Data.(map[string]interface{})
	if data["count"].(float64) != 1 {
		t.Errorf("count = %v, want 1 after from filter", data["count"])
	}
}

func TestSyncEndpoint(t *testing.T) {
	syncer := &fakeSyncer{result: &models.SyncResult{Synced: true, NewWorkouts: 3, TotalWorkouts: 10}}
	server := newTestServer(&fakeStore{}, syncer)
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/v1/sync", "", nil)
	if err != nil {
		t.Fatalf("POST /sync error = %v", err)
	}
	body := decodeResponse(t, resp)
	if !body.Success {
		t.Error("Success = false, want true")
	}
	if syncer.syncs != 1 || syncer.forceSyncs != 0 {
		t.Errorf("syncs=%d forceSyncs=%d, want 1/0", syncer.syncs, syncer.forceSyncs)
	}
}

func TestSyncEndpointForce(t *testing.T) {
	syncer := &fakeSyncer{result: &models.SyncResult{Synced: true}}
	server := newTestServer(&fakeStore{}, syncer)
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/v1/sync?force=true", "", nil)
	if err != nil {
		t.Fatalf("POST /sync?force=true error = %v", err)
	}
	_ = resp.Body.Close()
	if syncer.forceSyncs != 1 || syncer.syncs != 0 {
		t.Errorf("syncs=%d forceSyncs=%d, want 0/1", syncer.syncs, syncer.forceSyncs)
	}
}

func TestSyncErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"auth", syncengine.ErrAuth, http.StatusUnauthorized},
		{"transient", &syncengine.TransientError{Err: errors.New("HTTP 503")}, http.StatusServiceUnavailable},
		{"in progress", syncengine.ErrSyncInProgress, http.StatusConflict},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(&fakeStore{}, &fakeSyncer{err: tt.err})
			defer server.Close()

			resp, err := http.Post(server.URL+"/api/v1/sync", "", nil)
			if err != nil {
				t.Fatalf("POST /sync error = %v", err)
			}
			defer func() { _ = resp.Body.Close() }()
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestDashboardIncludesAllAnalytics(t *testing.T) {
	syncer := &fakeSyncer{result: &models.SyncResult{Synced: false, TotalWorkouts: 2}}
	server := newTestServer(&fakeStore{workouts: sampleWorkouts()}, syncer)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/dashboard")
	if err != nil {
		t.Fatalf("GET /dashboard error = %v", err)
	}
	body := decodeResponse(t, resp)
	data := body.Data.(map[string]interface{})
	for _, key := range []string{"sync", "summary", "monthly_volume", "weekly_volume", "personal_bests", "heatmap", "pace_trend", "clustering"} {
		if _, ok := data[key]; !ok {
			t.Errorf("dashboard payload missing %q", key)
		}
	}
	if syncer.syncs != 1 {
		t.Errorf("dashboard triggered %d syncs, want 1", syncer.syncs)
	}
}

func TestDashboardServesCacheOnSyncFailure(t *testing.T) {
	syncer := &fakeSyncer{err: &syncengine.TransientError{Err: errors.New("logbook down")}}
	server := newTestServer(&fakeStore{workouts: sampleWorkouts()}, syncer)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/dashboard")
	if err != nil {
		t.Fatalf("GET /dashboard error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 (stale data beats no data)", resp.StatusCode)
	}
	body := decodeResponse(t, resp)
	data := body.Data.(map[string]interface{})
	if _, ok := data["sync_error"]; !ok {
		t.Error("payload missing sync_error after failed sync")
	}
	summary := data["summary"].(map[string]interface{})
	if summary["total_workouts"].(float64) != 2 {
		t.Errorf("total_workouts = %v, want 2 from cache", summary["total_workouts"])
	}
}

func TestExportCSV(t *testing.T) {
	server := newTestServer(&fakeStore{workouts: sampleWorkouts()}, &fakeSyncer{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/export/csv")
	if err != nil {
		t.Fatalf("GET /export/csv error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if got := resp.Header.Get("Content-Type"); got != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", got)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d CSV lines, want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,date,type,distance_m") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "5000") {
		t.Errorf("row 1 = %q, want 5000m workout", lines[1])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(&fakeStore{}, &fakeSyncer{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
