// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package sync

import (
	"context"
	"fmt"
	stdsync "sync"
	"time"

	"github.com/google/uuid"

	"github.com/oarlock/oarlock/internal/config"
	"github.com/oarlock/oarlock/internal/logging"
	"github.com/oarlock/oarlock/internal/metrics"
	"github.com/oarlock/oarlock/internal/models"
)

// State describes the freshness of the local store relative to the
// configured freshness window.
type State string

const (
	// StateNeverSynced means no sync cycle has ever completed.
	StateNeverSynced State = "never_synced"
	// StateStale means the last sync is older than the freshness window.
	StateStale State = "stale"
	// StateFresh means the last sync is within the freshness window.
	StateFresh State = "fresh"
)

// Fetcher is the remote side of a sync cycle. Implemented by
// Concept2Client; tests substitute fakes.
type Fetcher interface {
	GetAllResults(ctx context.Context, pageSize int, filter *ResultsFilter) ([]models.Workout, error)
}

// Store is the local side of a sync cycle.
type Store interface {
	UpsertAndRecordSync(ctx context.Context, workouts []models.Workout, syncedAt time.Time) (int, error)
	LatestWorkoutDate(ctx context.Context) (string, bool, error)
	LastSync(ctx context.Context) (*time.Time, error)
	WorkoutCount(ctx context.Context) (int, error)
}

// Manager runs sync cycles: it decides whether the store is fresh, fetches
// the missing slice of history from the Logbook, and lands it atomically.
//
// Only one cycle runs at a time; concurrent callers get ErrSyncInProgress
// rather than queueing, since a cycle already in flight will satisfy them.
type Manager struct {
	client Fetcher
	store  Store
	cfg    *config.Config

	// now is injectable so freshness boundaries can be tested.
	now func() time.Time

	mu stdsync.Mutex
}

// NewManager creates a sync manager.
func NewManager(client Fetcher, store Store, cfg *config.Config) *Manager {
	return &Manager{
		client: client,
		store:  store,
		cfg:    cfg,
		now:    time.Now,
	}
}

// NeedsSync reports the store's freshness state.
func (m *Manager) NeedsSync(ctx context.Context) (State, error) {
	last, err := m.store.LastSync(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read sync metadata: %w", err)
	}
	if last == nil {
		return StateNeverSynced, nil
	}
	if m.now().UTC().Sub(*last) >= m.cfg.Sync.Freshness {
		return StateStale, nil
	}
	return StateFresh, nil
}

// Sync runs an incremental sync cycle.
//
// A fresh store is left untouched. A never-synced store gets the full
// history. A stale store is refreshed from the date of its most recent
// workout, inclusive, so a partially-synced day is always completed and an
// edited workout on that day is picked up; the id-keyed upsert absorbs the
// overlap without duplicating rows.
func (m *Manager) Sync(ctx context.Context) (*models.SyncResult, error) {
	return m.sync(ctx, false)
}

// ForceSync refetches the full history regardless of freshness. Used after
// bulk edits or deletions upstream that an incremental window would miss.
func (m *Manager) ForceSync(ctx context.Context) (*models.SyncResult, error) {
	return m.sync(ctx, true)
}

func (m *Manager) sync(ctx context.Context, force bool) (*models.SyncResult, error) {
	if !m.mu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer m.mu.Unlock()

	cycleID := uuid.NewString()
	log := logging.With().Str("sync_id", cycleID).Bool("force", force).Logger()
	start := m.now()

	state, err := m.NeedsSync(ctx)
	if err != nil {
		metrics.RecordSyncError("store")
		return nil, err
	}

	if state == StateFresh && !force {
		count, err := m.store.WorkoutCount(ctx)
		if err != nil {
			metrics.RecordSyncError("store")
			return nil, err
		}
		last, err := m.store.LastSync(ctx)
		if err != nil {
			metrics.RecordSyncError("store")
			return nil, err
		}
		log.Debug().Int("total", count).Msg("Store is fresh, skipping sync")
		metrics.RecordSyncSkipped()
		return &models.SyncResult{Synced: false, TotalWorkouts: count, LastSync: last}, nil
	}

	filter := &ResultsFilter{Type: m.cfg.Sync.ActivityType}
	if state == StateStale && !force {
		// Incremental window: refetch from the latest stored workout's date.
		latest, ok, err := m.store.LatestWorkoutDate(ctx)
		if err != nil {
			metrics.RecordSyncError("store")
			return nil, err
		}
		if ok {
			filter.From = latest
		}
		log.Info().Str("from", filter.From).Msg("Starting incremental sync")
	} else {
		log.Info().Msg("Starting full sync")
	}

	// Retries live in the fetcher, per page request; a failure surfacing
	// here has already exhausted them.
	workouts, err := m.client.GetAllResults(ctx, m.cfg.Sync.PageSize, filter)
	if err != nil {
		metrics.RecordSyncError(ErrorKind(err))
		log.Error().Err(err).Msg("Sync fetch failed")
		return nil, fmt.Errorf("sync fetch failed: %w", err)
	}

	syncedAt := m.now().UTC()
	upserted, err := m.store.UpsertAndRecordSync(ctx, workouts, syncedAt)
	if err != nil {
		metrics.RecordSyncError("store")
		log.Error().Err(err).Msg("Sync store write failed")
		return nil, fmt.Errorf("sync store write failed: %w", err)
	}

	total, err := m.store.WorkoutCount(ctx)
	if err != nil {
		metrics.RecordSyncError("store")
		return nil, err
	}

	elapsed := m.now().Sub(start)
	metrics.RecordSyncSuccess(elapsed, upserted, force)
	log.Info().
		Int("upserted", upserted).
		Int("total", total).
		Dur("elapsed", elapsed).
		Msg("Sync cycle complete")

	return &models.SyncResult{
		Synced:        true,
		NewWorkouts:   upserted,
		TotalWorkouts: total,
		LastSync:      &syncedAt,
	}, nil
}
