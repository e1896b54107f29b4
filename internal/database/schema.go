// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package database

import (
	"context"
	"fmt"
)

// createSchema creates the workouts and sync_meta tables plus indexes.
// All statements are idempotent (IF NOT EXISTS).
func (db *DB) createSchema() error {
	statements := []string{
		// Workout results as returned by the Logbook API, heart rate flattened.
		// time is stored in tenths of a second, matching the wire format.
		`CREATE TABLE IF NOT EXISTS workouts (
			id BIGINT PRIMARY KEY,
			user_id BIGINT,
			date VARCHAR NOT NULL,
			timezone VARCHAR,
			date_utc VARCHAR,
			distance INTEGER NOT NULL,
			type VARCHAR,
			time INTEGER NOT NULL,
			time_formatted VARCHAR,
			workout_type VARCHAR,
			source VARCHAR,
			weight_class VARCHAR,
			verified BOOLEAN,
			ranked BOOLEAN,
			comments VARCHAR,
			privacy VARCHAR,
			stroke_rate INTEGER,
			stroke_count INTEGER,
			calories_total INTEGER,
			drag_factor INTEGER,
			heart_rate_avg INTEGER,
			heart_rate_min INTEGER,
			heart_rate_max INTEGER,
			heart_rate_end INTEGER,
			rest_time INTEGER,
			rest_distance INTEGER
		)`,

		// Singleton row tracking the last completed sync cycle.
		`CREATE TABLE IF NOT EXISTS sync_meta (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			last_sync_utc TIMESTAMP NOT NULL,
			total_rows INTEGER NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_workouts_date ON workouts(date)`,
		`CREATE INDEX IF NOT EXISTS idx_workouts_type ON workouts(type)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}

// Reset drops all workout rows and sync metadata, forcing the next sync
// cycle to refetch the full history.
func (db *DB) Reset(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM workouts`); err != nil {
		return fmt.Errorf("failed to clear workouts: %w", err)
	}
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM sync_meta`); err != nil {
		return fmt.Errorf("failed to clear sync metadata: %w", err)
	}
	return nil
}
