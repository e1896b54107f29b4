// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oarlock/oarlock/internal/logging"
	"github.com/oarlock/oarlock/internal/metrics"
	"github.com/oarlock/oarlock/internal/models"
)

const workoutColumns = `id, user_id, date, timezone, date_utc, distance, type, time,
	time_formatted, workout_type, source, weight_class, verified, ranked,
	comments, privacy, stroke_rate, stroke_count, calories_total, drag_factor,
	heart_rate_avg, heart_rate_min, heart_rate_max, heart_rate_end,
	rest_time, rest_distance`

// UpsertAndRecordSync inserts or replaces the given workouts and records the
// sync cycle metadata in a single transaction. Either both the rows and the
// metadata land, or neither does. Returns the number of workouts written.
func (db *DB) UpsertAndRecordSync(ctx context.Context, workouts []models.Workout, syncedAt time.Time) (int, error) {
	start := time.Now()
	defer func() {
		metrics.DBQueryDuration.WithLabelValues("upsert_and_record_sync").Observe(time.Since(start).Seconds())
	}()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("upsert_and_record_sync").Inc()
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// No-op if the transaction committed.
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO workouts (`+workoutColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("upsert_and_record_sync").Inc()
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer closeQuietly(stmt)

	for i := range workouts {
		w := &workouts[i]
		var hrAvg, hrMin, hrMax, hrEnd *int
		if w.HeartRate != nil {
			hrAvg, hrMin, hrMax, hrEnd = w.HeartRate.Average, w.HeartRate.Min, w.HeartRate.Max, w.HeartRate.Ending
		}
		if _, err := stmt.ExecContext(ctx,
			w.ID, w.UserID, w.Date, w.Timezone, w.DateUTC, w.Distance, w.Type, w.Time,
			w.TimeFormatted, w.WorkoutType, w.Source, w.WeightClass, w.Verified, w.Ranked,
			w.Comments, w.Privacy, w.StrokeRate, w.StrokeCount, w.CaloriesTotal, w.DragFactor,
			hrAvg, hrMin, hrMax, hrEnd, w.RestTime, w.RestDistance,
		); err != nil {
			metrics.DBQueryErrors.WithLabelValues("upsert_and_record_sync").Inc()
			return 0, fmt.Errorf("failed to upsert workout %d: %w", w.ID, err)
		}
	}

	var total int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM workouts`).Scan(&total); err != nil {
		metrics.DBQueryErrors.WithLabelValues("upsert_and_record_sync").Inc()
		return 0, fmt.Errorf("failed to count workouts: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO sync_meta (id, last_sync_utc, total_rows) VALUES (1, ?, ?)`,
		syncedAt.UTC(), total,
	); err != nil {
		metrics.DBQueryErrors.WithLabelValues("upsert_and_record_sync").Inc()
		return 0, fmt.Errorf("failed to record sync metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		metrics.DBQueryErrors.WithLabelValues("upsert_and_record_sync").Inc()
		return 0, fmt.Errorf("failed to commit sync transaction: %w", err)
	}

	logging.Debug().
		Int("upserted", len(workouts)).
		Int("total", total).
		Msg("Sync transaction committed")
	return len(workouts), nil
}

// LatestWorkoutDate returns the date (YYYY-MM-DD) of the most recent stored
// workout. The second return value is false when the store is empty.
func (db *DB) LatestWorkoutDate(ctx context.Context) (string, bool, error) {
	var date sql.NullString
	err := db.conn.QueryRowContext(ctx, `SELECT MAX(date) FROM workouts`).Scan(&date)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("latest_workout_date").Inc()
		return "", false, fmt.Errorf("failed to query latest workout date: %w", err)
	}
	if !date.Valid || date.String == "" {
		return "", false, nil
	}
	d := date.String
	if len(d) > 10 {
		d = d[:10]
	}
	return d, true, nil
}

// WorkoutCount returns the number of stored workouts.
func (db *DB) WorkoutCount(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM workouts`).Scan(&count); err != nil {
		metrics.DBQueryErrors.WithLabelValues("workout_count").Inc()
		return 0, fmt.Errorf("failed to count workouts: %w", err)
	}
	return count, nil
}

// LastSync returns the timestamp of the last completed sync cycle, or nil
// if no sync has ever completed.
func (db *DB) LastSync(ctx context.Context) (*time.Time, error) {
	var ts time.Time
	err := db.conn.QueryRowContext(ctx, `SELECT last_sync_utc FROM sync_meta WHERE id = 1`).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("last_sync").Inc()
		return nil, fmt.Errorf("failed to query last sync: %w", err)
	}
	utc := ts.UTC()
	return &utc, nil
}

// LoadWorkouts returns stored workouts ordered by date ascending. Either
// bound may be empty; from is a YYYY-MM-DD lower bound, to is a YYYY-MM-DD
// upper bound applied inclusively through the end of that day.
func (db *DB) LoadWorkouts(ctx context.Context, from, to string) ([]models.Workout, error) {
	start := time.Now()
	defer func() {
		metrics.DBQueryDuration.WithLabelValues("load_workouts").Observe(time.Since(start).Seconds())
	}()

	query := `SELECT ` + workoutColumns + ` FROM workouts`
	var conditions []string
	var args []interface{}
	if from != "" {
		conditions = append(conditions, "date >= ?")
		args = append(args, from)
	}
	if to != "" {
		conditions = append(conditions, "date <= ?")
		args = append(args, to+" 23:59:59")
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY date ASC"

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("load_workouts").Inc()
		return nil, fmt.Errorf("failed to query workouts: %w", err)
	}
	defer closeQuietly(rows)

	var workouts []models.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			metrics.DBQueryErrors.WithLabelValues("load_workouts").Inc()
			return nil, err
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		metrics.DBQueryErrors.WithLabelValues("load_workouts").Inc()
		return nil, fmt.Errorf("workout row iteration failed: %w", err)
	}
	return workouts, nil
}

func scanWorkout(rows *sql.Rows) (models.Workout, error) {
	var w models.Workout
	var hrAvg, hrMin, hrMax, hrEnd *int
	if err := rows.Scan(
		&w.ID, &w.UserID, &w.Date, &w.Timezone, &w.DateUTC, &w.Distance, &w.Type, &w.Time,
		&w.TimeFormatted, &w.WorkoutType, &w.Source, &w.WeightClass, &w.Verified, &w.Ranked,
		&w.Comments, &w.Privacy, &w.StrokeRate, &w.StrokeCount, &w.CaloriesTotal, &w.DragFactor,
		&hrAvg, &hrMin, &hrMax, &hrEnd, &w.RestTime, &w.RestDistance,
	); err != nil {
		return w, fmt.Errorf("failed to scan workout row: %w", err)
	}
	if hrAvg != nil || hrMin != nil || hrMax != nil || hrEnd != nil {
		w.HeartRate = &models.HeartRate{Average: hrAvg, Min: hrMin, Max: hrMax, Ending: hrEnd}
	}
	return w, nil
}
