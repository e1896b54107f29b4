// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package analytics

import (
	"testing"
	"time"

	"github.com/oarlock/oarlock/internal/models"
)

func workout(id int, date string, distance, timeTenths int) models.Workout {
	return models.Workout{
		ID:       id,
		Date:     date,
		Distance: distance,
		Time:     timeTenths,
		Type:     models.ActivityRower,
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil, time.Now())
	if got.TotalWorkouts != 0 {
		t.Errorf("TotalWorkouts = %d, want 0", got.TotalWorkouts)
	}
}

func TestSummarize(t *testing.T) {
	rate1, rate2 := 22, 26
	cals := 180
	wt := "FixedDistanceSplits"

	w1 := workout(1, "2026-01-10 06:00:00", 5000, 12000) // 20 min, 2:00.0 pace
	w1.StrokeRate = &rate1
	w1.WorkoutType = &wt
	w2 := workout(2, "2026-01-20 06:00:00", 2000, 4500) // 7:30, 1:52.5 pace
	w2.StrokeRate = &rate2
	w2.CaloriesTotal = &cals
	w2.WorkoutType = &wt

	now := time.Date(2026, 1, 25, 6, 0, 0, 0, time.UTC)
	got := Summarize([]models.Workout{w1, w2}, now)

	if got.TotalWorkouts != 2 {
		t.Errorf("TotalWorkouts = %d, want 2", got.TotalWorkouts)
	}
	if got.TotalDistanceKm != 7.0 {
		t.Errorf("TotalDistanceKm = %v, want 7.0", got.TotalDistanceKm)
	}
	if got.TotalTimeHours != 0.46 { // 1650s / 3600 = 0.4583 -> 0.46
		t.Errorf("TotalTimeHours = %v, want 0.46", got.TotalTimeHours)
	}
	if got.AvgDistanceM != 3500 {
		t.Errorf("AvgDistanceM = %v, want 3500", got.AvgDistanceM)
	}
	// Mean of 120.0 and 112.5 is 116.25 seconds per 500m.
	if got.AvgPace500m != "1:56.2" {
		t.Errorf("AvgPace500m = %q, want 1:56.2", got.AvgPace500m)
	}
	if got.AvgStrokeRate != 24.0 {
		t.Errorf("AvgStrokeRate = %v, want 24.0", got.AvgStrokeRate)
	}
	if got.AvgCalories != 180 {
		t.Errorf("AvgCalories = %v, want 180", got.AvgCalories)
	}
	if got.FirstWorkout != "2026-01-10" || got.LastWorkout != "2026-01-20" {
		t.Errorf("date range = %s..%s, want 2026-01-10..2026-01-20", got.FirstWorkout, got.LastWorkout)
	}
	if got.DaysSinceLast != 5 {
		t.Errorf("DaysSinceLast = %d, want 5", got.DaysSinceLast)
	}
	if got.WorkoutTypeCount[wt] != 2 {
		t.Errorf("WorkoutTypeCount[%q] = %d, want 2", wt, got.WorkoutTypeCount[wt])
	}
}

func TestSummarizeNoPaceableWorkouts(t *testing.T) {
	// A timed interval with no distance has undefined pace.
	w := workout(1, "2026-01-10", 0, 6000)
	got := Summarize([]models.Workout{w}, time.Now())
	if got.AvgPace500m != "N/A" {
		t.Errorf("AvgPace500m = %q, want N/A when no workout has a pace", got.AvgPace500m)
	}
}
