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

func TestTrainingHeatmapEmpty(t *testing.T) {
	got := TrainingHeatmap(nil)
	if len(got.ZValues) != 0 || len(got.Weeks) != 0 {
		t.Errorf("TrainingHeatmap(nil) = %+v, want empty", got)
	}
}

func TestTrainingHeatmapSingleWeek(t *testing.T) {
	// Monday and Wednesday of ISO week 2026-W03 (2026-01-12 is a Monday).
	workouts := []models.Workout{
		workout(1, "2026-01-12 06:00:00", 5000, 12000),
		workout(2, "2026-01-14 06:00:00", 3000, 7500),
		workout(3, "2026-01-14 18:00:00", 2000, 4500), // second session same day
	}

	got := TrainingHeatmap(workouts)
	if len(got.Weeks) != 1 || got.Weeks[0] != "2026-W03" {
		t.Fatalf("Weeks = %v, want [2026-W03]", got.Weeks)
	}
	if len(got.ZValues) != 1 || len(got.ZValues[0]) != 7 {
		t.Fatalf("ZValues shape = %dx%d, want 1x7", len(got.ZValues), len(got.ZValues[0]))
	}

	row := got.ZValues[0]
	if row[0] != 5000 { // Monday
		t.Errorf("Monday = %v, want 5000", row[0])
	}
	if row[1] != 0 { // Tuesday is a rest day inside the range
		t.Errorf("Tuesday = %v, want 0 (rest day)", row[1])
	}
	if row[2] != 5000 { // Wednesday, two sessions summed
		t.Errorf("Wednesday = %v, want 5000 (sessions summed)", row[2])
	}

	if len(got.Days) != 7 || got.Days[0] != "Mon" || got.Days[6] != "Sun" {
		t.Errorf("Days = %v, want Mon..Sun", got.Days)
	}
	if got.Height != 300 {
		t.Errorf("Height = %d, want floor of 300 for a single week", got.Height)
	}
}

func TestTrainingHeatmapFillsGapWeeks(t *testing.T) {
	// Two workouts three ISO weeks apart; the untrained week in between
	// must still appear as a row of zeros.
	workouts := []models.Workout{
		workout(1, "2026-01-12 06:00:00", 5000, 12000), // W03
		workout(2, "2026-01-26 06:00:00", 5000, 12000), // W05
	}

	got := TrainingHeatmap(workouts)
	if len(got.Weeks) != 3 {
		t.Fatalf("Weeks = %v, want W03 through W05", got.Weeks)
	}
	if got.Weeks[1] != "2026-W04" {
		t.Errorf("middle week = %s, want 2026-W04", got.Weeks[1])
	}
	for day, v := range got.ZValues[1] {
		if v != 0 {
			t.Errorf("W04 day %d = %v, want 0 (no training that week)", day+1, v)
		}
	}
}

func TestTrainingHeatmapHeightScalesWithWeeks(t *testing.T) {
	// ~20 weeks of Mondays: height switches to 22px per week once the
	// week count exceeds the 300px floor.
	start := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	var workouts []models.Workout
	for i := 0; i < 20; i++ {
		date := start.AddDate(0, 0, i*7).Format("2006-01-02") + " 06:00:00"
		workouts = append(workouts, workout(i+1, date, 5000, 12000))
	}

	got := TrainingHeatmap(workouts)
	if len(got.Weeks) != 20 {
		t.Fatalf("got %d weeks, want 20", len(got.Weeks))
	}
	if got.Height != 440 {
		t.Errorf("Height = %d, want 440 (20 weeks * 22px)", got.Height)
	}
}
