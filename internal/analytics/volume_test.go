// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package analytics

import (
	"testing"

	"github.com/oarlock/oarlock/internal/models"
)

func TestMonthlyVolume(t *testing.T) {
	workouts := []models.Workout{
		workout(1, "2026-01-10 06:00:00", 5000, 12000),
		workout(2, "2026-01-25 06:00:00", 5000, 12000),
		workout(3, "2026-02-03 06:00:00", 10000, 25000),
	}

	got := MonthlyVolume(workouts)
	if len(got) != 2 {
		t.Fatalf("got %d months, want 2", len(got))
	}
	jan, feb := got[0], got[1]
	if jan.Period != "2026-01" || feb.Period != "2026-02" {
		t.Fatalf("periods = %s, %s, want 2026-01, 2026-02 in order", jan.Period, feb.Period)
	}
	if jan.TotalDistanceKm != 10.0 || jan.Workouts != 2 {
		t.Errorf("Jan = %vkm/%d workouts, want 10.0/2", jan.TotalDistanceKm, jan.Workouts)
	}
	if jan.TotalTimeHours != 0.67 { // 2400s / 3600
		t.Errorf("Jan TotalTimeHours = %v, want 0.67", jan.TotalTimeHours)
	}
	if feb.TotalDistanceKm != 10.0 || feb.Workouts != 1 {
		t.Errorf("Feb = %vkm/%d workouts, want 10.0/1", feb.TotalDistanceKm, feb.Workouts)
	}
}

func TestWeeklyVolumeISOWeeks(t *testing.T) {
	// 2026-01-01 is a Thursday in ISO week 2026-W01;
	// 2026-01-05 is the Monday of 2026-W02.
	workouts := []models.Workout{
		workout(1, "2026-01-01 06:00:00", 5000, 12000),
		workout(2, "2026-01-04 06:00:00", 3000, 7500), // Sunday, still W01
		workout(3, "2026-01-05 06:00:00", 2000, 4500),
	}

	got := WeeklyVolume(workouts)
	if len(got) != 2 {
		t.Fatalf("got %d weeks, want 2", len(got))
	}
	if got[0].Period != "2026-W01" || got[1].Period != "2026-W02" {
		t.Fatalf("periods = %s, %s, want 2026-W01, 2026-W02", got[0].Period, got[1].Period)
	}
	if got[0].TotalDistanceKm != 8.0 || got[0].Workouts != 2 {
		t.Errorf("W01 = %vkm/%d, want 8.0/2", got[0].TotalDistanceKm, got[0].Workouts)
	}
}

func TestWeeklyVolumeYearBoundary(t *testing.T) {
	// 2027-01-01 is a Friday belonging to ISO week 2026-W53.
	got := WeeklyVolume([]models.Workout{workout(1, "2027-01-01 06:00:00", 5000, 12000)})
	if len(got) != 1 {
		t.Fatalf("got %d weeks, want 1", len(got))
	}
	if got[0].Period != "2026-W53" {
		t.Errorf("Period = %s, want 2026-W53 (ISO year differs from calendar year)", got[0].Period)
	}
}

func TestVolumeEmpty(t *testing.T) {
	if got := MonthlyVolume(nil); len(got) != 0 {
		t.Errorf("MonthlyVolume(nil) = %v, want empty", got)
	}
	if got := WeeklyVolume(nil); len(got) != 0 {
		t.Errorf("WeeklyVolume(nil) = %v, want empty", got)
	}
}
