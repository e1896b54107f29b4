// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package analytics

import (
	"testing"

	"github.com/oarlock/oarlock/internal/models"
)

func TestPersonalBests(t *testing.T) {
	workouts := []models.Workout{
		workout(1, "2026-01-10 06:00:00", 2000, 4598), // 7:39.8
		workout(2, "2026-02-14 06:00:00", 2000, 4498), // 7:29.8 - the PB
		workout(3, "2026-01-20 06:00:00", 5000, 12150),
		workout(4, "2026-01-22 06:00:00", 5023, 12000), // not an exact 5k
	}

	got := PersonalBests(workouts)

	twoK, ok := got["2000m"]
	if !ok {
		t.Fatal("missing 2000m benchmark")
	}
	if twoK.Time != "7:29.8" {
		t.Errorf("2000m time = %q, want 7:29.8 (fastest attempt)", twoK.Time)
	}
	if twoK.Date != "2026-02-14" {
		t.Errorf("2000m date = %q, want 2026-02-14", twoK.Date)
	}
	// 449.8s / 2000m * 500 = 112.45 -> 1:52.5 pace
	if twoK.Pace != "1:52.4" && twoK.Pace != "1:52.5" {
		t.Errorf("2000m pace = %q, want ~1:52.4", twoK.Pace)
	}

	if _, ok := got["5000m"]; !ok {
		t.Error("missing 5000m benchmark")
	}
	if _, ok := got["10000m"]; ok {
		t.Error("10000m benchmark present despite no exact attempt")
	}
}

func TestPersonalBestsEmpty(t *testing.T) {
	if got := PersonalBests(nil); len(got) != 0 {
		t.Errorf("PersonalBests(nil) = %v, want empty map", got)
	}
}
