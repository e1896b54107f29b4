// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/oarlock/oarlock/internal/models"
)

// paceWorkout builds a workout on the given day whose pace per 500m is
// exactly paceSeconds, using a fixed 5000m distance.
func paceWorkout(id int, day time.Time, paceSeconds float64) models.Workout {
	timeTenths := int(paceSeconds / 500 * 5000 * 10)
	return workout(id, day.Format("2006-01-02")+" 06:00:00", 5000, timeTenths)
}

func TestPaceTrendEmpty(t *testing.T) {
	got := PaceTrend(nil)
	if len(got.Dates) != 0 {
		t.Errorf("PaceTrend(nil) = %+v, want empty", got)
	}

	// Workouts without distance have no pace and contribute nothing.
	got = PaceTrend([]models.Workout{workout(1, "2026-01-10", 0, 6000)})
	if len(got.Dates) != 0 {
		t.Errorf("PaceTrend(timed-only) = %+v, want empty", got)
	}
}

func TestPaceTrendPerfectlyLinear(t *testing.T) {
	// Pace drops exactly one second per day: slope -1, perfect fit.
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var workouts []models.Workout
	for i := 0; i < 10; i++ {
		workouts = append(workouts, paceWorkout(i+1, start.AddDate(0, 0, i), 120-float64(i)))
	}

	got := PaceTrend(workouts)
	if got.Slope != -1.0 {
		t.Errorf("Slope = %v, want -1.0", got.Slope)
	}
	if got.RSquared != 1.0 {
		t.Errorf("RSquared = %v, want 1.0 for collinear points", got.RSquared)
	}
	if !got.Improving {
		t.Error("Improving = false, want true for negative slope")
	}
	if got.PaceChangePerMonth != -30.0 {
		t.Errorf("PaceChangePerMonth = %v, want -30.0 (slope * 30)", got.PaceChangePerMonth)
	}
	if got.PolyDegree != 3 {
		t.Errorf("PolyDegree = %d, want 3", got.PolyDegree)
	}
	for i, ty := range got.TrendY {
		if math.Abs(ty-got.Paces[i]) > 1e-6 {
			t.Errorf("TrendY[%d] = %v, want %v on a perfect line", i, ty, got.Paces[i])
			break
		}
	}
}

func TestPaceTrendConstantPace(t *testing.T) {
	// Identical pace every day: ss_tot is zero, R-squared defined as 0.
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var workouts []models.Workout
	for i := 0; i < 5; i++ {
		workouts = append(workouts, paceWorkout(i+1, start.AddDate(0, 0, i), 120))
	}

	got := PaceTrend(workouts)
	if got.Slope != 0 {
		t.Errorf("Slope = %v, want 0", got.Slope)
	}
	if got.RSquared != 0 {
		t.Errorf("RSquared = %v, want 0 when variance is zero", got.RSquared)
	}
	if got.Improving {
		t.Error("Improving = true, want false for flat trend")
	}
}

func TestPaceTrendRollingAverage(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var workouts []models.Workout
	for i := 0; i < 12; i++ {
		workouts = append(workouts, paceWorkout(i+1, start.AddDate(0, 0, i), 120))
	}

	got := PaceTrend(workouts)
	if got.RollingAvg[0] != nil || got.RollingAvg[1] != nil {
		t.Error("rolling average present before 3 samples accumulated")
	}
	if got.RollingAvg[2] == nil {
		t.Fatal("rolling average missing at the 3rd sample")
	}
	if *got.RollingAvg[2] != 120.0 {
		t.Errorf("RollingAvg[2] = %v, want 120.0", *got.RollingAvg[2])
	}
	if got.RollingAvg[11] == nil || *got.RollingAvg[11] != 120.0 {
		t.Errorf("RollingAvg[11] = %v, want 120.0 over a full window", got.RollingAvg[11])
	}
}

func TestPaceTrendSortsByDate(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	// Deliberately out of order.
	workouts := []models.Workout{
		paceWorkout(2, start.AddDate(0, 0, 5), 115),
		paceWorkout(1, start, 120),
		paceWorkout(3, start.AddDate(0, 0, 10), 110),
	}

	got := PaceTrend(workouts)
	if got.Dates[0] != "2026-01-01" || got.Dates[2] != "2026-01-11" {
		t.Errorf("Dates = %v, want chronological order", got.Dates)
	}
	if got.Slope != -1.0 {
		t.Errorf("Slope = %v, want -1.0", got.Slope)
	}
}

func TestPolyfitQuadratic(t *testing.T) {
	// y = x^2 sampled at a few points; a degree-2 fit recovers it exactly.
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{0, 1, 4, 9, 16}
	c := polyfit(x, y, 2)

	want := []float64{0, 0, 1}
	for i := range want {
		if math.Abs(c[i]-want[i]) > 1e-9 {
			t.Errorf("coefficient[%d] = %v, want %v", i, c[i], want[i])
		}
	}
}
