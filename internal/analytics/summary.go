// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package analytics

import (
	"time"

	"github.com/oarlock/oarlock/internal/models"
)

// Summarize computes aggregate statistics over the workout set.
// now anchors the days-since-last-workout calculation.
// An empty input yields a Summary with TotalWorkouts == 0.
func Summarize(workouts []models.Workout, now time.Time) models.Summary {
	if len(workouts) == 0 {
		return models.Summary{}
	}

	var totalMeters, totalTenths float64
	var paces, strokeRates, calories []float64
	first, last := workouts[0].DateParsed(), workouts[0].DateParsed()
	typeCounts := make(map[string]int)

	for i := range workouts {
		w := &workouts[i]
		totalMeters += float64(w.Distance)
		totalTenths += float64(w.Time)

		if pace, ok := w.PacePer500m(); ok {
			paces = append(paces, pace)
		}
		if w.StrokeRate != nil {
			strokeRates = append(strokeRates, float64(*w.StrokeRate))
		}
		if w.CaloriesTotal != nil {
			calories = append(calories, float64(*w.CaloriesTotal))
		}
		if w.WorkoutType != nil {
			typeCounts[*w.WorkoutType]++
		}

		d := w.DateParsed()
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}

	totalSeconds := totalTenths / 10

	summary := models.Summary{
		TotalWorkouts:    len(workouts),
		TotalDistanceKm:  roundTo(totalMeters/1000, 2),
		TotalTimeHours:   roundTo(totalSeconds/3600, 2),
		AvgDistanceM:     roundTo(totalMeters/float64(len(workouts)), 0),
		AvgPace500m:      "N/A",
		FirstWorkout:     first.Format("2006-01-02"),
		LastWorkout:      last.Format("2006-01-02"),
		DaysSinceLast:    int(now.Sub(last).Hours() / 24),
		WorkoutTypeCount: typeCounts,
	}
	if len(paces) > 0 {
		summary.AvgPace500m = FormatPace(mean(paces))
	}
	if len(strokeRates) > 0 {
		summary.AvgStrokeRate = roundTo(mean(strokeRates), 1)
	}
	if len(calories) > 0 {
		summary.AvgCalories = roundTo(mean(calories), 0)
	}
	return summary
}
