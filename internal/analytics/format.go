// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

// Package analytics computes training statistics over the cached workout
// set: aggregate summaries, volume buckets, personal bests, a calendar
// heatmap, pace trend regression, and k-means workout clustering.
//
// All functions are pure: they take a slice of workouts and return typed
// results, so they are trivially testable and never touch the store.
package analytics

import (
	"fmt"
	"math"
)

// FormatPace renders seconds-per-500m as M:SS.t, e.g. 1:54.3.
// Returns "N/A" for NaN (undefined pace).
func FormatPace(paceSeconds float64) string {
	if math.IsNaN(paceSeconds) {
		return "N/A"
	}
	minutes := int(paceSeconds / 60)
	seconds := paceSeconds - float64(minutes)*60
	return fmt.Sprintf("%d:%04.1f", minutes, seconds)
}

// FormatTime renders a duration in seconds as H:MM:SS.t, dropping the hour
// field when zero, e.g. 7:29.8 or 1:13:57.5.
func FormatTime(totalSeconds float64) string {
	hours := int(totalSeconds / 3600)
	remaining := totalSeconds - float64(hours)*3600
	minutes := int(remaining / 60)
	seconds := remaining - float64(minutes)*60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%04.1f", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%04.1f", minutes, seconds)
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
