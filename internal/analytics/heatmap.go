// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/oarlock/oarlock/internal/models"
)

var weekdayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// TrainingHeatmap builds an ISO-week x weekday matrix of daily meters for a
// calendar heatmap. Every day between the first and last workout gets a
// cell; rest days are zero, so training gaps are visible rather than
// collapsed. An empty input yields an empty Heatmap.
func TrainingHeatmap(workouts []models.Workout) models.Heatmap {
	if len(workouts) == 0 {
		return models.Heatmap{}
	}

	// Daily totals, then the covered date range.
	daily := make(map[string]float64)
	var minDay, maxDay time.Time
	for i := range workouts {
		w := &workouts[i]
		day := w.DateParsed().Truncate(24 * time.Hour)
		day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		daily[day.Format("2006-01-02")] += float64(w.Distance)
		if minDay.IsZero() || day.Before(minDay) {
			minDay = day
		}
		if day.After(maxDay) {
			maxDay = day
		}
	}

	// Walk the full range so rest days land as zeros.
	rows := make(map[string][]float64)
	var weekOrder []string
	for day := minDay; !day.After(maxDay); day = day.AddDate(0, 0, 1) {
		year, week := day.ISOWeek()
		label := fmt.Sprintf("%d-W%02d", year, week)
		if _, ok := rows[label]; !ok {
			rows[label] = make([]float64, 7)
			weekOrder = append(weekOrder, label)
		}
		weekday := isoWeekday(day)
		rows[label][weekday-1] += daily[day.Format("2006-01-02")]
	}
	sort.Strings(weekOrder)

	z := make([][]float64, len(weekOrder))
	for i, label := range weekOrder {
		z[i] = rows[label]
	}

	height := len(weekOrder) * 22
	if height < 300 {
		height = 300
	}
	return models.Heatmap{
		ZValues: z,
		Weeks:   weekOrder,
		Days:    weekdayNames,
		Height:  height,
	}
}

// isoWeekday maps time.Weekday to ISO 8601 numbering (Mon=1 .. Sun=7).
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
