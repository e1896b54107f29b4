// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package analytics

import (
	"fmt"
	"sort"

	"github.com/oarlock/oarlock/internal/models"
)

type volumeBucket struct {
	meters   float64
	tenths   float64
	workouts int
	paces    []float64
}

// MonthlyVolume aggregates distance, time, and pace per calendar month.
// Rows are sorted chronologically; Period is "2025-03".
func MonthlyVolume(workouts []models.Workout) []models.PeriodVolume {
	buckets := make(map[string]*volumeBucket)
	for i := range workouts {
		w := &workouts[i]
		key := w.DateParsed().Format("2006-01")
		b := buckets[key]
		if b == nil {
			b = &volumeBucket{}
			buckets[key] = b
		}
		b.meters += float64(w.Distance)
		b.tenths += float64(w.Time)
		b.workouts++
		if pace, ok := w.PacePer500m(); ok {
			b.paces = append(b.paces, pace)
		}
	}

	rows := make([]models.PeriodVolume, 0, len(buckets))
	for period, b := range buckets {
		row := models.PeriodVolume{
			Period:          period,
			TotalDistanceKm: roundTo(b.meters/1000, 2),
			TotalTimeHours:  roundTo(b.tenths/10/3600, 2),
			Workouts:        b.workouts,
		}
		if len(b.paces) > 0 {
			row.AvgPace500m = mean(b.paces)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Period < rows[j].Period })
	return rows
}

// WeeklyVolume aggregates distance and workout count per ISO week.
// Rows are sorted chronologically; Period is "2025-W09".
func WeeklyVolume(workouts []models.Workout) []models.PeriodVolume {
	buckets := make(map[string]*volumeBucket)
	for i := range workouts {
		w := &workouts[i]
		year, week := w.DateParsed().ISOWeek()
		key := fmt.Sprintf("%d-W%02d", year, week)
		b := buckets[key]
		if b == nil {
			b = &volumeBucket{}
			buckets[key] = b
		}
		b.meters += float64(w.Distance)
		b.workouts++
	}

	rows := make([]models.PeriodVolume, 0, len(buckets))
	for period, b := range buckets {
		rows = append(rows, models.PeriodVolume{
			Period:          period,
			TotalDistanceKm: roundTo(b.meters/1000, 2),
			Workouts:        b.workouts,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Period < rows[j].Period })
	return rows
}
