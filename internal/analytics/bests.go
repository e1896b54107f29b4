// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package analytics

import (
	"fmt"

	"github.com/oarlock/oarlock/internal/models"
)

// benchmarkDistances are the erg distances athletes race and compare:
// 2k and 5k tests, 6k (standard collegiate test), 10k, half and full
// marathon.
var benchmarkDistances = []int{2000, 5000, 6000, 10000, 21097, 42195}

// PersonalBests finds the fastest workout at each benchmark distance.
// Only exact distance matches count; a 5023m piece is not a 5k test.
// Keys are "2000m", "5000m", etc.; benchmarks never attempted are absent.
func PersonalBests(workouts []models.Workout) map[string]models.PersonalBest {
	bests := make(map[string]models.PersonalBest)
	for _, dist := range benchmarkDistances {
		var best *models.Workout
		for i := range workouts {
			w := &workouts[i]
			if w.Distance != dist {
				continue
			}
			if best == nil || w.Time < best.Time {
				best = w
			}
		}
		if best == nil {
			continue
		}

		pace := "N/A"
		if p, ok := best.PacePer500m(); ok {
			pace = FormatPace(p)
		}
		bests[fmt.Sprintf("%dm", dist)] = models.PersonalBest{
			Time: FormatTime(best.TimeSeconds()),
			Pace: pace,
			Date: best.DateParsed().Format("2006-01-02"),
		}
	}
	return bests
}
