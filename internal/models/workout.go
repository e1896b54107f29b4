// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package models

import "time"

// Activity types as reported by the Concept2 Logbook API.
const (
	ActivityRower   = "rower"
	ActivitySkiErg  = "skierg"
	ActivityBikeErg = "bike"
	ActivityDynamic = "dynamic"
)

// HeartRate holds the optional heart-rate block attached to a workout.
// Pointer fields distinguish "not recorded" from a genuine zero.
type HeartRate struct {
	Average *int `json:"average,omitempty"`
	Min     *int `json:"min,omitempty"`
	Max     *int `json:"max,omitempty"`
	Ending  *int `json:"ending,omitempty"`
}

// Workout is one normalized workout record from the Concept2 Logbook.
//
// Distance is meters, Time is tenths of a second (the Logbook's native unit).
// Date is the athlete's local wall-clock time as a string; DateUTC and
// Timezone are optional. ID is assigned by the Logbook and is globally unique
// per owner - it is the merge key for the local store, so re-fetching an
// edited workout overwrites in place rather than duplicating.
type Workout struct {
	ID            int        `json:"id"`
	UserID        int        `json:"user_id"`
	Date          string     `json:"date"`
	Timezone      *string    `json:"timezone,omitempty"`
	DateUTC       *string    `json:"date_utc,omitempty"`
	Distance      int        `json:"distance"`
	Type          string     `json:"type"`
	Time          int        `json:"time"`
	TimeFormatted *string    `json:"time_formatted,omitempty"`
	WorkoutType   *string    `json:"workout_type,omitempty"`
	Source        *string    `json:"source,omitempty"`
	WeightClass   *string    `json:"weight_class,omitempty"`
	Verified      *bool      `json:"verified,omitempty"`
	Ranked        *bool      `json:"ranked,omitempty"`
	Comments      *string    `json:"comments,omitempty"`
	Privacy       *string    `json:"privacy,omitempty"`
	StrokeRate    *int       `json:"stroke_rate,omitempty"`
	StrokeCount   *int       `json:"stroke_count,omitempty"`
	CaloriesTotal *int       `json:"calories_total,omitempty"`
	DragFactor    *int       `json:"drag_factor,omitempty"`
	HeartRate     *HeartRate `json:"heart_rate,omitempty"`
	RestTime      *int       `json:"rest_time,omitempty"`
	RestDistance  *int       `json:"rest_distance,omitempty"`
}

// TimeSeconds converts the elapsed time from tenths of a second to seconds.
func (w *Workout) TimeSeconds() float64 {
	return float64(w.Time) / 10.0
}

// PacePer500m returns the pace in seconds per 500 meters.
// The second return value is false when the workout has no distance
// (e.g. a timed-only interval), in which case pace is undefined.
func (w *Workout) PacePer500m() (float64, bool) {
	if w.Distance <= 0 {
		return 0, false
	}
	return w.TimeSeconds() / float64(w.Distance) * 500, true
}

// dateLayouts lists the wall-clock formats the Logbook emits, most
// specific first.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DateParsed parses the local wall-clock date string.
// Falls back to day precision when the time-of-day portion is malformed.
func (w *Workout) DateParsed() time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, w.Date); err == nil {
			return t
		}
	}
	if len(w.Date) >= 10 {
		if t, err := time.Parse("2006-01-02", w.Date[:10]); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Day returns the workout date truncated to day precision (YYYY-MM-DD).
func (w *Workout) Day() string {
	if len(w.Date) >= 10 {
		return w.Date[:10]
	}
	return w.Date
}
