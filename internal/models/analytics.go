// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package models

import "time"

// Summary holds high-level aggregate statistics over the cached workout set.
// An empty dataset yields a Summary with TotalWorkouts == 0 and all other
// fields at their zero values; formatted fields carry "N/A" when the
// underlying metric has no contributing records.
type Summary struct {
	TotalWorkouts    int            `json:"total_workouts"`
	TotalDistanceKm  float64        `json:"total_distance_km"`
	TotalTimeHours   float64        `json:"total_time_hours"`
	AvgDistanceM     float64        `json:"avg_distance_m"`
	AvgPace500m      string         `json:"avg_pace_500m"`
	AvgStrokeRate    float64        `json:"avg_stroke_rate"`
	AvgCalories      float64        `json:"avg_calories"`
	FirstWorkout     string         `json:"first_workout"`
	LastWorkout      string         `json:"last_workout"`
	DaysSinceLast    int            `json:"days_since_last"`
	WorkoutTypeCount map[string]int `json:"workout_type_breakdown"`
}

// PeriodVolume is one time-bucketed aggregate row (a month or an ISO week).
// Period is "2025-03" for monthly rows and "2025-W09" for weekly rows.
type PeriodVolume struct {
	Period          string  `json:"period"`
	TotalDistanceKm float64 `json:"total_distance_km"`
	TotalTimeHours  float64 `json:"total_time_hours,omitempty"`
	Workouts        int     `json:"workouts"`
	AvgPace500m     float64 `json:"avg_pace_500m,omitempty"`
}

// PersonalBest is the fastest exact match for one benchmark distance.
type PersonalBest struct {
	Time string `json:"time"`
	Pace string `json:"pace"`
	Date string `json:"date"`
}

// Heatmap is a calendar matrix of daily distance, bucketed by ISO week.
// ZValues is row-per-week, column-per-weekday (Mon..Sun); rest days are 0.
type Heatmap struct {
	ZValues [][]float64 `json:"z_values"`
	Weeks   []string    `json:"weeks"`
	Days    []string    `json:"days"`
	Height  int         `json:"height"`
}

// Regression is the pace-over-time trend fit. Paces are seconds per 500m;
// lower is faster, so a negative slope means the athlete is improving.
// RollingAvg entries are nil until the window holds at least 3 samples.
type Regression struct {
	Dates              []string   `json:"dates"`
	Paces              []float64  `json:"paces"`
	PaceFormatted      []string   `json:"pace_formatted"`
	TrendY             []float64  `json:"trend_y"`
	PolyY              []float64  `json:"poly_y"`
	RollingAvg         []*float64 `json:"rolling_avg"`
	Slope              float64    `json:"slope"`
	RSquared           float64    `json:"r_squared"`
	PolyRSquared       float64    `json:"poly_r_squared"`
	PolyDegree         int        `json:"poly_degree"`
	PaceChangePerMonth float64    `json:"pace_change_per_month"`
	Improving          bool       `json:"improving"`
}

// ClusterProfile describes one k-means cluster of workouts.
type ClusterProfile struct {
	ID             int     `json:"id"`
	Label          string  `json:"label"`
	Count          int     `json:"count"`
	AvgDistance    float64 `json:"avg_distance"`
	AvgPace        string  `json:"avg_pace"`
	AvgDurationMin float64 `json:"avg_duration_min"`
}

// ScatterPoint is one workout positioned in cluster feature space.
type ScatterPoint struct {
	Distance float64 `json:"distance"`
	Pace     float64 `json:"pace"`
	TimeMin  float64 `json:"time_min"`
	Cluster  int     `json:"cluster"`
}

// Clustering is the full k-means result: per-point assignments, per-cluster
// profiles (sorted ascending by mean distance), and the elbow diagnostic.
type Clustering struct {
	ScatterData     []ScatterPoint   `json:"scatter_data"`
	ClusterProfiles []ClusterProfile `json:"cluster_profiles"`
	ElbowK          []int            `json:"elbow_k"`
	ElbowInertias   []float64        `json:"elbow_inertias"`
	NumClusters     int              `json:"n_clusters"`
}

// SyncResult reports the outcome of one sync cycle.
type SyncResult struct {
	Synced        bool       `json:"synced"`
	NewWorkouts   int        `json:"new_workouts"`
	TotalWorkouts int        `json:"total_workouts"`
	LastSync      *time.Time `json:"last_sync,omitempty"`
}

// APIResponse is the standard envelope for all JSON endpoints.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
