// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

// Package concept2 holds the wire types for the Concept2 Logbook REST API.
// Field names and nesting mirror the JSON the Logbook returns; conversion to
// domain types happens at the client boundary.
package concept2

import "github.com/oarlock/oarlock/internal/models"

// ResultsResponse is the envelope for GET /users/{user}/results.
// Meta is nil when the server omits pagination metadata, which callers must
// treat as "this is the last page".
type ResultsResponse struct {
	Data []models.Workout `json:"data"`
	Meta *Meta            `json:"meta,omitempty"`
}

// Meta wraps pagination info in the Logbook's envelope shape.
type Meta struct {
	Pagination Pagination `json:"pagination"`
}

// Pagination describes the remote result window.
type Pagination struct {
	Total       int `json:"total"`
	Count       int `json:"count"`
	PerPage     int `json:"per_page"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

// SingleResultResponse is the envelope for GET /users/{user}/results/{id}.
type SingleResultResponse struct {
	Data models.Workout `json:"data"`
}

// User is the Logbook athlete profile.
type User struct {
	ID           int     `json:"id"`
	Username     string  `json:"username"`
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	Gender       *string `json:"gender,omitempty"`
	DOB          *string `json:"dob,omitempty"`
	Email        *string `json:"email,omitempty"`
	Country      *string `json:"country,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty"`
	MaxHeartRate *int    `json:"max_heart_rate,omitempty"`
}

// UserResponse is the envelope for GET /users/{user}.
type UserResponse struct {
	Data User `json:"data"`
}

// TokenResponse is the OAuth2 token endpoint payload.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// StrokeDataPoint is one per-stroke sample from a workout recording.
type StrokeDataPoint struct {
	T   *int `json:"t,omitempty"`   // elapsed time
	D   *int `json:"d,omitempty"`   // distance
	P   *int `json:"p,omitempty"`   // pace
	SPM *int `json:"spm,omitempty"` // strokes per minute
	HR  *int `json:"hr,omitempty"`  // heart rate
}

// StrokeDataResponse is the envelope for GET /users/{user}/results/{id}/strokes.
type StrokeDataResponse struct {
	Data []StrokeDataPoint `json:"data"`
}
