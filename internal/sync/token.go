// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package sync

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/oarlock/oarlock/internal/config"
	"github.com/oarlock/oarlock/internal/logging"
	"github.com/oarlock/oarlock/internal/models/concept2"
)

// TokenSource provides OAuth2 bearer tokens for Logbook API requests.
type TokenSource interface {
	// AccessToken returns the current bearer token.
	AccessToken() string
	// Refresh exchanges the refresh token for a new access token.
	// Called after the API rejects the current token.
	Refresh(ctx context.Context) error
}

// StaticTokenSource returns a fixed token and cannot refresh.
// Useful for tests and for short-lived tokens managed externally.
type StaticTokenSource struct {
	Token string
}

func (s *StaticTokenSource) AccessToken() string { return s.Token }

func (s *StaticTokenSource) Refresh(_ context.Context) error {
	return fmt.Errorf("static token cannot be refreshed: %w", ErrAuth)
}

// RefreshingTokenSource holds an access/refresh token pair and exchanges the
// refresh token at the Logbook OAuth endpoint when asked. Safe for
// concurrent use.
type RefreshingTokenSource struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	cfg          *config.Concept2Config
	client       *http.Client
}

// NewTokenSource builds a token source from the configured credentials.
// Returns a StaticTokenSource when no refresh token is configured.
func NewTokenSource(cfg *config.Concept2Config) TokenSource {
	if cfg.RefreshToken == "" {
		return &StaticTokenSource{Token: cfg.AccessToken}
	}
	return &RefreshingTokenSource{
		accessToken:  cfg.AccessToken,
		refreshToken: cfg.RefreshToken,
		cfg:          cfg,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *RefreshingTokenSource) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// Refresh performs the OAuth2 refresh_token grant against the Logbook.
func (s *RefreshingTokenSource) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", s.refreshToken)
	form.Set("client_id", s.cfg.ClientID)
	form.Set("client_secret", s.cfg.ClientSecret)
	if s.cfg.Scope != "" {
		form.Set("scope", s.cfg.Scope)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TokenURL(),
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return &TransientError{Err: fmt.Errorf("token refresh request failed: %w", err)}
	}
	defer closeQuietly(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden ||
		resp.StatusCode == http.StatusBadRequest {
		return fmt.Errorf("token refresh rejected (HTTP %d): %w", resp.StatusCode, ErrAuth)
	}
	if resp.StatusCode != http.StatusOK {
		return &TransientError{Err: fmt.Errorf("token refresh failed with HTTP %d", resp.StatusCode)}
	}

	var tok concept2.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return &MalformedResponseError{Err: fmt.Errorf("failed to decode token response: %w", err)}
	}
	if tok.AccessToken == "" {
		return &MalformedResponseError{Err: fmt.Errorf("token response missing access_token")}
	}

	s.accessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		s.refreshToken = tok.RefreshToken
	}

	logging.Info().Int("expires_in", tok.ExpiresIn).Msg("Access token refreshed")
	return nil
}
