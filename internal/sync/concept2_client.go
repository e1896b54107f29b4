// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

/*
concept2_client.go - Core Concept2 Logbook API Client

HTTP communication layer for the Concept2 Logbook REST API
(https://log.concept2.com/api). Handles bearer authentication, the
versioned Accept header, client-side rate limiting, and circuit breaker
protection. Endpoint methods live in concept2_results.go.
*/
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/oarlock/oarlock/internal/config"
	"github.com/oarlock/oarlock/internal/logging"
	"github.com/oarlock/oarlock/internal/metrics"
)

// acceptHeader pins the Logbook API version so response shapes stay stable.
const acceptHeader = "application/vnd.c2logbook.v1+json"

// maxErrorBodySize limits how much of an error response body is read
// for diagnostics.
const maxErrorBodySize = 64 * 1024 // 64KB

// Concept2Client talks to the Concept2 Logbook REST API.
//
// Requests are paced by a client-side rate limiter (the Logbook throttles
// aggressive clients) and wrapped in a circuit breaker so a Logbook outage
// fails fast instead of stacking up blocked sync cycles.
//
// Thread Safety: safe for concurrent use. Each request creates its own
// http.Request; token state lives behind the TokenSource.
type Concept2Client struct {
	baseURL string
	tokens  TokenSource
	client  *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[*http.Response]

	// Bounded retry policy applied to each individual request, so a
	// transient blip on one page does not abort a whole page drain.
	retryAttempts int
	retryDelay    time.Duration
	retryMaxDelay time.Duration
}

// NewConcept2Client creates a Logbook API client from the configuration.
func NewConcept2Client(cfg *config.Concept2Config, syncCfg *config.SyncConfig, tokens TokenSource) *Concept2Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := syncCfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	attempts := syncCfg.RetryAttempts
	if attempts <= 0 {
		attempts = 3
	}

	cbName := "concept2-api"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Logbook circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &Concept2Client{
		baseURL:       cfg.APIURL(),
		tokens:        tokens,
		client:        &http.Client{Timeout: timeout},
		limiter:       rate.NewLimiter(rate.Limit(rps), 1),
		cb:            cb,
		retryAttempts: attempts,
		retryDelay:    syncCfg.RetryDelay,
		retryMaxDelay: syncCfg.RetryMaxDelay,
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// get performs an authenticated GET against a Logbook endpoint and decodes
// the JSON response into result. Each request carries its own bounded retry
// with exponential backoff, so transient failures are absorbed here rather
// than surfacing to callers mid-drain.
//
// Errors are classified for the retry loop: auth failures wrap ErrAuth
// (never retried), HTTP 5xx/429 and network errors wrap TransientError
// (retried), undecodable bodies wrap MalformedResponseError.
func (c *Concept2Client) get(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	return retryWithBackoff(ctx, c.retryAttempts, c.retryDelay, c.retryMaxDelay, func() error {
		return c.getOnce(ctx, endpoint, params, result)
	})
}

// getOnce is a single request attempt. On HTTP 401 it refreshes the token
// once and retries the request before giving up.
func (c *Concept2Client) getOnce(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.doGet(ctx, endpoint, params)
	if errors.Is(err, ErrAuth) {
		logging.Debug().Str("endpoint", endpoint).Msg("Token rejected, attempting refresh")
		if refreshErr := c.tokens.Refresh(ctx); refreshErr != nil {
			return refreshErr
		}
		resp, err = c.doGet(ctx, endpoint, params)
	}
	if err != nil {
		return err
	}
	defer closeQuietly(resp.Body)

	// Results pages can be large; decode with the standard streaming decoder.
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &MalformedResponseError{Err: fmt.Errorf("failed to decode %s response: %w", endpoint, err)}
	}
	return nil
}

// doGet issues one request through the circuit breaker and maps the HTTP
// status to an error class. The caller owns the response body on success.
func (c *Concept2Client) doGet(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	resp, err := c.cb.Execute(func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.tokens.AccessToken())
		req.Header.Set("Accept", acceptHeader)

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, &TransientError{Err: fmt.Errorf("request to %s failed: %w", endpoint, err)}
		}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			body := readBodyForError(resp.Body)
			closeQuietly(resp.Body)
			return nil, &TransientError{Err: fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, endpoint, body)}
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues("concept2-api", "rejected").Inc()
			return nil, &TransientError{Err: err}
		}
		metrics.CircuitBreakerRequests.WithLabelValues("concept2-api", "failure").Inc()
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues("concept2-api", "success").Inc()

	// Auth and client errors pass through the breaker as successes so a bad
	// token cannot trip the circuit; classify them here.
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		closeQuietly(resp.Body)
		return nil, fmt.Errorf("HTTP %d from %s: %w", resp.StatusCode, endpoint, ErrAuth)
	case resp.StatusCode != http.StatusOK:
		body := readBodyForError(resp.Body)
		closeQuietly(resp.Body)
		return nil, fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, endpoint, body)
	}
	return resp, nil
}

// readBodyForError reads at most maxErrorBodySize bytes for error reporting.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("... (truncated)")...)
	}
	return body
}
