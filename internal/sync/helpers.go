// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package sync

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/oarlock/oarlock/internal/logging"
	"github.com/oarlock/oarlock/internal/metrics"
)

// retryWithBackoff executes fn with exponential backoff on retryable
// failures. Auth and malformed-response errors abort immediately. The
// context is honored during backoff waits.
func retryWithBackoff(ctx context.Context, attempts int, delay, maxDelay time.Duration, fn func() error) error {
	var err error

	for attempt := 0; attempt < attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err = fn()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}

		if attempt < attempts-1 {
			metrics.FetchRetries.Inc()
			logging.Warn().Err(err).
				Int("attempt", attempt+1).
				Int("max_attempts", attempts).
				Dur("delay", delay).
				Msg("Retrying Logbook request")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
			if maxDelay > 0 && delay > maxDelay {
				delay = maxDelay
			}
		}
	}

	return fmt.Errorf("max retry attempts reached: %w", err)
}

// closeQuietly closes a resource, logging any error at debug level.
func closeQuietly(c io.Closer) {
	if err := c.Close(); err != nil {
		logging.Debug().Err(err).Msg("Failed to close resource")
	}
}
