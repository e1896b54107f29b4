// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package sync

import (
	"errors"
	"fmt"
)

// ErrAuth indicates the Logbook rejected our credentials (HTTP 401/403).
// Auth failures are never retried; the token has to be refreshed or replaced.
var ErrAuth = errors.New("concept2: authentication failed")

// ErrSyncInProgress is returned when a sync cycle is requested while another
// one is still running.
var ErrSyncInProgress = errors.New("sync already in progress")

// TransientError wraps failures worth retrying: network errors, HTTP 5xx,
// and HTTP 429 rate limiting.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// MalformedResponseError indicates the Logbook returned a payload we could
// not decode. Not retried: the same request would yield the same body.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the error is worth another attempt.
func IsRetryable(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// ErrorKind maps an error to a stable label for metrics.
func ErrorKind(err error) string {
	var te *TransientError
	var me *MalformedResponseError
	switch {
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.As(err, &te):
		return "transient"
	case errors.As(err, &me):
		return "malformed"
	default:
		return "other"
	}
}
