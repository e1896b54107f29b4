// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package database

import (
	"io"

	"github.com/oarlock/oarlock/internal/logging"
)

// closeQuietly closes a resource, logging any error at debug level.
// Used for deferred closes where the error cannot change the outcome.
func closeQuietly(c io.Closer) {
	if err := c.Close(); err != nil {
		logging.Debug().Err(err).Msg("Failed to close resource")
	}
}
