// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/oarlock/oarlock/internal/logging"
	"github.com/oarlock/oarlock/internal/metrics"
	"github.com/oarlock/oarlock/internal/models"
	"github.com/oarlock/oarlock/internal/models/concept2"
)

// ResultsFilter narrows a results query. Zero values mean "no filter".
// From and To are YYYY-MM-DD dates interpreted inclusively by the Logbook.
type ResultsFilter struct {
	From         string
	To           string
	Type         string // rower, skierg, bike, dynamic
	UpdatedAfter string // YYYY-MM-DD HH:MM:SS, returns results changed since
}

func (f *ResultsFilter) apply(params url.Values) {
	if f == nil {
		return
	}
	if f.From != "" {
		params.Set("from", f.From)
	}
	if f.To != "" {
		params.Set("to", f.To)
	}
	if f.Type != "" {
		params.Set("type", f.Type)
	}
	if f.UpdatedAfter != "" {
		params.Set("updated_after", f.UpdatedAfter)
	}
}

// maxResultsPerPage is the Logbook's hard cap on the `number` parameter.
const maxResultsPerPage = 250

// GetResults fetches one page of the athlete's results.
// pageSize maps to the Logbook's `number` parameter, clamped to its cap.
func (c *Concept2Client) GetResults(ctx context.Context, page, pageSize int, filter *ResultsFilter) (*concept2.ResultsResponse, error) {
	if pageSize <= 0 || pageSize > maxResultsPerPage {
		pageSize = maxResultsPerPage
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("number", strconv.Itoa(pageSize))
	filter.apply(params)

	var resp concept2.ResultsResponse
	if err := c.get(ctx, "/users/me/results", params, &resp); err != nil {
		return nil, err
	}
	metrics.FetchPagesTotal.Inc()
	metrics.FetchPageSize.Observe(float64(len(resp.Data)))
	return &resp, nil
}

// GetAllResults drains every results page matching the filter, in order.
//
// The loop stops when the server omits pagination metadata, when the
// current page reaches the advertised last page, or when a page comes back
// empty. Pages are fetched sequentially: the Logbook rate-limits per token,
// so parallel page fetches only trade throughput for 429s.
func (c *Concept2Client) GetAllResults(ctx context.Context, pageSize int, filter *ResultsFilter) ([]models.Workout, error) {
	var all []models.Workout

	for page := 1; ; page++ {
		resp, err := c.GetResults(ctx, page, pageSize, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch results page %d: %w", page, err)
		}
		all = append(all, resp.Data...)

		logging.Debug().
			Int("page", page).
			Int("records", len(resp.Data)).
			Int("accumulated", len(all)).
			Msg("Fetched results page")

		if resp.Meta == nil {
			break
		}
		if resp.Meta.Pagination.CurrentPage >= resp.Meta.Pagination.TotalPages {
			break
		}
		if len(resp.Data) == 0 {
			break
		}
	}

	return all, nil
}

// GetUser fetches the authenticated athlete's profile.
func (c *Concept2Client) GetUser(ctx context.Context) (*concept2.User, error) {
	var resp concept2.UserResponse
	if err := c.get(ctx, "/users/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// GetResult fetches a single workout by its Logbook id.
func (c *Concept2Client) GetResult(ctx context.Context, resultID int) (*models.Workout, error) {
	var resp concept2.SingleResultResponse
	endpoint := fmt.Sprintf("/users/me/results/%d", resultID)
	if err := c.get(ctx, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// GetStrokeData fetches the per-stroke samples recorded for a workout.
// Only workouts logged from a connected erg have stroke data.
func (c *Concept2Client) GetStrokeData(ctx context.Context, resultID int) ([]concept2.StrokeDataPoint, error) {
	var resp concept2.StrokeDataResponse
	endpoint := fmt.Sprintf("/users/me/results/%d/strokes", resultID)
	if err := c.get(ctx, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ExportResult downloads a workout file in the given format (fit, csv, tcx).
// The body is returned raw; export formats are opaque to the sync engine.
func (c *Concept2Client) ExportResult(ctx context.Context, resultID int, format string) ([]byte, error) {
	endpoint := fmt.Sprintf("/users/me/results/%d/export/%s", resultID, format)

	var body []byte
	err := retryWithBackoff(ctx, c.retryAttempts, c.retryDelay, c.retryMaxDelay, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		resp, err := c.doGet(ctx, endpoint, nil)
		if errors.Is(err, ErrAuth) {
			if refreshErr := c.tokens.Refresh(ctx); refreshErr != nil {
				return refreshErr
			}
			resp, err = c.doGet(ctx, endpoint, nil)
		}
		if err != nil {
			return err
		}
		defer closeQuietly(resp.Body)

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read export body: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}
