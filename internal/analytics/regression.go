// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/oarlock/oarlock/internal/models"
)

const (
	polyDegree        = 3
	rollingWindow     = 10
	rollingMinSamples = 3
)

// PaceTrend fits linear and cubic regressions of pace against training day.
//
// Pace is seconds per 500m, so a negative slope means the athlete is getting
// faster. The linear fit gives the headline trend (slope, R², projected
// change per month); the cubic fit captures plateau-and-breakthrough shapes
// the line misses. A 10-workout rolling average smooths session-to-session
// noise. Workouts with no distance (undefined pace) are excluded.
func PaceTrend(workouts []models.Workout) models.Regression {
	type sample struct {
		when time.Time
		pace float64
	}
	var samples []sample
	for i := range workouts {
		if pace, ok := workouts[i].PacePer500m(); ok {
			samples = append(samples, sample{when: workouts[i].DateParsed(), pace: pace})
		}
	}
	if len(samples) == 0 {
		return models.Regression{}
	}
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].when.Before(samples[j].when)
	})

	firstDay := samples[0].when
	n := len(samples)
	x := make([]float64, n)
	y := make([]float64, n)
	dates := make([]string, n)
	paceFormatted := make([]string, n)
	for i, s := range samples {
		x[i] = math.Floor(s.when.Sub(firstDay).Hours() / 24)
		y[i] = s.pace
		dates[i] = s.when.Format("2006-01-02")
		paceFormatted[i] = FormatPace(s.pace)
	}

	linCoeffs := polyfit(x, y, 1)
	trendY := polyval(linCoeffs, x)
	slope := linCoeffs[1]

	deg := polyDegree
	if deg > n-1 {
		deg = n - 1
	}
	polyCoeffs := polyfit(x, y, deg)
	polyY := polyval(polyCoeffs, x)

	meanY := mean(y)
	var ssTot, ssRes, ssResPoly float64
	for i := range y {
		ssTot += (y[i] - meanY) * (y[i] - meanY)
		ssRes += (y[i] - trendY[i]) * (y[i] - trendY[i])
		ssResPoly += (y[i] - polyY[i]) * (y[i] - polyY[i])
	}
	var rSquared, polyRSquared float64
	if ssTot > 0 {
		rSquared = 1 - ssRes/ssTot
		polyRSquared = 1 - ssResPoly/ssTot
	}

	return models.Regression{
		Dates:              dates,
		Paces:              y,
		PaceFormatted:      paceFormatted,
		TrendY:             trendY,
		PolyY:              polyY,
		RollingAvg:         rollingMean(y, rollingWindow, rollingMinSamples),
		Slope:              roundTo(slope, 4),
		RSquared:           roundTo(rSquared, 3),
		PolyRSquared:       roundTo(polyRSquared, 3),
		PolyDegree:         polyDegree,
		PaceChangePerMonth: roundTo(slope*30, 2),
		Improving:          slope < 0,
	}
}

// rollingMean computes a trailing-window mean. Entries are nil until the
// window holds at least minSamples values.
func rollingMean(values []float64, window, minSamples int) []*float64 {
	out := make([]*float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		size := i + 1
		if size > window {
			sum -= values[i-window]
			size = window
		}
		if size >= minSamples {
			avg := roundTo(sum/float64(size), 2)
			out[i] = &avg
		}
	}
	return out
}

// polyfit fits a degree-deg polynomial by least squares via the normal
// equations. Returns coefficients lowest order first, so c[0] is the
// intercept and c[1] the linear term.
func polyfit(x, y []float64, deg int) []float64 {
	terms := deg + 1
	// Normal equations: (X^T X) c = X^T y, with X the Vandermonde matrix.
	a := make([][]float64, terms)
	b := make([]float64, terms)
	for i := 0; i < terms; i++ {
		a[i] = make([]float64, terms)
		for j := 0; j < terms; j++ {
			var sum float64
			for _, xv := range x {
				sum += math.Pow(xv, float64(i+j))
			}
			a[i][j] = sum
		}
		for k, xv := range x {
			b[i] += y[k] * math.Pow(xv, float64(i))
		}
	}
	return solveLinearSystem(a, b)
}

// polyval evaluates the polynomial (coefficients lowest order first) at
// each point via Horner's method.
func polyval(coeffs, x []float64) []float64 {
	out := make([]float64, len(x))
	for i, xv := range x {
		var v float64
		for j := len(coeffs) - 1; j >= 0; j-- {
			v = v*xv + coeffs[j]
		}
		out[i] = v
	}
	return out
}

// solveLinearSystem solves a*c = b by Gaussian elimination with partial
// pivoting. Near-singular pivots yield zero coefficients rather than NaN,
// which keeps degenerate inputs (all workouts on one day) well-defined.
func solveLinearSystem(a [][]float64, b []float64) []float64 {
	n := len(b)
	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		if math.Abs(a[col][col]) < 1e-12 {
			continue
		}
		for row := col + 1; row < n; row++ {
			factor := a[row][col] / a[col][col]
			for k := col; k < n; k++ {
				a[row][k] -= factor * a[col][k]
			}
			b[row] -= factor * b[col]
		}
	}

	c := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		if math.Abs(a[row][row]) < 1e-12 {
			c[row] = 0
			continue
		}
		sum := b[row]
		for k := row + 1; k < n; k++ {
			sum -= a[row][k] * c[k]
		}
		c[row] = sum / a[row][row]
	}
	return c
}
