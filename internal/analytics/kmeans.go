// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package analytics

import (
	"math"
	"math/rand"
	"sort"

	"github.com/oarlock/oarlock/internal/models"
)

const (
	defaultClusters = 4
	kmeansSeed      = 42
	kmeansRestarts  = 10
	kmeansMaxIter   = 300
	elbowMaxK       = 8
)

// ClusterWorkouts groups workouts into training session types with k-means
// over (distance, pace, duration).
//
// Features are standardized so distance (thousands of meters) does not
// drown out pace (around a hundred seconds). Clustering is seeded, with the
// best of 10 restarts kept, so repeated calls over the same data give the
// same assignment. The elbow inertias for k=2..8 are included so a chart
// can show whether 4 clusters is a reasonable cut.
//
// Returns an empty Clustering when there are fewer workouts with a defined
// pace than requested clusters.
func ClusterWorkouts(workouts []models.Workout) models.Clustering {
	var points [][]float64
	for i := range workouts {
		w := &workouts[i]
		pace, ok := w.PacePer500m()
		if !ok {
			continue
		}
		points = append(points, []float64{float64(w.Distance), pace, w.TimeSeconds()})
	}
	if len(points) < defaultClusters {
		return models.Clustering{}
	}

	scaled := standardize(points)
	rng := rand.New(rand.NewSource(kmeansSeed))

	// Elbow diagnostic.
	var elbowK []int
	var elbowInertias []float64
	maxK := elbowMaxK
	if len(points)-1 < maxK {
		maxK = len(points) - 1
	}
	for k := 2; k <= maxK; k++ {
		_, inertia := kmeansBest(scaled, k, rng)
		elbowK = append(elbowK, k)
		elbowInertias = append(elbowInertias, roundTo(inertia, 1))
	}

	// The guard above ensures len(points) >= defaultClusters.
	k := defaultClusters
	labels, _ := kmeansBest(scaled, k, rng)

	// Per-cluster feature means over the raw (unscaled) features.
	sums := make([][]float64, k)
	counts := make([]int, k)
	for i := range sums {
		sums[i] = make([]float64, 3)
	}
	for i, p := range points {
		c := labels[i]
		counts[c]++
		for j := range p {
			sums[c][j] += p[j]
		}
	}

	profiles := make([]models.ClusterProfile, 0, k)
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			continue
		}
		avgDist := sums[c][0] / float64(counts[c])
		avgPace := sums[c][1] / float64(counts[c])
		avgMinutes := sums[c][2] / float64(counts[c]) / 60
		profiles = append(profiles, models.ClusterProfile{
			ID:             c,
			Label:          sessionLabel(avgDist),
			Count:          counts[c],
			AvgDistance:    roundTo(avgDist, 0),
			AvgPace:        FormatPace(avgPace),
			AvgDurationMin: roundTo(avgMinutes, 0),
		})
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].AvgDistance < profiles[j].AvgDistance
	})

	scatter := make([]models.ScatterPoint, len(points))
	for i, p := range points {
		scatter[i] = models.ScatterPoint{
			Distance: p[0],
			Pace:     p[1],
			TimeMin:  roundTo(p[2]/60, 1),
			Cluster:  labels[i],
		}
	}

	return models.Clustering{
		ScatterData:     scatter,
		ClusterProfiles: profiles,
		ElbowK:          elbowK,
		ElbowInertias:   elbowInertias,
		NumClusters:     k,
	}
}

// sessionLabel names a cluster by its mean distance. Thresholds follow how
// rowers describe sessions: short sprints, 5k-range and 10k-range steady
// state, and anything longer as endurance work.
func sessionLabel(avgDistance float64) string {
	switch {
	case avgDistance < 2000:
		return "Sprint"
	case avgDistance < 7500:
		return "5K Steady-State"
	case avgDistance <= 12000:
		return "10K Steady-State"
	default:
		return "Long Endurance"
	}
}

// standardize scales each feature column to zero mean and unit variance.
// Constant columns are left centered to avoid dividing by zero.
func standardize(points [][]float64) [][]float64 {
	n := len(points)
	dims := len(points[0])
	means := make([]float64, dims)
	stds := make([]float64, dims)

	for _, p := range points {
		for j, v := range p {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(n)
	}
	for _, p := range points {
		for j, v := range p {
			d := v - means[j]
			stds[j] += d * d
		}
	}
	for j := range stds {
		stds[j] = math.Sqrt(stds[j] / float64(n))
	}

	out := make([][]float64, n)
	for i, p := range points {
		out[i] = make([]float64, dims)
		for j, v := range p {
			out[i][j] = v - means[j]
			if stds[j] > 0 {
				out[i][j] /= stds[j]
			}
		}
	}
	return out
}

// kmeansBest runs k-means with k-means++ seeding several times and keeps
// the run with the lowest inertia.
func kmeansBest(points [][]float64, k int, rng *rand.Rand) ([]int, float64) {
	bestInertia := math.Inf(1)
	var bestLabels []int
	for restart := 0; restart < kmeansRestarts; restart++ {
		labels, inertia := kmeansOnce(points, k, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			bestLabels = labels
		}
	}
	return bestLabels, bestInertia
}

func kmeansOnce(points [][]float64, k int, rng *rand.Rand) ([]int, float64) {
	centroids := seedCentroids(points, k, rng)
	labels := make([]int, len(points))

	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		for i, p := range points {
			best := 0
			bestDist := squaredDistance(p, centroids[0])
			for c := 1; c < k; c++ {
				if d := squaredDistance(p, centroids[c]); d < bestDist {
					bestDist = d
					best = c
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		// Recompute centroids; an emptied cluster keeps its old position.
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, len(points[0]))
		}
		for i, p := range points {
			counts[labels[i]]++
			for j, v := range p {
				sums[labels[i]][j] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			for j := range sums[c] {
				centroids[c][j] = sums[c][j] / float64(counts[c])
			}
		}

		if !changed && iter > 0 {
			break
		}
	}

	var inertia float64
	for i, p := range points {
		inertia += squaredDistance(p, centroids[labels[i]])
	}
	return labels, inertia
}

// seedCentroids picks initial centroids with k-means++: each subsequent
// centroid is sampled proportionally to its squared distance from the
// nearest one already chosen.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := points[rng.Intn(len(points))]
	centroids = append(centroids, append([]float64(nil), first...))

	dists := make([]float64, len(points))
	for len(centroids) < k {
		var total float64
		for i, p := range points {
			d := squaredDistance(p, centroids[0])
			for _, c := range centroids[1:] {
				if dd := squaredDistance(p, c); dd < d {
					d = dd
				}
			}
			dists[i] = d
			total += d
		}
		if total == 0 {
			// All points coincide with existing centroids.
			centroids = append(centroids, append([]float64(nil), points[rng.Intn(len(points))]...))
			continue
		}
		target := rng.Float64() * total
		var cum float64
		chosen := len(points) - 1
		for i, d := range dists {
			cum += d
			if cum >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, append([]float64(nil), points[chosen]...))
	}
	return centroids
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
