//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package stats

import (
	"golang.org/x/exp/slices"
)

// Summary gathers the descriptive statistics of a set of flow completion times
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	Min    float64
	Max    float64
	P50    float64
	P95    float64
	P99    float64
}

func sortedCopy(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	slices.Sort(sorted)
	return sorted
}

// Mean returns the arithmetic mean of the values, 0 when there is none
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median returns the middle value, or the mean of the two middle values when
// the number of values is even.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := sortedCopy(values)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Percentile returns the value at the nearest rank floor(n*q) of an already
// sorted slice. No interpolation is performed.
func Percentile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(float64(n) * q)
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

// PVariance is the population variance: mean of the squared deviations from the mean
func PVariance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sumSquaredDeviations(values) / float64(len(values))
}

// Variance is the unbiased sample variance. It is 0 with fewer than two values.
func Variance(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	return sumSquaredDeviations(values) / float64(len(values)-1)
}

func sumSquaredDeviations(values []float64) float64 {
	mean := Mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum
}

// Summarize computes the summary of a list of FCTs. It returns nil when the list is empty.
func Summarize(fcts []float64) *Summary {
	if len(fcts) == 0 {
		return nil
	}

	sorted := sortedCopy(fcts)
	n := len(sorted)

	s := &Summary{
		Count:  n,
		Mean:   Mean(fcts),
		Median: Median(fcts),
		Min:    sorted[0],
		Max:    sorted[n-1],
		P50:    sorted[n/2],
	}
	// With a single sample the tail percentiles collapse onto the maximum
	if n > 1 {
		s.P95 = Percentile(sorted, 0.95)
		s.P99 = Percentile(sorted, 0.99)
	} else {
		s.P95 = sorted[n-1]
		s.P99 = sorted[n-1]
	}
	return s
}
