// Package stats provides the descriptive statistics behind the production
// line metrics: series summaries of operation and cycle times, and the
// least-squares slope used for trend classification.
//
// Every function tolerates degenerate input: empty series summarize to
// zeros, and non-finite results report as zero instead of poisoning
// downstream aggregation.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary captures the statistical summary of a series of values.
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64 // population standard deviation
	Min    float64
	Max    float64
	P95    float64
}

// Summarize computes a Summary from raw values.
// Returns a zero-value Summary for empty input.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Summary{
		Count:  len(sorted),
		Mean:   Sanitize(stat.Mean(sorted, nil)),
		StdDev: Sanitize(stat.PopStdDev(sorted, nil)),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P95:    Sanitize(stat.Quantile(0.95, stat.LinInterp, sorted, nil)),
	}
}

// Mean returns the arithmetic mean of values, 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Sanitize(stat.Mean(values, nil))
}

// TrendSlope fits a first-degree least-squares line over values against
// their indices and returns the slope. Returns 0 for fewer than 2 values.
func TrendSlope(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, slope := stat.LinearRegression(xs, values, nil, false)
	return Sanitize(slope)
}

// Sanitize maps NaN and infinities to 0 so degenerate series report zeros.
func Sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
