// Package formulas provides the numerical building blocks of the risk engine.
package formulas

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ZeroVarianceEpsilon is the standard deviation below which a series is treated as constant.
const ZeroVarianceEpsilon = 1e-12

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation (N-1 denominator).
// Returns 0 for fewer than two observations.
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	sd := stat.StdDev(data, nil)
	if sd < ZeroVarianceEpsilon || math.IsNaN(sd) {
		return 0
	}
	return sd
}

// IsConstant reports whether a series has (numerically) zero variance.
func IsConstant(data []float64) bool {
	return StdDev(data) == 0
}

// Correlation calculates the Pearson correlation coefficient between two datasets.
// ok is false when the inputs are misaligned, too short, or either side is constant.
func Correlation(x, y []float64) (float64, bool) {
	if len(x) < 2 || len(x) != len(y) {
		return 0, false
	}
	if IsConstant(x) || IsConstant(y) {
		return 0, false
	}
	c := stat.Correlation(x, y, nil)
	if math.IsNaN(c) {
		return 0, false
	}
	// Rounding can push |c| a hair past 1.
	return math.Max(-1, math.Min(1, c)), true
}

// WeightedSum returns Σ weights[i] * values[i].
func WeightedSum(weights, values []float64) float64 {
	return floats.Dot(weights, values)
}

// AnnualizedVolatility scales a periodic standard deviation by sqrt(periodsPerYear).
func AnnualizedVolatility(periodicStdDev float64, periodsPerYear int) float64 {
	return periodicStdDev * math.Sqrt(float64(periodsPerYear))
}
