package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistical functions used across algorithms using gonum for robustness

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// PopulationStdDev calculates the population (divide by N) standard deviation
func PopulationStdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	_, variance := stat.PopMeanVariance(data, nil)
	return math.Sqrt(variance)
}

// MinMax returns the minimum and maximum of a non-empty slice
func MinMax(data []float64) (lo, hi float64) {
	if len(data) == 0 {
		return 0.0, 0.0
	}
	return floats.Min(data), floats.Max(data)
}

// PeakAbs returns the largest absolute value in the slice
func PeakAbs(data []float64) float64 {
	peak := 0.0
	for _, val := range data {
		if abs := math.Abs(val); abs > peak {
			peak = abs
		}
	}
	return peak
}

// CenteredMovingAverage smooths data with a window of `radius` samples on each
// side. Windows are clamped at the edges and divided by the number of terms
// actually summed.
func CenteredMovingAverage(data []float64, radius int) []float64 {
	result := make([]float64, len(data))
	if radius < 0 {
		radius = 0
	}

	for i := range data {
		lo := max(0, i-radius)
		hi := min(len(data)-1, i+radius)

		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += data[j]
		}
		result[i] = sum / float64(hi-lo+1)
	}

	return result
}

// FirstDifference returns d[i] = data[i+1] - data[i]
func FirstDifference(data []float64) []float64 {
	if len(data) < 2 {
		return []float64{}
	}

	diff := make([]float64, len(data)-1)
	for i := range diff {
		diff[i] = data[i+1] - data[i]
	}
	return diff
}

// CountLocalExtrema counts strict local maxima and minima (direction changes)
func CountLocalExtrema(data []float64) int {
	count := 0
	for i := 1; i < len(data)-1; i++ {
		isPeak := data[i] > data[i-1] && data[i] > data[i+1]
		isValley := data[i] < data[i-1] && data[i] < data[i+1]
		if isPeak || isValley {
			count++
		}
	}
	return count
}
