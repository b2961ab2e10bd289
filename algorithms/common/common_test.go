package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeakNormalize(t *testing.T) {
	n := NewNormalizer(Peak)

	out := n.Normalize([]float64{0.25, -0.5, 0.1})
	assert.InDeltaSlice(t, []float64{0.5, -1.0, 0.2}, out, 1e-12)

	// idempotent once the peak is 1
	again := n.Normalize(out)
	assert.InDeltaSlice(t, out, again, 1e-12)
	assert.InDelta(t, 1.0, PeakAbs(again), 1e-12)
}

func TestPeakNormalizeSilence(t *testing.T) {
	out := NewNormalizer(Peak).Normalize([]float64{0, 0, 0})
	assert.Equal(t, []float64{0, 0, 0}, out)
}

func TestMinMaxNormalize(t *testing.T) {
	n := NewNormalizer(MinMaxScale)

	out := n.Normalize([]float64{2, 4, 6})
	assert.InDeltaSlice(t, []float64{0, 0.5, 1}, out, 1e-12)

	constant := n.Normalize([]float64{3, 3, 3, 3})
	assert.Equal(t, []float64{0.5, 0.5, 0.5, 0.5}, constant)

	assert.Empty(t, n.Normalize(nil))
}

func TestCenteredMovingAverage(t *testing.T) {
	data := []float64{0, 0, 0, 7, 0, 0, 0, 0}
	out := CenteredMovingAverage(data, 3)
	require.Len(t, out, len(data))

	// index 0 averages data[0..3] -> 4 terms
	assert.InDelta(t, 7.0/4.0, out[0], 1e-12)
	// index 3 averages data[0..6] -> 7 terms
	assert.InDelta(t, 1.0, out[3], 1e-12)
	// index 7 averages data[4..7] -> 4 terms, no spike
	assert.InDelta(t, 0.0, out[7], 1e-12)
	// index 6 averages data[3..7] -> 5 terms
	assert.InDelta(t, 7.0/5.0, out[6], 1e-12)
}

func TestFirstDifference(t *testing.T) {
	assert.Equal(t, []float64{1, -3}, FirstDifference([]float64{1, 2, -1}))
	assert.Empty(t, FirstDifference([]float64{1}))
	assert.Empty(t, FirstDifference(nil))
}

func TestPopulationStdDev(t *testing.T) {
	assert.InDelta(t, 2.0, PopulationStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
	assert.Equal(t, 0.0, PopulationStdDev(nil))
	assert.InDelta(t, 5.0, Mean([]float64{4, 6}), 1e-12)
}

func TestCountLocalExtrema(t *testing.T) {
	assert.Equal(t, 3, CountLocalExtrema([]float64{0, 1, 0, 1, 0}))
	assert.Equal(t, 0, CountLocalExtrema([]float64{0, 1, 2, 3}))
	assert.Equal(t, 0, CountLocalExtrema([]float64{1, 1, 1}))
}

func TestMinMax(t *testing.T) {
	lo, hi := MinMax([]float64{3, -1, math.Pi})
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, math.Pi, hi)
}
