package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSTFTPeakBin(t *testing.T) {
	const sampleRate = 8000
	signal := make([]float64, sampleRate/2)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * 1000 * float64(i) / sampleRate)
	}

	result, err := NewSTFT().Compute(signal, 256, 128, sampleRate)
	require.NoError(t, err)
	assert.Equal(t, (len(signal)-256)/128+1, result.TimeFrames)
	assert.Equal(t, 129, result.FreqBins)

	frame := result.Magnitude[result.TimeFrames/2]
	peakBin := 0
	for bin, v := range frame {
		if v > frame[peakBin] {
			peakBin = bin
		}
	}
	assert.InDelta(t, 1000.0, result.BinFrequency(peakBin), result.FreqResolution)
}

func TestSTFTErrors(t *testing.T) {
	s := NewSTFT()
	_, err := s.Compute(nil, 256, 128, 8000)
	assert.Error(t, err)
	_, err = s.Compute(make([]float64, 100), 256, 128, 8000)
	assert.Error(t, err)
	_, err = s.Compute(make([]float64, 1000), 256, 0, 8000)
	assert.Error(t, err)
}

func TestToDecibels(t *testing.T) {
	r := &STFTResult{Magnitude: [][]float64{{1, 0.1, 0}}}
	db := r.ToDecibels(-80)
	assert.InDelta(t, 0.0, db[0][0], 1e-9)
	assert.InDelta(t, -20.0, db[0][1], 1e-9)
	assert.Equal(t, -80.0, db[0][2])
}
