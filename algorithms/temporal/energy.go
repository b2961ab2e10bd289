package temporal

import (
	"fmt"

	"github.com/RyanBlaney/sonido-prosody/algorithms/common"
	"github.com/RyanBlaney/sonido-prosody/logging"
)

// DefaultSmoothingRadius is the moving-average radius (in frames) applied to
// the short-time energy curve
const DefaultSmoothingRadius = 3

// Energy computes short-time energy over fixed-size overlapping frames
type Energy struct {
	frameSize       int
	hopSize         int
	sampleRate      int
	smoothingRadius int
	logger          logging.Logger
}

// EnergyResult holds the raw and smoothed energy curves of one signal
type EnergyResult struct {
	Raw        []float64 `json:"raw"`
	Smoothed   []float64 `json:"smoothed"`
	FrameSize  int       `json:"frame_size"`
	HopSize    int       `json:"hop_size"`
	SampleRate int       `json:"sample_rate"`
}

// NewEnergy creates a new energy calculator
func NewEnergy(frameSize, hopSize, sampleRate int) *Energy {
	return &Energy{
		frameSize:       frameSize,
		hopSize:         hopSize,
		sampleRate:      sampleRate,
		smoothingRadius: DefaultSmoothingRadius,
		logger: logging.WithFields(logging.Fields{
			"component": "energy_analyzer",
		}),
	}
}

// NewEnergyForDurations sizes frames from durations in seconds, flooring to
// whole samples (25 ms / 10 ms gives 1102 / 441 samples at 44.1 kHz)
func NewEnergyForDurations(sampleRate int, frameSeconds, hopSeconds float64) *Energy {
	frameSize := int(frameSeconds * float64(sampleRate))
	hopSize := int(hopSeconds * float64(sampleRate))
	return NewEnergy(frameSize, hopSize, sampleRate)
}

// SetSmoothingRadius overrides DefaultSmoothingRadius
func (e *Energy) SetSmoothingRadius(radius int) {
	e.smoothingRadius = radius
}

// FrameSize returns the analysis frame length in samples
func (e *Energy) FrameSize() int { return e.frameSize }

// HopSize returns the distance between frame starts in samples
func (e *Energy) HopSize() int { return e.hopSize }

// FrameCount returns floor((n - frameSize) / hopSize) + 1, or 0 when not even
// one frame fits
func (e *Energy) FrameCount(n int) int {
	if e.frameSize <= 0 || e.hopSize <= 0 || n < e.frameSize {
		return 0
	}
	return (n-e.frameSize)/e.hopSize + 1
}

// ComputeShortTimeEnergy calculates the mean squared amplitude of every frame.
// Each frame's sum is divided by the nominal frame size, not the number of
// samples actually read.
func (e *Energy) ComputeShortTimeEnergy(signal []float64) ([]float64, error) {
	if e.frameSize <= 0 || e.hopSize <= 0 {
		return nil, fmt.Errorf("%w: frame size %d / hop size %d at %d Hz",
			common.ErrInvalidAudioFormat, e.frameSize, e.hopSize, e.sampleRate)
	}
	if len(signal) < e.frameSize {
		return nil, fmt.Errorf("%w: %d samples, energy frame needs %d",
			common.ErrInsufficientAudio, len(signal), e.frameSize)
	}

	numFrames := e.FrameCount(len(signal))
	energies := make([]float64, numFrames)

	for i := range numFrames {
		startIdx := i * e.hopSize
		endIdx := min(startIdx+e.frameSize, len(signal))

		sumSquares := 0.0
		for j := startIdx; j < endIdx; j++ {
			sumSquares += signal[j] * signal[j]
		}
		energies[i] = sumSquares / float64(e.frameSize)
	}

	return energies, nil
}

// SmoothEnergy applies a centered moving average clamped at the edges
func (e *Energy) SmoothEnergy(energies []float64) []float64 {
	return common.CenteredMovingAverage(energies, e.smoothingRadius)
}

// ComputeEnergyDerivative calculates first derivative of energy
// Useful for onset detection and transient analysis
func (e *Energy) ComputeEnergyDerivative(energies []float64) []float64 {
	return common.FirstDifference(energies)
}

// Analyze computes the raw and smoothed energy curves
func (e *Energy) Analyze(signal []float64) (*EnergyResult, error) {
	raw, err := e.ComputeShortTimeEnergy(signal)
	if err != nil {
		return nil, err
	}

	smoothed := e.SmoothEnergy(raw)

	e.logger.Debug("Short-time energy computed", logging.Fields{
		"frames":     len(raw),
		"frame_size": e.frameSize,
		"hop_size":   e.hopSize,
	})

	return &EnergyResult{
		Raw:        raw,
		Smoothed:   smoothed,
		FrameSize:  e.frameSize,
		HopSize:    e.hopSize,
		SampleRate: e.sampleRate,
	}, nil
}
