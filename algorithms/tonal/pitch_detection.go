package tonal

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/RyanBlaney/sonido-prosody/algorithms/common"
	"github.com/RyanBlaney/sonido-prosody/logging"
)

// PitchDetectionParams contains parameters for pitch detection
type PitchDetectionParams struct {
	SampleRate int `json:"sample_rate"`
	WindowSize int `json:"window_size"` // samples per pitch frame
	HopSize    int `json:"hop_size"`    // samples between frame starts

	// Frequency range constraints; they set the lag search range
	MinFreq float64 `json:"min_freq"` // Minimum frequency (Hz)
	MaxFreq float64 `json:"max_freq"` // Maximum frequency (Hz)

	// Workers caps the goroutines used by EstimateContour; 0 picks from NumCPU
	Workers int `json:"workers"`
}

// DefaultPitchDetectionParams returns 40 ms frames every 15 ms searching 75-500 Hz
func DefaultPitchDetectionParams(sampleRate int) PitchDetectionParams {
	return PitchDetectionParams{
		SampleRate: sampleRate,
		WindowSize: int(0.040 * float64(sampleRate)),
		HopSize:    int(0.015 * float64(sampleRate)),
		MinFreq:    75.0,
		MaxFreq:    500.0,
	}
}

// PitchDetector estimates a fundamental-frequency contour by brute-force
// autocorrelation.
//
// For every frame it evaluates R(lag) = sum_j x[j]*x[j+lag] over the whole
// lag range and keeps the first lag whose correlation strictly exceeds the
// running maximum, which starts at 0. A frame with no positive correlation
// keeps lag 0 and reports 0 Hz (unvoiced).
//
// Cost is O(frames * lags * window) and dominates the prosody pipeline: at
// 44.1 kHz a 30 s clip is ~2000 frames * 500 lags * 1764 samples. Frames are
// independent, so EstimateContour spreads them over a worker pool.
type PitchDetector struct {
	params PitchDetectionParams
	minLag int
	maxLag int
	logger logging.Logger
}

// NewPitchDetector creates a new pitch detector with default parameters
func NewPitchDetector(sampleRate int) *PitchDetector {
	return NewPitchDetectorWithParams(DefaultPitchDetectionParams(sampleRate))
}

// NewPitchDetectorWithParams creates a pitch detector with custom parameters
func NewPitchDetectorWithParams(params PitchDetectionParams) *PitchDetector {
	pd := &PitchDetector{
		params: params,
		logger: logging.WithFields(logging.Fields{
			"component": "pitch_detector",
		}),
	}
	pd.initializeLagRange()
	return pd
}

// initializeLagRange derives the lag bounds: floor(sr/MaxFreq) to floor(sr/MinFreq)
func (pd *PitchDetector) initializeLagRange() {
	if pd.params.SampleRate <= 0 || pd.params.MinFreq <= 0 || pd.params.MaxFreq <= 0 {
		pd.minLag, pd.maxLag = 0, -1
		return
	}

	sr := float64(pd.params.SampleRate)
	pd.minLag = max(1, int(sr/pd.params.MaxFreq))
	pd.maxLag = int(sr / pd.params.MinFreq)

	// x[j+lag] must stay inside the frame
	if pd.maxLag > pd.params.WindowSize-1 {
		pd.maxLag = pd.params.WindowSize - 1
	}
}

// LagRange returns the inclusive lag search range in samples
func (pd *PitchDetector) LagRange() (minLag, maxLag int) {
	return pd.minLag, pd.maxLag
}

// GetParameters returns the detector parameters
func (pd *PitchDetector) GetParameters() PitchDetectionParams {
	return pd.params
}

// FrameCount returns the number of whole pitch frames in n samples
func (pd *PitchDetector) FrameCount(n int) int {
	if pd.params.WindowSize <= 0 || pd.params.HopSize <= 0 || n < pd.params.WindowSize {
		return 0
	}
	return (n-pd.params.WindowSize)/pd.params.HopSize + 1
}

func (pd *PitchDetector) validate() error {
	if pd.params.WindowSize <= 0 || pd.params.HopSize <= 0 || pd.minLag > pd.maxLag {
		return fmt.Errorf("%w: pitch window %d / hop %d / lags [%d, %d] at %d Hz",
			common.ErrInvalidAudioFormat, pd.params.WindowSize, pd.params.HopSize,
			pd.minLag, pd.maxLag, pd.params.SampleRate)
	}
	return nil
}

// DetectPitch estimates the pitch of a single frame in Hz, 0 when unvoiced
func (pd *PitchDetector) DetectPitch(audioFrame []float64) (float64, error) {
	if err := pd.validate(); err != nil {
		return 0, err
	}
	if len(audioFrame) != pd.params.WindowSize {
		return 0, fmt.Errorf("audio frame size (%d) doesn't match window size (%d)", len(audioFrame), pd.params.WindowSize)
	}
	return pd.detectPitchACF(audioFrame), nil
}

// detectPitchACF scans every lag and keeps the first strict maximum
func (pd *PitchDetector) detectPitchACF(frame []float64) float64 {
	maxCorrelation := 0.0
	bestLag := 0

	for lag := pd.minLag; lag <= pd.maxLag; lag++ {
		correlation := 0.0
		for j := 0; j < len(frame)-lag; j++ {
			correlation += frame[j] * frame[j+lag]
		}

		if correlation > maxCorrelation {
			maxCorrelation = correlation
			bestLag = lag
		}
	}

	if bestLag == 0 {
		return 0
	}
	return float64(pd.params.SampleRate) / float64(bestLag)
}

// EstimateContour returns one raw pitch value (Hz, 0 = unvoiced) per frame.
// The context is checked before each frame; a cancelled context aborts with
// ctx.Err().
func (pd *PitchDetector) EstimateContour(ctx context.Context, signal []float64) ([]float64, error) {
	if err := pd.validate(); err != nil {
		return nil, err
	}
	if len(signal) < pd.params.WindowSize {
		return nil, fmt.Errorf("%w: %d samples, pitch frame needs %d",
			common.ErrInsufficientAudio, len(signal), pd.params.WindowSize)
	}

	numFrames := pd.FrameCount(len(signal))
	contour := make([]float64, numFrames)

	numWorkers := pd.getOptimalWorkerCount(numFrames)
	jobs := make(chan int, numFrames)

	// Each worker writes only contour[frameIdx] for the indices it receives
	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for frameIdx := range jobs {
				if ctx.Err() != nil {
					continue
				}
				start := frameIdx * pd.params.HopSize
				contour[frameIdx] = pd.detectPitchACF(signal[start : start+pd.params.WindowSize])
			}
		}()
	}

	for frameIdx := range numFrames {
		jobs <- frameIdx
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pd.logger.Debug("Pitch contour estimated", logging.Fields{
		"frames":  numFrames,
		"workers": numWorkers,
		"min_lag": pd.minLag,
		"max_lag": pd.maxLag,
	})

	return contour, nil
}

// getOptimalWorkerCount determines the number of workers based on workload
func (pd *PitchDetector) getOptimalWorkerCount(numFrames int) int {
	if pd.params.Workers > 0 {
		return max(1, min(pd.params.Workers, numFrames))
	}

	numCPU := runtime.NumCPU()

	// For small workloads, don't over-parallelize
	if numFrames < 100 {
		return max(1, min(numCPU/2, numFrames))
	}

	return max(1, min(numCPU, numFrames))
}
