package prosody

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/RyanBlaney/sonido-prosody/algorithms/speech"
	"github.com/RyanBlaney/sonido-prosody/algorithms/temporal"
	"github.com/RyanBlaney/sonido-prosody/algorithms/tonal"
	"github.com/RyanBlaney/sonido-prosody/logging"
)

// Analyzer runs the prosody pipeline. It holds configuration only, so one
// Analyzer may serve concurrent calls.
type Analyzer struct {
	config Config
	logger logging.Logger
}

// NewAnalyzer creates an analyzer after validating cfg
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid prosody config: %w", err)
	}

	return &Analyzer{
		config: cfg,
		logger: logging.WithFields(logging.Fields{
			"component": "prosody_analyzer",
		}),
	}, nil
}

// Config returns the analyzer configuration
func (a *Analyzer) Config() Config {
	return a.config
}

// Prepare downmixes, peak-normalizes and length-caps raw channel data
func (a *Analyzer) Prepare(channels [][]float64, sampleRate int) (SampleBuffer, error) {
	return PrepareSamples(channels, sampleRate, a.config.MaxSamples(sampleRate))
}

// AnalyzeChannels prepares raw channel data and analyzes it
func (a *Analyzer) AnalyzeChannels(ctx context.Context, channels [][]float64, sampleRate int) (*ProsodyFeatures, error) {
	buf, err := a.Prepare(channels, sampleRate)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeProsody(ctx, buf)
}

// AnalyzeProsody extracts syllable boundaries, pitch contour, intensity and
// speech rate from a prepared buffer.
//
// The energy/syllable branch and the pitch branch read the same buffer and
// run concurrently. The first failure is returned as is; there is no partial
// or zero-valued result on error.
func (a *Analyzer) AnalyzeProsody(ctx context.Context, buf SampleBuffer) (*ProsodyFeatures, error) {
	logger := a.logger.WithContext(ctx).WithFields(logging.Fields{
		"analysis_id": uuid.NewString(),
		"samples":     len(buf.Samples),
		"sample_rate": buf.SampleRate,
	})

	if err := buf.validate(); err != nil {
		logger.Error(err, "Rejected sample buffer")
		return nil, err
	}

	energy := temporal.NewEnergyForDurations(buf.SampleRate, a.config.EnergyFrameSeconds, a.config.EnergyHopSeconds)
	energy.SetSmoothingRadius(a.config.SmoothingRadius)
	segmenter := speech.NewSyllableSegmenterWithRatio(a.config.RiseThresholdRatio)

	pitchParams := tonal.DefaultPitchDetectionParams(buf.SampleRate)
	pitchParams.WindowSize = int(a.config.PitchFrameSeconds * float64(buf.SampleRate))
	pitchParams.HopSize = int(a.config.PitchHopSeconds * float64(buf.SampleRate))
	pitchParams.MinFreq = a.config.MinPitchHz
	pitchParams.MaxFreq = a.config.MaxPitchHz
	pitchParams.Workers = a.config.PitchWorkers
	pitchDetector := tonal.NewPitchDetectorWithParams(pitchParams)

	var (
		energyResult   *temporal.EnergyResult
		boundaryFrames []int
		rawPitch       []float64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		result, err := energy.Analyze(buf.Samples)
		if err != nil {
			return fmt.Errorf("energy analysis: %w", err)
		}
		if err := gctx.Err(); err != nil {
			return err
		}
		energyResult = result
		boundaryFrames = segmenter.DetectBoundaryFrames(result.Smoothed)
		return nil
	})

	g.Go(func() error {
		contour, err := pitchDetector.EstimateContour(gctx, buf.Samples)
		if err != nil {
			return fmt.Errorf("pitch estimation: %w", err)
		}
		rawPitch = contour
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error(err, "Prosody analysis failed")
		return nil, err
	}

	boundaries := speech.FramesToSeconds(boundaryFrames, energyResult.HopSize, buf.SampleRate)
	duration := buf.Duration()

	features := &ProsodyFeatures{
		SyllableBoundaries: boundaries,
		PitchContour:       NormalizePitchContour(rawPitch, a.config.MinPitchHz, a.config.MaxPitchHz),
		Intensity:          NormalizeIntensity(energyResult.Smoothed),
		SpeechRate:         SpeechRate(len(boundaries), duration),
		Timing: FrameTiming{
			SampleRate:       buf.SampleRate,
			DurationSeconds:  duration,
			IntensityHopSize: energyResult.HopSize,
			PitchHopSize:     pitchParams.HopSize,
		},
	}

	logger.Debug("Prosody analysis completed", logging.Fields{
		"syllables":     len(boundaries),
		"speech_rate":   features.SpeechRate,
		"pitch_frames":  len(rawPitch),
		"energy_frames": len(energyResult.Raw),
	})

	return features, nil
}

// Summarize derives report figures using the analyzer's pause threshold
func (a *Analyzer) Summarize(f *ProsodyFeatures) Summary {
	return Summarize(f, a.config.MinPauseSeconds)
}

// AnalyzeProsody runs the pipeline with DefaultConfig
func AnalyzeProsody(buf SampleBuffer) (*ProsodyFeatures, error) {
	analyzer, err := NewAnalyzer(DefaultConfig())
	if err != nil {
		return nil, err
	}
	return analyzer.AnalyzeProsody(context.Background(), buf)
}
