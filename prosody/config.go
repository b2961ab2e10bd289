package prosody

import (
	"fmt"
)

// Config holds the tunables of the prosody pipeline. The defaults reproduce
// the standard analysis exactly; changing them changes results.
type Config struct {
	// MaxAudioLengthSeconds caps the prepared buffer at this many seconds of
	// audio at the buffer's own sample rate. 0 disables the cap.
	MaxAudioLengthSeconds float64 `json:"max_audio_length_seconds" mapstructure:"max_audio_length_seconds"`

	// Short-time energy framing
	EnergyFrameSeconds float64 `json:"energy_frame_seconds" mapstructure:"energy_frame_seconds"`
	EnergyHopSeconds   float64 `json:"energy_hop_seconds" mapstructure:"energy_hop_seconds"`
	SmoothingRadius    int     `json:"smoothing_radius" mapstructure:"smoothing_radius"`

	// Syllable segmentation
	RiseThresholdRatio float64 `json:"rise_threshold_ratio" mapstructure:"rise_threshold_ratio"`
	MinPauseSeconds    float64 `json:"min_pause_seconds" mapstructure:"min_pause_seconds"`

	// Pitch estimation
	PitchFrameSeconds float64 `json:"pitch_frame_seconds" mapstructure:"pitch_frame_seconds"`
	PitchHopSeconds   float64 `json:"pitch_hop_seconds" mapstructure:"pitch_hop_seconds"`
	MinPitchHz        float64 `json:"min_pitch_hz" mapstructure:"min_pitch_hz"`
	MaxPitchHz        float64 `json:"max_pitch_hz" mapstructure:"max_pitch_hz"`
	PitchWorkers      int     `json:"pitch_workers" mapstructure:"pitch_workers"` // 0 = NumCPU based
}

// DefaultConfig returns the standard analysis settings
func DefaultConfig() Config {
	return Config{
		MaxAudioLengthSeconds: 30,
		EnergyFrameSeconds:    0.025,
		EnergyHopSeconds:      0.010,
		SmoothingRadius:       3,
		RiseThresholdRatio:    0.05,
		MinPauseSeconds:       0.2,
		PitchFrameSeconds:     0.040,
		PitchHopSeconds:       0.015,
		MinPitchHz:            75,
		MaxPitchHz:            500,
		PitchWorkers:          0,
	}
}

// Validate checks that every duration and threshold is usable
func (c Config) Validate() error {
	switch {
	case c.MaxAudioLengthSeconds < 0:
		return fmt.Errorf("max_audio_length_seconds must be >= 0, got %v", c.MaxAudioLengthSeconds)
	case c.EnergyFrameSeconds <= 0 || c.EnergyHopSeconds <= 0:
		return fmt.Errorf("energy frame and hop durations must be positive")
	case c.PitchFrameSeconds <= 0 || c.PitchHopSeconds <= 0:
		return fmt.Errorf("pitch frame and hop durations must be positive")
	case c.SmoothingRadius < 0:
		return fmt.Errorf("smoothing_radius must be >= 0, got %d", c.SmoothingRadius)
	case c.RiseThresholdRatio < 0:
		return fmt.Errorf("rise_threshold_ratio must be >= 0, got %v", c.RiseThresholdRatio)
	case c.MinPauseSeconds < 0:
		return fmt.Errorf("min_pause_seconds must be >= 0, got %v", c.MinPauseSeconds)
	case c.MinPitchHz <= 0 || c.MaxPitchHz <= c.MinPitchHz:
		return fmt.Errorf("pitch band must satisfy 0 < min_pitch_hz < max_pitch_hz, got [%v, %v]", c.MinPitchHz, c.MaxPitchHz)
	case c.PitchWorkers < 0:
		return fmt.Errorf("pitch_workers must be >= 0, got %d", c.PitchWorkers)
	}
	return nil
}

// MaxSamples returns the sample cap for a given sample rate, 0 for no cap
func (c Config) MaxSamples(sampleRate int) int {
	if c.MaxAudioLengthSeconds <= 0 || sampleRate <= 0 {
		return 0
	}
	return int(c.MaxAudioLengthSeconds * float64(sampleRate))
}
