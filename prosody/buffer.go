package prosody

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-prosody/algorithms/common"
	"github.com/RyanBlaney/sonido-prosody/logging"
)

// SampleBuffer is a mono waveform in [-1, 1] with its sample rate
type SampleBuffer struct {
	Samples    []float64 `json:"-"`
	SampleRate int       `json:"sample_rate"`
}

// Duration returns the buffer length in seconds
func (b SampleBuffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

func (b SampleBuffer) validate() error {
	if b.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidAudioFormat, b.SampleRate)
	}
	if len(b.Samples) == 0 {
		return fmt.Errorf("%w: empty sample buffer", ErrInsufficientAudio)
	}
	return nil
}

// PrepareSamples turns channel-major PCM into a mono, peak-normalized buffer
// of at most maxSamples samples (maxSamples <= 0 disables the cap).
//
// Channels are averaged per sample. Longer inputs are decimated with
// nearest-neighbour picking: output i takes input floor(i * n/maxSamples).
func PrepareSamples(channels [][]float64, sampleRate, maxSamples int) (SampleBuffer, error) {
	if sampleRate <= 0 {
		return SampleBuffer{}, fmt.Errorf("%w: sample rate %d", ErrInvalidAudioFormat, sampleRate)
	}

	mono, err := downmix(channels)
	if err != nil {
		return SampleBuffer{}, err
	}

	samples := common.NewNormalizer(common.Peak).Normalize(mono)

	if maxSamples > 0 && len(samples) > maxSamples {
		logging.WithFields(logging.Fields{
			"component": "sample_preparation",
		}).Warn("Audio exceeds maximum length, decimating", logging.Fields{
			"samples":     len(samples),
			"max_samples": maxSamples,
			"sample_rate": sampleRate,
		})
		samples = decimate(samples, maxSamples)
	}

	return SampleBuffer{Samples: samples, SampleRate: sampleRate}, nil
}

// downmix averages channels into one; a single channel is copied
func downmix(channels [][]float64) ([]float64, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("%w: no channels", ErrInvalidAudioFormat)
	}

	n := len(channels[0])
	if n == 0 {
		return nil, fmt.Errorf("%w: empty channel data", ErrInvalidAudioFormat)
	}
	for c, ch := range channels {
		if len(ch) != n {
			return nil, fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d",
				ErrInvalidAudioFormat, c, len(ch), n)
		}
	}

	mono := make([]float64, n)
	for i := range n {
		sum := 0.0
		for _, ch := range channels {
			v := ch[i]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: non-finite sample at index %d", ErrInvalidAudioFormat, i)
			}
			sum += v
		}
		mono[i] = sum / float64(len(channels))
	}

	return mono, nil
}

func decimate(samples []float64, target int) []float64 {
	n := len(samples)
	out := make([]float64, target)
	for i := range out {
		out[i] = samples[i*n/target]
	}
	return out
}
