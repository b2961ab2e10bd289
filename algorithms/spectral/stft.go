package spectral

import (
	"fmt"
	"math"
	"math/cmplx"
	"runtime"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// STFT computes magnitude spectrograms. The prosody pipeline itself never
// needs one; it backs the spectrogram renderer.
type STFT struct{}

// STFTResult holds the result of STFT analysis
type STFTResult struct {
	Magnitude      [][]float64 `json:"magnitude"`       // Time x Frequency magnitude matrix
	TimeFrames     int         `json:"time_frames"`     // Number of time frames
	FreqBins       int         `json:"freq_bins"`       // Number of frequency bins
	SampleRate     int         `json:"sample_rate"`     // Sample rate
	WindowSize     int         `json:"window_size"`     // FFT window size
	HopSize        int         `json:"hop_size"`        // Hop size between frames
	FreqResolution float64     `json:"freq_resolution"` // Frequency resolution (Hz/bin)
	TimeResolution float64     `json:"time_resolution"` // Time resolution (seconds/frame)
}

// NewSTFT creates a new STFT calculator
func NewSTFT() *STFT {
	return &STFT{}
}

// Compute computes a Hann-windowed magnitude STFT, one goroutine per CPU
func (s *STFT) Compute(signal []float64, windowSize int, hopSize int, sampleRate int) (*STFTResult, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("empty signal")
	}

	if windowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive")
	}

	if hopSize <= 0 {
		return nil, fmt.Errorf("hop size must be positive")
	}

	numFrames := (len(signal)-windowSize)/hopSize + 1
	if len(signal) < windowSize || numFrames <= 0 {
		return nil, fmt.Errorf("signal too short for given window size and hop size")
	}

	// Positive frequencies only
	freqBins := windowSize/2 + 1
	hann := window.Hann(windowSize)

	magnitude := make([][]float64, numFrames)
	for i := range numFrames {
		magnitude[i] = make([]float64, freqBins)
	}

	numWorkers := max(1, min(runtime.NumCPU(), numFrames))
	jobs := make(chan int, numFrames)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Reuse frame buffer for this worker
			frameBuffer := make([]float64, windowSize)

			for frameIdx := range jobs {
				start := frameIdx * hopSize
				for i := range frameBuffer {
					frameBuffer[i] = signal[start+i] * hann[i]
				}

				// go-dsp handles non-power-of-2 sizes
				spectrum := fft.FFTReal(frameBuffer)
				for bin := range freqBins {
					magnitude[frameIdx][bin] = cmplx.Abs(spectrum[bin])
				}
			}
		}()
	}

	for frameIdx := range numFrames {
		jobs <- frameIdx
	}
	close(jobs)
	wg.Wait()

	return &STFTResult{
		Magnitude:      magnitude,
		TimeFrames:     numFrames,
		FreqBins:       freqBins,
		SampleRate:     sampleRate,
		WindowSize:     windowSize,
		HopSize:        hopSize,
		FreqResolution: float64(sampleRate) / float64(windowSize),
		TimeResolution: float64(hopSize) / float64(sampleRate),
	}, nil
}

// ToDecibels converts magnitudes to dB relative to the loudest bin, clamped
// at floorDB (e.g. -80)
func (r *STFTResult) ToDecibels(floorDB float64) [][]float64 {
	peak := 0.0
	for _, frame := range r.Magnitude {
		for _, v := range frame {
			peak = math.Max(peak, v)
		}
	}

	db := make([][]float64, len(r.Magnitude))
	for t, frame := range r.Magnitude {
		db[t] = make([]float64, len(frame))
		for f, v := range frame {
			if peak == 0 || v == 0 {
				db[t][f] = floorDB
				continue
			}
			db[t][f] = math.Max(floorDB, 20*math.Log10(v/peak))
		}
	}
	return db
}

// BinFrequency returns the centre frequency of bin in Hz
func (r *STFTResult) BinFrequency(bin int) float64 {
	return float64(bin) * r.FreqResolution
}
