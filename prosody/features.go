package prosody

import (
	"github.com/RyanBlaney/sonido-prosody/algorithms/common"
	"github.com/RyanBlaney/sonido-prosody/algorithms/speech"
)

// ProsodyFeatures is the output of one analysis. Callers treat it as read-only.
type ProsodyFeatures struct {
	// SyllableBoundaries are strictly increasing timestamps in seconds
	SyllableBoundaries []float64 `json:"syllableBoundaries"`
	// PitchContour is normalized to [0, 1] with unvoiced frames at 0
	PitchContour []float64 `json:"pitchContour"`
	// Intensity is the smoothed energy curve normalized to [0, 1]
	Intensity []float64 `json:"intensity"`
	// SpeechRate is syllables per second
	SpeechRate float64 `json:"speechRate"`

	Timing FrameTiming `json:"timing"`
}

// FrameTiming places the per-frame series on the time axis
type FrameTiming struct {
	SampleRate       int     `json:"sampleRate"`
	DurationSeconds  float64 `json:"durationSeconds"`
	IntensityHopSize int     `json:"intensityHopSize"` // samples between intensity frames
	PitchHopSize     int     `json:"pitchHopSize"`     // samples between pitch frames
}

// IntensityTime returns the start time of intensity frame i in seconds
func (t FrameTiming) IntensityTime(i int) float64 {
	if t.SampleRate <= 0 {
		return 0
	}
	return float64(i*t.IntensityHopSize) / float64(t.SampleRate)
}

// PitchTime returns the start time of pitch frame i in seconds
func (t FrameTiming) PitchTime(i int) float64 {
	if t.SampleRate <= 0 {
		return 0
	}
	return float64(i*t.PitchHopSize) / float64(t.SampleRate)
}

// Summary holds the descriptive figures shown next to the raw series
type Summary struct {
	SyllableCount    int       `json:"syllableCount"`
	WordBoundaries   []float64 `json:"wordBoundaries"`
	WordCount        int       `json:"wordCount"`
	SpeechRate       float64   `json:"speechRate"`
	AveragePitch     float64   `json:"averagePitch"`     // mean of voiced normalized pitch
	AverageIntensity float64   `json:"averageIntensity"` // mean normalized intensity
	PitchPattern     string    `json:"pitchPattern"`
}

// Summarize derives the report figures from features. minPauseSeconds is
// the word-splitting gap, normally speech.DefaultMinPauseSeconds.
func Summarize(f *ProsodyFeatures, minPauseSeconds float64) Summary {
	words := speech.WordBoundaries(f.SyllableBoundaries, minPauseSeconds)

	return Summary{
		SyllableCount:    len(f.SyllableBoundaries),
		WordBoundaries:   words,
		WordCount:        len(words),
		SpeechRate:       f.SpeechRate,
		AveragePitch:     common.Mean(voicedValues(f.PitchContour)),
		AverageIntensity: common.Mean(f.Intensity),
		PitchPattern:     DescribePitchVariation(f.PitchContour),
	}
}
