package speech

import (
	"github.com/RyanBlaney/sonido-prosody/algorithms/common"
	"github.com/RyanBlaney/sonido-prosody/logging"
	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultRiseThresholdRatio scales max(delta) into the "rising" threshold
	DefaultRiseThresholdRatio = 0.05

	// DefaultMinPauseSeconds is the gap after which a syllable starts a new word
	DefaultMinPauseSeconds = 0.2
)

// SyllableSegmenter finds syllable boundaries in a smoothed energy curve.
//
// A boundary is emitted where the first difference of the curve stops being
// above 5% of its largest rise, i.e. just after each energy peak. This is a
// loudness heuristic rather than phonetic nucleus detection: a long, loud,
// slowly varying segment can yield extra boundaries, and quiet speech whose
// rises never clear the threshold yields none.
type SyllableSegmenter struct {
	thresholdRatio float64
	logger         logging.Logger
}

// NewSyllableSegmenter creates a segmenter with DefaultRiseThresholdRatio
func NewSyllableSegmenter() *SyllableSegmenter {
	return NewSyllableSegmenterWithRatio(DefaultRiseThresholdRatio)
}

// NewSyllableSegmenterWithRatio creates a segmenter with a custom threshold ratio
func NewSyllableSegmenterWithRatio(ratio float64) *SyllableSegmenter {
	return &SyllableSegmenter{
		thresholdRatio: ratio,
		logger: logging.WithFields(logging.Fields{
			"component": "syllable_segmenter",
		}),
	}
}

// DetectBoundaryFrames returns the indices (into the first difference of
// smoothedEnergy) where the curve goes from rising to not rising. The result
// is strictly increasing. Fewer than two energy frames yields an empty slice.
func (s *SyllableSegmenter) DetectBoundaryFrames(smoothedEnergy []float64) []int {
	delta := common.FirstDifference(smoothedEnergy)
	if len(delta) == 0 {
		return []int{}
	}

	threshold := s.thresholdRatio * floats.Max(delta)

	boundaries := make([]int, 0)
	prevRising := delta[0] > threshold
	for i := 1; i < len(delta); i++ {
		rising := delta[i] > threshold
		if prevRising && !rising {
			boundaries = append(boundaries, i)
		}
		prevRising = rising
	}

	s.logger.Debug("Syllable boundaries detected", logging.Fields{
		"energy_frames": len(smoothedEnergy),
		"threshold":     threshold,
		"boundaries":    len(boundaries),
	})

	return boundaries
}

// FramesToSeconds converts frame indices to timestamps: index * hopSize / sampleRate
func FramesToSeconds(frames []int, hopSize, sampleRate int) []float64 {
	times := make([]float64, len(frames))
	if sampleRate <= 0 {
		return times
	}
	for i, frame := range frames {
		times[i] = float64(frame*hopSize) / float64(sampleRate)
	}
	return times
}

// WordBoundaries keeps the first syllable boundary and every boundary that
// follows its predecessor by more than minPause seconds. The result is a
// subsequence of syllableBoundaries.
func WordBoundaries(syllableBoundaries []float64, minPause float64) []float64 {
	words := make([]float64, 0, len(syllableBoundaries))
	if len(syllableBoundaries) == 0 {
		return words
	}

	words = append(words, syllableBoundaries[0])
	for i := 1; i < len(syllableBoundaries); i++ {
		if syllableBoundaries[i]-syllableBoundaries[i-1] > minPause {
			words = append(words, syllableBoundaries[i])
		}
	}

	return words
}
