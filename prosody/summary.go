package prosody

import (
	"github.com/RyanBlaney/sonido-prosody/algorithms/common"
	"github.com/RyanBlaney/sonido-prosody/algorithms/speech"
)

// Pitch-variation thresholds on the population standard deviation of the
// normalized voiced contour, and on the share of direction changes
const (
	highVariationStdDev     = 0.25
	moderateVariationStdDev = 0.15
	frequentMovementShare   = 0.30
	normalMovementShare     = 0.15
)

// NormalizePitchContour zeroes every raw value outside the open band
// (minHz, maxHz) and rescales the rest with min/max taken over the voiced
// values only. Unvoiced frames stay exactly 0. When every voiced value is
// equal the divisor is 1, and with no voiced values the whole contour is 0.
func NormalizePitchContour(raw []float64, minHz, maxHz float64) []float64 {
	out := make([]float64, len(raw))

	voiced := make([]float64, 0, len(raw))
	for _, p := range raw {
		if p > minHz && p < maxHz {
			voiced = append(voiced, p)
		}
	}
	if len(voiced) == 0 {
		return out
	}

	lo, hi := common.MinMax(voiced)
	span := hi - lo
	if span == 0 {
		span = 1
	}

	for i, p := range raw {
		if p > minHz && p < maxHz {
			out[i] = (p - lo) / span
		}
	}
	return out
}

// NormalizeIntensity rescales an energy curve to [0, 1]. A constant curve
// (including silence) becomes 0.5 everywhere, unlike the pitch path.
func NormalizeIntensity(energy []float64) []float64 {
	return common.NewNormalizer(common.MinMaxScale).Normalize(energy)
}

// SpeechRate returns syllables per second, 0 for a non-positive duration
func SpeechRate(syllableCount int, durationSeconds float64) float64 {
	if durationSeconds <= 0 {
		return 0
	}
	return float64(syllableCount) / durationSeconds
}

// WordBoundaries groups syllables into words using the default 0.2 s pause
func WordBoundaries(syllableBoundaries []float64) []float64 {
	return speech.WordBoundaries(syllableBoundaries, speech.DefaultMinPauseSeconds)
}

// DescribePitchVariation summarises a normalized pitch contour in one phrase,
// e.g. "moderate pitch variation, normal expressive speech with normal pitch
// movement". It is report text only.
func DescribePitchVariation(pitchContour []float64) string {
	if len(pitchContour) == 0 {
		return "insufficient data"
	}

	voiced := voicedValues(pitchContour)
	if len(voiced) == 0 {
		return "mostly unvoiced speech"
	}

	stdDev := common.PopulationStdDev(voiced)
	directionChanges := float64(common.CountLocalExtrema(voiced))
	n := float64(len(voiced))

	var description string
	switch {
	case stdDev > highVariationStdDev:
		description = "high pitch variation, possibly exaggerated intonation"
	case stdDev > moderateVariationStdDev:
		description = "moderate pitch variation, normal expressive speech"
	default:
		description = "low pitch variation, relatively flat intonation"
	}

	switch {
	case directionChanges > n*frequentMovementShare:
		description += " with frequent pitch changes"
	case directionChanges > n*normalMovementShare:
		description += " with normal pitch movement"
	default:
		description += " with minimal pitch movement"
	}

	return description
}

func voicedValues(contour []float64) []float64 {
	voiced := make([]float64, 0, len(contour))
	for _, p := range contour {
		if p > 0 {
			voiced = append(voiced, p)
		}
	}
	return voiced
}
