package common

// NormalizationType defines normalization method
type NormalizationType int

const (
	// Peak divides by the maximum absolute value (or 1 for an all-zero signal)
	Peak NormalizationType = iota
	// MinMaxScale rescales to [0, 1]; a constant signal maps to 0.5 everywhere
	MinMaxScale
)

// Normalizer provides the signal normalization methods used by the prosody pipeline
type Normalizer struct {
	method NormalizationType
}

// NewNormalizer creates a new normalizer
func NewNormalizer(method NormalizationType) *Normalizer {
	return &Normalizer{
		method: method,
	}
}

// Normalize normalizes signal using the specified method. The input is never
// modified.
func (n *Normalizer) Normalize(signal []float64) []float64 {
	switch n.method {
	case MinMaxScale:
		return n.minMaxNormalize(signal)
	default:
		return n.peakNormalize(signal)
	}
}

// peakNormalize normalizes by peak absolute value
func (n *Normalizer) peakNormalize(signal []float64) []float64 {
	normalized := make([]float64, len(signal))

	peak := PeakAbs(signal)
	if peak == 0 {
		peak = 1
	}

	for i, val := range signal {
		normalized[i] = val / peak
	}

	return normalized
}

// minMaxNormalize normalizes to [0, 1] range
func (n *Normalizer) minMaxNormalize(signal []float64) []float64 {
	normalized := make([]float64, len(signal))
	if len(signal) == 0 {
		return normalized
	}

	lo, hi := MinMax(signal)
	span := hi - lo

	if span == 0 {
		// Constant signal sits in the middle of the range
		for i := range normalized {
			normalized[i] = 0.5
		}
		return normalized
	}

	for i, val := range signal {
		normalized[i] = (val - lo) / span
	}

	return normalized
}
