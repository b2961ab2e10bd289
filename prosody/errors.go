package prosody

import "github.com/RyanBlaney/sonido-prosody/algorithms/common"

// Error taxonomy of the pipeline. Every failure returned by this package (and
// by the algorithm packages it drives) wraps one of these, or ctx.Err() when
// the caller cancels.
var (
	ErrInvalidAudioFormat = common.ErrInvalidAudioFormat
	ErrInsufficientAudio  = common.ErrInsufficientAudio
)
