package common

import "errors"

// Error kinds shared by every analysis stage. Stages wrap these with
// fmt.Errorf("...: %w", ...) so callers can match them with errors.Is.
var (
	// ErrInvalidAudioFormat means the input cannot be interpreted as PCM samples
	ErrInvalidAudioFormat = errors.New("invalid audio format")

	// ErrInsufficientAudio means the buffer is too short to form one analysis frame
	ErrInsufficientAudio = errors.New("insufficient audio")
)
