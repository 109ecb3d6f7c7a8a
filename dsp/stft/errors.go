package stft

import "errors"

var (
	// ErrInvalidHop reports a hop size outside [1, frameSize].
	ErrInvalidHop = errors.New("stft hop size must be in [1, frameSize]")

	// ErrSignalTooShort reports a signal too short to frame.
	ErrSignalTooShort = errors.New("stft signal too short for frame size")

	// ErrDimensionMismatch reports disagreeing spectrogram/transform dimensions.
	ErrDimensionMismatch = errors.New("stft dimension mismatch")

	// ErrTransformBackend reports an unsupported transform size or backend failure.
	ErrTransformBackend = errors.New("stft transform backend error")
)
