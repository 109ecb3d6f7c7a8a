package separate

import "errors"

var (
	// ErrConfiguration reports an invalid separation configuration.
	ErrConfiguration = errors.New("separate: invalid configuration")

	// ErrChunkShape reports a chunk whose shape differs from the engine contract.
	ErrChunkShape = errors.New("separate: chunk shape mismatch")

	// ErrInference reports a failure surfaced by the inference engine.
	ErrInference = errors.New("separate: inference failed")
)
