package window

import (
	"errors"
	"fmt"
)

// ErrInvalidLength reports a non-positive window length.
var ErrInvalidLength = errors.New("window size must be > 0")

var errMismatchedLength = errors.New("samples and coefficients must have same length")

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, size)
	}
	return nil
}

func errUnknownType(name string) error {
	return fmt.Errorf("unknown window type: %q", name)
}
