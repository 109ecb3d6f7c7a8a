package stft

import "fmt"

// PadCenter pads signal with frameSize/2 reflected samples on each side so
// that frame t=0 is centered on input sample 0, matching the "center" mode of
// standard spectral-analysis libraries: the sample at offset k from an edge
// is mirrored to offset -k, never repeating the edge sample itself.
func PadCenter(signal []float64, frameSize int) ([]float64, error) {
	if frameSize <= 0 {
		return nil, fmt.Errorf("%w: frame size must be > 0: %d", ErrTransformBackend, frameSize)
	}
	if len(signal) == 0 {
		return nil, fmt.Errorf("%w: empty signal, frame size %d", ErrSignalTooShort, frameSize)
	}

	pad := frameSize / 2
	out := make([]float64, len(signal)+2*pad)

	copy(out[pad:], signal)
	for k := 1; k <= pad; k++ {
		out[pad-k] = signal[reflectIndex(k, len(signal))]
		out[pad+len(signal)-1+k] = signal[reflectIndex(len(signal)-1-k, len(signal))]
	}

	return out, nil
}

// reflectIndex folds an out-of-range index back into [0, n) by repeated
// mirroring about the first and last samples.
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}

	period := 2 * (n - 1)
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}

// NumFrames returns the frame count for a padded signal length.
func NumFrames(paddedLen, frameSize, hopSize int) int {
	if paddedLen < frameSize || hopSize <= 0 {
		return 0
	}
	return (paddedLen-frameSize)/hopSize + 1
}

func validateFraming(frameSize, hopSize int) error {
	if frameSize <= 0 {
		return fmt.Errorf("%w: frame size must be > 0: %d", ErrInvalidHop, frameSize)
	}
	if hopSize <= 0 || hopSize > frameSize {
		return fmt.Errorf("%w: got hop %d for frame size %d", ErrInvalidHop, hopSize, frameSize)
	}
	return nil
}
