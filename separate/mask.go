package separate

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/asato99w/vocal-mastery-lab/dsp/stft"
)

// MaskMode selects how a predicted mask is applied to a spectrogram.
type MaskMode int

const (
	// MaskModeMagnitude scales the spectrogram magnitude by the mask's real
	// plane and carries the original phase through unchanged. Deployments
	// using this mode put the magnitude mask in the real planes; the
	// imaginary planes are ignored.
	MaskModeMagnitude MaskMode = iota

	// MaskModeComplex multiplies the real and imaginary parts independently
	// by the corresponding mask planes. An all-ones mask is an exact
	// identity.
	MaskModeComplex
)

// HighBinPolicy selects what happens to spectrogram bins above the mask's
// predicted range (engines commonly predict 2048 of 2049 bins).
type HighBinPolicy int

const (
	// HighBinZero silences uncovered bins, matching a model contract that
	// drops the top of the spectrum entirely.
	HighBinZero HighBinPolicy = iota

	// HighBinPassthrough copies uncovered bins unmasked.
	HighBinPassthrough
)

// ApplyMask applies a predicted mask to a spectrogram and returns a fresh
// masked spectrogram of the spectrogram's full shape.
//
// The mask may cover fewer bins than the spectrogram but never more, and must
// match the frame count exactly.
func ApplyMask(spec, mask *stft.Spectrogram, mode MaskMode, policy HighBinPolicy) (*stft.Spectrogram, error) {
	if spec == nil || mask == nil {
		return nil, fmt.Errorf("%w: spectrogram and mask required", stft.ErrDimensionMismatch)
	}
	if mask.Frames() != spec.Frames() {
		return nil, fmt.Errorf("%w: mask has %d frames, spectrogram has %d",
			stft.ErrDimensionMismatch, mask.Frames(), spec.Frames())
	}
	if mask.Bins() > spec.Bins() {
		return nil, fmt.Errorf("%w: mask has %d bins, spectrogram only %d",
			stft.ErrDimensionMismatch, mask.Bins(), spec.Bins())
	}

	out, err := stft.NewSpectrogram(spec.Bins(), spec.Frames())
	if err != nil {
		return nil, err
	}

	for bin := 0; bin < mask.Bins(); bin++ {
		switch mode {
		case MaskModeMagnitude:
			// Scaling the magnitude while keeping the phase is a plain
			// scalar multiply of both components.
			vecmath.MulBlock(out.RowRe(bin), spec.RowRe(bin), mask.RowRe(bin))
			vecmath.MulBlock(out.RowIm(bin), spec.RowIm(bin), mask.RowRe(bin))
		case MaskModeComplex:
			vecmath.MulBlock(out.RowRe(bin), spec.RowRe(bin), mask.RowRe(bin))
			vecmath.MulBlock(out.RowIm(bin), spec.RowIm(bin), mask.RowIm(bin))
		default:
			return nil, fmt.Errorf("%w: unknown mask mode: %d", ErrConfiguration, mode)
		}
	}

	if policy == HighBinPassthrough {
		for bin := mask.Bins(); bin < spec.Bins(); bin++ {
			copy(out.RowRe(bin), spec.RowRe(bin))
			copy(out.RowIm(bin), spec.RowIm(bin))
		}
	}
	// HighBinZero: uncovered bins stay at their zero value.

	return out, nil
}

// Complement derives the complementary source mask (1-|m|)·e^{i·arg m}: the
// magnitude is inverted while the predicted phase is kept. Values are not
// clamped; masks are only conceptually in [0, 1].
func Complement(mask *stft.Spectrogram) (*stft.Spectrogram, error) {
	if mask == nil {
		return nil, fmt.Errorf("%w: mask required", stft.ErrDimensionMismatch)
	}

	out, err := stft.NewSpectrogram(mask.Bins(), mask.Frames())
	if err != nil {
		return nil, err
	}

	for bin := 0; bin < mask.Bins(); bin++ {
		re := mask.RowRe(bin)
		im := mask.RowIm(bin)
		outRe := out.RowRe(bin)
		outIm := out.RowIm(bin)

		for t := range re {
			m := math.Hypot(re[t], im[t])
			inv := 1 - m
			if m == 0 {
				// Zero mask carries no phase; the complement is purely real.
				outRe[t] = inv
				continue
			}
			outRe[t] = inv * re[t] / m
			outIm[t] = inv * im[t] / m
		}
	}

	return out, nil
}
