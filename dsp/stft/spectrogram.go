package stft

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Spectrogram holds the half spectrum of every analysis frame of one channel.
//
// Storage is real/imaginary, the information-preserving canonical form;
// magnitude and phase are derived on demand. Values are laid out bin-major:
// row k is the time series of bin k. Only bins 0..N/2 are stored; redundant
// negative frequencies are reconstructed from conjugate symmetry inside the
// Transform and never stored here.
type Spectrogram struct {
	bins   int
	frames int
	re     []float64
	im     []float64
}

// NewSpectrogram allocates a zeroed spectrogram with the given shape.
func NewSpectrogram(bins, frames int) (*Spectrogram, error) {
	if bins <= 0 || frames <= 0 {
		return nil, fmt.Errorf("%w: spectrogram shape must be positive: %dx%d", ErrDimensionMismatch, bins, frames)
	}
	return &Spectrogram{
		bins:   bins,
		frames: frames,
		re:     make([]float64, bins*frames),
		im:     make([]float64, bins*frames),
	}, nil
}

// Bins returns the frequency bin count (frameSize/2 + 1).
func (s *Spectrogram) Bins() int { return s.bins }

// Frames returns the time frame count.
func (s *Spectrogram) Frames() int { return s.frames }

// At returns the complex value of one bin at one frame as (re, im).
func (s *Spectrogram) At(bin, frame int) (float64, float64) {
	i := bin*s.frames + frame
	return s.re[i], s.im[i]
}

// SetAt stores the complex value of one bin at one frame.
func (s *Spectrogram) SetAt(bin, frame int, re, im float64) {
	i := bin*s.frames + frame
	s.re[i] = re
	s.im[i] = im
}

// RowRe returns the real-part time series of one bin. The slice aliases the
// spectrogram's storage.
func (s *Spectrogram) RowRe(bin int) []float64 {
	return s.re[bin*s.frames : (bin+1)*s.frames]
}

// RowIm returns the imaginary-part time series of one bin. The slice aliases
// the spectrogram's storage.
func (s *Spectrogram) RowIm(bin int) []float64 {
	return s.im[bin*s.frames : (bin+1)*s.frames]
}

// MagnitudeAt returns sqrt(re^2 + im^2) of one bin at one frame.
func (s *Spectrogram) MagnitudeAt(bin, frame int) float64 {
	re, im := s.At(bin, frame)
	return math.Hypot(re, im)
}

// PhaseAt returns atan2(im, re) of one bin at one frame in radians.
func (s *Spectrogram) PhaseAt(bin, frame int) float64 {
	re, im := s.At(bin, frame)
	return math.Atan2(im, re)
}

// Magnitude computes the full magnitude plane, bin-major like the storage.
func (s *Spectrogram) Magnitude() []float64 {
	out := make([]float64, len(s.re))
	vecmath.Magnitude(out, s.re, s.im)
	return out
}

// Phase computes the full phase plane in radians, bin-major like the storage.
func (s *Spectrogram) Phase() []float64 {
	out := make([]float64, len(s.re))
	for i := range out {
		out[i] = math.Atan2(s.im[i], s.re[i])
	}
	return out
}

// Clone returns a deep copy sharing no storage with the receiver.
func (s *Spectrogram) Clone() *Spectrogram {
	out := &Spectrogram{
		bins:   s.bins,
		frames: s.frames,
		re:     make([]float64, len(s.re)),
		im:     make([]float64, len(s.im)),
	}
	copy(out.re, s.re)
	copy(out.im, s.im)
	return out
}

// SameShape reports whether two spectrograms have identical dimensions.
func (s *Spectrogram) SameShape(o *Spectrogram) bool {
	return o != nil && s.bins == o.bins && s.frames == o.frames
}
