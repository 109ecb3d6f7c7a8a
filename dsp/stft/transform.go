package stft

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/asato99w/vocal-mastery-lab/dsp/core"
)

// Transform converts one real time-domain frame to and from its half spectrum.
//
// Forward fills re and im with bins 0..N/2 of the windowed frame's discrete
// spectrum. Inverse reconstructs the time frame from those bins; negative
// frequencies are rebuilt internally via conjugate symmetry and never leave
// the implementation. Whatever scaling convention the backing FFT library
// uses is normalized away: a Forward followed by an Inverse of the unmodified
// bins reproduces the input frame within floating-point tolerance.
//
// Implementations keep internal scratch buffers and are not safe for
// concurrent use. Construct one per processing run.
type Transform interface {
	// Size returns the frame length N.
	Size() int
	// Bins returns the half-spectrum bin count N/2 + 1.
	Bins() int
	// Forward computes the half spectrum of frame into re and im.
	Forward(re, im, frame []float64) error
	// Inverse reconstructs the time frame from the half spectrum in re and im.
	Inverse(frame, re, im []float64) error
}

// planTransform backs Transform with an algo-fft complex plan of the full
// frame size. The plan itself is immutable after construction; the scratch
// spectrum is what makes this type single-goroutine.
type planTransform struct {
	size    int
	plan    *algofft.Plan[complex128]
	scratch []complex128
	frame   []complex128
}

// NewTransform returns the default Transform for the given frame size.
func NewTransform(size int) (Transform, error) {
	return NewPlanTransform(size)
}

// NewPlanTransform returns a Transform backed by an algo-fft plan.
// size must be a positive power of two.
func NewPlanTransform(size int) (Transform, error) {
	if !core.IsPowerOfTwo(size) {
		return nil, fmt.Errorf("%w: frame size must be a power of two: %d", ErrTransformBackend, size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create FFT plan for size %d: %v", ErrTransformBackend, size, err)
	}

	return &planTransform{
		size:    size,
		plan:    plan,
		scratch: make([]complex128, size),
		frame:   make([]complex128, size),
	}, nil
}

func (t *planTransform) Size() int { return t.size }

func (t *planTransform) Bins() int { return t.size/2 + 1 }

func (t *planTransform) Forward(re, im, frame []float64) error {
	if err := t.checkHalf(re, im); err != nil {
		return err
	}
	if len(frame) != t.size {
		return fmt.Errorf("%w: frame length %d, want %d", ErrDimensionMismatch, len(frame), t.size)
	}

	for i, x := range frame {
		t.scratch[i] = complex(x, 0)
	}

	if err := t.plan.Forward(t.scratch, t.scratch); err != nil {
		return fmt.Errorf("%w: forward FFT failed: %v", ErrTransformBackend, err)
	}

	half := t.size / 2
	for k := 0; k <= half; k++ {
		re[k] = real(t.scratch[k])
		im[k] = imag(t.scratch[k])
	}

	// Exactly real for real input; clear residual rounding error.
	im[0] = 0
	im[half] = 0

	return nil
}

func (t *planTransform) Inverse(frame, re, im []float64) error {
	if err := t.checkHalf(re, im); err != nil {
		return err
	}
	if len(frame) != t.size {
		return fmt.Errorf("%w: frame length %d, want %d", ErrDimensionMismatch, len(frame), t.size)
	}

	half := t.size / 2
	t.scratch[0] = complex(re[0], 0)
	t.scratch[half] = complex(re[half], 0)
	for k := 1; k < half; k++ {
		t.scratch[k] = complex(re[k], im[k])
		t.scratch[t.size-k] = complex(re[k], -im[k])
	}

	if err := t.plan.Inverse(t.frame, t.scratch); err != nil {
		return fmt.Errorf("%w: inverse FFT failed: %v", ErrTransformBackend, err)
	}

	for i := range frame {
		frame[i] = real(t.frame[i])
	}

	return nil
}

func (t *planTransform) checkHalf(re, im []float64) error {
	if len(re) != t.Bins() || len(im) != t.Bins() {
		return fmt.Errorf("%w: half spectrum lengths %d/%d, want %d", ErrDimensionMismatch, len(re), len(im), t.Bins())
	}
	return nil
}

// fourierTransform backs Transform with gonum's real FFT. gonum's Sequence is
// unnormalized (Coefficients followed by Sequence scales by N), so the inverse
// divides by N.
type fourierTransform struct {
	size   int
	fft    *fourier.FFT
	coeffs []complex128
	seq    []float64
}

// NewFourierTransform returns a Transform backed by gonum's dsp/fourier real FFT.
func NewFourierTransform(size int) (Transform, error) {
	if size <= 0 || size%2 != 0 {
		return nil, fmt.Errorf("%w: frame size must be positive and even: %d", ErrTransformBackend, size)
	}

	return &fourierTransform{
		size:   size,
		fft:    fourier.NewFFT(size),
		coeffs: make([]complex128, size/2+1),
		seq:    make([]float64, size),
	}, nil
}

func (t *fourierTransform) Size() int { return t.size }

func (t *fourierTransform) Bins() int { return t.size/2 + 1 }

func (t *fourierTransform) Forward(re, im, frame []float64) error {
	if err := t.checkHalf(re, im); err != nil {
		return err
	}
	if len(frame) != t.size {
		return fmt.Errorf("%w: frame length %d, want %d", ErrDimensionMismatch, len(frame), t.size)
	}

	t.fft.Coefficients(t.coeffs, frame)

	half := t.size / 2
	for k := 0; k <= half; k++ {
		re[k] = real(t.coeffs[k])
		im[k] = imag(t.coeffs[k])
	}

	im[0] = 0
	im[half] = 0

	return nil
}

func (t *fourierTransform) Inverse(frame, re, im []float64) error {
	if err := t.checkHalf(re, im); err != nil {
		return err
	}
	if len(frame) != t.size {
		return fmt.Errorf("%w: frame length %d, want %d", ErrDimensionMismatch, len(frame), t.size)
	}

	for k := range t.coeffs {
		t.coeffs[k] = complex(re[k], im[k])
	}

	t.fft.Sequence(t.seq, t.coeffs)

	scale := 1 / float64(t.size)
	for i := range frame {
		frame[i] = t.seq[i] * scale
	}

	return nil
}

func (t *fourierTransform) checkHalf(re, im []float64) error {
	if len(re) != t.Bins() || len(im) != t.Bins() {
		return fmt.Errorf("%w: half spectrum lengths %d/%d, want %d", ErrDimensionMismatch, len(re), len(im), t.Bins())
	}
	return nil
}
