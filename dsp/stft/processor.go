package stft

import (
	"fmt"

	"github.com/asato99w/vocal-mastery-lab/dsp/core"
	"github.com/asato99w/vocal-mastery-lab/dsp/window"
)

// normFloor is the smallest window-energy sum that still divides a synthesis
// sample; below it the sample is forced to zero instead of blowing up.
const normFloor = 1e-12

// TransformFactory builds a Transform for a frame size.
type TransformFactory func(size int) (Transform, error)

// Processor performs forward short-time analysis and inverse overlap-add
// synthesis for one channel with fixed (frameSize, hopSize, window) settings.
//
// A Processor owns scratch state and is not safe for concurrent use; the
// window coefficients and the transform plan are immutable after New, so
// distinct Processor instances never share mutable state.
type Processor struct {
	frameSize int
	hopSize   int
	winType   window.Type
	coeffs    []float64
	transform Transform

	// scratch reused across frames
	frame []float64
	re    []float64
	im    []float64
}

// Option configures a Processor.
type Option func(*processorConfig)

type processorConfig struct {
	winType window.Type
	factory TransformFactory
}

// WithWindow selects the analysis/synthesis window type.
func WithWindow(t window.Type) Option {
	return func(c *processorConfig) {
		c.winType = t
	}
}

// WithTransformFactory selects the transform backend.
func WithTransformFactory(f TransformFactory) Option {
	return func(c *processorConfig) {
		if f != nil {
			c.factory = f
		}
	}
}

// New creates a short-time transform processor.
func New(frameSize, hopSize int, opts ...Option) (*Processor, error) {
	if err := validateFraming(frameSize, hopSize); err != nil {
		return nil, err
	}

	cfg := processorConfig{
		winType: window.TypeHann,
		factory: NewTransform,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	transform, err := cfg.factory(frameSize)
	if err != nil {
		return nil, err
	}
	if transform.Size() != frameSize {
		return nil, fmt.Errorf("%w: transform size %d, want %d", ErrDimensionMismatch, transform.Size(), frameSize)
	}

	coeffs := window.Generate(cfg.winType, frameSize, window.WithPeriodic())
	if len(coeffs) != frameSize {
		return nil, fmt.Errorf("stft: window generation failed for size %d", frameSize)
	}

	return &Processor{
		frameSize: frameSize,
		hopSize:   hopSize,
		winType:   cfg.winType,
		coeffs:    coeffs,
		transform: transform,
	}, nil
}

// FrameSize returns the analysis frame length.
func (p *Processor) FrameSize() int { return p.frameSize }

// HopSize returns the hop between consecutive frames in samples.
func (p *Processor) HopSize() int { return p.hopSize }

// Bins returns the half-spectrum bin count frameSize/2 + 1.
func (p *Processor) Bins() int { return p.transform.Bins() }

// WindowType returns the configured window type.
func (p *Processor) WindowType() window.Type { return p.winType }

// Window returns a copy of the analysis window coefficients.
func (p *Processor) Window() []float64 {
	out := make([]float64, len(p.coeffs))
	copy(out, p.coeffs)
	return out
}

// scratch returns the per-frame work buffers, zeroed and sized.
func (p *Processor) scratch() (frame, re, im []float64) {
	p.frame = core.EnsureLen(p.frame, p.frameSize)
	p.re = core.EnsureLen(p.re, p.Bins())
	p.im = core.EnsureLen(p.im, p.Bins())
	core.Zero(p.frame)
	core.Zero(p.re)
	core.Zero(p.im)
	return p.frame, p.re, p.im
}

// Analyze computes the spectrogram of signal.
//
// The signal is reflect-padded by frameSize/2 on each side, sliced into
// overlapping frames of frameSize every hopSize samples, windowed, and
// forward-transformed. For a signal of length L with L a multiple of the hop,
// the result holds exactly L/hopSize + 1 frames.
func (p *Processor) Analyze(signal []float64) (*Spectrogram, error) {
	padded, err := PadCenter(signal, p.frameSize)
	if err != nil {
		return nil, err
	}
	if len(padded) < p.frameSize {
		return nil, fmt.Errorf("%w: padded length %d, frame size %d", ErrSignalTooShort, len(padded), p.frameSize)
	}

	frames := NumFrames(len(padded), p.frameSize, p.hopSize)
	spec, err := NewSpectrogram(p.Bins(), frames)
	if err != nil {
		return nil, err
	}

	frame, re, im := p.scratch()
	for t := range frames {
		pos := t * p.hopSize
		for i := range frame {
			frame[i] = padded[pos+i] * p.coeffs[i]
		}

		if err := p.transform.Forward(re, im, frame); err != nil {
			return nil, fmt.Errorf("stft analyze frame %d: %w", t, err)
		}

		for k := range re {
			spec.SetAt(k, t, re[k], im[k])
		}
	}

	return spec, nil
}

// Synthesize reconstructs a time-domain signal from a spectrogram.
//
// Each frame is inverse-transformed, multiplied by the synthesis window and
// accumulated; every output sample is then divided by the summed squared
// window weight at that position (skipped where the sum is below the floor,
// which only happens outside all frames). Reflection padding of frameSize/2
// is removed from each end.
//
// originalLen trims the result to the caller's pre-analysis signal length;
// pass a negative value to keep every reconstructed sample.
func (p *Processor) Synthesize(spec *Spectrogram, originalLen int) ([]float64, error) {
	if spec == nil || spec.Frames() == 0 {
		return nil, fmt.Errorf("%w: empty spectrogram", ErrDimensionMismatch)
	}
	if spec.Bins() != p.Bins() {
		return nil, fmt.Errorf("%w: spectrogram has %d bins, transform expects %d", ErrDimensionMismatch, spec.Bins(), p.Bins())
	}

	frames := spec.Frames()
	paddedLen := (frames-1)*p.hopSize + p.frameSize

	acc := make([]float64, paddedLen)
	wss := make([]float64, paddedLen)
	for t := range frames {
		pos := t * p.hopSize
		for i, w := range p.coeffs {
			wss[pos+i] += w * w
		}
	}

	frame, re, im := p.scratch()
	for t := range frames {
		for k := range re {
			re[k], im[k] = spec.At(k, t)
		}

		if err := p.transform.Inverse(frame, re, im); err != nil {
			return nil, fmt.Errorf("stft synthesize frame %d: %w", t, err)
		}

		pos := t * p.hopSize
		for i, w := range p.coeffs {
			acc[pos+i] += frame[i] * w
		}
	}

	for i := range acc {
		if wss[i] > normFloor {
			acc[i] /= wss[i]
		} else {
			acc[i] = 0
		}
	}

	pad := p.frameSize / 2
	out := acc[pad : paddedLen-pad]

	if originalLen >= 0 {
		if originalLen > len(out) {
			return nil, fmt.Errorf("%w: requested length %d exceeds reconstructed %d", ErrDimensionMismatch, originalLen, len(out))
		}
		out = out[:originalLen]
	}

	result := make([]float64, len(out))
	copy(result, out)
	return result, nil
}
