package separate

import "context"

// Engine is the inference boundary: it consumes one fixed-shape spectral
// chunk and returns a mask chunk of the same shape.
//
// Input planes are ordered {leftReal, leftImag, rightReal, rightImag}. The
// output carries one predicted mask in the same plane order; whether the
// planes are complex-mask components or magnitude masks in the real planes is
// a property of the deployed model and must match the configured MaskMode.
// Tensor identifiers, sessions, and devices are implementation details of the
// Engine; the orchestrator only sees shapes.
//
// Predict may block for a non-trivial time. Implementations must honor ctx
// cancellation and must not retain the input chunk after returning.
type Engine interface {
	// Shape returns the tensor contract both directions must match exactly.
	Shape() TensorShape
	// Predict runs inference for one chunk and returns the mask chunk.
	Predict(ctx context.Context, chunk *Chunk) (*Chunk, error)
}

// ConstantMaskEngine is a deterministic reference Engine predicting the same
// mask value everywhere. It stands in for a real inference runtime in tests
// and in the CLI's pass-through mode.
type ConstantMaskEngine struct {
	shape TensorShape
	re    float64
	im    float64
}

// NewConstantMaskEngine creates an engine predicting re in the real planes
// and im in the imaginary planes of every chunk.
func NewConstantMaskEngine(shape TensorShape, re, im float64) (*ConstantMaskEngine, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &ConstantMaskEngine{shape: shape, re: re, im: im}, nil
}

// NewIdentityEngine creates an engine whose mask leaves a spectrogram
// unchanged under either mask mode.
func NewIdentityEngine(shape TensorShape) (*ConstantMaskEngine, error) {
	return NewConstantMaskEngine(shape, 1, 1)
}

// NewZeroEngine creates an engine whose mask silences everything.
func NewZeroEngine(shape TensorShape) (*ConstantMaskEngine, error) {
	return NewConstantMaskEngine(shape, 0, 0)
}

// Shape returns the engine's tensor contract.
func (e *ConstantMaskEngine) Shape() TensorShape { return e.shape }

// Predict fills a fresh mask chunk with the constant values.
func (e *ConstantMaskEngine) Predict(ctx context.Context, chunk *Chunk) (*Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := chunk.CheckShape(e.shape); err != nil {
		return nil, err
	}

	out, err := NewChunk(e.shape)
	if err != nil {
		return nil, err
	}

	for _, p := range []int{PlaneLeftRe, PlaneRightRe} {
		plane := out.Plane(p)
		for i := range plane {
			plane[i] = e.re
		}
	}
	for _, p := range []int{PlaneLeftIm, PlaneRightIm} {
		plane := out.Plane(p)
		for i := range plane {
			plane[i] = e.im
		}
	}
	return out, nil
}
