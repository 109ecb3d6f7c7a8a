package separate

import (
	"fmt"

	"github.com/asato99w/vocal-mastery-lab/dsp/stft"
)

// Plane indices inside a chunk, in the tensor order the inference contract
// fixes: left-real, left-imaginary, right-real, right-imaginary.
const (
	PlaneLeftRe = iota
	PlaneLeftIm
	PlaneRightRe
	PlaneRightIm
	numPlanes
)

// TensorShape is the fixed spectral shape of one inference chunk.
//
// Bins and Frames are model-specific constants (commonly 2048 and 256); the
// channel count is always 4, one plane per stereo real/imaginary component.
type TensorShape struct {
	Bins   int
	Frames int
}

// Channels returns the plane count of the tensor contract.
func (s TensorShape) Channels() int { return numPlanes }

// Validate checks the shape for positive dimensions.
func (s TensorShape) Validate() error {
	if s.Bins <= 0 || s.Frames <= 0 {
		return fmt.Errorf("%w: tensor shape %dx%d must be positive", ErrChunkShape, s.Bins, s.Frames)
	}
	return nil
}

// Chunk is one fixed-shape tensor handed to the inference engine, or one
// mask tensor handed back. Data is a dense [4][Bins][Frames] array. A chunk
// is ephemeral: built per inference call and discarded after reassembly.
type Chunk struct {
	Shape TensorShape
	Data  []float64
}

// NewChunk allocates a zeroed chunk of the given shape.
func NewChunk(shape TensorShape) (*Chunk, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &Chunk{
		Shape: shape,
		Data:  make([]float64, numPlanes*shape.Bins*shape.Frames),
	}, nil
}

// CheckShape verifies the chunk's backing array matches want exactly.
func (c *Chunk) CheckShape(want TensorShape) error {
	if c == nil {
		return fmt.Errorf("%w: nil chunk", ErrChunkShape)
	}
	if c.Shape != want {
		return fmt.Errorf("%w: got %dx%d, contract requires %dx%d",
			ErrChunkShape, c.Shape.Bins, c.Shape.Frames, want.Bins, want.Frames)
	}
	if len(c.Data) != numPlanes*want.Bins*want.Frames {
		return fmt.Errorf("%w: backing array holds %d values, shape requires %d",
			ErrChunkShape, len(c.Data), numPlanes*want.Bins*want.Frames)
	}
	return nil
}

// Plane returns one [Bins][Frames] plane. The slice aliases the chunk's storage.
func (c *Chunk) Plane(p int) []float64 {
	n := c.Shape.Bins * c.Shape.Frames
	return c.Data[p*n : (p+1)*n]
}

// Row returns the time series of one bin in one plane, aliasing storage.
func (c *Chunk) Row(p, bin int) []float64 {
	plane := c.Plane(p)
	return plane[bin*c.Shape.Frames : (bin+1)*c.Shape.Frames]
}

// ToChunks partitions a stereo spectrogram pair into inference chunks.
//
// The time axis is split into non-overlapping windows of exactly shape.Frames;
// the final chunk is zero-padded when the remainder is shorter. Bins beyond
// shape.Bins are dropped (the engine predicts nothing for them; the mask
// applicator decides their fate). Passing the same spectrogram for both
// channels duplicates a mono signal into the stereo contract.
func ToChunks(left, right *stft.Spectrogram, shape TensorShape) ([]*Chunk, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if left == nil || right == nil {
		return nil, fmt.Errorf("%w: both channels required", stft.ErrDimensionMismatch)
	}
	if !left.SameShape(right) {
		return nil, fmt.Errorf("%w: channel shapes differ: %dx%d vs %dx%d",
			stft.ErrDimensionMismatch, left.Bins(), left.Frames(), right.Bins(), right.Frames())
	}

	bins := min(shape.Bins, left.Bins())
	frames := left.Frames()
	numChunks := (frames + shape.Frames - 1) / shape.Frames

	chunks := make([]*Chunk, 0, numChunks)
	for i := 0; i < numChunks; i++ {
		start := i * shape.Frames
		end := min(start+shape.Frames, frames)

		chunk, err := NewChunk(shape)
		if err != nil {
			return nil, err
		}

		for bin := 0; bin < bins; bin++ {
			copy(chunk.Row(PlaneLeftRe, bin), left.RowRe(bin)[start:end])
			copy(chunk.Row(PlaneLeftIm, bin), left.RowIm(bin)[start:end])
			copy(chunk.Row(PlaneRightRe, bin), right.RowRe(bin)[start:end])
			copy(chunk.Row(PlaneRightIm, bin), right.RowIm(bin)[start:end])
		}

		if err := chunk.CheckShape(shape); err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}

	return chunks, nil
}

// FromChunks reassembles mask chunks into per-channel mask spectrograms of
// exactly totalFrames frames, discarding the zero-padded tail of the final
// chunk. Every chunk must match shape exactly.
func FromChunks(chunks []*Chunk, shape TensorShape, totalFrames int) (left, right *stft.Spectrogram, err error) {
	if err := shape.Validate(); err != nil {
		return nil, nil, err
	}
	if totalFrames <= 0 {
		return nil, nil, fmt.Errorf("%w: total frames must be > 0: %d", stft.ErrDimensionMismatch, totalFrames)
	}
	want := (totalFrames + shape.Frames - 1) / shape.Frames
	if len(chunks) != want {
		return nil, nil, fmt.Errorf("%w: got %d chunks for %d frames, want %d",
			ErrChunkShape, len(chunks), totalFrames, want)
	}

	left, err = stft.NewSpectrogram(shape.Bins, totalFrames)
	if err != nil {
		return nil, nil, err
	}
	right, err = stft.NewSpectrogram(shape.Bins, totalFrames)
	if err != nil {
		return nil, nil, err
	}

	for i, chunk := range chunks {
		if err := chunk.CheckShape(shape); err != nil {
			return nil, nil, fmt.Errorf("chunk %d: %w", i, err)
		}

		start := i * shape.Frames
		end := min(start+shape.Frames, totalFrames)
		n := end - start

		for bin := 0; bin < shape.Bins; bin++ {
			copy(left.RowRe(bin)[start:end], chunk.Row(PlaneLeftRe, bin)[:n])
			copy(left.RowIm(bin)[start:end], chunk.Row(PlaneLeftIm, bin)[:n])
			copy(right.RowRe(bin)[start:end], chunk.Row(PlaneRightRe, bin)[:n])
			copy(right.RowIm(bin)[start:end], chunk.Row(PlaneRightIm, bin)[:n])
		}
	}

	return left, right, nil
}
