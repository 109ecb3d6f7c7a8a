package audioio

import (
	"fmt"

	"github.com/asato99w/vocal-mastery-lab/dsp/core"
)

// Buffer holds decoded audio as per-channel float64 samples in [-1, 1].
//
// All channels have equal length. A Buffer is owned by exactly one processing
// run at a time; Clone before sharing.
type Buffer struct {
	Data       [][]float64
	SampleRate int
}

// NewBuffer allocates a zeroed buffer with the given shape.
func NewBuffer(channels, length, sampleRate int) (*Buffer, error) {
	if channels < 1 {
		return nil, fmt.Errorf("audio buffer channel count must be >= 1: %d", channels)
	}
	if length < 0 {
		return nil, fmt.Errorf("audio buffer length must be >= 0: %d", length)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("audio buffer sample rate must be > 0: %d", sampleRate)
	}

	data := make([][]float64, channels)
	for i := range data {
		data[i] = make([]float64, length)
	}
	return &Buffer{Data: data, SampleRate: sampleRate}, nil
}

// Channels returns the channel count.
func (b *Buffer) Channels() int { return len(b.Data) }

// Frames returns the per-channel sample count.
func (b *Buffer) Frames() int {
	if len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// Validate checks the equal-length channel invariant.
func (b *Buffer) Validate() error {
	if b == nil || len(b.Data) == 0 {
		return fmt.Errorf("audio buffer must have at least one channel")
	}
	if b.SampleRate <= 0 {
		return fmt.Errorf("audio buffer sample rate must be > 0: %d", b.SampleRate)
	}
	want := len(b.Data[0])
	for i, ch := range b.Data {
		if len(ch) != want {
			return fmt.Errorf("audio buffer channel %d has %d samples, channel 0 has %d", i, len(ch), want)
		}
	}
	return nil
}

// Clone returns a deep copy sharing no storage with the receiver.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		Data:       make([][]float64, len(b.Data)),
		SampleRate: b.SampleRate,
	}
	for i, ch := range b.Data {
		out.Data[i] = make([]float64, len(ch))
		copy(out.Data[i], ch)
	}
	return out
}

// EnsureStereo returns a two-channel view of b. Mono input is duplicated into
// both channels (channel duplication, not silence); inputs with more than two
// channels keep the first two. The returned buffer is always a fresh copy.
func EnsureStereo(b *Buffer) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	out, err := NewBuffer(2, b.Frames(), b.SampleRate)
	if err != nil {
		return nil, err
	}

	core.CopyInto(out.Data[0], b.Data[0])
	if len(b.Data) > 1 {
		core.CopyInto(out.Data[1], b.Data[1])
	} else {
		core.CopyInto(out.Data[1], b.Data[0])
	}
	return out, nil
}
