package separate

import (
	"fmt"

	"github.com/asato99w/vocal-mastery-lab/dsp/core"
	"github.com/asato99w/vocal-mastery-lab/dsp/window"
)

// Default transform and chunking parameters, matching the common 44.1 kHz
// separation model contract.
const (
	DefaultFrameSize   = 4096
	DefaultChunkFrames = 256
	DefaultSampleRate  = 44100
)

// Config holds the separation pipeline parameters.
type Config struct {
	// FrameSize is the analysis frame length. Power of two.
	FrameSize int
	// HopSize is the advance between frames. Defaults to FrameSize/4.
	HopSize int
	// Window selects the analysis/synthesis window.
	Window window.Type
	// ChunkFrames is the inference chunk length on the time axis.
	ChunkFrames int
	// MaskMode selects magnitude or complex masking.
	MaskMode MaskMode
	// HighBins selects what happens to bins the engine does not predict.
	HighBins HighBinPolicy
	// SampleRate is the pipeline sample rate; inputs at other rates are
	// resampled before analysis.
	SampleRate int
	// StemName names the stem built from the predicted mask.
	StemName string
	// EmitComplement also produces a stem from the complement mask
	// (1-|m|)·e^{i·arg m}, named ComplementName.
	EmitComplement bool
	// ComplementName names the complement stem.
	ComplementName string
}

// DefaultConfig returns the configuration used by the reference deployment:
// 4096/1024 Hann analysis, 256-frame chunks, complex masking, uncovered bins
// zeroed, vocal plus derived instrumental stems.
func DefaultConfig() Config {
	return Config{
		FrameSize:      DefaultFrameSize,
		HopSize:        DefaultFrameSize / 4,
		Window:         window.TypeHann,
		ChunkFrames:    DefaultChunkFrames,
		MaskMode:       MaskModeComplex,
		HighBins:       HighBinZero,
		SampleRate:     DefaultSampleRate,
		StemName:       "vocals",
		EmitComplement: true,
		ComplementName: "instrumental",
	}
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if !core.IsPowerOfTwo(c.FrameSize) {
		return fmt.Errorf("%w: frame size must be a power of two: %d", ErrConfiguration, c.FrameSize)
	}
	if c.HopSize <= 0 || c.HopSize > c.FrameSize {
		return fmt.Errorf("%w: hop size must be in [1, %d]: %d", ErrConfiguration, c.FrameSize, c.HopSize)
	}
	switch c.Window {
	case window.TypeHann, window.TypeHamming, window.TypeBlackman:
	default:
		return fmt.Errorf("%w: unsupported window type: %s", ErrConfiguration, window.Name(c.Window))
	}
	if c.ChunkFrames <= 0 {
		return fmt.Errorf("%w: chunk frames must be > 0: %d", ErrConfiguration, c.ChunkFrames)
	}
	switch c.MaskMode {
	case MaskModeMagnitude, MaskModeComplex:
	default:
		return fmt.Errorf("%w: unknown mask mode: %d", ErrConfiguration, c.MaskMode)
	}
	switch c.HighBins {
	case HighBinZero, HighBinPassthrough:
	default:
		return fmt.Errorf("%w: unknown high-bin policy: %d", ErrConfiguration, c.HighBins)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be > 0: %d", ErrConfiguration, c.SampleRate)
	}
	if c.StemName == "" {
		return fmt.Errorf("%w: stem name must not be empty", ErrConfiguration)
	}
	if c.EmitComplement {
		if c.ComplementName == "" {
			return fmt.Errorf("%w: complement stem name must not be empty", ErrConfiguration)
		}
		if c.ComplementName == c.StemName {
			return fmt.Errorf("%w: stem names must differ: %q", ErrConfiguration, c.StemName)
		}
	}
	return nil
}
