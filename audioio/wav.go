package audioio

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/asato99w/vocal-mastery-lab/dsp/core"
)

// ErrUnsupportedFile reports a file the WAV decoder cannot handle.
var ErrUnsupportedFile = errors.New("audioio: unsupported audio file")

// DecodeWAV reads a PCM WAV file into a float64 buffer scaled to [-1, 1].
func DecodeWAV(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audioio: open %s: %w", path, err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: %s is not a valid WAV file", ErrUnsupportedFile, path)
	}

	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("audioio: read PCM from %s: %w", path, err)
	}
	if pcm.Format == nil || pcm.Format.NumChannels < 1 {
		return nil, fmt.Errorf("%w: %s has no channel format", ErrUnsupportedFile, path)
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth <= 0 {
		bitDepth = pcm.SourceBitDepth
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: %s has bit depth %d", ErrUnsupportedFile, path, bitDepth)
	}
	scale := 1 / float64(int64(1)<<uint(bitDepth-1))

	channels := pcm.Format.NumChannels
	frames := len(pcm.Data) / channels

	out, err := NewBuffer(channels, frames, pcm.Format.SampleRate)
	if err != nil {
		return nil, err
	}

	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			out.Data[c][i] = float64(pcm.Data[i*channels+c]) * scale
		}
	}
	return out, nil
}

// EncodeWAV writes a float64 buffer as 16-bit PCM WAV. Samples outside
// [-1, 1] are clipped. The file is created only when the buffer is valid, so
// a failed separation never leaves a partial output behind.
func EncodeWAV(path string, buf *Buffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audioio: create %s: %w", path, err)
	}
	defer f.Close()

	const bitDepth = 16

	encoder := wav.NewEncoder(f, buf.SampleRate, bitDepth, buf.Channels(), 1)

	channels := buf.Channels()
	frames := buf.Frames()
	data := make([]int, frames*channels)
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			// Scale by 32768 to mirror the decode scale 1/2^15, then clamp
			// into the int16 range; +1.0 saturates at 32767.
			s := core.Clamp(math.Round(buf.Data[c][i]*32768), -32768, 32767)
			data[i*channels+c] = int(s)
		}
	}

	intBuf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  buf.SampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := encoder.Write(intBuf); err != nil {
		return fmt.Errorf("audioio: write %s: %w", path, err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("audioio: finalize %s: %w", path, err)
	}
	return nil
}
