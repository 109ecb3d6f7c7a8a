package stft

import (
	"errors"
	"testing"
)

func TestPadCenterMirrorsInterior(t *testing.T) {
	signal := []float64{1, 2, 3, 4, 5}

	padded, err := PadCenter(signal, 4)
	if err != nil {
		t.Fatalf("PadCenter: %v", err)
	}

	// pad = 2 per side: mirror without repeating the edge sample.
	want := []float64{3, 2, 1, 2, 3, 4, 5, 4, 3}
	if len(padded) != len(want) {
		t.Fatalf("len=%d, want %d", len(padded), len(want))
	}
	for i := range want {
		if padded[i] != want[i] {
			t.Fatalf("index %d: %v, want %v", i, padded[i], want[i])
		}
	}
}

func TestPadCenterShortSignal(t *testing.T) {
	// A signal shorter than the pad reflects back and forth.
	padded, err := PadCenter([]float64{1, 2}, 8)
	if err != nil {
		t.Fatalf("PadCenter: %v", err)
	}
	if len(padded) != 2+8 {
		t.Fatalf("len=%d, want 10", len(padded))
	}
	for i, v := range padded {
		if v != 1 && v != 2 {
			t.Fatalf("index %d: %v, want mirrored value 1 or 2", i, v)
		}
	}
}

func TestPadCenterEmptySignal(t *testing.T) {
	_, err := PadCenter(nil, 4)
	if !errors.Is(err, ErrSignalTooShort) {
		t.Fatalf("expected ErrSignalTooShort, got %v", err)
	}
}

func TestNumFrames(t *testing.T) {
	// L multiple of hop: padding by frameSize/2 per side yields L/H + 1 frames.
	const (
		frameSize = 4096
		hop       = 1024
		length    = 16 * hop
	)

	padded := length + frameSize
	got := NumFrames(padded, frameSize, hop)
	want := length/hop + 1
	if got != want {
		t.Fatalf("NumFrames=%d, want %d", got, want)
	}
}

func TestNumFramesDegenerate(t *testing.T) {
	if got := NumFrames(10, 16, 4); got != 0 {
		t.Fatalf("NumFrames=%d, want 0 for short padded signal", got)
	}
	if got := NumFrames(16, 16, 0); got != 0 {
		t.Fatalf("NumFrames=%d, want 0 for zero hop", got)
	}
}

func TestValidateFraming(t *testing.T) {
	if err := validateFraming(4096, 1024); err != nil {
		t.Fatalf("valid framing rejected: %v", err)
	}
	if err := validateFraming(4096, 0); !errors.Is(err, ErrInvalidHop) {
		t.Fatalf("expected ErrInvalidHop for zero hop, got %v", err)
	}
	if err := validateFraming(4096, 8192); !errors.Is(err, ErrInvalidHop) {
		t.Fatalf("expected ErrInvalidHop for hop > frame, got %v", err)
	}
}

func TestReflectIndex(t *testing.T) {
	cases := []struct{ i, n, want int }{
		{0, 5, 0},
		{4, 5, 4},
		{5, 5, 3},
		{-1, 5, 1},
		{-2, 5, 2},
		{8, 5, 0},
		{3, 1, 0},
	}
	for _, c := range cases {
		if got := reflectIndex(c.i, c.n); got != c.want {
			t.Fatalf("reflectIndex(%d, %d)=%d, want %d", c.i, c.n, got, c.want)
		}
	}
}
