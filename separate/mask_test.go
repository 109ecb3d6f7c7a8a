package separate

import (
	"errors"
	"math"
	"testing"

	"github.com/asato99w/vocal-mastery-lab/dsp/stft"
	"github.com/asato99w/vocal-mastery-lab/internal/testutil"
)

func constantMask(t *testing.T, bins, frames int, re, im float64) *stft.Spectrogram {
	t.Helper()

	mask, err := stft.NewSpectrogram(bins, frames)
	if err != nil {
		t.Fatalf("NewSpectrogram: %v", err)
	}
	for bin := 0; bin < bins; bin++ {
		for f := 0; f < frames; f++ {
			mask.SetAt(bin, f, re, im)
		}
	}
	return mask
}

func TestApplyMaskOnesIsIdentity(t *testing.T) {
	spec := fillSpectrogram(t, 8, 12, 3)

	for _, tc := range []struct {
		name string
		mode MaskMode
	}{
		{"magnitude", MaskModeMagnitude},
		{"complex", MaskModeComplex},
	} {
		t.Run(tc.name, func(t *testing.T) {
			mask := constantMask(t, 8, 12, 1, 1)
			got, err := ApplyMask(spec, mask, tc.mode, HighBinZero)
			if err != nil {
				t.Fatalf("ApplyMask: %v", err)
			}
			for bin := 0; bin < 8; bin++ {
				for f := 0; f < 12; f++ {
					wantRe, wantIm := spec.At(bin, f)
					re, im := got.At(bin, f)
					if re != wantRe || im != wantIm {
						t.Fatalf("(%d,%d): got (%v,%v), want exactly (%v,%v)", bin, f, re, im, wantRe, wantIm)
					}
				}
			}
		})
	}
}

func TestApplyMaskZeroSilences(t *testing.T) {
	spec := fillSpectrogram(t, 8, 12, 3)
	mask := constantMask(t, 8, 12, 0, 0)

	got, err := ApplyMask(spec, mask, MaskModeComplex, HighBinZero)
	if err != nil {
		t.Fatalf("ApplyMask: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got.Magnitude(), make([]float64, 8*12), 0)
}

func TestApplyMaskMagnitudeKeepsPhase(t *testing.T) {
	spec, err := stft.NewSpectrogram(2, 1)
	if err != nil {
		t.Fatalf("NewSpectrogram: %v", err)
	}
	spec.SetAt(0, 0, 3, 4)
	spec.SetAt(1, 0, -1, 2)

	// Imaginary mask planes must be ignored in magnitude mode.
	mask := constantMask(t, 2, 1, 0.5, 123)

	got, err := ApplyMask(spec, mask, MaskModeMagnitude, HighBinZero)
	if err != nil {
		t.Fatalf("ApplyMask: %v", err)
	}

	for bin := 0; bin < 2; bin++ {
		if gotMag, wantMag := got.MagnitudeAt(bin, 0), 0.5*spec.MagnitudeAt(bin, 0); math.Abs(gotMag-wantMag) > 1e-12 {
			t.Errorf("bin %d magnitude = %v, want %v", bin, gotMag, wantMag)
		}
		if gotPh, wantPh := got.PhaseAt(bin, 0), spec.PhaseAt(bin, 0); math.Abs(gotPh-wantPh) > 1e-12 {
			t.Errorf("bin %d phase = %v, want %v", bin, gotPh, wantPh)
		}
	}
}

func TestApplyMaskComplexIndependentPlanes(t *testing.T) {
	spec, err := stft.NewSpectrogram(1, 1)
	if err != nil {
		t.Fatalf("NewSpectrogram: %v", err)
	}
	spec.SetAt(0, 0, 2, -3)

	mask, err := stft.NewSpectrogram(1, 1)
	if err != nil {
		t.Fatalf("NewSpectrogram: %v", err)
	}
	mask.SetAt(0, 0, 0.5, 0.25)

	got, err := ApplyMask(spec, mask, MaskModeComplex, HighBinZero)
	if err != nil {
		t.Fatalf("ApplyMask: %v", err)
	}

	// Element-wise, not a complex product: re*maskRe and im*maskIm.
	re, im := got.At(0, 0)
	if re != 1 || im != -0.75 {
		t.Fatalf("got (%v,%v), want (1,-0.75)", re, im)
	}
}

func TestApplyMaskHighBinPolicies(t *testing.T) {
	spec := fillSpectrogram(t, 10, 6, 7)
	mask := constantMask(t, 6, 6, 1, 1)

	zeroed, err := ApplyMask(spec, mask, MaskModeComplex, HighBinZero)
	if err != nil {
		t.Fatalf("ApplyMask(zero): %v", err)
	}
	passed, err := ApplyMask(spec, mask, MaskModeComplex, HighBinPassthrough)
	if err != nil {
		t.Fatalf("ApplyMask(passthrough): %v", err)
	}

	for bin := 6; bin < 10; bin++ {
		for f := 0; f < 6; f++ {
			if re, im := zeroed.At(bin, f); re != 0 || im != 0 {
				t.Fatalf("zero policy bin %d frame %d = (%v,%v), want zeros", bin, f, re, im)
			}
			wantRe, wantIm := spec.At(bin, f)
			if re, im := passed.At(bin, f); re != wantRe || im != wantIm {
				t.Fatalf("passthrough bin %d frame %d = (%v,%v), want (%v,%v)", bin, f, re, im, wantRe, wantIm)
			}
		}
	}
}

func TestApplyMaskDimensionErrors(t *testing.T) {
	spec := fillSpectrogram(t, 8, 12, 0)

	// More mask bins than spectrogram bins.
	tall := constantMask(t, 9, 12, 1, 1)
	if _, err := ApplyMask(spec, tall, MaskModeComplex, HighBinZero); !errors.Is(err, stft.ErrDimensionMismatch) {
		t.Errorf("tall mask: %v, want ErrDimensionMismatch", err)
	}

	// Frame counts must match exactly.
	short := constantMask(t, 8, 11, 1, 1)
	if _, err := ApplyMask(spec, short, MaskModeComplex, HighBinZero); !errors.Is(err, stft.ErrDimensionMismatch) {
		t.Errorf("short mask: %v, want ErrDimensionMismatch", err)
	}

	if _, err := ApplyMask(spec, nil, MaskModeComplex, HighBinZero); !errors.Is(err, stft.ErrDimensionMismatch) {
		t.Errorf("nil mask: %v, want ErrDimensionMismatch", err)
	}
}

func TestComplement(t *testing.T) {
	mask, err := stft.NewSpectrogram(1, 4)
	if err != nil {
		t.Fatalf("NewSpectrogram: %v", err)
	}
	mask.SetAt(0, 0, 0.25, 0)  // real mask 0.25 -> 0.75
	mask.SetAt(0, 1, 0.6, 0.8) // unit magnitude -> complement zero
	mask.SetAt(0, 2, 0, 0)     // zero mask -> purely real 1
	mask.SetAt(0, 3, 0, 0.5)   // phase pi/2 kept, magnitude inverted

	comp, err := Complement(mask)
	if err != nil {
		t.Fatalf("Complement: %v", err)
	}

	checks := []struct {
		frame  int
		re, im float64
	}{
		{0, 0.75, 0},
		{1, 0, 0},
		{2, 1, 0},
		{3, 0, 0.5},
	}
	for _, c := range checks {
		re, im := comp.At(0, c.frame)
		if math.Abs(re-c.re) > 1e-12 || math.Abs(im-c.im) > 1e-12 {
			t.Errorf("frame %d: got (%v,%v), want (%v,%v)", c.frame, re, im, c.re, c.im)
		}
	}
}

func TestComplementMagnitudesSumToOne(t *testing.T) {
	mask := fillSpectrogram(t, 4, 6, 0)
	// Shrink values into a mask-like range.
	for bin := 0; bin < 4; bin++ {
		for f := 0; f < 6; f++ {
			re, im := mask.At(bin, f)
			mask.SetAt(bin, f, re/1e4, im/1e4)
		}
	}

	comp, err := Complement(mask)
	if err != nil {
		t.Fatalf("Complement: %v", err)
	}

	for bin := 0; bin < 4; bin++ {
		for f := 0; f < 6; f++ {
			sum := mask.MagnitudeAt(bin, f) + comp.MagnitudeAt(bin, f)
			if math.Abs(sum-1) > 1e-12 {
				t.Errorf("(%d,%d): magnitude sum %v, want 1", bin, f, sum)
			}
		}
	}
}
