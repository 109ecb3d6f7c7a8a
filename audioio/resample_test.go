package audioio

import (
	"math"
	"testing"

	"github.com/asato99w/vocal-mastery-lab/internal/testutil"
)

func TestNewForRatesReducesRatio(t *testing.T) {
	r, err := NewForRates(48000, 44100)
	if err != nil {
		t.Fatalf("NewForRates: %v", err)
	}
	up, down := r.Ratio()
	if up != 147 || down != 160 {
		t.Fatalf("ratio %d/%d, want 147/160", up, down)
	}
}

func TestNewForRatesInvalid(t *testing.T) {
	if _, err := NewForRates(0, 44100); err == nil {
		t.Fatal("expected error for zero input rate")
	}
	if _, err := NewForRates(44100, -1); err == nil {
		t.Fatal("expected error for negative output rate")
	}
}

func TestProcessIdentityRatio(t *testing.T) {
	r, err := NewForRates(44100, 44100)
	if err != nil {
		t.Fatalf("NewForRates: %v", err)
	}

	in := testutil.DeterministicNoise(3, 1.0, 512)
	out := r.Process(in)
	testutil.RequireSliceNearlyEqual(t, out, in, 0)
}

func TestProcessOutputLength(t *testing.T) {
	r, err := NewForRates(22050, 44100)
	if err != nil {
		t.Fatalf("NewForRates: %v", err)
	}

	out := r.Process(make([]float64, 1000))
	if len(out) != 2000 {
		t.Fatalf("len=%d, want 2000", len(out))
	}
}

func TestProcessDCGain(t *testing.T) {
	r, err := NewForRates(48000, 44100)
	if err != nil {
		t.Fatalf("NewForRates: %v", err)
	}

	out := r.Process(testutil.DC(1.0, 2000))

	// Interior samples stay near unity; edges roll off with the kernel.
	for i := tapsPerSide * 2; i < len(out)-tapsPerSide*2; i++ {
		if math.Abs(out[i]-1) > 0.02 {
			t.Fatalf("sample %d: %v, want about 1", i, out[i])
		}
	}
}

func TestProcessSinePreserved(t *testing.T) {
	r, err := NewForRates(44100, 22050)
	if err != nil {
		t.Fatalf("NewForRates: %v", err)
	}

	in := testutil.DeterministicSine(440, 44100, 1.0, 8820)
	out := r.Process(in)
	want := testutil.DeterministicSine(440, 22050, 1.0, len(out))

	// Compare away from the kernel edges.
	lo, hi := tapsPerSide*2, len(out)-tapsPerSide*2
	diff, err := testutil.RMSDiff(out[lo:hi], want[lo:hi])
	if err != nil {
		t.Fatalf("RMSDiff: %v", err)
	}
	if rel := diff / testutil.RMS(want[lo:hi]); rel > 0.05 {
		t.Fatalf("relative RMS error %v, want < 0.05", rel)
	}
}

func TestResampleBufferPassthrough(t *testing.T) {
	buf, _ := NewBuffer(2, 100, 44100)

	out, err := Resample(buf, 44100)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	if out != buf {
		t.Fatal("same-rate resample should return the input buffer")
	}
}

func TestResampleBufferConverts(t *testing.T) {
	buf, _ := NewBuffer(2, 1000, 22050)

	out, err := Resample(buf, 44100)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	if out.SampleRate != 44100 {
		t.Fatalf("sample rate=%d, want 44100", out.SampleRate)
	}
	if out.Frames() != 2000 {
		t.Fatalf("frames=%d, want 2000", out.Frames())
	}
}
