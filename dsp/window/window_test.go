package window

import (
	"errors"
	"math"
	"testing"
)

func TestGenerateAllTypes(t *testing.T) {
	types := []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman}

	for _, typ := range types {
		t.Run(Name(typ), func(t *testing.T) {
			w := Generate(typ, 64)
			if len(w) != 64 {
				t.Fatalf("len=%d, want 64", len(w))
			}

			for i, v := range w {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("coefficient[%d] invalid: %v", i, v)
				}
				if v < -1e-12 || v > 1+1e-12 {
					t.Fatalf("coefficient[%d] out of [0,1]: %v", i, v)
				}
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(TypeHann, 4096, WithPeriodic())
	b := Generate(TypeHann, 4096, WithPeriodic())
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("coefficient %d not bit-identical: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestHannEndpoints(t *testing.T) {
	w := Generate(TypeHann, 17)
	if w[0] != 0 || w[16] != 0 {
		t.Fatalf("symmetric hann endpoints: %v, %v, want 0", w[0], w[16])
	}
	if math.Abs(w[8]-1) > 1e-15 {
		t.Fatalf("symmetric hann midpoint: %v, want 1", w[8])
	}
}

func TestPeriodicDiffersFromSymmetric(t *testing.T) {
	a := Generate(TypeHann, 16)
	b := Generate(TypeHann, 16, WithPeriodic())

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("periodic and symmetric forms should differ")
	}
}

func TestGenerateInvalidLength(t *testing.T) {
	if w := Generate(TypeHann, 0); w != nil {
		t.Fatalf("expected nil for zero length, got %v", w)
	}

	_, err := Hann(0)
	if !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
	_, err = Hamming(-3)
	if !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
}

func TestParse(t *testing.T) {
	for _, typ := range []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman} {
		got, err := Parse(Name(typ))
		if err != nil {
			t.Fatalf("Parse(%q): %v", Name(typ), err)
		}
		if got != typ {
			t.Fatalf("Parse(%q)=%v, want %v", Name(typ), got, typ)
		}
	}

	if _, err := Parse("welch"); err == nil {
		t.Fatal("expected error for unsupported window name")
	}
}

func TestApplyCoefficients(t *testing.T) {
	samples := []float64{1, 2, 3, 4}
	coeffs := []float64{0.5, 0.5, 0.5, 0.5}

	out, err := ApplyCoefficients(samples, coeffs)
	if err != nil {
		t.Fatalf("ApplyCoefficients: %v", err)
	}
	want := []float64{0.5, 1, 1.5, 2}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("index %d: %v, want %v", i, out[i], want[i])
		}
	}

	if _, err := ApplyCoefficients(samples, coeffs[:2]); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestSumSquares(t *testing.T) {
	got := SumSquares([]float64{1, 2, 3})
	if got != 14 {
		t.Fatalf("SumSquares=%v, want 14", got)
	}
}
