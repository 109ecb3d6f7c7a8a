package core

import "testing"

func TestEnsureLenReusesCapacity(t *testing.T) {
	buf := make([]float64, 4, 16)
	out := EnsureLen(buf, 8)
	if len(out) != 8 {
		t.Fatalf("len=%d, want 8", len(out))
	}
	if &out[0] != &buf[0] {
		t.Fatal("expected capacity reuse")
	}
}

func TestEnsureLenAllocates(t *testing.T) {
	buf := make([]float64, 2, 2)
	out := EnsureLen(buf, 8)
	if len(out) != 8 {
		t.Fatalf("len=%d, want 8", len(out))
	}
}

func TestEnsureLenNonPositive(t *testing.T) {
	out := EnsureLen(make([]float64, 4), 0)
	if len(out) != 0 {
		t.Fatalf("len=%d, want 0", len(out))
	}
}

func TestZero(t *testing.T) {
	buf := []float64{1, 2, 3}
	Zero(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("index %d: %v, want 0", i, v)
		}
	}
}

func TestCopyInto(t *testing.T) {
	dst := make([]float64, 3)
	n := CopyInto(dst, []float64{1, 2})
	if n != 2 {
		t.Fatalf("copied %d, want 2", n)
	}
	if dst[0] != 1 || dst[1] != 2 || dst[2] != 0 {
		t.Fatalf("unexpected dst: %v", dst)
	}
}
