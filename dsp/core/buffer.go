package core

// EnsureLen returns a scratch slice of length n, reusing buf's capacity when
// it suffices and allocating otherwise. Contents are unspecified; callers
// that need a clean slate follow up with Zero.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero clears every sample in buf.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// CopyInto copies as much of src as fits into dst and returns the number of
// samples copied, which is the shorter of the two lengths.
func CopyInto(dst, src []float64) int {
	n := min(len(dst), len(src))
	copy(dst, src[:n])
	return n
}
