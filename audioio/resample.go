package audioio

import (
	"fmt"
	"math"
)

// tapsPerSide is the half-width of the windowed-sinc interpolation kernel.
const tapsPerSide = 16

// Resampler converts between two sample rates by a reduced rational ratio
// using Hann-windowed sinc interpolation. Immutable after construction and
// safe for concurrent read-only use.
type Resampler struct {
	up     int
	down   int
	cutoff float64
}

// NewForRates creates a resampler converting inRate to outRate.
func NewForRates(inRate, outRate int) (*Resampler, error) {
	if inRate <= 0 || outRate <= 0 {
		return nil, fmt.Errorf("audioio: resample rates must be > 0: %d -> %d", inRate, outRate)
	}

	g := gcd(inRate, outRate)
	up := outRate / g
	down := inRate / g

	// Anti-alias when decimating: move the kernel cutoff to the output
	// Nyquist frequency.
	cutoff := 1.0
	if down > up {
		cutoff = float64(up) / float64(down)
	}

	return &Resampler{up: up, down: down, cutoff: cutoff}, nil
}

// Ratio returns the reduced conversion ratio (up, down).
func (r *Resampler) Ratio() (int, int) { return r.up, r.down }

// Process converts in to the output rate and returns a new slice.
func (r *Resampler) Process(in []float64) []float64 {
	if len(in) == 0 {
		return nil
	}
	if r.up == r.down {
		out := make([]float64, len(in))
		copy(out, in)
		return out
	}

	outLen := (len(in)*r.up + r.down - 1) / r.down
	out := make([]float64, outLen)

	for n := range out {
		t := n * r.down
		base := t / r.up
		frac := float64(t%r.up) / float64(r.up)

		acc := 0.0
		for k := -tapsPerSide + 1; k <= tapsPerSide; k++ {
			idx := base + k
			if idx < 0 || idx >= len(in) {
				continue
			}
			x := float64(k) - frac
			acc += in[idx] * kernelAt(x, r.cutoff)
		}
		out[n] = acc
	}
	return out
}

// ProcessBuffer resamples every channel of buf to outRate.
func (r *Resampler) ProcessBuffer(buf *Buffer, outRate int) (*Buffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	out := &Buffer{
		Data:       make([][]float64, buf.Channels()),
		SampleRate: outRate,
	}
	for i, ch := range buf.Data {
		out.Data[i] = r.Process(ch)
	}
	return out, nil
}

// Resample converts buf to targetRate, returning buf unchanged if the rates
// already match.
func Resample(buf *Buffer, targetRate int) (*Buffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if buf.SampleRate == targetRate {
		return buf, nil
	}

	r, err := NewForRates(buf.SampleRate, targetRate)
	if err != nil {
		return nil, err
	}
	return r.ProcessBuffer(buf, targetRate)
}

// kernelAt evaluates the Hann-windowed sinc kernel at offset x in input
// samples, with the given normalized cutoff.
func kernelAt(x, cutoff float64) float64 {
	if x <= -tapsPerSide || x >= tapsPerSide {
		return 0
	}
	w := 0.5 + 0.5*math.Cos(math.Pi*x/tapsPerSide)
	return cutoff * sinc(cutoff*x) * w
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
