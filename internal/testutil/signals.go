// Package testutil builds deterministic input blocks for metering tests and
// compares floating-point results with explicit tolerances.
package testutil

import (
	"math"
	"math/rand/v2"
)

// DeterministicSine returns length samples of amplitude*sin(2*pi*f*n/sr),
// starting at phase zero.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// DeterministicNoise returns uniform white noise in [-amplitude, amplitude).
// The same seed always yields the same samples.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	rng := rand.New(rand.NewPCG(uint64(seed), 0x6d657465))

	out := make([]float64, length)
	for i := range out {
		out[i] = (2*rng.Float64() - 1) * amplitude
	}

	return out
}

// DC returns length samples of value.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}

	return out
}

// Ones returns n samples of 1.
func Ones(n int) []float64 { return DC(1, n) }

// Silence returns n zero samples.
func Silence(n int) []float64 { return make([]float64, n) }

// Negate returns a phase-inverted copy of x.
func Negate(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = -v
	}

	return out
}

// Chunks splits x into consecutive blocks of at most size samples, the way
// a host delivers a stream in callback-sized blocks. Blocks share x's
// backing array but cannot grow into each other.
func Chunks(x []float64, size int) [][]float64 {
	if size <= 0 {
		return nil
	}

	out := make([][]float64, 0, (len(x)+size-1)/size)
	for len(x) > 0 {
		n := min(size, len(x))
		out = append(out, x[:n:n])
		x = x[n:]
	}

	return out
}
