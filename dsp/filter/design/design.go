package design

import (
	"math"

	"github.com/cwbudde/algo-meter/dsp/filter/biquad"
)

// ButterworthQ gives a maximally flat second-order response.
const ButterworthQ = 1 / math.Sqrt2

// rbj holds the terms every cookbook design starts from.
type rbj struct {
	cos, sin, alpha float64
}

// prototype validates a request and derives the cookbook terms. ok is
// false when freq is not strictly inside (0, Nyquist) or the rate is not a
// positive finite number. A q that is not positive and finite becomes
// ButterworthQ.
func prototype(freq, q, sampleRate float64) (p rbj, ok bool) {
	if !finitePositive(sampleRate) || !finitePositive(freq) || freq >= sampleRate/2 {
		return rbj{}, false
	}
	if !finitePositive(q) {
		q = ButterworthQ
	}

	s, c := math.Sincos(2 * math.Pi * freq / sampleRate)

	return rbj{cos: c, sin: s, alpha: s / (2 * q)}, true
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// normalize divides by a0. A degenerate a0 yields the zero value.
func normalize(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return biquad.Coefficients{}
	}

	inv := 1 / a0

	return biquad.Coefficients{B0: b0 * inv, B1: b1 * inv, B2: b2 * inv, A1: a1 * inv, A2: a2 * inv}
}

// allPole returns the shared denominator of the pass and band designs.
func (p rbj) allPole() (a0, a1, a2 float64) {
	return 1 + p.alpha, -2 * p.cos, 1 - p.alpha
}

// Lowpass designs a second-order low-pass with corner freq.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	p, ok := prototype(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	a0, a1, a2 := p.allPole()
	b := (1 - p.cos) / 2

	return normalize(b, 2*b, b, a0, a1, a2)
}

// Highpass designs a second-order high-pass with corner freq.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	p, ok := prototype(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	a0, a1, a2 := p.allPole()
	b := (1 + p.cos) / 2

	return normalize(b, -2*b, b, a0, a1, a2)
}

// Bandpass designs a band-pass with unity gain at freq for every q. This
// is the mid band of the meter's band split.
func Bandpass(freq, q, sampleRate float64) biquad.Coefficients {
	p, ok := prototype(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	a0, a1, a2 := p.allPole()

	return normalize(p.alpha, 0, -p.alpha, a0, a1, a2)
}

// BandpassSkirt designs a band-pass with constant skirt gain; the peak
// gain at freq equals q.
func BandpassSkirt(freq, q, sampleRate float64) biquad.Coefficients {
	p, ok := prototype(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	a0, a1, a2 := p.allPole()
	b := p.sin / 2

	return normalize(b, 0, -b, a0, a1, a2)
}

// HighShelf designs a high shelf that reaches gainDB well above freq and
// is flat at DC.
func HighShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	p, ok := prototype(freq, q, sampleRate)
	if !ok || math.IsNaN(gainDB) || math.IsInf(gainDB, 0) {
		return biquad.Coefficients{}
	}

	a := math.Pow(10, gainDB/40)
	beta := 2 * math.Sqrt(a) * p.alpha
	ap, am := a+1, a-1

	return normalize(
		a*(ap+am*p.cos+beta),
		-2*a*(am+ap*p.cos),
		a*(ap+am*p.cos-beta),
		ap-am*p.cos+beta,
		2*(am-ap*p.cos),
		ap-am*p.cos-beta,
	)
}
