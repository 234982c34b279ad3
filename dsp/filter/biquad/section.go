package biquad

import (
	"math"

	"github.com/cwbudde/algo-meter/dsp/core"
)

// Coefficients of one second-order section, normalized so that a0 == 1:
//
//	H(z) = (B0 + B1 z^-1 + B2 z^-2) / (1 + A1 z^-1 + A2 z^-2)
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Passthrough is the identity section.
var Passthrough = Coefficients{B0: 1}

// IsZero reports whether all coefficients are zero. Designers return the
// zero value for frequencies they cannot realize.
func (c Coefficients) IsZero() bool {
	return c == Coefficients{}
}

// IsFinite reports whether no coefficient is NaN or infinite.
func (c Coefficients) IsFinite() bool {
	for _, v := range [...]float64{c.B0, c.B1, c.B2, c.A1, c.A2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// Section is one transposed direct form II biquad. A Section belongs to
// the goroutine that feeds it.
type Section struct {
	Coefficients

	z1, z2 float64
}

// NewSection returns a section with cleared state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one sample.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.z1
	s.z1 = s.B1*x - s.A1*y + s.z2
	s.z2 = s.B2*x - s.A2*y

	return y
}

// ProcessBlock filters buf in place and flushes the state afterwards.
func (s *Section) ProcessBlock(buf []float64) {
	c := s.Coefficients
	z1, z2 := s.z1, s.z2

	for i, x := range buf {
		y := c.B0*x + z1
		z1 = c.B1*x - c.A1*y + z2
		z2 = c.B2*x - c.A2*y
		buf[i] = y
	}

	s.z1, s.z2 = z1, z2
	s.Flush()
}

// Flush zeroes state that has decayed below the denormal range, so a
// filter fed silence settles at exactly zero instead of cycling through
// subnormals. Callers driving ProcessSample flush once per block.
func (s *Section) Flush() {
	s.z1 = core.FlushDenormals(s.z1)
	s.z2 = core.FlushDenormals(s.z2)
}

// Reset clears the delay line.
func (s *Section) Reset() {
	s.z1, s.z2 = 0, 0
}

// State returns the delay line.
func (s *Section) State() [2]float64 {
	return [2]float64{s.z1, s.z2}
}
