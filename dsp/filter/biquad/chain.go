package biquad

import "errors"

// ErrSectionCount is returned when a coefficient update does not match the
// length of a Chain.
var ErrSectionCount = errors.New("biquad: section count mismatch")

// Chain is a fixed-length series of sections. Its length is set at
// construction so coefficient updates never allocate.
type Chain struct {
	sections []Section
}

// NewChain returns a chain of n passthrough sections.
func NewChain(n int) *Chain {
	c := &Chain{sections: make([]Section, n)}
	for i := range c.sections {
		c.sections[i].Coefficients = Passthrough
	}

	return c
}

// SetCoefficients replaces the coefficients of every section, in order.
// Delay lines are kept; call Reset for a clean start.
func (c *Chain) SetCoefficients(coeffs ...Coefficients) error {
	if len(coeffs) != len(c.sections) {
		return ErrSectionCount
	}

	for i := range c.sections {
		c.sections[i].Coefficients = coeffs[i]
	}

	return nil
}

// ProcessSample runs x through every section.
func (c *Chain) ProcessSample(x float64) float64 {
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}

	return x
}

// ProcessBlock filters buf in place, one section at a time.
func (c *Chain) ProcessBlock(buf []float64) {
	for i := range c.sections {
		c.sections[i].ProcessBlock(buf)
	}
}

// Flush zeroes denormal state in every section.
func (c *Chain) Flush() {
	for i := range c.sections {
		c.sections[i].Flush()
	}
}

// Reset clears every delay line.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// Len returns the number of sections.
func (c *Chain) Len() int { return len(c.sections) }

// Section returns section i.
func (c *Chain) Section(i int) *Section { return &c.sections[i] }
