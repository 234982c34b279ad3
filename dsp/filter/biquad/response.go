package biquad

import "math"

// MagnitudeSquared returns |H(e^jw)|^2 at freqHz, evaluating numerator and
// denominator polynomials on the unit circle.
func (c Coefficients) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	w := 2 * math.Pi * freqHz / sampleRate
	s1, c1 := math.Sincos(w)
	s2, c2 := math.Sincos(2 * w)

	nr := c.B0 + c.B1*c1 + c.B2*c2
	ni := c.B1*s1 + c.B2*s2
	dr := 1 + c.A1*c1 + c.A2*c2
	di := c.A1*s1 + c.A2*s2

	return (nr*nr + ni*ni) / (dr*dr + di*di)
}

// MagnitudeDB returns the section gain at freqHz in dB.
func (c Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 10 * math.Log10(c.MagnitudeSquared(freqHz, sampleRate))
}

// MagnitudeDB returns the gain of the whole chain at freqHz in dB.
func (c *Chain) MagnitudeDB(freqHz, sampleRate float64) float64 {
	var db float64
	for i := range c.sections {
		db += c.sections[i].MagnitudeDB(freqHz, sampleRate)
	}

	return db
}
