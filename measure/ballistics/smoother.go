package ballistics

import (
	"github.com/cwbudde/algo-meter/dsp/core"
)

// Smoother moves a display value toward each new reading by a fixed
// fraction of the remaining distance.
type Smoother struct {
	factor float64
	value  float64
}

// NewSmoother returns a smoother starting at initial. factor is clamped to
// (0, 1]; non-positive or NaN factors select 1, which disables smoothing.
func NewSmoother(factor, initial float64) Smoother {
	return Smoother{factor: normalizeFactor(factor), value: initial}
}

func normalizeFactor(f float64) float64 {
	if !(f > 0) || f > 1 {
		return 1
	}

	return f
}

// Update advances the display value toward target and returns it.
func (s *Smoother) Update(target float64) float64 {
	s.value = core.Lerp(s.value, target, s.factor)

	return s.value
}

// Value returns the current display value.
func (s *Smoother) Value() float64 { return s.value }

// Factor returns the smoothing factor.
func (s *Smoother) Factor() float64 { return s.factor }

// Reset sets the display value to v.
func (s *Smoother) Reset(v float64) { s.value = v }
