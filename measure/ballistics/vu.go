package ballistics

import "github.com/cwbudde/algo-meter/dsp/core"

// VU scale and needle ballistics.
const (
	VUMinDB         = -30.0
	VUMaxDB         = 3.0
	DefaultVUFactor = 0.08
)

// VU models a needle driven by the louder of the two RMS levels. The
// needle position is normalized to [0, 1] over [VUMinDB, VUMaxDB].
type VU struct {
	needle Smoother
}

// NewVU returns a needle at rest.
func NewVU(factor float64) VU {
	return VU{needle: NewSmoother(factor, 0)}
}

// Update moves the needle toward the position for the given RMS levels in
// dBFS and returns it.
func (v *VU) Update(rmsLDB, rmsRDB float64) float64 {
	return v.needle.Update(VUPosition(max(rmsLDB, rmsRDB)))
}

// Needle returns the current needle position.
func (v *VU) Needle() float64 { return v.needle.Value() }

// Reset returns the needle to rest.
func (v *VU) Reset() { v.needle.Reset(0) }

// VUPosition maps a level in dB onto the [0, 1] needle range.
func VUPosition(db float64) float64 {
	return core.Clamp((db-VUMinDB)/(VUMaxDB-VUMinDB), 0, 1)
}
