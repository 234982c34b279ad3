package ballistics

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-meter/dsp/core"
)

// BinSmoother smooths a vector of spectrum bins frame by frame.
//
// Each bin follows v = v*(1-factor) + x*factor. In the default mode the
// state starts at zero, so a new display rises from silence. With
// CopyFirst the first frame is taken as is and only later frames are
// averaged, which avoids a long fade-in.
type BinSmoother struct {
	factor    float64
	copyFirst bool
	values    []float64
	primed    bool
}

// NewBinSmoother returns a smoother for frames of n bins.
func NewBinSmoother(n int, factor float64, copyFirst bool) *BinSmoother {
	return &BinSmoother{
		factor:    normalizeFactor(factor),
		copyFirst: copyFirst,
		values:    make([]float64, max(n, 0)),
	}
}

// NewExponentialBinSmoother returns a CopyFirst smoother that keeps retain
// of the old value per frame, the convention used by waterfall displays.
func NewExponentialBinSmoother(n int, retain float64) *BinSmoother {
	return NewBinSmoother(n, 1-retain, true)
}

// Update folds frame into the state and returns the smoothed bins. A frame
// of a different length resizes the state and restarts smoothing. The
// returned slice is owned by the smoother.
func (b *BinSmoother) Update(frame []float64) []float64 {
	if len(frame) != len(b.values) {
		b.values = core.EnsureLen(b.values, len(frame))
		core.Zero(b.values)
		b.primed = false
	}

	if b.copyFirst && !b.primed {
		copy(b.values, frame)
		b.primed = true

		return b.values
	}
	b.primed = true

	if b.factor == 1 {
		copy(b.values, frame)

		return b.values
	}

	// v*(1-f) + x*f == (v*(1-f)/f + x) * f
	vecmath.ScaleBlockInPlace(b.values, (1-b.factor)/b.factor)
	vecmath.AddMulBlock(b.values, b.values, frame, b.factor)

	return b.values
}

// Values returns the smoothed bins.
func (b *BinSmoother) Values() []float64 { return b.values }

// Reset zeroes the state.
func (b *BinSmoother) Reset() {
	core.Zero(b.values)
	b.primed = false
}
