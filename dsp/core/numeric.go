package core

import "math"

// Level floors. Values at or below these are reported as the caller's
// floor instead of going through a logarithm.
const (
	// AmplitudeEpsilon is the smallest linear amplitude converted to dB.
	AmplitudeEpsilon = 1e-8

	// PowerEpsilon is the smallest mean-square power converted to dB.
	PowerEpsilon = 1e-10
)

// denormalLimit bounds filter state that is treated as zero.
const denormalLimit = 1e-30

// Clamp limits value to [lo, hi]. Swapped bounds are accepted.
func Clamp(value, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}

	return math.Min(math.Max(value, lo), hi)
}

// FlushDenormals returns 0 for magnitudes below 1e-30 and x otherwise.
func FlushDenormals(x float64) float64 {
	if math.Abs(x) < denormalLimit {
		return 0
	}

	return x
}

// Lerp moves current towards target by factor and returns the new value.
// A factor of 1 jumps straight to target, smaller factors respond slower.
func Lerp(current, target, factor float64) float64 {
	return current + (target-current)*factor
}

// AmplitudeToDB converts a linear amplitude to dB, returning floor when the
// amplitude is not above AmplitudeEpsilon. The guard runs before the
// logarithm, so the result is always finite for finite input.
func AmplitudeToDB(linear, floor float64) float64 {
	if !(linear > AmplitudeEpsilon) || math.IsInf(linear, 0) {
		return floor
	}

	return 20 * math.Log10(linear)
}

// RMSToDB converts a sum of squares over count samples to an RMS level in
// dB. A non-positive count or a level at or below AmplitudeEpsilon yields
// floor.
func RMSToDB(sumSquares float64, count int, floor float64) float64 {
	if count <= 0 {
		return floor
	}

	return AmplitudeToDB(math.Sqrt(sumSquares/float64(count)), floor)
}
