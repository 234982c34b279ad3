package spectrum

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// MagnitudeToDB converts raw analyzer magnitudes to dB relative to a
// full-scale bin. Each magnitude is divided by size before conversion and
// results below floorDB are clamped to floorDB.
func MagnitudeToDB(mag []float64, size int, floorDB float64) []float64 {
	if len(mag) == 0 {
		return nil
	}

	return MagnitudeToDBInto(make([]float64, len(mag)), mag, size, floorDB)
}

// MagnitudeToDBInto is the allocation-free form of MagnitudeToDB. dst must
// be at least as long as mag; the filled prefix is returned.
func MagnitudeToDBInto(dst, mag []float64, size int, floorDB float64) []float64 {
	dst = dst[:len(mag)]
	if size <= 0 {
		for i := range dst {
			dst[i] = floorDB
		}
		return dst
	}

	floorLin := math.Pow(10, floorDB/20)
	inv := 1 / float64(size)
	for i, m := range mag {
		v := m * inv
		if !(v > floorLin) || math.IsInf(v, 0) {
			dst[i] = floorDB
			continue
		}
		dst[i] = 20 * math.Log10(v)
	}

	return dst
}

// BinFrequency returns the center frequency in Hz of bin for a transform
// of the given size.
func BinFrequency(bin, size int, sampleRate float64) float64 {
	if size <= 0 {
		return 0
	}

	return float64(bin) * sampleRate / float64(size)
}

// FrequencyBin returns the bin nearest to freqHz, clamped to [0, size/2).
func FrequencyBin(freqHz float64, size int, sampleRate float64) int {
	if size <= 1 || sampleRate <= 0 || !(freqHz > 0) {
		return 0
	}

	bin := int(math.Round(freqHz * float64(size) / sampleRate))
	if last := size/2 - 1; bin > last {
		return last
	}

	return bin
}

// PeakBin returns the index and value of the largest magnitude. It returns
// -1 for an empty slice. Ties resolve to the lowest index.
func PeakBin(mag []float64) (int, float64) {
	if len(mag) == 0 {
		return -1, 0
	}

	peak := vecmath.MaxAbs(mag)
	for i, m := range mag {
		if math.Abs(m) == peak {
			return i, m
		}
	}

	return 0, mag[0]
}
