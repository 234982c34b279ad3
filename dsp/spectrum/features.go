package spectrum

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// DefaultRolloff is the energy fraction used by Features.
const DefaultRolloff = 0.85

// Features holds shape descriptors of one analyzer frame. Frequencies are
// in Hz.
type Features struct {
	Centroid float64 `json:"centroid"`
	Spread   float64 `json:"spread"`
	Flatness float64 `json:"flatness"`
	Rolloff  float64 `json:"rolloff"`
}

// frameBinHz returns the frequency of bin i of a frame of n magnitudes,
// which covers a transform of 2n samples.
func frameBinHz(i, n int, sampleRate float64) float64 {
	return BinFrequency(i, 2*n, sampleRate)
}

// Describe computes every descriptor of a magnitude frame as produced by
// Analyzer.Push. An empty or all-zero frame yields zero Features.
func Describe(mag []float64, sampleRate float64) Features {
	n := len(mag)
	if n < 2 {
		return Features{}
	}

	sum := vecmath.Sum(mag)
	if !(sum > 0) {
		return Features{}
	}

	c := centroid(mag, sampleRate, sum)

	return Features{
		Centroid: c,
		Spread:   spread(mag, sampleRate, c, sum),
		Flatness: Flatness(mag),
		Rolloff:  rolloff(mag, sampleRate, DefaultRolloff, vecmath.DotProduct(mag, mag)),
	}
}

// Centroid returns the magnitude-weighted mean frequency of a frame.
//
//	centroid = sum(f_i * |X_i|) / sum(|X_i|)
func Centroid(mag []float64, sampleRate float64) float64 {
	if len(mag) < 2 {
		return 0
	}

	return centroid(mag, sampleRate, vecmath.Sum(mag))
}

func centroid(mag []float64, sampleRate, sum float64) float64 {
	n := len(mag)
	if n < 2 || sum == 0 {
		return 0
	}

	var weighted float64
	for i, v := range mag {
		weighted += frameBinHz(i, n, sampleRate) * v
	}

	return weighted / sum
}

// spread is the standard deviation of the frame around its centroid.
func spread(mag []float64, sampleRate, cent, sum float64) float64 {
	n := len(mag)
	if n < 2 || sum == 0 {
		return 0
	}

	var acc float64
	for i, v := range mag {
		d := frameBinHz(i, n, sampleRate) - cent
		acc += d * d * v
	}

	return math.Sqrt(acc / sum)
}

// Flatness returns the spectral flatness (Wiener entropy) in 0..1, the ratio
// of the geometric to the arithmetic mean. Bin 0 is excluded. Any zero bin
// makes the result 0.
func Flatness(mag []float64) float64 {
	n := len(mag)
	if n < 2 {
		return 0
	}

	var sumLin, sumLog float64
	for _, v := range mag[1:] {
		if !(v > 0) {
			return 0
		}
		sumLin += v
		sumLog += math.Log(v)
	}

	bins := float64(n - 1)

	return math.Exp(sumLog/bins) / (sumLin / bins)
}

// Rolloff returns the frequency below which fraction of the frame energy
// lies. Energy is the sum of squared magnitudes.
func Rolloff(mag []float64, sampleRate, fraction float64) float64 {
	if len(mag) < 2 {
		return 0
	}

	return rolloff(mag, sampleRate, fraction, vecmath.DotProduct(mag, mag))
}

func rolloff(mag []float64, sampleRate, fraction, energy float64) float64 {
	n := len(mag)
	if n < 2 || energy == 0 {
		return 0
	}

	threshold := fraction * energy

	var cum float64
	for i, v := range mag {
		cum += v * v
		if cum >= threshold {
			return frameBinHz(i, n, sampleRate)
		}
	}

	return frameBinHz(n-1, n, sampleRate)
}
