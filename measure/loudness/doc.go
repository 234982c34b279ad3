// Package loudness implements a momentary loudness estimate for a stereo
// signal.
//
// Each channel is K-weighted and written to a circular history. The
// loudness is computed over a single trailing window (400 ms by default) as
//
//	L = -0.691 + 10*log10(meanSquare(L) + meanSquare(R))
//
// with a -70 LUFS floor when the summed mean square is at or below 1e-10.
// There is no gating and no channel weighting beyond the plain sum, so the
// value approximates BS.1770 momentary loudness rather than implementing it.
package loudness
