// Package weighting provides the K-weighting pre-filter used for loudness
// measurement.
//
// K-weighting is a two-stage cascade: a high shelf that models the acoustic
// effect of the head (+4 dB above roughly 1.5 kHz) followed by a high-pass
// that removes content below roughly 38 Hz. Both stages are RBJ biquads, so
// the curve tracks the sample rate without an analog prototype.
//
// [KFilter] owns its coefficients and delay lines. It is prepared once per
// sample-rate change and afterwards processes samples without allocating.
package weighting
