// Package spectrum provides a block-accumulating magnitude spectrum
// analyzer and consumer-side helpers for its output.
//
// [Analyzer] collects raw samples until a full frame is available, then
// applies a window, runs a real FFT and returns unnormalized bin magnitudes
// for bins [0, size/2). The DC..Nyquist-1 layout lets a consumer map bin k
// to k*sampleRate/size without special-casing the Nyquist bin.
//
// The helpers in this package ([MagnitudeToDB], [BinFrequency],
// [FrequencyBin], [PeakBin]) are meant for the display side and never run
// on the audio thread.
package spectrum
