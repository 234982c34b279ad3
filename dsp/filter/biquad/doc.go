// Package biquad runs second-order IIR sections.
//
// A [Section] filters in transposed direct form II; a [Chain] runs a fixed
// number of sections in series and is what the K-weighting pre-filter is
// built from. Coefficients come from dsp/filter/design.
//
// Processing never allocates. Sections and chains are owned by the
// goroutine that feeds them.
package biquad
