// Package design computes biquad coefficients from the RBJ audio EQ
// cookbook: low-pass, high-pass, two band-pass flavors and a high shelf.
//
// A designer returns the zero [biquad.Coefficients] when freq is not
// strictly between 0 and Nyquist or the sample rate is not a positive
// finite number, so callers can reject a rate with IsZero.
package design
