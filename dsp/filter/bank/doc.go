// Package bank provides a three-band (low/mid/high) split filter bank.
//
// The bank feeds one input sample through three independent second-order
// filters in parallel:
//
//   - low:  lowpass at 250 Hz, Q 1/sqrt(2)
//   - mid:  constant 0 dB peak bandpass centered at 1 kHz, Q 2
//   - high: highpass at 2 kHz, Q 1/sqrt(2)
//
// The bands are not complementary and are not normalized against each
// other; they are coarse energy probes, not a reconstruction crossover.
//
// Basic usage:
//
//	b := bank.NewThreeBand()
//	if err := b.Prepare(48000); err != nil {
//	    return err
//	}
//	low, mid, high := b.Process(sample)
package bank
