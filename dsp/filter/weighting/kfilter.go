package weighting

import (
	"github.com/cwbudde/algo-meter/dsp/core"
	"github.com/cwbudde/algo-meter/dsp/filter/biquad"
	"github.com/cwbudde/algo-meter/dsp/filter/design"
)

// K-weighting stage parameters.
const (
	ShelfFreq   = 1500.0
	ShelfGainDB = 4.0
	HighpassHz  = 38.0
	HighpassQ   = 0.5
)

// KFilter is a single-channel K-weighting filter: high shelf followed by
// high-pass.
type KFilter struct {
	chain      *biquad.Chain
	sampleRate float64
}

// NewKFilter returns an unprepared filter. Until Prepare succeeds it passes
// samples through unchanged.
func NewKFilter() *KFilter {
	return &KFilter{chain: biquad.NewChain(2)}
}

// Prepare computes coefficients for sampleRate and clears the delay lines.
// It does not allocate.
func (f *KFilter) Prepare(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}

	shelf := design.HighShelf(ShelfFreq, ShelfGainDB, design.ButterworthQ, sampleRate)
	hp := design.Highpass(HighpassHz, HighpassQ, sampleRate)
	if shelf.IsZero() || hp.IsZero() {
		// The shelf corner sits above Nyquist only for rates below 3 kHz.
		return core.ErrInvalidSampleRate
	}

	if err := f.chain.SetCoefficients(shelf, hp); err != nil {
		return err
	}
	f.chain.Reset()
	f.sampleRate = sampleRate

	return nil
}

// ProcessSample filters one sample through the shelf and then the high-pass.
func (f *KFilter) ProcessSample(x float64) float64 {
	return f.chain.ProcessSample(x)
}

// ProcessBlock filters buf in place.
func (f *KFilter) ProcessBlock(buf []float64) {
	f.chain.ProcessBlock(buf)
}

// Flush zeroes denormal filter state.
func (f *KFilter) Flush() {
	f.chain.Flush()
}

// Reset clears the delay lines and keeps the coefficients.
func (f *KFilter) Reset() {
	f.chain.Reset()
}

// SampleRate returns the rate of the last successful Prepare, or 0.
func (f *KFilter) SampleRate() float64 {
	return f.sampleRate
}

// MagnitudeDB returns the filter's magnitude response at freqHz.
func (f *KFilter) MagnitudeDB(freqHz float64) float64 {
	if f.sampleRate == 0 {
		return 0
	}

	return f.chain.MagnitudeDB(freqHz, f.sampleRate)
}
