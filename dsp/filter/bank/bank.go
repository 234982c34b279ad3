package bank

import (
	"math"

	"github.com/cwbudde/algo-meter/dsp/core"
	"github.com/cwbudde/algo-meter/dsp/filter/biquad"
	"github.com/cwbudde/algo-meter/dsp/filter/design"
)

// Default band parameters.
const (
	DefaultLowCutoff  = 250.0
	DefaultMidCenter  = 1000.0
	DefaultMidQ       = 2.0
	DefaultHighCutoff = 2000.0
)

// Band identifies one of the three outputs.
type Band int

const (
	BandLow Band = iota
	BandMid
	BandHigh
	numBands
)

// String returns the band name.
func (b Band) String() string {
	switch b {
	case BandLow:
		return "low"
	case BandMid:
		return "mid"
	case BandHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Config holds the band frequencies.
type Config struct {
	LowCutoff  float64 // lowpass corner in Hz
	MidCenter  float64 // bandpass center in Hz
	MidQ       float64 // bandpass quality factor
	HighCutoff float64 // highpass corner in Hz
}

// DefaultConfig returns the 250 Hz / 1 kHz / 2 kHz layout.
func DefaultConfig() Config {
	return Config{
		LowCutoff:  DefaultLowCutoff,
		MidCenter:  DefaultMidCenter,
		MidQ:       DefaultMidQ,
		HighCutoff: DefaultHighCutoff,
	}
}

// Option configures a ThreeBand.
type Option func(*Config)

// WithLowCutoff sets the low band corner. Non-positive values are ignored.
func WithLowCutoff(hz float64) Option {
	return func(cfg *Config) {
		if hz > 0 {
			cfg.LowCutoff = hz
		}
	}
}

// WithMid sets the mid band center and Q. Non-positive values are ignored.
func WithMid(centerHz, q float64) Option {
	return func(cfg *Config) {
		if centerHz > 0 {
			cfg.MidCenter = centerHz
		}
		if q > 0 {
			cfg.MidQ = q
		}
	}
}

// WithHighCutoff sets the high band corner. Non-positive values are ignored.
func WithHighCutoff(hz float64) Option {
	return func(cfg *Config) {
		if hz > 0 {
			cfg.HighCutoff = hz
		}
	}
}

// WithConfig replaces all band parameters. Zero fields keep their defaults.
func WithConfig(c Config) Option {
	return func(cfg *Config) {
		WithLowCutoff(c.LowCutoff)(cfg)
		WithMid(c.MidCenter, c.MidQ)(cfg)
		WithHighCutoff(c.HighCutoff)(cfg)
	}
}

// ThreeBand splits a signal into low, mid and high bands.
type ThreeBand struct {
	cfg        Config
	sections   [numBands]biquad.Section
	sampleRate float64
}

// NewThreeBand returns an unprepared bank. Until Prepare succeeds every band
// outputs zero.
func NewThreeBand(opts ...Option) *ThreeBand {
	cfg := DefaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	return &ThreeBand{cfg: cfg}
}

// Config returns the band parameters.
func (b *ThreeBand) Config() Config { return b.cfg }

// SampleRate returns the rate of the last successful Prepare, or 0.
func (b *ThreeBand) SampleRate() float64 { return b.sampleRate }

// Prepare computes coefficients for sampleRate and clears all state.
// A band whose frequency lies at or above Nyquist is disabled (outputs
// zero) rather than failing the whole bank.
func (b *ThreeBand) Prepare(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}

	b.sections[BandLow].Coefficients = design.Lowpass(b.cfg.LowCutoff, design.ButterworthQ, sampleRate)
	b.sections[BandMid].Coefficients = design.Bandpass(b.cfg.MidCenter, b.cfg.MidQ, sampleRate)
	b.sections[BandHigh].Coefficients = design.Highpass(b.cfg.HighCutoff, design.ButterworthQ, sampleRate)
	b.sampleRate = sampleRate
	b.Reset()

	return nil
}

// Process runs x through all three filters.
func (b *ThreeBand) Process(x float64) (low, mid, high float64) {
	low = b.sections[BandLow].ProcessSample(x)
	mid = b.sections[BandMid].ProcessSample(x)
	high = b.sections[BandHigh].ProcessSample(x)

	return low, mid, high
}

// Flush zeroes denormal filter state. Call it once per block.
func (b *ThreeBand) Flush() {
	for i := range b.sections {
		b.sections[i].Flush()
	}
}

// Reset clears the delay lines of all bands.
func (b *ThreeBand) Reset() {
	for i := range b.sections {
		b.sections[i].Reset()
	}
}

// MagnitudeDB returns the magnitude response of band at freqHz.
func (b *ThreeBand) MagnitudeDB(band Band, freqHz float64) float64 {
	if band < 0 || band >= numBands || b.sampleRate == 0 {
		return math.Inf(-1)
	}

	return b.sections[band].MagnitudeDB(freqHz, b.sampleRate)
}
