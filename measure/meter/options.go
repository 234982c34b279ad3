package meter

import (
	"github.com/cwbudde/algo-meter/dsp/core"
	"github.com/cwbudde/algo-meter/dsp/filter/bank"
	"github.com/cwbudde/algo-meter/dsp/spectrum"
	"github.com/cwbudde/algo-meter/dsp/window"
	"github.com/cwbudde/algo-meter/measure/loudness"
)

// Defaults.
const (
	DefaultFFTSize          = spectrum.DefaultSize
	DefaultLoudnessWindow   = loudness.DefaultWindow
	DefaultStereoBatch      = 512
	DefaultStereoDecimation = 2
	DefaultQueueSlots       = 4
	DefaultMaxSampleRate    = loudness.DefaultMaxSampleRate
)

// Config holds the engine layout. It is fixed at construction.
type Config struct {
	// FFTSize is the spectrum frame length, a power of two >= 16. Each
	// spectrum frame carries FFTSize/2 magnitudes.
	FFTSize int
	// Window is the spectrum analysis window.
	Window window.Type
	// LoudnessWindow is the momentary loudness window in seconds.
	LoudnessWindow float64
	// StereoBatch is the number of (L, R) pairs per stereo queue frame.
	StereoBatch int
	// StereoDecimation keeps every n-th sample pair for the stereo batch.
	StereoDecimation int
	// QueueSlots is the slot count of each bulk queue; one slot is always
	// kept free.
	QueueSlots int
	// MaxSampleRate is the highest rate Prepare and ProcessBlock accept.
	MaxSampleRate float64
	// Bands holds the band-split frequencies.
	Bands bank.Config
}

// DefaultConfig returns the default engine layout.
func DefaultConfig() Config {
	return Config{
		FFTSize:          DefaultFFTSize,
		Window:           window.TypeHann,
		LoudnessWindow:   DefaultLoudnessWindow,
		StereoBatch:      DefaultStereoBatch,
		StereoDecimation: DefaultStereoDecimation,
		QueueSlots:       DefaultQueueSlots,
		MaxSampleRate:    DefaultMaxSampleRate,
		Bands:            bank.DefaultConfig(),
	}
}

// Option mutates a Config. Options ignore out-of-range values.
type Option func(*Config)

// WithFFTSize sets the spectrum frame length.
func WithFFTSize(n int) Option {
	return func(cfg *Config) {
		if n >= spectrum.MinSize && core.IsPowerOfTwo(n) {
			cfg.FFTSize = n
		}
	}
}

// WithWindow sets the spectrum analysis window.
func WithWindow(t window.Type) Option {
	return func(cfg *Config) {
		cfg.Window = t
	}
}

// WithLoudnessWindow sets the momentary loudness window in seconds.
func WithLoudnessWindow(seconds float64) Option {
	return func(cfg *Config) {
		if seconds > 0 {
			cfg.LoudnessWindow = seconds
		}
	}
}

// WithStereoBatch sets the number of sample pairs per stereo frame.
func WithStereoBatch(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.StereoBatch = n
		}
	}
}

// WithStereoDecimation keeps every n-th sample pair for the stereo frames.
func WithStereoDecimation(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.StereoDecimation = n
		}
	}
}

// WithQueueSlots sets the slot count of every bulk queue. Values below 2
// are ignored.
func WithQueueSlots(n int) Option {
	return func(cfg *Config) {
		if n >= 2 {
			cfg.QueueSlots = n
		}
	}
}

// WithMaxSampleRate sets the highest accepted sample rate.
func WithMaxSampleRate(hz float64) Option {
	return func(cfg *Config) {
		if hz > 0 {
			cfg.MaxSampleRate = hz
		}
	}
}

// WithBands sets the band-split frequencies. Zero fields keep defaults.
func WithBands(c bank.Config) Option {
	return func(cfg *Config) {
		bank.WithConfig(c)(&cfg.Bands)
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
