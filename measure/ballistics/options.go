package ballistics

import "time"

// Default per-tick smoothing factors.
const (
	DefaultLevelsFactor      = 0.15
	DefaultCorrelationFactor = 0.1
	DefaultBandsFactor       = 0.3
	DefaultStereoFactor      = 0.35
	DefaultSpectrumFactor    = 0.3
	DefaultSpectrogramRetain = 0.85

	// DefaultSpectrumFloorDB is the lowest level reported for a spectrum bin.
	DefaultSpectrumFloorDB = -100.0
)

// Config holds the ballistics of every view.
type Config struct {
	LevelsFactor      float64
	HoldTime          time.Duration
	HoldDecayDB       float64
	HoldFloorDB       float64
	VUFactor          float64
	CorrelationFactor float64
	BandsFactor       float64
	StereoFactor      float64
	SpectrumFactor    float64
	SpectrogramRetain float64
	SpectrumFloorDB   float64

	// SampleRate labels spectrum bins in Hz. Zero leaves frequency fields
	// of the display empty.
	SampleRate float64
}

// DefaultConfig returns the standard ballistics.
func DefaultConfig() Config {
	return Config{
		LevelsFactor:      DefaultLevelsFactor,
		HoldTime:          DefaultHoldTime,
		HoldDecayDB:       DefaultHoldDecayDB,
		HoldFloorDB:       DefaultHoldFloorDB,
		VUFactor:          DefaultVUFactor,
		CorrelationFactor: DefaultCorrelationFactor,
		BandsFactor:       DefaultBandsFactor,
		StereoFactor:      DefaultStereoFactor,
		SpectrumFactor:    DefaultSpectrumFactor,
		SpectrogramRetain: DefaultSpectrogramRetain,
		SpectrumFloorDB:   DefaultSpectrumFloorDB,
	}
}

// Option mutates a Config. Out-of-range values are ignored.
type Option func(*Config)

func validFactor(f float64) bool { return f > 0 && f <= 1 }

// WithLevelsFactor sets the smoothing of the peak and loudness readouts.
func WithLevelsFactor(f float64) Option {
	return func(cfg *Config) {
		if validFactor(f) {
			cfg.LevelsFactor = f
		}
	}
}

// WithPeakHold sets the hold time and the per-tick decay after it.
func WithPeakHold(hold time.Duration, decayDB float64) Option {
	return func(cfg *Config) {
		if hold >= 0 {
			cfg.HoldTime = hold
		}
		if decayDB >= 0 {
			cfg.HoldDecayDB = decayDB
		}
	}
}

// WithHoldFloor sets the level the peak holds start at and decay to.
func WithHoldFloor(db float64) Option {
	return func(cfg *Config) {
		cfg.HoldFloorDB = db
	}
}

// WithVUFactor sets the needle smoothing.
func WithVUFactor(f float64) Option {
	return func(cfg *Config) {
		if validFactor(f) {
			cfg.VUFactor = f
		}
	}
}

// WithCorrelationFactor sets the correlation smoothing.
func WithCorrelationFactor(f float64) Option {
	return func(cfg *Config) {
		if validFactor(f) {
			cfg.CorrelationFactor = f
		}
	}
}

// WithBandsFactor sets the band level smoothing.
func WithBandsFactor(f float64) Option {
	return func(cfg *Config) {
		if validFactor(f) {
			cfg.BandsFactor = f
		}
	}
}

// WithStereoFactor sets the L/R/M/S level smoothing.
func WithStereoFactor(f float64) Option {
	return func(cfg *Config) {
		if validFactor(f) {
			cfg.StereoFactor = f
		}
	}
}

// WithSpectrumFactor sets the per-bin spectrum smoothing.
func WithSpectrumFactor(f float64) Option {
	return func(cfg *Config) {
		if validFactor(f) {
			cfg.SpectrumFactor = f
		}
	}
}

// WithSpectrogramRetain sets the share of the old column kept per frame.
func WithSpectrogramRetain(r float64) Option {
	return func(cfg *Config) {
		if r >= 0 && r < 1 {
			cfg.SpectrogramRetain = r
		}
	}
}

// WithSpectrumFloor sets the lowest reported bin level.
func WithSpectrumFloor(db float64) Option {
	return func(cfg *Config) {
		if db < 0 {
			cfg.SpectrumFloorDB = db
		}
	}
}

// WithSampleRate labels spectrum bins for the given rate.
func WithSampleRate(hz float64) Option {
	return func(cfg *Config) {
		if hz > 0 {
			cfg.SampleRate = hz
		}
	}
}

// WithConfig replaces the whole config.
func WithConfig(c Config) Option {
	return func(cfg *Config) {
		*cfg = c
	}
}

// ApplyOptions applies options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
