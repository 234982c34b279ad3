package loudness

// Defaults for the momentary window.
const (
	DefaultWindow        = 0.4      // seconds
	DefaultMaxSampleRate = 192000.0 // Hz
)

// Config defines the momentary window.
type Config struct {
	// Window is the integration window in seconds.
	Window float64
	// MaxSampleRate bounds the rates Prepare accepts. The history is sized
	// for it at construction so later rate changes never allocate.
	MaxSampleRate float64
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns a 400 ms window valid up to 192 kHz.
func DefaultConfig() Config {
	return Config{
		Window:        DefaultWindow,
		MaxSampleRate: DefaultMaxSampleRate,
	}
}

// WithWindow sets the integration window in seconds.
func WithWindow(seconds float64) Option {
	return func(cfg *Config) {
		if seconds > 0 {
			cfg.Window = seconds
		}
	}
}

// WithMaxSampleRate sets the highest sample rate Prepare will accept.
func WithMaxSampleRate(hz float64) Option {
	return func(cfg *Config) {
		if hz > 0 {
			cfg.MaxSampleRate = hz
		}
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
