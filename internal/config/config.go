// Package config loads the YAML configuration of the meterscan command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-meter/dsp/core"
	"github.com/cwbudde/algo-meter/dsp/filter/bank"
	"github.com/cwbudde/algo-meter/dsp/spectrum"
	"github.com/cwbudde/algo-meter/dsp/window"
	"github.com/cwbudde/algo-meter/measure/ballistics"
	"github.com/cwbudde/algo-meter/measure/meter"
)

// Configuration defaults not owned by a library package.
const (
	DefaultBlockSize = 512
	DefaultTickRate  = 60.0
	DefaultWSPath    = "/ws"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid value")

// BandsConfig holds the band-split frequencies.
type BandsConfig struct {
	LowCutoff  float64 `yaml:"low_cutoff"`
	MidCenter  float64 `yaml:"mid_center"`
	MidQ       float64 `yaml:"mid_q"`
	HighCutoff float64 `yaml:"high_cutoff"`
}

// EngineConfig configures the metering engine and how audio is fed to it.
type EngineConfig struct {
	BlockSize        int         `yaml:"block_size"`
	FFTSize          int         `yaml:"fft_size"`
	Window           string      `yaml:"window"`
	LoudnessWindow   float64     `yaml:"loudness_window"`
	StereoBatch      int         `yaml:"stereo_batch"`
	StereoDecimation int         `yaml:"stereo_decimation"`
	QueueSlots       int         `yaml:"queue_slots"`
	MaxSampleRate    float64     `yaml:"max_sample_rate"`
	Bands            BandsConfig `yaml:"bands"`
}

// BallisticsConfig configures the display consumer.
type BallisticsConfig struct {
	TickRate          float64       `yaml:"tick_rate"`
	LevelsFactor      float64       `yaml:"levels_factor"`
	HoldTime          time.Duration `yaml:"hold_time"`
	HoldDecayDB       float64       `yaml:"hold_decay_db"`
	HoldFloorDB       float64       `yaml:"hold_floor_db"`
	VUFactor          float64       `yaml:"vu_factor"`
	CorrelationFactor float64       `yaml:"correlation_factor"`
	BandsFactor       float64       `yaml:"bands_factor"`
	StereoFactor      float64       `yaml:"stereo_factor"`
	SpectrumFactor    float64       `yaml:"spectrum_factor"`
	SpectrogramRetain float64       `yaml:"spectrogram_retain"`
	SpectrumFloorDB   float64       `yaml:"spectrum_floor_db"`
}

// ServerConfig configures the live display server. An empty Listen
// disables it.
type ServerConfig struct {
	Listen       string        `yaml:"listen"`
	Path         string        `yaml:"path"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Config is the complete meterscan configuration.
type Config struct {
	Engine     EngineConfig     `yaml:"engine"`
	Ballistics BallisticsConfig `yaml:"ballistics"`
	Server     ServerConfig     `yaml:"server"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	mc := meter.DefaultConfig()
	bc := ballistics.DefaultConfig()

	return &Config{
		Engine: EngineConfig{
			BlockSize:        DefaultBlockSize,
			FFTSize:          mc.FFTSize,
			Window:           mc.Window.String(),
			LoudnessWindow:   mc.LoudnessWindow,
			StereoBatch:      mc.StereoBatch,
			StereoDecimation: mc.StereoDecimation,
			QueueSlots:       mc.QueueSlots,
			MaxSampleRate:    mc.MaxSampleRate,
			Bands: BandsConfig{
				LowCutoff:  mc.Bands.LowCutoff,
				MidCenter:  mc.Bands.MidCenter,
				MidQ:       mc.Bands.MidQ,
				HighCutoff: mc.Bands.HighCutoff,
			},
		},
		Ballistics: BallisticsConfig{
			TickRate:          DefaultTickRate,
			LevelsFactor:      bc.LevelsFactor,
			HoldTime:          bc.HoldTime,
			HoldDecayDB:       bc.HoldDecayDB,
			HoldFloorDB:       bc.HoldFloorDB,
			VUFactor:          bc.VUFactor,
			CorrelationFactor: bc.CorrelationFactor,
			BandsFactor:       bc.BandsFactor,
			StereoFactor:      bc.StereoFactor,
			SpectrumFactor:    bc.SpectrumFactor,
			SpectrogramRetain: bc.SpectrogramRetain,
			SpectrumFloorDB:   bc.SpectrumFloorDB,
		},
		Server: ServerConfig{
			Path:         DefaultWSPath,
			WriteTimeout: 2 * time.Second,
		},
	}
}

// Load reads and validates the file at path. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func invalid(field string, value any) error {
	return fmt.Errorf("%w: %s = %v", ErrInvalid, field, value)
}

func factorOK(f float64) bool { return f > 0 && f <= 1 }

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	e := &c.Engine
	switch {
	case e.BlockSize < 1:
		return invalid("engine.block_size", e.BlockSize)
	case e.FFTSize < spectrum.MinSize || !core.IsPowerOfTwo(e.FFTSize):
		return invalid("engine.fft_size", e.FFTSize)
	case !(e.LoudnessWindow > 0):
		return invalid("engine.loudness_window", e.LoudnessWindow)
	case e.StereoBatch < 1:
		return invalid("engine.stereo_batch", e.StereoBatch)
	case e.StereoDecimation < 1:
		return invalid("engine.stereo_decimation", e.StereoDecimation)
	case e.QueueSlots < 2:
		return invalid("engine.queue_slots", e.QueueSlots)
	case core.ValidateSampleRate(e.MaxSampleRate) != nil:
		return invalid("engine.max_sample_rate", e.MaxSampleRate)
	}
	if _, err := window.ParseType(e.Window); err != nil {
		return fmt.Errorf("%w: engine.window: %w", ErrInvalid, err)
	}

	b := &e.Bands
	switch {
	case !(b.LowCutoff > 0):
		return invalid("engine.bands.low_cutoff", b.LowCutoff)
	case !(b.MidCenter > 0):
		return invalid("engine.bands.mid_center", b.MidCenter)
	case !(b.MidQ > 0):
		return invalid("engine.bands.mid_q", b.MidQ)
	case !(b.HighCutoff > 0):
		return invalid("engine.bands.high_cutoff", b.HighCutoff)
	}

	bl := &c.Ballistics
	switch {
	case !(bl.TickRate > 0) || bl.TickRate > 1000:
		return invalid("ballistics.tick_rate", bl.TickRate)
	case !factorOK(bl.LevelsFactor):
		return invalid("ballistics.levels_factor", bl.LevelsFactor)
	case bl.HoldTime < 0:
		return invalid("ballistics.hold_time", bl.HoldTime)
	case bl.HoldDecayDB < 0:
		return invalid("ballistics.hold_decay_db", bl.HoldDecayDB)
	case !factorOK(bl.VUFactor):
		return invalid("ballistics.vu_factor", bl.VUFactor)
	case !factorOK(bl.CorrelationFactor):
		return invalid("ballistics.correlation_factor", bl.CorrelationFactor)
	case !factorOK(bl.BandsFactor):
		return invalid("ballistics.bands_factor", bl.BandsFactor)
	case !factorOK(bl.StereoFactor):
		return invalid("ballistics.stereo_factor", bl.StereoFactor)
	case !factorOK(bl.SpectrumFactor):
		return invalid("ballistics.spectrum_factor", bl.SpectrumFactor)
	case bl.SpectrogramRetain < 0 || bl.SpectrogramRetain >= 1:
		return invalid("ballistics.spectrogram_retain", bl.SpectrogramRetain)
	case !(bl.SpectrumFloorDB < 0):
		return invalid("ballistics.spectrum_floor_db", bl.SpectrumFloorDB)
	}

	s := &c.Server
	switch {
	case s.Path == "" || s.Path[0] != '/':
		return invalid("server.path", s.Path)
	case s.WriteTimeout <= 0:
		return invalid("server.write_timeout", s.WriteTimeout)
	}

	return nil
}

// TickInterval returns the consumer period.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.Ballistics.TickRate)
}

// EngineOptions converts the engine section into meter options. It
// expects a validated config.
func (c *Config) EngineOptions() []meter.Option {
	e := c.Engine
	wt, _ := window.ParseType(e.Window)

	return []meter.Option{
		meter.WithFFTSize(e.FFTSize),
		meter.WithWindow(wt),
		meter.WithLoudnessWindow(e.LoudnessWindow),
		meter.WithStereoBatch(e.StereoBatch),
		meter.WithStereoDecimation(e.StereoDecimation),
		meter.WithQueueSlots(e.QueueSlots),
		meter.WithMaxSampleRate(e.MaxSampleRate),
		meter.WithBands(bank.Config{
			LowCutoff:  e.Bands.LowCutoff,
			MidCenter:  e.Bands.MidCenter,
			MidQ:       e.Bands.MidQ,
			HighCutoff: e.Bands.HighCutoff,
		}),
	}
}

// BallisticsOptions converts the ballistics section into dashboard
// options. sampleRate labels spectrum bins and may be zero.
func (c *Config) BallisticsOptions(sampleRate float64) []ballistics.Option {
	b := c.Ballistics

	return []ballistics.Option{
		ballistics.WithLevelsFactor(b.LevelsFactor),
		ballistics.WithPeakHold(b.HoldTime, b.HoldDecayDB),
		ballistics.WithHoldFloor(b.HoldFloorDB),
		ballistics.WithVUFactor(b.VUFactor),
		ballistics.WithCorrelationFactor(b.CorrelationFactor),
		ballistics.WithBandsFactor(b.BandsFactor),
		ballistics.WithStereoFactor(b.StereoFactor),
		ballistics.WithSpectrumFactor(b.SpectrumFactor),
		ballistics.WithSpectrogramRetain(b.SpectrogramRetain),
		ballistics.WithSpectrumFloor(b.SpectrumFloorDB),
		ballistics.WithSampleRate(sampleRate),
	}
}
