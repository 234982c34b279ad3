package ballistics

import (
	"time"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-meter/measure/meter"
)

// Source is what a Dashboard polls. *meter.Engine implements it.
type Source interface {
	meter.Snapshot
	meter.FrameSource
}

// Display is one tick's worth of display values. Slices alias dashboard
// buffers and stay valid until the next Tick.
type Display struct {
	Time        time.Time   `json:"time"`
	Levels      Levels      `json:"levels"`
	VU          float64     `json:"vu"`
	Correlation float64     `json:"correlation"`
	Bands       Bands       `json:"bands"`
	Stereo      StereoField `json:"stereo"`
	Spectrum    Spectrum    `json:"spectrum"`
	// Spectrogram is the column produced this tick, or nil.
	Spectrogram []float64 `json:"spectrogram,omitempty"`
}

// Dashboard owns every view and polls one Source.
type Dashboard struct {
	src Source
	cfg Config

	levels      *LevelsView
	vu          *VUView
	correlation *CorrelationView
	bands       *BandsView
	stereo      *StereoFieldView
	spectrum    *SpectrumView
	spectrogram *SpectrogramView

	frameL, frameR, mixed []float64

	ticks uint64
}

// NewDashboard returns a dashboard for src. bins is the spectrum frame
// length, usually Engine.SpectrumBins.
func NewDashboard(src Source, bins int, opts ...Option) *Dashboard {
	cfg := ApplyOptions(opts...)

	return &Dashboard{
		src:         src,
		cfg:         cfg,
		levels:      NewLevelsView(cfg),
		vu:          NewVUView(cfg),
		correlation: NewCorrelationView(cfg),
		bands:       NewBandsView(cfg),
		stereo:      NewStereoFieldView(cfg),
		spectrum:    NewSpectrumView(cfg, bins),
		spectrogram: NewSpectrogramView(cfg, bins),
		frameL:      make([]float64, bins),
		frameR:      make([]float64, bins),
		mixed:       make([]float64, bins),
	}
}

// Config returns the ballistics in use.
func (d *Dashboard) Config() Config { return d.cfg }

// Ticks returns the number of completed ticks.
func (d *Dashboard) Ticks() uint64 { return d.ticks }

// Tick polls the scalars once, drains at most one frame from every bulk
// queue and advances all views.
func (d *Dashboard) Tick(now time.Time) Display {
	frame := d.popSpectrum()

	d.ticks++

	return Display{
		Time:        now,
		Levels:      d.levels.Update(d.src, now),
		VU:          d.vu.Update(d.src),
		Correlation: d.correlation.Update(d.src),
		Bands:       d.bands.Update(d.src),
		Stereo:      d.stereo.Update(d.src, d.src),
		Spectrum:    d.spectrum.Update(frame),
		Spectrogram: d.spectrogram.Update(frame),
	}
}

// popSpectrum pops one frame per channel. Both views see the same frame:
// the mean of the two channels, or the one that arrived alone.
func (d *Dashboard) popSpectrum() []float64 {
	var okL, okR bool
	d.frameL, okL = d.src.TryPopSpectrum(meter.ChannelLeft, d.frameL)
	d.frameR, okR = d.src.TryPopSpectrum(meter.ChannelRight, d.frameR)

	switch {
	case okL && okR && len(d.frameL) == len(d.frameR):
		if len(d.mixed) != len(d.frameL) {
			d.mixed = make([]float64, len(d.frameL))
		}
		vecmath.AddMulBlock(d.mixed, d.frameL, d.frameR, 0.5)

		return d.mixed
	case okL:
		return d.frameL
	case okR:
		return d.frameR
	default:
		return nil
	}
}

// Reset returns every view to its initial state. Queued frames are left
// for the next Tick.
func (d *Dashboard) Reset() {
	d.levels.Reset()
	d.vu.Reset()
	d.correlation.Reset()
	d.bands.Reset()
	d.stereo.Reset()
	d.spectrum.Reset()
	d.spectrogram.Reset()
	d.ticks = 0
}
