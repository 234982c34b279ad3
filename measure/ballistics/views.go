package ballistics

import (
	"time"

	"github.com/cwbudde/algo-meter/dsp/core"
	"github.com/cwbudde/algo-meter/dsp/spectrum"
	"github.com/cwbudde/algo-meter/measure/meter"
)

// Band display range.
const (
	BandsMinDB = -60.0
	BandsMaxDB = 0.0
)

// Levels is the display state of the peak meters.
type Levels struct {
	PeakL    float64 `json:"peakL"`
	PeakR    float64 `json:"peakR"`
	HoldL    float64 `json:"holdL"`
	HoldR    float64 `json:"holdR"`
	Loudness float64 `json:"loudness"`
}

// LevelsView smooths the peak levels and loudness and tracks a peak hold
// per channel. Holds follow the raw peaks, not the smoothed ones.
type LevelsView struct {
	peakL, peakR Smoother
	loudness     Smoother
	holdL, holdR PeakHold
}

// NewLevelsView returns a view at the sentinel levels.
func NewLevelsView(cfg Config) *LevelsView {
	v := &LevelsView{}
	v.configure(cfg)

	return v
}

func (v *LevelsView) configure(cfg Config) {
	v.peakL = NewSmoother(cfg.LevelsFactor, meter.FloorDB)
	v.peakR = NewSmoother(cfg.LevelsFactor, meter.FloorDB)
	v.loudness = NewSmoother(cfg.LevelsFactor, meter.LoudnessFloor)
	v.holdL = NewPeakHold(cfg.HoldTime, cfg.HoldDecayDB, cfg.HoldFloorDB)
	v.holdR = NewPeakHold(cfg.HoldTime, cfg.HoldDecayDB, cfg.HoldFloorDB)
}

// Update reads the peak and loudness cells of s.
func (v *LevelsView) Update(s meter.Snapshot, now time.Time) Levels {
	peakL, peakR := s.PeakL(), s.PeakR()

	return Levels{
		PeakL:    v.peakL.Update(peakL),
		PeakR:    v.peakR.Update(peakR),
		HoldL:    v.holdL.Update(peakL, now),
		HoldR:    v.holdR.Update(peakR, now),
		Loudness: v.loudness.Update(s.Loudness()),
	}
}

// Reset returns the view to its initial state.
func (v *LevelsView) Reset() {
	v.peakL.Reset(meter.FloorDB)
	v.peakR.Reset(meter.FloorDB)
	v.loudness.Reset(meter.LoudnessFloor)
	v.holdL.Reset()
	v.holdR.Reset()
}

// VUView drives a VU needle from the RMS cells.
type VUView struct {
	vu VU
}

// NewVUView returns a needle at rest.
func NewVUView(cfg Config) *VUView {
	return &VUView{vu: NewVU(cfg.VUFactor)}
}

// Update returns the needle position in [0, 1].
func (v *VUView) Update(s meter.Snapshot) float64 {
	return v.vu.Update(s.RMSL(), s.RMSR())
}

// Reset returns the needle to rest.
func (v *VUView) Reset() { v.vu.Reset() }

// CorrelationView smooths the phase correlation.
type CorrelationView struct {
	s Smoother
}

// NewCorrelationView returns a view centered at 0.
func NewCorrelationView(cfg Config) *CorrelationView {
	return &CorrelationView{s: NewSmoother(cfg.CorrelationFactor, meter.CorrelationFloor)}
}

// Update returns the smoothed correlation in [-1, 1].
func (v *CorrelationView) Update(s meter.Snapshot) float64 {
	return v.s.Update(s.Correlation())
}

// Reset centers the view.
func (v *CorrelationView) Reset() { v.s.Reset(meter.CorrelationFloor) }

// Bands holds band fill levels. 0 is BandsMinDB and below, 1 is BandsMaxDB.
// Levels above BandsMaxDB overflow past 1.
type Bands struct {
	Low  float64 `json:"low"`
	Mid  float64 `json:"mid"`
	High float64 `json:"high"`
}

// BandsView normalizes and smooths the three band levels.
type BandsView struct {
	low, mid, high Smoother
}

// NewBandsView returns empty bands.
func NewBandsView(cfg Config) *BandsView {
	return &BandsView{
		low:  NewSmoother(cfg.BandsFactor, 0),
		mid:  NewSmoother(cfg.BandsFactor, 0),
		high: NewSmoother(cfg.BandsFactor, 0),
	}
}

// BandFill maps a band level in dB onto the display range.
func BandFill(db float64) float64 {
	return max((db-BandsMinDB)/(BandsMaxDB-BandsMinDB), 0)
}

// Update reads the band cells of s.
func (v *BandsView) Update(s meter.Snapshot) Bands {
	return Bands{
		Low:  v.low.Update(BandFill(s.LowRMS())),
		Mid:  v.mid.Update(BandFill(s.MidBandRMS())),
		High: v.high.Update(BandFill(s.HighRMS())),
	}
}

// Reset empties the bands.
func (v *BandsView) Reset() {
	v.low.Reset(0)
	v.mid.Reset(0)
	v.high.Reset(0)
}

// StereoField is the display state of the stereo image view.
type StereoField struct {
	L     float64 `json:"l"`
	R     float64 `json:"r"`
	M     float64 `json:"m"`
	S     float64 `json:"s"`
	Gonio Gonio   `json:"gonio"`
}

// Gonio holds the latest decimated sample pairs. Both slices are empty
// when no batch arrived this tick.
type Gonio struct {
	L []float64 `json:"l"`
	R []float64 `json:"r"`
}

// StereoFieldView smooths the L/R/M/S RMS levels and collects stereo
// batches for a goniometer.
type StereoFieldView struct {
	l, r, m, s Smoother
	bufL, bufR []float64
}

// NewStereoFieldView returns a view at the sentinel levels.
func NewStereoFieldView(cfg Config) *StereoFieldView {
	return &StereoFieldView{
		l: NewSmoother(cfg.StereoFactor, meter.FloorDB),
		r: NewSmoother(cfg.StereoFactor, meter.FloorDB),
		m: NewSmoother(cfg.StereoFactor, meter.FloorDB),
		s: NewSmoother(cfg.StereoFactor, meter.FloorDB),
	}
}

// Update reads the RMS cells of s and pops at most one batch per channel
// from src. The returned slices stay valid until the next Update.
func (v *StereoFieldView) Update(s meter.Snapshot, src meter.FrameSource) StereoField {
	out := StereoField{
		L: v.l.Update(s.RMSL()),
		R: v.r.Update(s.RMSR()),
		M: v.m.Update(s.MidRMS()),
		S: v.s.Update(s.SideRMS()),
	}

	// Left first: the engine queues the right half of a batch before the
	// left one, so a popped left batch always has its partner.
	var ok bool
	if v.bufL, ok = src.TryPopStereo(meter.ChannelLeft, v.bufL); !ok {
		return out
	}
	if v.bufR, ok = src.TryPopStereo(meter.ChannelRight, v.bufR); ok {
		n := min(len(v.bufL), len(v.bufR))
		out.Gonio = Gonio{L: v.bufL[:n], R: v.bufR[:n]}
	}

	return out
}

// Reset returns the levels to the sentinel.
func (v *StereoFieldView) Reset() {
	v.l.Reset(meter.FloorDB)
	v.r.Reset(meter.FloorDB)
	v.m.Reset(meter.FloorDB)
	v.s.Reset(meter.FloorDB)
}

// Spectrum is the display state of the spectrum analyzer.
type Spectrum struct {
	// DB holds the smoothed bins in dBFS. It is empty until the first frame.
	DB []float64 `json:"db,omitempty"`
	// PeakBin is the loudest smoothed bin, or -1.
	PeakBin int `json:"peakBin"`
	// PeakHz and Features are set when the sample rate is known.
	PeakHz   float64            `json:"peakHz,omitempty"`
	Features *spectrum.Features `json:"features,omitempty"`
}

// SpectrumView smooths magnitude frames bin by bin.
type SpectrumView struct {
	smoother   *BinSmoother
	db         []float64
	floorDB    float64
	sampleRate float64
	features   spectrum.Features
}

// NewSpectrumView returns a view for frames of bins magnitudes.
func NewSpectrumView(cfg Config, bins int) *SpectrumView {
	return &SpectrumView{
		smoother:   NewBinSmoother(bins, cfg.SpectrumFactor, false),
		floorDB:    cfg.SpectrumFloorDB,
		sampleRate: cfg.SampleRate,
	}
}

// Update folds a new frame in. A nil frame keeps the previous display.
func (v *SpectrumView) Update(frame []float64) Spectrum {
	if frame != nil {
		mags := v.smoother.Update(frame)
		v.db = spectrum.MagnitudeToDBInto(core.EnsureLen(v.db, len(mags)), mags, 2*len(mags), v.floorDB)
	}

	out := Spectrum{DB: v.db, PeakBin: -1}
	if len(v.db) == 0 {
		return out
	}

	mags := v.smoother.Values()
	out.PeakBin, _ = spectrum.PeakBin(mags)
	if v.sampleRate > 0 {
		out.PeakHz = spectrum.BinFrequency(out.PeakBin, 2*len(mags), v.sampleRate)
		v.features = spectrum.Describe(mags, v.sampleRate)
		out.Features = &v.features
	}

	return out
}

// Reset clears the display.
func (v *SpectrumView) Reset() {
	v.smoother.Reset()
	v.db = v.db[:0]
}

// SpectrogramView produces one averaged column per incoming frame.
type SpectrogramView struct {
	smoother *BinSmoother
	db       []float64
	floorDB  float64
}

// NewSpectrogramView returns a view for frames of bins magnitudes.
func NewSpectrogramView(cfg Config, bins int) *SpectrogramView {
	return &SpectrogramView{
		smoother: NewExponentialBinSmoother(bins, cfg.SpectrogramRetain),
		floorDB:  cfg.SpectrumFloorDB,
	}
}

// Update returns the next column in dBFS, or nil when frame is nil.
func (v *SpectrogramView) Update(frame []float64) []float64 {
	if frame == nil {
		return nil
	}

	mags := v.smoother.Update(frame)
	v.db = spectrum.MagnitudeToDBInto(core.EnsureLen(v.db, len(mags)), mags, 2*len(mags), v.floorDB)

	return v.db
}

// Reset forgets the running average.
func (v *SpectrogramView) Reset() {
	v.smoother.Reset()
}
