package meter

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-meter/measure/loudness"
)

// Sentinel values reported when there is nothing to measure.
const (
	FloorDB          = -90.0
	LoudnessFloor    = loudness.Floor
	CorrelationFloor = 0.0
)

// cell is a float64 published with atomic loads and stores.
type cell struct {
	bits atomic.Uint64
}

func (c *cell) load() float64   { return math.Float64frombits(c.bits.Load()) }
func (c *cell) store(v float64) { c.bits.Store(math.Float64bits(v)) }

// Store publishes the latest scalar measurements. Every cell is written by
// the producer and read by any number of consumers. Individual reads are
// tear-free; reads of different cells are not synchronized with each other.
type Store struct {
	peakL, peakR       cell
	rmsL, rmsR         cell
	loudness           cell
	correlation        cell
	midRMS, sideRMS    cell
	lowRMS, midBandRMS cell
	highRMS            cell
}

// NewStore returns a store holding the sentinel values.
func NewStore() *Store {
	s := &Store{}
	s.Reset()

	return s
}

// Reset writes the sentinels: FloorDB for levels, LoudnessFloor for
// loudness and 0 for correlation.
func (s *Store) Reset() {
	s.peakL.store(FloorDB)
	s.peakR.store(FloorDB)
	s.rmsL.store(FloorDB)
	s.rmsR.store(FloorDB)
	s.midRMS.store(FloorDB)
	s.sideRMS.store(FloorDB)
	s.lowRMS.store(FloorDB)
	s.midBandRMS.store(FloorDB)
	s.highRMS.store(FloorDB)
	s.loudness.store(LoudnessFloor)
	s.correlation.store(CorrelationFloor)
}

// PeakL returns the left peak level in dBFS.
func (s *Store) PeakL() float64 { return s.peakL.load() }

// PeakR returns the right peak level in dBFS.
func (s *Store) PeakR() float64 { return s.peakR.load() }

// RMSL returns the left RMS level in dBFS.
func (s *Store) RMSL() float64 { return s.rmsL.load() }

// RMSR returns the right RMS level in dBFS.
func (s *Store) RMSR() float64 { return s.rmsR.load() }

// Loudness returns the momentary loudness in LUFS.
func (s *Store) Loudness() float64 { return s.loudness.load() }

// Correlation returns the phase correlation in [-1, 1].
func (s *Store) Correlation() float64 { return s.correlation.load() }

// MidRMS returns the RMS level of (L+R)/2 in dBFS.
func (s *Store) MidRMS() float64 { return s.midRMS.load() }

// SideRMS returns the RMS level of (L-R)/2 in dBFS.
func (s *Store) SideRMS() float64 { return s.sideRMS.load() }

// LowRMS returns the low band RMS level in dBFS.
func (s *Store) LowRMS() float64 { return s.lowRMS.load() }

// MidBandRMS returns the mid band RMS level in dBFS.
func (s *Store) MidBandRMS() float64 { return s.midBandRMS.load() }

// HighRMS returns the high band RMS level in dBFS.
func (s *Store) HighRMS() float64 { return s.highRMS.load() }

// Metrics is a copy of every scalar in a Store.
type Metrics struct {
	PeakL       float64 `json:"peakL"`
	PeakR       float64 `json:"peakR"`
	RMSL        float64 `json:"rmsL"`
	RMSR        float64 `json:"rmsR"`
	Loudness    float64 `json:"loudness"`
	Correlation float64 `json:"correlation"`
	MidRMS      float64 `json:"midRMS"`
	SideRMS     float64 `json:"sideRMS"`
	LowRMS      float64 `json:"lowRMS"`
	MidBandRMS  float64 `json:"midBandRMS"`
	HighRMS     float64 `json:"highRMS"`
}

// Load reads every cell once. The fields are independent loads and may come
// from different producer blocks.
func (s *Store) Load() Metrics {
	return Load(s)
}

// Load copies the scalars of any Snapshot into a Metrics value.
func Load(src Snapshot) Metrics {
	return Metrics{
		PeakL:       src.PeakL(),
		PeakR:       src.PeakR(),
		RMSL:        src.RMSL(),
		RMSR:        src.RMSR(),
		Loudness:    src.Loudness(),
		Correlation: src.Correlation(),
		MidRMS:      src.MidRMS(),
		SideRMS:     src.SideRMS(),
		LowRMS:      src.LowRMS(),
		MidBandRMS:  src.MidBandRMS(),
		HighRMS:     src.HighRMS(),
	}
}
