// Package summary accumulates whole-stream statistics next to a meter.
//
// A Summary is fed the same blocks as the engine plus the metrics the
// engine published for each block, and reports per-channel level
// statistics together with the extremes of the momentary readings. It is
// meant for offline scans, not for the audio thread: it is cheap but it is
// not part of the allocation-free path.
package summary

import (
	"math"

	"github.com/cwbudde/algo-meter/dsp/core"
	"github.com/cwbudde/algo-meter/measure/meter"
)

// ChannelStats accumulates level statistics of one channel across blocks.
// The mean uses Welford's update so long streams do not lose precision.
type ChannelStats struct {
	n             int64
	mean          float64
	m2            float64
	sumSq         float64
	peak          float64
	peakPos       int64
	zeroCrossings int64
	last          float64
}

// Update adds a block of samples.
func (c *ChannelStats) Update(samples []float64) {
	for _, x := range samples {
		c.n++
		delta := x - c.mean
		c.mean += delta / float64(c.n)
		c.m2 += delta * (x - c.mean)

		c.sumSq += x * x

		if a := math.Abs(x); a > c.peak {
			c.peak = a
			c.peakPos = c.n - 1
		}

		if c.n > 1 && c.last*x < 0 {
			c.zeroCrossings++
		}
		c.last = x
	}
}

// Channel holds the statistics of one channel. Levels are in dBFS and use
// meter.FloorDB for silence.
type Channel struct {
	Frames        int64   `json:"frames"`
	PeakDB        float64 `json:"peakDB"`
	PeakPos       int64   `json:"peakPos"`
	RMSDB         float64 `json:"rmsDB"`
	DC            float64 `json:"dc"`
	StdDev        float64 `json:"stdDev"`
	CrestDB       float64 `json:"crestDB"`
	ZeroCrossings int64   `json:"zeroCrossings"`
}

// Result returns the statistics so far.
func (c *ChannelStats) Result() Channel {
	if c.n == 0 {
		return Channel{PeakDB: meter.FloorDB, RMSDB: meter.FloorDB}
	}

	nf := float64(c.n)
	rms := math.Sqrt(c.sumSq / nf)

	var crest float64
	if rms > core.AmplitudeEpsilon {
		crest = 20 * math.Log10(c.peak/rms)
	}

	return Channel{
		Frames:        c.n,
		PeakDB:        core.AmplitudeToDB(c.peak, meter.FloorDB),
		PeakPos:       c.peakPos,
		RMSDB:         core.AmplitudeToDB(rms, meter.FloorDB),
		DC:            c.mean,
		StdDev:        math.Sqrt(c.m2 / nf),
		CrestDB:       crest,
		ZeroCrossings: c.zeroCrossings,
	}
}

// Reset clears the accumulator.
func (c *ChannelStats) Reset() {
	*c = ChannelStats{}
}

// Report is the outcome of a scan.
type Report struct {
	SampleRate float64 `json:"sampleRate"`
	Seconds    float64 `json:"seconds"`
	Left       Channel `json:"left"`
	Right      Channel `json:"right"`

	// Extremes of the per-block engine readings.
	MaxLoudness     float64 `json:"maxLoudness"`
	MaxLoudnessAt   float64 `json:"maxLoudnessAt"`
	MinCorrelation  float64 `json:"minCorrelation"`
	MeanCorrelation float64 `json:"meanCorrelation"`
	MaxSideRMS      float64 `json:"maxSideRMS"`

	Stats meter.Stats `json:"stats"`
}

// Summary accumulates a Report.
type Summary struct {
	sampleRate  float64
	left, right ChannelStats

	frames     int64
	maxLoud    float64
	maxLoudAt  float64
	minCorr    float64
	corrSum    float64
	corrBlocks int64
	maxSide    float64
}

// New returns an empty summary for a stream at sampleRate.
func New(sampleRate float64) *Summary {
	s := &Summary{sampleRate: sampleRate}
	s.Reset()

	return s
}

// AddBlock folds one block in. An empty right channel means mono, and
// only the common prefix of two channels of different length is used, as
// in meter.Engine.ProcessBlock.
func (s *Summary) AddBlock(left, right []float64) {
	n := len(left)
	if len(right) == 0 {
		right = left
	} else {
		n = min(n, len(right))
	}

	s.left.Update(left[:n])
	s.right.Update(right[:n])
	s.frames += int64(n)
}

// AddMetrics records the metrics published after the latest block.
// Correlation readings of silent blocks do not count.
func (s *Summary) AddMetrics(m meter.Metrics) {
	if m.Loudness > s.maxLoud {
		s.maxLoud = m.Loudness
		s.maxLoudAt = s.seconds()
	}
	if m.SideRMS > s.maxSide {
		s.maxSide = m.SideRMS
	}

	if m.RMSL > meter.FloorDB && m.RMSR > meter.FloorDB {
		s.minCorr = min(s.minCorr, m.Correlation)
		s.corrSum += m.Correlation
		s.corrBlocks++
	}
}

func (s *Summary) seconds() float64 {
	if !(s.sampleRate > 0) {
		return 0
	}

	return float64(s.frames) / s.sampleRate
}

// Report returns the statistics so far. stats is copied into the report.
func (s *Summary) Report(stats meter.Stats) Report {
	r := Report{
		SampleRate:     s.sampleRate,
		Seconds:        s.seconds(),
		Left:           s.left.Result(),
		Right:          s.right.Result(),
		MaxLoudness:    s.maxLoud,
		MaxLoudnessAt:  s.maxLoudAt,
		MinCorrelation: s.minCorr,
		MaxSideRMS:     s.maxSide,
		Stats:          stats,
	}
	if s.corrBlocks > 0 {
		r.MeanCorrelation = s.corrSum / float64(s.corrBlocks)
	} else {
		r.MinCorrelation = meter.CorrelationFloor
	}

	return r
}

// Reset clears all accumulated data.
func (s *Summary) Reset() {
	s.left.Reset()
	s.right.Reset()
	s.frames = 0
	s.maxLoud = meter.LoudnessFloor
	s.maxLoudAt = 0
	s.minCorr = 1
	s.corrSum = 0
	s.corrBlocks = 0
	s.maxSide = meter.FloorDB
}
