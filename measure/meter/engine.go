package meter

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-meter/dsp/buffer"
	"github.com/cwbudde/algo-meter/dsp/core"
	"github.com/cwbudde/algo-meter/dsp/filter/bank"
	"github.com/cwbudde/algo-meter/dsp/spectrum"
	"github.com/cwbudde/algo-meter/measure/loudness"
)

// Stats reports bulk queue activity since construction.
type Stats struct {
	SpectrumFrames  uint64 `json:"spectrumFrames"`
	SpectrumDropped uint64 `json:"spectrumDropped"`
	StereoFrames    uint64 `json:"stereoFrames"`
	StereoDropped   uint64 `json:"stereoDropped"`
}

// Engine is the metering pipeline. ProcessBlock, Prepare and Reset belong
// to the producer; the Snapshot accessors, TryPop methods and Stats may be
// called from one consumer goroutine concurrently with the producer.
type Engine struct {
	cfg   Config
	store *Store

	prepared   bool
	sampleRate float64
	maxBlock   int

	loud      *loudness.Momentary
	bands     [2]*bank.ThreeBand
	analyzers [2]*spectrum.Analyzer

	spectrumQ [2]*buffer.FrameQueue
	stereoQ   [2]*buffer.FrameQueue

	stage      [2][]float64
	stageLen   int
	decimPhase int

	// Stereo batches popped or skipped per channel. Consumer only.
	stereoPopped [2]uint64

	spectrumFrames atomic.Uint64
	stereoFrames   atomic.Uint64
}

// New allocates an engine and every buffer it will ever use. The engine
// must be prepared before the first ProcessBlock.
func New(opts ...Option) *Engine {
	cfg := ApplyOptions(opts...)

	e := &Engine{
		cfg:   cfg,
		store: NewStore(),
		loud: loudness.NewMomentary(
			loudness.WithWindow(cfg.LoudnessWindow),
			loudness.WithMaxSampleRate(cfg.MaxSampleRate),
		),
	}

	for ch := range 2 {
		a, err := spectrum.NewAnalyzer(cfg.FFTSize, spectrum.WithWindow(cfg.Window))
		if err != nil {
			// WithFFTSize only admits sizes NewAnalyzer accepts.
			panic(fmt.Sprintf("meter: %v", err))
		}
		e.analyzers[ch] = a
		e.bands[ch] = bank.NewThreeBand(bank.WithConfig(cfg.Bands))
		e.spectrumQ[ch] = buffer.NewFrameQueue(cfg.QueueSlots, a.Bins())
		e.stereoQ[ch] = buffer.NewFrameQueue(cfg.QueueSlots, cfg.StereoBatch)
		e.stage[ch] = make([]float64, cfg.StereoBatch)
	}

	return e
}

// Config returns the engine layout.
func (e *Engine) Config() Config { return e.cfg }

// Store returns the scalar store the engine publishes to.
func (e *Engine) Store() *Store { return e.store }

// SampleRate returns the rate the engine is configured for, or 0.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// MaxBlockSize returns the block size hint passed to Prepare.
func (e *Engine) MaxBlockSize() int { return e.maxBlock }

// SpectrumBins returns the number of magnitudes per spectrum frame.
func (e *Engine) SpectrumBins() int { return e.cfg.FFTSize / 2 }

// Prepare configures every filter for sampleRate and resets all state.
// maxBlockSize is a hint only; ProcessBlock accepts blocks of any length.
//
// A failed Prepare leaves the engine unprepared, even if an earlier call
// succeeded: ProcessBlock returns ErrNotPrepared until Prepare succeeds
// again.
func (e *Engine) Prepare(sampleRate float64, maxBlockSize int) error {
	if err := core.CheckBlockSize(maxBlockSize); err != nil {
		e.prepared = false
		return err
	}
	if err := e.configure(sampleRate); err != nil {
		e.prepared = false
		return err
	}

	e.maxBlock = maxBlockSize
	e.prepared = true

	return nil
}

// configure validates sampleRate, recomputes coefficients and resets state.
// A rate rejected by validation changes nothing; a failure after that point
// leaves the filters half configured and marks the engine unprepared. It
// does not allocate.
func (e *Engine) configure(sampleRate float64) error {
	if err := core.CheckSampleRate(sampleRate, e.cfg.MaxSampleRate); err != nil {
		return err
	}

	if err := e.loud.Prepare(sampleRate); err != nil {
		e.prepared = false
		return err
	}
	for ch := range e.bands {
		if err := e.bands[ch].Prepare(sampleRate); err != nil {
			e.prepared = false
			return err
		}
	}

	e.sampleRate = sampleRate
	e.Reset()

	return nil
}

// Reset clears filter state, loudness history, partial spectrum frames and
// the stereo staging buffer, and writes the sentinels to the store. Frames
// already queued stay queued for the consumer.
func (e *Engine) Reset() {
	e.loud.Reset()
	for ch := range 2 {
		e.bands[ch].Reset()
		e.analyzers[ch].Reset()
		core.Zero(e.stage[ch])
	}
	e.stageLen = 0
	e.decimPhase = 0
	e.store.Reset()
}

// ProcessBlock measures one block. A nil or empty right channel is treated
// as mono and left is measured on both sides. When the channel lengths
// differ only the common prefix is measured. An empty block changes
// nothing.
//
// A sampleRate different from the prepared rate reconfigures the engine and
// resets all state before the block is measured. ProcessBlock does not
// allocate and does not block.
func (e *Engine) ProcessBlock(left, right []float64, sampleRate float64) error {
	if !e.prepared {
		return ErrNotPrepared
	}
	if sampleRate != e.sampleRate {
		if err := e.configure(sampleRate); err != nil {
			return err
		}
	}

	mono := len(right) == 0
	n := len(left)
	if !mono {
		n = min(n, len(right))
	}
	if n == 0 {
		return nil
	}

	var (
		peakL, peakR          float64
		sumL, sumR, sumLR     float64
		lowSum, midSum, hiSum float64
		midSq, sideSq         float64
	)

	bandL, bandR := e.bands[0], e.bands[1]
	batch := len(e.stage[0])
	decim := e.cfg.StereoDecimation

	for i := range n {
		l := left[i]
		r := l
		if !mono {
			r = right[i]
		}

		if a := math.Abs(l); a > peakL {
			peakL = a
		}
		if a := math.Abs(r); a > peakR {
			peakR = a
		}

		sumL += l * l
		sumR += r * r
		sumLR += l * r

		e.loud.Process(l, r)

		if mags, ok := e.analyzers[0].Push(l); ok {
			e.publishSpectrum(0, mags)
		}
		if mags, ok := e.analyzers[1].Push(r); ok {
			e.publishSpectrum(1, mags)
		}

		lo, mid, hi := bandL.Process(l)
		lowSum += lo * lo
		midSum += mid * mid
		hiSum += hi * hi
		lo, mid, hi = bandR.Process(r)
		lowSum += lo * lo
		midSum += mid * mid
		hiSum += hi * hi

		m := (l + r) * 0.5
		s := (l - r) * 0.5
		midSq += m * m
		sideSq += s * s

		if e.decimPhase == 0 {
			e.stage[0][e.stageLen] = l
			e.stage[1][e.stageLen] = r
			e.stageLen++
			if e.stageLen == batch {
				e.publishStereo()
			}
		}
		e.decimPhase++
		if e.decimPhase == decim {
			e.decimPhase = 0
		}
	}

	e.loud.Flush()
	bandL.Flush()
	bandR.Flush()

	st := e.store
	st.peakL.store(core.AmplitudeToDB(peakL, FloorDB))
	st.peakR.store(core.AmplitudeToDB(peakR, FloorDB))
	st.rmsL.store(core.RMSToDB(sumL, n, FloorDB))
	st.rmsR.store(core.RMSToDB(sumR, n, FloorDB))
	st.correlation.store(correlation(sumLR, sumL, sumR))
	st.loudness.store(e.loud.Loudness())
	st.lowRMS.store(core.RMSToDB(lowSum, 2*n, FloorDB))
	st.midBandRMS.store(core.RMSToDB(midSum, 2*n, FloorDB))
	st.highRMS.store(core.RMSToDB(hiSum, 2*n, FloorDB))
	st.midRMS.store(core.RMSToDB(midSq, n, FloorDB))
	st.sideRMS.store(core.RMSToDB(sideSq, n, FloorDB))

	return nil
}

func (e *Engine) publishSpectrum(ch int, mags []float64) {
	if e.spectrumQ[ch].Push(mags) {
		e.spectrumFrames.Add(1)
	}
}

// publishStereo enqueues the staged batch on both channels or on neither.
// Only the consumer frees slots, so both pushes succeed once both queues
// report room. The right half goes first: a consumer that pops a left
// batch always finds its right half already queued.
func (e *Engine) publishStereo() {
	e.stageLen = 0

	qL, qR := e.stereoQ[0], e.stereoQ[1]
	if qL.Free() == 0 || qR.Free() == 0 {
		qL.Drop()
		qR.Drop()
		return
	}

	qR.Push(e.stage[1])
	qL.Push(e.stage[0])
	e.stereoFrames.Add(1)
}

// correlation returns sumLR/sqrt(sumL*sumR) clamped to [-1, 1], or 0 when
// the denominator is not above core.AmplitudeEpsilon.
func correlation(sumLR, sumL, sumR float64) float64 {
	den := math.Sqrt(sumL * sumR)
	if !(den > core.AmplitudeEpsilon) || math.IsInf(den, 0) {
		return CorrelationFloor
	}

	return core.Clamp(sumLR/den, -1, 1)
}

// TryPopSpectrum copies the oldest spectrum frame of ch into dst.
func (e *Engine) TryPopSpectrum(ch Channel, dst []float64) ([]float64, bool) {
	if ch != ChannelLeft && ch != ChannelRight {
		return dst, false
	}

	return pop(e.spectrumQ[ch], dst)
}

// TryPopStereo copies the oldest stereo batch of ch into dst. Batches are
// enqueued on both channels or on neither, so popping left then right
// yields matching halves. A channel that fell more than one batch behind
// the other, because an earlier tick popped only one side, first skips its
// stale batches.
func (e *Engine) TryPopStereo(ch Channel, dst []float64) ([]float64, bool) {
	if ch != ChannelLeft && ch != ChannelRight {
		return dst, false
	}

	q := e.stereoQ[ch]
	other := e.stereoPopped[1-ch]
	for e.stereoPopped[ch]+1 < other {
		if !q.Skip() {
			return dst[:0], false
		}
		e.stereoPopped[ch]++
	}

	dst, ok := pop(q, dst)
	if ok {
		e.stereoPopped[ch]++
	}

	return dst, ok
}

func pop(q *buffer.FrameQueue, dst []float64) ([]float64, bool) {
	dst = core.EnsureLen(dst, q.FrameLen())
	n, ok := q.Pop(dst)
	if !ok {
		return dst[:0], false
	}

	return dst[:n], true
}

// Stats returns queue counters. Drops are frames the producer could not
// enqueue because the consumer fell behind; a dropped stereo batch counts
// once per channel.
func (e *Engine) Stats() Stats {
	return Stats{
		SpectrumFrames:  e.spectrumFrames.Load(),
		SpectrumDropped: e.spectrumQ[0].Dropped() + e.spectrumQ[1].Dropped(),
		StereoFrames:    e.stereoFrames.Load(),
		StereoDropped:   e.stereoQ[0].Dropped() + e.stereoQ[1].Dropped(),
	}
}

// PeakL returns the left peak level in dBFS.
func (e *Engine) PeakL() float64 { return e.store.PeakL() }

// PeakR returns the right peak level in dBFS.
func (e *Engine) PeakR() float64 { return e.store.PeakR() }

// RMSL returns the left RMS level in dBFS.
func (e *Engine) RMSL() float64 { return e.store.RMSL() }

// RMSR returns the right RMS level in dBFS.
func (e *Engine) RMSR() float64 { return e.store.RMSR() }

// Loudness returns the momentary loudness in LUFS.
func (e *Engine) Loudness() float64 { return e.store.Loudness() }

// Correlation returns the phase correlation in [-1, 1].
func (e *Engine) Correlation() float64 { return e.store.Correlation() }

// MidRMS returns the RMS level of (L+R)/2 in dBFS.
func (e *Engine) MidRMS() float64 { return e.store.MidRMS() }

// SideRMS returns the RMS level of (L-R)/2 in dBFS.
func (e *Engine) SideRMS() float64 { return e.store.SideRMS() }

// LowRMS returns the low band RMS level in dBFS.
func (e *Engine) LowRMS() float64 { return e.store.LowRMS() }

// MidBandRMS returns the mid band RMS level in dBFS.
func (e *Engine) MidBandRMS() float64 { return e.store.MidBandRMS() }

// HighRMS returns the high band RMS level in dBFS.
func (e *Engine) HighRMS() float64 { return e.store.HighRMS() }
