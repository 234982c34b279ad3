package loudness

import (
	"math"

	"github.com/cwbudde/algo-meter/dsp/buffer"
	"github.com/cwbudde/algo-meter/dsp/core"
	"github.com/cwbudde/algo-meter/dsp/filter/weighting"
)

const (
	// Floor is reported when the window holds no measurable energy.
	Floor = -70.0

	// offset is the BS.1770 calibration constant.
	offset = -0.691

	// minHistory keeps short windows on a reasonably sized ring.
	minHistory = 1 << 15
)

// Momentary tracks K-weighted energy of a stereo pair over a trailing
// window. It is owned by the producer goroutine.
type Momentary struct {
	cfg Config

	filters [2]*weighting.KFilter
	history [2]*buffer.Ring

	windowSamples int
	sampleRate    float64
}

// NewMomentary allocates the filters and a history large enough for the
// configured window at MaxSampleRate. Call Prepare before Process.
func NewMomentary(opts ...Option) *Momentary {
	cfg := ApplyOptions(opts...)

	capacity := core.NextPowerOfTwo(max(int(math.Ceil(cfg.Window*cfg.MaxSampleRate)), minHistory))

	m := &Momentary{cfg: cfg}
	for ch := range m.filters {
		m.filters[ch] = weighting.NewKFilter()
		m.history[ch] = buffer.NewRing(capacity)
	}

	return m
}

// Config returns the window configuration.
func (m *Momentary) Config() Config { return m.cfg }

// WindowSamples returns the window length in samples at the prepared rate.
func (m *Momentary) WindowSamples() int { return m.windowSamples }

// SampleRate returns the prepared rate, or 0.
func (m *Momentary) SampleRate() float64 { return m.sampleRate }

// Prepare configures the K-weighting filters and window length for
// sampleRate and clears all history. It does not allocate.
func (m *Momentary) Prepare(sampleRate float64) error {
	if err := core.CheckSampleRate(sampleRate, m.cfg.MaxSampleRate); err != nil {
		return err
	}

	for ch := range m.filters {
		if err := m.filters[ch].Prepare(sampleRate); err != nil {
			return err
		}
	}

	n := int(math.Round(m.cfg.Window * sampleRate))
	m.windowSamples = min(max(n, 1), m.history[0].Cap())
	m.sampleRate = sampleRate
	m.Reset()

	return nil
}

// Process K-weights one stereo sample and appends it to the history.
func (m *Momentary) Process(left, right float64) {
	m.history[0].Write(m.filters[0].ProcessSample(left))
	m.history[1].Write(m.filters[1].ProcessSample(right))
}

// Flush zeroes denormal state in the K-weighting filters. Call it once per
// block.
func (m *Momentary) Flush() {
	for ch := range m.filters {
		m.filters[ch].Flush()
	}
}

// MeanSquare returns the mean square of the K-weighted signal of channel ch
// (0 or 1) over the trailing window. Before the window has filled, the
// missing samples count as silence.
func (m *Momentary) MeanSquare(ch int) float64 {
	if m.windowSamples == 0 {
		return 0
	}

	return m.history[ch].SumSquares(m.windowSamples) / float64(m.windowSamples)
}

// Loudness returns the momentary loudness in LUFS.
func (m *Momentary) Loudness() float64 {
	return ToLUFS(m.MeanSquare(0) + m.MeanSquare(1))
}

// Reset clears filter state and history.
func (m *Momentary) Reset() {
	for ch := range m.filters {
		m.filters[ch].Reset()
		m.history[ch].Reset()
	}
}

// ToLUFS converts a summed channel mean square to LUFS. Values at or below
// core.PowerEpsilon map to Floor.
func ToLUFS(meanSquare float64) float64 {
	if !(meanSquare > core.PowerEpsilon) || math.IsInf(meanSquare, 0) {
		return Floor
	}

	return offset + 10*math.Log10(meanSquare)
}
