package spectrum

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-meter/dsp/core"
	"github.com/cwbudde/algo-meter/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

const (
	// DefaultSize is the default analysis frame length.
	DefaultSize = 4096
	// MinSize is the smallest accepted frame length.
	MinSize = 16
)

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*analyzerConfig)

type analyzerConfig struct {
	window window.Type
	beta   float64
}

// WithWindow selects the analysis window. Default is Hann.
func WithWindow(t window.Type) AnalyzerOption {
	return func(cfg *analyzerConfig) {
		cfg.window = t
	}
}

// WithKaiserBeta sets the beta parameter used when the window is Kaiser.
func WithKaiserBeta(beta float64) AnalyzerOption {
	return func(cfg *analyzerConfig) {
		if beta >= 0 {
			cfg.beta = beta
		}
	}
}

// Analyzer accumulates samples into fixed-size frames and produces one
// magnitude spectrum per completed frame. Frames do not overlap.
//
// An Analyzer is owned by a single goroutine.
type Analyzer struct {
	size int
	plan *algofft.PlanRealT[float64, complex128]
	win  []float64

	acc  []float64
	fill int

	bins []complex128
	re   []float64
	im   []float64
	mags []float64

	frames uint64
	failed uint64
}

// NewAnalyzer returns an analyzer for frames of size samples. All buffers
// are allocated here; Push never allocates.
func NewAnalyzer(size int, opts ...AnalyzerOption) (*Analyzer, error) {
	if size < MinSize || !core.IsPowerOfTwo(size) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	cfg := analyzerConfig{window: window.TypeHann, beta: 8}
	for _, o := range opts {
		o(&cfg)
	}

	plan, err := algofft.NewPlanReal64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan: %w", err)
	}

	half := size / 2

	return &Analyzer{
		size: size,
		plan: plan,
		win:  window.Generate(cfg.window, size, window.WithPeriodic(), window.WithBeta(cfg.beta)),
		acc:  make([]float64, size),
		bins: make([]complex128, half+1),
		re:   make([]float64, half),
		im:   make([]float64, half),
		mags: make([]float64, half),
	}, nil
}

// Size returns the frame length.
func (a *Analyzer) Size() int { return a.size }

// Bins returns the number of magnitudes per frame (Size/2).
func (a *Analyzer) Bins() int { return a.size / 2 }

// Fill returns the number of samples waiting for the next frame.
func (a *Analyzer) Fill() int { return a.fill }

// Frames returns the number of frames produced since construction.
func (a *Analyzer) Frames() uint64 { return a.frames }

// Failed returns the number of frames dropped because the transform
// reported an error.
func (a *Analyzer) Failed() uint64 { return a.failed }

// Push appends one sample. When the sample completes a frame the frame is
// windowed and transformed, the accumulator is emptied and the magnitude
// spectrum is returned with ok == true. The returned slice is owned by the
// analyzer and valid until the next completed frame.
func (a *Analyzer) Push(x float64) (mags []float64, ok bool) {
	a.acc[a.fill] = x
	a.fill++
	if a.fill < a.size {
		return nil, false
	}
	a.fill = 0

	return a.transform()
}

// Reset discards a partially filled frame.
func (a *Analyzer) Reset() {
	a.fill = 0
	core.Zero(a.acc)
}

func (a *Analyzer) transform() ([]float64, bool) {
	vecmath.MulBlockInPlace(a.acc, a.win)

	if err := a.plan.Forward(a.bins, a.acc); err != nil {
		a.failed++
		return nil, false
	}

	for k := range a.re {
		a.re[k] = real(a.bins[k])
		a.im[k] = imag(a.bins[k])
	}
	vecmath.Magnitude(a.mags, a.re, a.im)
	a.frames++

	return a.mags, true
}
