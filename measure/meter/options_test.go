package meter

import (
	"testing"

	"github.com/cwbudde/algo-meter/dsp/filter/bank"
	"github.com/cwbudde/algo-meter/dsp/window"
)

func TestApplyOptions(t *testing.T) {
	cfg := ApplyOptions(
		WithFFTSize(1024),
		WithFFTSize(1000), // not a power of two, ignored
		WithFFTSize(8),    // below minimum, ignored
		WithWindow(window.TypeBlackman),
		WithLoudnessWindow(3),
		WithLoudnessWindow(-1),
		WithStereoBatch(256),
		WithStereoDecimation(4),
		WithQueueSlots(1),
		WithQueueSlots(8),
		WithMaxSampleRate(96000),
		WithBands(bank.Config{LowCutoff: 120}),
		nil,
	)

	want := Config{
		FFTSize:          1024,
		Window:           window.TypeBlackman,
		LoudnessWindow:   3,
		StereoBatch:      256,
		StereoDecimation: 4,
		QueueSlots:       8,
		MaxSampleRate:    96000,
		Bands: bank.Config{
			LowCutoff:  120,
			MidCenter:  bank.DefaultMidCenter,
			MidQ:       bank.DefaultMidQ,
			HighCutoff: bank.DefaultHighCutoff,
		},
	}
	if cfg != want {
		t.Fatalf("config = %+v\nwant %+v", cfg, want)
	}
}

func TestNew_UsesConfig(t *testing.T) {
	e := New(WithFFTSize(512), WithQueueSlots(2))
	if e.SpectrumBins() != 256 {
		t.Fatalf("SpectrumBins = %d, want 256", e.SpectrumBins())
	}
	if e.Config().QueueSlots != 2 {
		t.Fatalf("QueueSlots = %d", e.Config().QueueSlots)
	}
}
