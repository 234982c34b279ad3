package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-meter/dsp/window"
	"github.com/cwbudde/algo-meter/internal/testutil"
)

func TestNewAnalyzer_InvalidSize(t *testing.T) {
	for _, size := range []int{-1, 0, 8, 100, 4095} {
		if _, err := NewAnalyzer(size); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("size %d: err = %v, want ErrInvalidSize", size, err)
		}
	}
}

func TestAnalyzer_SineProducesOneFrame(t *testing.T) {
	const sr = 48000.0
	a, err := NewAnalyzer(DefaultSize)
	if err != nil {
		t.Fatal(err)
	}
	in := testutil.DeterministicSine(1000, sr, 1, DefaultSize)

	var (
		frames int
		last   []float64
	)
	for i, x := range in {
		mags, ok := a.Push(x)
		if !ok {
			continue
		}
		if i != len(in)-1 {
			t.Fatalf("frame completed early at sample %d", i)
		}
		frames++
		last = mags
	}

	if frames != 1 {
		t.Fatalf("frames = %d, want 1", frames)
	}
	if len(last) != DefaultSize/2 {
		t.Fatalf("len(mags) = %d, want %d", len(last), DefaultSize/2)
	}
	testutil.RequireFinite(t, last)

	bin, _ := PeakBin(last)
	if want := FrequencyBin(1000, DefaultSize, sr); bin != want {
		t.Fatalf("peak bin = %d (%.1f Hz), want %d", bin, BinFrequency(bin, DefaultSize, sr), want)
	}

	// One-sided Hann spectrum of a full-scale sine peaks near -6 dB (single
	// side) -6 dB (coherent gain), minus up to ~1.4 dB of scalloping.
	db := MagnitudeToDB(last, DefaultSize, -120)
	if db[bin] > -11.9 || db[bin] < -13.6 {
		t.Fatalf("peak level = %.2f dB, want about -12", db[bin])
	}
	if a.Fill() != 0 || a.Frames() != 1 {
		t.Fatalf("fill=%d frames=%d after one frame", a.Fill(), a.Frames())
	}
}

func TestAnalyzer_PartialFrameNotTransformed(t *testing.T) {
	a, err := NewAnalyzer(64)
	if err != nil {
		t.Fatal(err)
	}
	for i := range 63 {
		if _, ok := a.Push(1); ok {
			t.Fatalf("frame emitted after %d samples", i+1)
		}
	}
	a.Reset()
	if a.Fill() != 0 {
		t.Fatalf("fill after Reset = %d", a.Fill())
	}
	for i := range 63 {
		if _, ok := a.Push(1); ok {
			t.Fatalf("frame emitted after reset at %d samples", i+1)
		}
	}
	if _, ok := a.Push(1); !ok {
		t.Fatal("expected frame after 64 samples")
	}
}

func TestAnalyzer_RectangularDC(t *testing.T) {
	const size = 256
	a, err := NewAnalyzer(size, WithWindow(window.TypeRectangular))
	if err != nil {
		t.Fatal(err)
	}

	var mags []float64
	for range size {
		if m, ok := a.Push(0.5); ok {
			mags = m
		}
	}
	if mags == nil {
		t.Fatal("no frame")
	}
	if math.Abs(mags[0]-0.5*size) > 1e-9 {
		t.Fatalf("DC bin = %v, want %v", mags[0], 0.5*size)
	}
	for k := 1; k < len(mags); k++ {
		if mags[k] > 1e-9 {
			t.Fatalf("bin %d = %v, want 0", k, mags[k])
		}
	}
}

func TestAnalyzer_PushZeroAlloc(t *testing.T) {
	a, err := NewAnalyzer(DefaultSize)
	if err != nil {
		t.Fatal(err)
	}
	allocs := testing.AllocsPerRun(1000, func() {
		a.Push(0.1)
	})
	if allocs != 0 {
		t.Fatalf("allocs = %v, want 0", allocs)
	}
}

func BenchmarkAnalyzer_Frame(b *testing.B) {
	a, err := NewAnalyzer(DefaultSize)
	if err != nil {
		b.Fatal(err)
	}
	in := testutil.DeterministicNoise(1, 1, DefaultSize)

	b.ReportAllocs()
	b.SetBytes(int64(8 * DefaultSize))
	for range b.N {
		for _, x := range in {
			a.Push(x)
		}
	}
}
