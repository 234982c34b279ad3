package spectrum

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-meter/internal/testutil"
)

func singleBin(n, bin int, amp float64) []float64 {
	mag := make([]float64, n)
	mag[bin] = amp

	return mag
}

func TestCentroid(t *testing.T) {
	const sr = 48000.0

	tests := []struct {
		name string
		mag  []float64
		want float64
	}{
		{"empty", nil, 0},
		{"single element", []float64{1}, 0},
		{"all zero", make([]float64, 8), 0},
		{"bin 0", singleBin(8, 0, 1), 0},
		// 8 bins cover a 16-point transform: bin 3 sits at 3*48000/16.
		{"bin 3", singleBin(8, 3, 2), 9000},
		{"two equal bins", []float64{0, 1, 0, 1, 0, 0, 0, 0}, 6000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Centroid(tt.mag, sr); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Centroid = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFlatness(t *testing.T) {
	if got := Flatness(testutil.Ones(32)); math.Abs(got-1) > 1e-12 {
		t.Fatalf("flat spectrum: %v, want 1", got)
	}

	tone := testutil.DC(1e-3, 32)
	tone[5] = 100
	if got := Flatness(tone); got > 0.1 {
		t.Fatalf("single tone: %v, want near 0", got)
	}

	// Bin 0 does not take part.
	dcOnly := testutil.Ones(32)
	dcOnly[0] = 1000
	if got := Flatness(dcOnly); math.Abs(got-1) > 1e-12 {
		t.Fatalf("DC excluded: %v, want 1", got)
	}

	if got := Flatness(singleBin(8, 2, 1)); got != 0 {
		t.Fatalf("zero bins: %v, want 0", got)
	}
	if got := Flatness(nil); got != 0 {
		t.Fatalf("empty: %v, want 0", got)
	}
}

func TestRolloff(t *testing.T) {
	const sr = 16.0 // bin i of an 8-bin frame sits at i Hz

	if got := Rolloff(singleBin(8, 6, 1), sr, 0.85); got != 6 {
		t.Fatalf("concentrated: %v, want 6", got)
	}

	// Equal energy in every bin: 85% is reached in bin 6 (7/8 > 0.85).
	if got := Rolloff(testutil.Ones(8), sr, 0.85); got != 6 {
		t.Fatalf("flat: %v, want 6", got)
	}

	if got := Rolloff(make([]float64, 8), sr, 0.85); got != 0 {
		t.Fatalf("silent: %v, want 0", got)
	}
}

func TestDescribe(t *testing.T) {
	if got := Describe(make([]float64, 16), 48000); got != (Features{}) {
		t.Fatalf("silent frame: %+v", got)
	}

	mag := singleBin(16, 4, 1)
	got := Describe(mag, 32)
	want := Features{Centroid: 4, Spread: 0, Flatness: 0, Rolloff: 4}
	if got != want {
		t.Fatalf("Describe = %+v, want %+v", got, want)
	}

	a, err := NewAnalyzer(1024)
	if err != nil {
		t.Fatal(err)
	}
	var frame []float64
	for _, x := range testutil.DeterministicSine(3000, 48000, 0.5, 1024) {
		if m, ok := a.Push(x); ok {
			frame = m
		}
	}
	f := Describe(frame, 48000)
	if math.Abs(f.Centroid-3000) > 200 {
		t.Fatalf("sine centroid = %.1f Hz, want near 3000", f.Centroid)
	}
	if f.Flatness > 0.2 {
		t.Fatalf("sine flatness = %v, want tonal", f.Flatness)
	}
}
