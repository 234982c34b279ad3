package testutil

import (
	"math"
	"slices"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 0.5, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if s[0] != 0 {
		t.Fatalf("s[0] = %v, want 0 at phase zero", s[0])
	}
	// Quarter period of 1 kHz at 48 kHz is 12 samples.
	RequireNear(t, "s[12]", s[12], 0.5, 1e-15)
	RequireNear(t, "s[36]", s[36], -0.5, 1e-15)

	if !slices.Equal(s, DeterministicSine(1000, 48000, 0.5, 48)) {
		t.Fatal("sine is not reproducible")
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 0.25, 1024)
	if !slices.Equal(a, DeterministicNoise(42, 0.25, 1024)) {
		t.Fatal("same seed produced different noise")
	}
	if slices.Equal(a[:16], DeterministicNoise(43, 0.25, 16)) {
		t.Fatal("different seeds produced identical noise")
	}

	var sum float64
	for i, v := range a {
		if v < -0.25 || v >= 0.25 {
			t.Fatalf("a[%d] = %v outside [-0.25, 0.25)", i, v)
		}
		sum += v
	}
	if mean := sum / float64(len(a)); math.Abs(mean) > 0.03 {
		t.Fatalf("mean = %v, noise is biased", mean)
	}
}

func TestConstantSignals(t *testing.T) {
	for i, v := range DC(0.5, 4) {
		if v != 0.5 {
			t.Fatalf("DC[%d] = %v, want 0.5", i, v)
		}
	}
	if o := Ones(3); !slices.Equal(o, []float64{1, 1, 1}) {
		t.Fatalf("Ones(3) = %v", o)
	}
	if s := Silence(5); !slices.Equal(s, make([]float64, 5)) {
		t.Fatalf("Silence(5) = %v", s)
	}
}

func TestNegate(t *testing.T) {
	in := []float64{1, -2, 0.5}
	if got := Negate(in); !slices.Equal(got, []float64{-1, 2, -0.5}) {
		t.Fatalf("Negate = %v", got)
	}
	if in[0] != 1 {
		t.Fatal("Negate modified its input")
	}
}

func TestChunks(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5, 6}
	c := Chunks(x, 3)
	if len(c) != 3 || len(c[0]) != 3 || len(c[2]) != 1 || c[2][0] != 6 {
		t.Fatalf("Chunks = %v", c)
	}
	if cap(c[0]) != 3 {
		t.Fatalf("chunk capacity leaks into the next chunk: cap=%d", cap(c[0]))
	}
	if Chunks(x, 0) != nil {
		t.Fatal("size 0 should return nil")
	}
	if got := Chunks(nil, 4); len(got) != 0 {
		t.Fatalf("empty input produced %d chunks", len(got))
	}
}
