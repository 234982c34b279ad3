package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClampNaN(t *testing.T) {
	if got := Clamp(math.NaN(), 0, 1); !math.IsNaN(got) {
		t.Fatalf("Clamp(NaN) = %v, want NaN", got)
	}
}

func TestFlushDenormals(t *testing.T) {
	for _, x := range []float64{0, 1e-31, -1e-31, 5e-324} {
		if got := FlushDenormals(x); got != 0 {
			t.Errorf("FlushDenormals(%v) = %v, want 0", x, got)
		}
	}
	for _, x := range []float64{1e-29, -1e-29, 0.5, -1} {
		if got := FlushDenormals(x); got != x {
			t.Errorf("FlushDenormals(%v) = %v, want unchanged", x, got)
		}
	}
}

func TestAmplitudeToDB(t *testing.T) {
	const floor = -90.0

	tests := []struct {
		name   string
		linear float64
		want   float64
	}{
		{name: "full scale", linear: 1, want: 0},
		{name: "half", linear: 0.5, want: 20 * math.Log10(0.5)},
		{name: "zero", linear: 0, want: floor},
		{name: "at epsilon", linear: AmplitudeEpsilon, want: floor},
		{name: "negative", linear: -1, want: floor},
		{name: "nan", linear: math.NaN(), want: floor},
		{name: "inf", linear: math.Inf(1), want: floor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AmplitudeToDB(tt.linear, floor)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("AmplitudeToDB(%v) = %v, want %v", tt.linear, got, tt.want)
			}
		})
	}
}

func TestRMSToDB(t *testing.T) {
	// Square wave of amplitude 0.5 has RMS 0.5.
	got := RMSToDB(0.25*8, 8, -90)
	if math.Abs(got-20*math.Log10(0.5)) > 1e-12 {
		t.Fatalf("RMSToDB = %v, want %v", got, 20*math.Log10(0.5))
	}
	if got := RMSToDB(1, 0, -90); got != -90 {
		t.Fatalf("RMSToDB with zero count = %v, want floor", got)
	}
	if got := RMSToDB(0, 16, -90); got != -90 {
		t.Fatalf("RMSToDB of silence = %v, want floor", got)
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(0, 10, 0.5); got != 5 {
		t.Fatalf("Lerp(0, 10, 0.5) = %v, want 5", got)
	}
	if got := Lerp(-90, 0, 1); got != 0 {
		t.Fatalf("Lerp with factor 1 = %v, want target", got)
	}
	if got := Lerp(3, 7, 0); got != 3 {
		t.Fatalf("Lerp with factor 0 = %v, want current", got)
	}
}

func TestPowerOfTwo(t *testing.T) {
	cases := map[int]int{-3: 1, 0: 1, 1: 1, 2: 2, 3: 4, 1000: 1024, 19200: 32768, 32768: 32768}
	for in, want := range cases {
		if got := NextPowerOfTwo(in); got != want {
			t.Errorf("NextPowerOfTwo(%d) = %d, want %d", in, got, want)
		}
	}
	for _, n := range []int{1, 2, 4096} {
		if !IsPowerOfTwo(n) {
			t.Errorf("IsPowerOfTwo(%d) = false", n)
		}
	}
	for _, n := range []int{0, -4, 3, 4095} {
		if IsPowerOfTwo(n) {
			t.Errorf("IsPowerOfTwo(%d) = true", n)
		}
	}
}
