package testutil

import (
	"fmt"
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails tb unless got and want have the same
// length and every pair differs by at most eps.
func RequireSliceNearlyEqual(tb testing.TB, got, want []float64, eps float64) {
	tb.Helper()

	d, err := MaxAbsDiff(got, want)
	if err != nil {
		tb.Fatal(err)
	}
	if d <= eps {
		return
	}

	for i := range got {
		if diff := math.Abs(got[i] - want[i]); !(diff <= eps) {
			tb.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails tb at the first NaN or Inf in data.
func RequireFinite(tb testing.TB, data []float64) {
	tb.Helper()

	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			tb.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// MaxAbsDiff returns the largest absolute element difference of a and b.
// A NaN on either side makes the result NaN.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}

	var worst float64
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if math.IsNaN(d) {
			return math.NaN(), nil
		}
		worst = math.Max(worst, d)
	}

	return worst, nil
}

// RequireNear fails tb if got differs from want by more than eps. name
// identifies the quantity in the failure message.
func RequireNear(tb testing.TB, name string, got, want, eps float64) {
	tb.Helper()

	if !(math.Abs(got-want) <= eps) {
		tb.Fatalf("%s: got %v, want %v (eps %v)", name, got, want, eps)
	}
}
