package testutil

import (
	"fmt"
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireSilent fails t if any element is non-zero.
func RequireSilent(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if v != 0 {
			t.Fatalf("index %d: got %v, want silence", i, v)
		}
	}
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		maxDiff = math.Max(maxDiff, math.Abs(a[i]-b[i]))
	}
	return maxDiff, nil
}

// MaxJump returns the largest absolute difference between neighbouring
// samples and its index.
func MaxJump(sig []float64) (float64, int) {
	jump, at := 0.0, 0
	for i := 1; i < len(sig); i++ {
		if d := math.Abs(sig[i] - sig[i-1]); d > jump {
			jump, at = d, i
		}
	}
	return jump, at
}

// Peak returns the largest absolute sample.
func Peak(sig []float64) float64 {
	peak := 0.0
	for _, v := range sig {
		peak = math.Max(peak, math.Abs(v))
	}
	return peak
}

// RMS returns the root mean square of sig, or 0 for an empty slice.
func RMS(sig []float64) float64 {
	if len(sig) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range sig {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(sig)))
}
