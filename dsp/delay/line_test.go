package delay

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pitchdelay/dsp/interp"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// --- construction and validation ---

func TestNewValidation(t *testing.T) {
	for _, size := range []int{-1, 0, 1, 2} {
		if _, err := New(size); err == nil {
			t.Fatalf("expected error for size=%d", size)
		}
	}

	if _, err := New(4, WithMode(interp.ModeHermite)); err == nil {
		t.Fatal("expected error for hermite line with capacity 4")
	}
}

func TestNewDefaults(t *testing.T) {
	d, err := New(16)
	if err != nil {
		t.Fatal(err)
	}

	if d.Capacity() != 16 {
		t.Fatalf("Capacity: got %d want 16", d.Capacity())
	}

	if d.Mode() != interp.ModeLinear {
		t.Fatalf("default mode: got %v want linear", d.Mode())
	}

	if d.MaxDelay() != 14 {
		t.Fatalf("MaxDelay: got %d want 14", d.MaxDelay())
	}
}

func TestNewWithOptions(t *testing.T) {
	d, err := New(16, WithMode(interp.ModeHermite), nil)
	if err != nil {
		t.Fatal(err)
	}

	if d.Mode() != interp.ModeHermite {
		t.Fatalf("mode: got %v want hermite", d.Mode())
	}

	if d.MaxDelay() != 12 {
		t.Fatalf("MaxDelay: got %d want 12", d.MaxDelay())
	}
}

func TestRequiredCapacity(t *testing.T) {
	tests := []struct {
		name     string
		maxDelay float64
		mode     interp.Mode
		want     int
	}{
		{name: "linear integer", maxDelay: 1056, mode: interp.ModeLinear, want: 1058},
		{name: "linear fractional", maxDelay: 1056.2, mode: interp.ModeLinear, want: 1059},
		{name: "hermite", maxDelay: 100, mode: interp.ModeHermite, want: 104},
		{name: "zero", maxDelay: 0, mode: interp.ModeLinear, want: 2},
		{name: "NaN", maxDelay: math.NaN(), mode: interp.ModeLinear, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RequiredCapacity(tt.maxDelay, tt.mode)
			if got != tt.want {
				t.Fatalf("RequiredCapacity() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRequiredCapacityCoversMaxDelay(t *testing.T) {
	for _, mode := range []interp.Mode{interp.ModeLinear, interp.ModeHermite} {
		capacity := RequiredCapacity(1056.5, mode)
		if capacity <= mode.Points() {
			capacity = mode.Points() + 1
		}

		d, err := New(capacity, WithMode(mode))
		if err != nil {
			t.Fatal(err)
		}

		if float64(d.MaxDelay()) < 1056.5 {
			t.Fatalf("%s: MaxDelay %d < 1056.5", mode, d.MaxDelay())
		}
	}
}

// --- integer Read/Write ---

func TestReadWrite(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}

	for i := range 8 {
		d.Write(float64(i))
	}
	// delay=0 => most recently written (7)
	if got := d.Read(0); got != 7 {
		t.Fatalf("got %v want 7", got)
	}
	// delay=3 => 3 samples behind the newest
	if got := d.Read(3); got != 4 {
		t.Fatalf("got %v want 4", got)
	}
}

func TestReadWraparound(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	for i := range 10 {
		d.Write(float64(i))
	}
	// buffer holds [8, 9, 6, 7], cursor at 2
	if got := d.Read(0); got != 9 {
		t.Fatalf("got %v want 9", got)
	}
	if got := d.Read(3); got != 6 {
		t.Fatalf("got %v want 6", got)
	}
}

func TestReadClampsOutOfRange(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	for i := range 4 {
		d.Write(float64(i + 1))
	}

	if got := d.Read(-3); got != 4 {
		t.Fatalf("Read(-3) = %v, want newest sample 4", got)
	}
	if got := d.Read(99); got != 1 {
		t.Fatalf("Read(99) = %v, want oldest sample 1", got)
	}
}

func TestReset(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	d.Write(1)
	d.Write(2)
	d.Reset()

	for i := range 4 {
		if got := d.Read(i); got != 0 {
			t.Fatalf("after reset Read(%d): got %v want 0", i, got)
		}
	}
}

// --- fractional reads ---

func TestReadFractionalLinearRamp(t *testing.T) {
	for _, mode := range []interp.Mode{interp.ModeLinear, interp.ModeHermite} {
		d, err := New(16, WithMode(mode))
		if err != nil {
			t.Fatal(err)
		}

		for i := range d.Capacity() {
			d.Write(float64(i))
		}

		// newest sample is 15, so a delay of 3.5 sits between 12 and 11
		if got := d.ReadFractional(3.5); !approxEqual(got, 11.5, 1e-12) {
			t.Fatalf("%s: got %v want 11.5", mode, got)
		}
	}
}

func TestReadFractionalIntegerMatchesRead(t *testing.T) {
	d, err := New(32)
	if err != nil {
		t.Fatal(err)
	}

	for i := range 40 {
		d.Write(math.Sin(float64(i)))
	}

	for delay := 0; delay <= d.MaxDelay(); delay++ {
		if got, want := d.ReadFractional(float64(delay)), d.Read(delay); got != want {
			t.Fatalf("delay %d: ReadFractional=%v Read=%v", delay, got, want)
		}
	}
}

func TestReadFractionalClamped(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}

	for i := range 8 {
		d.Write(float64(i + 1))
	}

	tests := []struct {
		name  string
		delay float64
		want  float64
	}{
		{name: "negative", delay: -2.5, want: 8},
		{name: "NaN", delay: math.NaN(), want: 8},
		{name: "beyond max", delay: 100, want: d.Read(d.MaxDelay())},
		{name: "+Inf", delay: math.Inf(1), want: d.Read(d.MaxDelay())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.ReadFractional(tt.delay); got != tt.want {
				t.Fatalf("ReadFractional(%v) = %v, want %v", tt.delay, got, tt.want)
			}
		})
	}
}

func TestReadFractionalContinuousSweep(t *testing.T) {
	// A slowly sweeping delay over a smooth signal must not jump.
	d, err := New(512)
	if err != nil {
		t.Fatal(err)
	}

	const freq = 0.01

	prev := math.NaN()
	delay := 10.0

	for i := range 2000 {
		d.Write(math.Sin(2 * math.Pi * freq * float64(i)))
		if i < 400 {
			continue
		}

		delay += 0.13
		if delay > 400 {
			delay = 400
		}

		got := d.ReadFractional(delay)
		if !math.IsNaN(prev) && math.Abs(got-prev) > 0.1 {
			t.Fatalf("sample %d: jump %v -> %v", i, prev, got)
		}
		prev = got
	}
}

func TestAllModesDCPreservation(t *testing.T) {
	for _, mode := range []interp.Mode{interp.ModeLinear, interp.ModeHermite} {
		d, err := New(32, WithMode(mode))
		if err != nil {
			t.Fatal(err)
		}

		for range d.Capacity() {
			d.Write(42.0)
		}

		if got := d.ReadFractional(5.3); !approxEqual(got, 42.0, 1e-9) {
			t.Fatalf("%s DC: got %v want 42", mode, got)
		}
	}
}

func TestAllModesSineQuality(t *testing.T) {
	// Write a low-frequency sine into a large buffer and verify
	// that fractional reads are close to the analytic value.
	const (
		freq = 0.02
		size = 256
	)

	modes := []struct {
		mode interp.Mode
		tol  float64
	}{
		{interp.ModeLinear, 0.01},
		{interp.ModeHermite, 1e-4},
	}

	for _, tc := range modes {
		d, err := New(size, WithMode(tc.mode))
		if err != nil {
			t.Fatal(err)
		}

		for i := range size {
			d.Write(math.Sin(2 * math.Pi * freq * float64(i)))
		}

		delay := 20.37
		// the newest sample has index size-1
		exactSample := float64(size-1) - delay
		want := math.Sin(2 * math.Pi * freq * exactSample)
		got := d.ReadFractional(delay)

		if diff := math.Abs(got - want); diff > tc.tol {
			t.Fatalf("%s sine: got %v want %v (err=%e, tol=%e)", tc.mode, got, want, diff, tc.tol)
		}
	}
}
