package phasor

import (
	"math"
	"testing"
)

func complementError(forward, reverse float64) float64 {
	return math.Abs(math.Mod(forward+reverse, 1) - 0.5)
}

func TestDualInitialState(t *testing.T) {
	d := NewDual()
	if d.Forward() != 0 || d.Reverse() != 0.5 {
		t.Fatalf("initial phases = %v, %v; want 0, 0.5", d.Forward(), d.Reverse())
	}
}

func TestDualComplementarity(t *testing.T) {
	const sampleRate = 48000.0

	freqs := []float64{0, 45.4545, -45.4545, 136.36, -34.09, 1.3, 900}

	d := NewDual()
	for _, hz := range freqs {
		d.SetFrequency(hz, sampleRate)

		for i := range 96000 {
			f, r := d.Advance()
			if f < 0 || f >= 1 || r < 0 || r >= 1 {
				t.Fatalf("hz=%v sample %d: phases outside [0,1): %v %v", hz, i, f, r)
			}
			if e := complementError(f, r); e > 1e-9 {
				t.Fatalf("hz=%v sample %d: |(f+r) mod 1 - 0.5| = %e", hz, i, e)
			}
		}
	}
}

func TestDualComplementarityUnderModulation(t *testing.T) {
	// Frequency changes every sample, as it does while the pitch ratio is
	// being smoothed.
	const sampleRate = 44100.0

	d := NewDual()
	for i := range 200000 {
		hz := 120 * math.Sin(2*math.Pi*0.7*float64(i)/sampleRate)
		d.SetFrequency(hz, sampleRate)

		f, r := d.Advance()
		if e := complementError(f, r); e > 1e-9 {
			t.Fatalf("sample %d: complement error %e", i, e)
		}
	}
}

func TestDualDirections(t *testing.T) {
	d := NewDual()
	d.SetFrequency(480, 48000)

	f, r := d.Advance()
	if math.Abs(f-0.01) > 1e-12 {
		t.Fatalf("forward = %v, want 0.01", f)
	}
	if math.Abs(r-0.49) > 1e-12 {
		t.Fatalf("reverse = %v, want 0.49", r)
	}
}

func TestDualReset(t *testing.T) {
	d := NewDual()
	d.SetFrequency(333, 48000)

	for range 1234 {
		d.Advance()
	}

	d.Reset()

	if d.Forward() != 0 || d.Reverse() != 0.5 {
		t.Fatalf("phases after reset = %v, %v", d.Forward(), d.Reverse())
	}
	if d.Increment() == 0 {
		t.Fatal("Reset must keep the frequency")
	}
}

func TestDualSettleReturnsToRest(t *testing.T) {
	const maxStep = 0.01 / 1056

	tests := []struct {
		name  string
		start float64
	}{
		{name: "below half", start: 0.2},
		{name: "above half", start: 0.8},
		{name: "just below one", start: 0.999},
		{name: "exactly half", start: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDual()
			d.SetFrequency(tt.start*48000, 48000)
			d.Advance()
			if math.Abs(d.Forward()-tt.start) > 1e-12 {
				t.Fatalf("forward = %v, want %v", d.Forward(), tt.start)
			}

			limit := int(0.5/maxStep) + 2
			steps := 0
			for d.Forward() != 0 {
				prev := d.Forward()
				f, r := d.Settle(maxStep)
				if e := complementError(f, r); e > 1e-9 {
					t.Fatalf("step %d: complement error %e", steps, e)
				}
				moved := math.Abs(f - prev)
				moved = math.Min(moved, 1-moved)
				if moved > maxStep*(1+1e-9) {
					t.Fatalf("step %d: moved %e, limit %e", steps, moved, maxStep)
				}
				steps++
				if steps > limit {
					t.Fatalf("not at rest after %d steps, forward = %v", steps, d.Forward())
				}
			}

			if d.Reverse() != ReverseOffset {
				t.Fatalf("reverse = %v at rest, want exactly %v", d.Reverse(), ReverseOffset)
			}
			for range 10 {
				if f, r := d.Settle(maxStep); f != 0 || r != ReverseOffset {
					t.Fatalf("rest phases moved to %v, %v", f, r)
				}
			}
		})
	}
}

func TestDualSettleIgnoresInvalidStep(t *testing.T) {
	d := NewDual()
	d.SetFrequency(0.3*48000, 48000)
	f0, r0 := d.Advance()

	for _, step := range []float64{0, -0.1, math.NaN()} {
		if f, r := d.Settle(step); f != f0 || r != r0 {
			t.Fatalf("Settle(%v) moved phases to %v, %v", step, f, r)
		}
	}
}
