package phasor

import "math"

// ReverseOffset is the initial phase of the reverse phasor.
const ReverseOffset = 0.5

// Dual is the forward/reverse phasor pair driving two crossfaded delay taps.
//
// The forward phasor runs at +f from phase 0, the reverse phasor at -f
// from phase 0.5. Both receive the same increment on every step, so the
// sum of their phases stays 0.5 modulo 1.
type Dual struct {
	forward Phasor
	reverse Phasor
}

// NewDual returns a Dual at its initial phases with zero frequency.
func NewDual() Dual {
	return Dual{
		forward: New(0),
		reverse: New(ReverseOffset),
	}
}

// SetFrequency drives the forward phasor at hz and the reverse phasor at -hz.
func (d *Dual) SetFrequency(hz, sampleRate float64) {
	d.forward.SetFrequency(hz, sampleRate)
	d.reverse.SetIncrement(-d.forward.Increment())
}

// Advance steps both phasors one sample.
func (d *Dual) Advance() (forward, reverse float64) {
	return d.forward.Advance(), d.reverse.Advance()
}

// Settle moves both phasors towards their initial phases by at most
// maxStep per call, along the shorter way round, and returns the new
// phases. The pair stays half a cycle apart while moving. Once the forward
// phasor reaches 0 both phases are exactly at rest and further calls leave
// them there.
func (d *Dual) Settle(maxStep float64) (forward, reverse float64) {
	f := d.forward.Phase()

	var inc float64
	switch {
	case f == 0 || !(maxStep > 0):
	case f < 0.5:
		inc = -math.Min(maxStep, f)
	default:
		inc = math.Min(maxStep, 1-f)
	}

	d.forward.SetIncrement(inc)
	d.reverse.SetIncrement(-inc)
	forward, reverse = d.Advance()

	if forward == 0 {
		d.reverse.Reset(ReverseOffset)
		reverse = ReverseOffset
	}
	return forward, reverse
}

// Forward returns the rising-ramp phase.
func (d *Dual) Forward() float64 { return d.forward.Phase() }

// Reverse returns the falling-ramp phase.
func (d *Dual) Reverse() float64 { return d.reverse.Phase() }

// Increment returns the forward per-sample phase step.
func (d *Dual) Increment() float64 { return d.forward.Increment() }

// Reset returns both phasors to their initial phases. The frequency is kept.
func (d *Dual) Reset() {
	d.forward.Reset(0)
	d.reverse.Reset(ReverseOffset)
}
