package phasor

import "math"

// Wrap maps x into [0,1). Non-finite input maps to 0.
func Wrap(x float64) float64 {
	if x >= 0 && x < 1 {
		return x
	}

	w := x - math.Floor(x)
	if w >= 1 || math.IsNaN(w) {
		// rounding of tiny negative x, or NaN/Inf input
		return 0
	}
	return w
}

// Phasor is a single phase accumulator.
type Phasor struct {
	phase     float64
	increment float64
}

// New returns a Phasor at the given initial phase.
func New(initial float64) Phasor {
	return Phasor{phase: Wrap(initial)}
}

// SetFrequency sets the slope in Hz. A non-positive sample rate stops the
// phasor.
func (p *Phasor) SetFrequency(hz, sampleRate float64) {
	if !(sampleRate > 0) || math.IsNaN(hz) || math.IsInf(hz, 0) {
		p.increment = 0
		return
	}
	p.increment = hz / sampleRate
}

// SetIncrement sets the per-sample phase step directly.
func (p *Phasor) SetIncrement(increment float64) {
	if math.IsNaN(increment) || math.IsInf(increment, 0) {
		increment = 0
	}
	p.increment = increment
}

// Advance steps one sample and returns the new phase.
func (p *Phasor) Advance() float64 {
	next := p.phase + p.increment
	switch {
	case next >= 1:
		next--
		if next >= 1 {
			next = Wrap(next)
		}
	case next < 0:
		next++
		if next < 0 || next >= 1 {
			next = Wrap(next)
		}
	}
	p.phase = next
	return next
}

// Phase returns the current phase in [0,1).
func (p *Phasor) Phase() float64 { return p.phase }

// Increment returns the per-sample phase step.
func (p *Phasor) Increment() float64 { return p.increment }

// Reset moves the phasor to phase without changing its frequency.
func (p *Phasor) Reset(phase float64) {
	p.phase = Wrap(phase)
}
