package smooth

import (
	"fmt"
	"math"
)

// Coefficient returns the pole a for a smoothing time in milliseconds.
// A non-positive or non-finite time or sample rate returns 0, which
// disables smoothing (the output jumps to the target).
func Coefficient(timeMs, sampleRate float64) float64 {
	if !(timeMs > 0) || !(sampleRate > 0) || math.IsInf(timeMs, 0) || math.IsInf(sampleRate, 0) {
		return 0
	}

	return math.Exp(-2 * math.Pi / (timeMs * 0.001 * sampleRate))
}

// snapTolerance is the relative distance below which a step lands on the
// target. Without it the recursion stalls a few ulps away once the step
// rounds to zero.
const snapTolerance = 1e-12

// OnePole performs one smoothing step from previous towards target:
// target*(1-a) + previous*a. A step that would stall next to the target
// returns target exactly.
func OnePole(target, previous, timeMs, sampleRate float64) float64 {
	return step(target, previous, Coefficient(timeMs, sampleRate))
}

func step(target, previous, a float64) float64 {
	next := target + a*(previous-target)
	if next == previous || math.Abs(next-target) <= snapTolerance*math.Max(1, math.Abs(target)) {
		return target
	}
	return next
}

// Smoother holds the state of one smoothed parameter.
//
// The coefficient is computed when the time or sample rate changes, so
// Next costs two multiplies and an add.
type Smoother struct {
	timeMs     float64
	sampleRate float64
	a          float64
	value      float64
}

// New returns a Smoother starting at initial.
func New(timeMs, sampleRate, initial float64) (*Smoother, error) {
	s := &Smoother{value: initial}
	if err := s.SetTime(timeMs, sampleRate); err != nil {
		return nil, err
	}
	return s, nil
}

// SetTime changes the smoothing time and sample rate. A time of 0 disables
// smoothing.
func (s *Smoother) SetTime(timeMs, sampleRate float64) error {
	if timeMs < 0 || math.IsNaN(timeMs) || math.IsInf(timeMs, 0) {
		return fmt.Errorf("smoothing time must be >= 0 and finite: %f", timeMs)
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("smoothing sample rate must be > 0 and finite: %f", sampleRate)
	}

	s.timeMs = timeMs
	s.sampleRate = sampleRate
	s.a = Coefficient(timeMs, sampleRate)

	return nil
}

// Next advances one sample towards target and returns the new value.
func (s *Smoother) Next(target float64) float64 {
	s.value = step(target, s.value, s.a)
	return s.value
}

// Reset sets the state to value without smoothing.
func (s *Smoother) Reset(value float64) {
	s.value = value
}

// Value returns the last output.
func (s *Smoother) Value() float64 { return s.value }

// TimeMs returns the smoothing time in milliseconds.
func (s *Smoother) TimeMs() float64 { return s.timeMs }

// Coefficient returns the cached pole.
func (s *Smoother) Coefficient() float64 { return s.a }
