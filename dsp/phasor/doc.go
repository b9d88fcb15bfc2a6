// Package phasor provides normalized phase accumulators.
//
// A [Phasor] is a sawtooth in [0,1) whose slope is set by a frequency in Hz
// that may be negative (falling ramp). [Dual] pairs a forward phasor with a
// reverse phasor driven at the negated frequency and started half a cycle
// away, so that (forward + reverse) mod 1 stays at 0.5 for all time.
package phasor
