// Package testutil holds deterministic signals and assertions shared by the
// package tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a sine starting at phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Delayed returns sig shifted later by delay samples, zero-filled at the
// start and truncated to the original length.
func Delayed(sig []float64, delay int) []float64 {
	out := make([]float64, len(sig))
	if delay < len(sig) {
		copy(out[max(delay, 0):], sig)
	}
	return out
}

// Channels returns n independent copies of sig.
func Channels(sig []float64, n int) [][]float64 {
	out := make([][]float64, n)
	for c := range out {
		out[c] = append([]float64(nil), sig...)
	}
	return out
}
