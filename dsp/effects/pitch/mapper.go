package pitch

import (
	"math"

	"github.com/cwbudde/algo-pitchdelay/dsp/phasor"
)

const (
	// MinPitchRatio and MaxPitchRatio bound the ratio the processor applies.
	MinPitchRatio = 0.25
	MaxPitchRatio = 4.0

	// DefaultWindowMs is the tap sweep range.
	DefaultWindowMs = 22.0

	// DefaultMaxWindowMs sizes the delay lines.
	DefaultMaxWindowMs = 100.0

	// DefaultMaxPhasorHz keeps the crossfade rate below the point where the
	// periodic tap swap turns into audible roughness. At the default window
	// every ratio in [MinPitchRatio, MaxPitchRatio] stays below it
	// (|4-1| * 1000 / 22 = 136.4 Hz).
	DefaultMaxPhasorHz = 150.0
)

// PhasorFrequency returns the tap sweep rate in Hz for a pitch ratio and a
// window length in samples. Positive ratios above 1 give a positive
// frequency. A window of zero or less yields 0.
func PhasorFrequency(ratio, windowSamples, sampleRate float64) float64 {
	if !(windowSamples > 0) || ratio == 1 {
		return 0
	}

	return (ratio - 1) * sampleRate / windowSamples
}

// TapPhases maps the dual phasor output to the phase of each tap.
//
// Tap one follows the falling reverse phasor. Tap two follows the
// complement of the rising forward phasor. Both therefore fall for
// positive phasor frequencies, which shortens the delay and raises the
// pitch, and they stay half a cycle apart.
func TapPhases(forward, reverse float64) (one, two float64) {
	return reverse, phasor.Wrap(1 - forward)
}

// TapDelay converts a tap phase into a delay in samples. The phase is
// clamped to [0,1], so the result is always in [0, windowSamples].
func TapDelay(phase, windowSamples float64) float64 {
	if !(windowSamples > 0) || !(phase > 0) {
		return 0
	}
	if phase > 1 {
		phase = 1
	}

	return phase * windowSamples
}

// ResolveWindowMs returns the window to use for a ratio when adaptive
// windowing is on. The window is widened until the phasor frequency is at
// most maxPhasorHz, but never narrowed and never past maxWindowMs.
// A non-positive maxPhasorHz disables widening.
func ResolveWindowMs(ratio, windowMs, maxPhasorHz, maxWindowMs float64) float64 {
	w := windowMs
	if maxPhasorHz > 0 {
		w = math.Max(w, 1000*math.Abs(ratio-1)/maxPhasorHz)
	}

	if maxWindowMs > 0 && w > maxWindowMs {
		w = maxWindowMs
	}

	return w
}
