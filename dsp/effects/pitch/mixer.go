package pitch

import "github.com/cwbudde/algo-pitchdelay/dsp/window"

// Mixer combines the two taps with crossfade gains taken from their phases.
type Mixer struct {
	shape window.Shape
}

// NewMixer returns a Mixer using shape. Unknown shapes fall back to Hann.
func NewMixer(shape window.Shape) Mixer {
	if !shape.Valid() {
		shape = window.ShapeHann
	}
	return Mixer{shape: shape}
}

// Shape returns the gain curve.
func (m Mixer) Shape() window.Shape { return m.shape }

// Gains returns the tap gains for two tap phases.
func (m Mixer) Gains(phaseOne, phaseTwo float64) (float64, float64) {
	return window.Eval(m.shape, phaseOne), window.Eval(m.shape, phaseTwo)
}

// Mix returns a*gain(windowOne) + b*gain(windowTwo).
func (m Mixer) Mix(a, windowOne, b, windowTwo float64) float64 {
	g1, g2 := m.Gains(windowOne, windowTwo)
	return a*g1 + b*g2
}
