// Package signal generates the deterministic test material used to audition
// and verify the pitch shifter.
package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-pitchdelay/dsp/core"
)

// Generator creates signals at the configured sample rate.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the noise seed.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator returns a Generator for the given processor settings.
func NewGenerator(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// SampleRate returns the generator sample rate.
func (g *Generator) SampleRate() float64 { return g.cfg.SampleRate }

func (g *Generator) check(kind string, samples int) error {
	if samples <= 0 {
		return fmt.Errorf("%s samples must be > 0: %d", kind, samples)
	}
	return nil
}

// Sine generates a sine starting at phase 0.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if err := g.check("sine", samples); err != nil {
		return nil, err
	}
	if freqHz < 0 || freqHz > g.cfg.SampleRate/2 {
		return nil, fmt.Errorf("sine frequency must be in [0, %f]: %f", g.cfg.SampleRate/2, freqHz)
	}

	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// Sweep generates an exponential sine sweep from startHz to endHz.
func (g *Generator) Sweep(startHz, endHz, amplitude float64, samples int) ([]float64, error) {
	if err := g.check("sweep", samples); err != nil {
		return nil, err
	}
	nyquist := g.cfg.SampleRate / 2
	if startHz <= 0 || endHz <= 0 || startHz > nyquist || endHz > nyquist {
		return nil, fmt.Errorf("sweep frequencies must be in (0, %f]: %f, %f", nyquist, startHz, endHz)
	}

	out := make([]float64, samples)
	growth := math.Log(endHz/startHz) / float64(samples)
	phase := 0.0
	for i := range out {
		out[i] = amplitude * math.Sin(phase)
		hz := startHz * math.Exp(growth*float64(i))
		phase += 2 * math.Pi * hz / g.cfg.SampleRate
	}
	return out, nil
}

// WhiteNoise generates seeded white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if err := g.check("noise", samples); err != nil {
		return nil, err
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}

	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Normalize scales data in place to targetPeak.
func Normalize(data []float64, targetPeak float64) error {
	if targetPeak < 0 {
		return fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}

	peak := core.PeakAbs(data)
	if peak == 0 {
		return nil
	}

	scale := targetPeak / peak
	for i := range data {
		data[i] *= scale
	}
	return nil
}
