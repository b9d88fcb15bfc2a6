package pitch

import (
	"fmt"

	"github.com/cwbudde/algo-pitchdelay/dsp/core"
	"github.com/cwbudde/algo-pitchdelay/dsp/interp"
	"github.com/cwbudde/algo-pitchdelay/dsp/window"
)

const (
	defaultSmoothingMs = 20.0
	maxChannels        = 64
	maxSmoothingMs     = 1000.0
	maxMaxWindowMs     = 2000.0
)

// Option mutates shifter construction parameters.
type Option func(*config) error

type config struct {
	channels     int
	windowMs     float64
	maxWindowMs  float64
	smoothingMs  float64
	maxPhasorHz  float64
	adaptive     bool
	shape        window.Shape
	mode         interp.Mode
	mix          float64
	outputGainDB float64
}

func defaultConfig() config {
	return config{
		channels:    core.DefaultProcessorConfig().Channels,
		windowMs:    DefaultWindowMs,
		maxWindowMs: DefaultMaxWindowMs,
		smoothingMs: defaultSmoothingMs,
		maxPhasorHz: DefaultMaxPhasorHz,
		shape:       window.ShapeHann,
		mode:        interp.ModeLinear,
		mix:         1,
	}
}

// WithChannels sets the number of channels processed with the shared ratio.
func WithChannels(n int) Option {
	return func(cfg *config) error {
		if n < 1 || n > maxChannels {
			return fmt.Errorf("pitch shifter channels must be in [1, %d]: %d", maxChannels, n)
		}
		cfg.channels = n
		return nil
	}
}

// WithWindowMs sets the initial tap sweep range in milliseconds.
func WithWindowMs(ms float64) Option {
	return func(cfg *config) error {
		if err := validatePositive("window", ms); err != nil {
			return err
		}
		cfg.windowMs = ms
		return nil
	}
}

// WithMaxWindowMs sets the largest window the delay lines can hold.
func WithMaxWindowMs(ms float64) Option {
	return func(cfg *config) error {
		if err := validatePositive("max window", ms); err != nil {
			return err
		}
		if err := validateRange("max window", ms, 0, maxMaxWindowMs); err != nil {
			return err
		}
		cfg.maxWindowMs = ms
		return nil
	}
}

// WithSmoothingMs sets the one-pole time constant applied per sample to
// every control value. 0 disables smoothing.
func WithSmoothingMs(ms float64) Option {
	return func(cfg *config) error {
		if err := validateRange("smoothing time", ms, 0, maxSmoothingMs); err != nil {
			return err
		}
		cfg.smoothingMs = ms
		return nil
	}
}

// WithMaxPhasorHz sets the phasor bound used by adaptive windowing.
func WithMaxPhasorHz(hz float64) Option {
	return func(cfg *config) error {
		if err := validatePositive("max phasor frequency", hz); err != nil {
			return err
		}
		cfg.maxPhasorHz = hz
		return nil
	}
}

// WithAdaptiveWindow widens the window for large shifts so the phasor
// never exceeds the max phasor frequency while the max window allows.
func WithAdaptiveWindow(enabled bool) Option {
	return func(cfg *config) error {
		cfg.adaptive = enabled
		return nil
	}
}

// WithWindowShape selects the crossfade gain curve.
func WithWindowShape(shape window.Shape) Option {
	return func(cfg *config) error {
		if !shape.Valid() {
			return fmt.Errorf("pitch shifter window shape is unknown: %v", shape)
		}
		cfg.shape = shape
		return nil
	}
}

// WithInterpolation selects the fractional delay read kernel.
func WithInterpolation(mode interp.Mode) Option {
	return func(cfg *config) error {
		if !mode.Valid() {
			return fmt.Errorf("pitch shifter interpolation is unknown: %v", mode)
		}
		cfg.mode = mode
		return nil
	}
}

// WithMix sets the initial wet share in [0, 1].
func WithMix(mix float64) Option {
	return func(cfg *config) error {
		if err := validateRange("mix", mix, 0, 1); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// WithOutputGainDB sets the initial output gain.
func WithOutputGainDB(db float64) Option {
	return func(cfg *config) error {
		if err := validateRange("output gain", db, minOutputGainDB, maxOutputGainDB); err != nil {
			return err
		}
		cfg.outputGainDB = db
		return nil
	}
}
