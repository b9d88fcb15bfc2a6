package pitch

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-pitchdelay/dsp/core"
)

const (
	minSemitones    = -24.0
	maxSemitones    = 24.0
	minOutputGainDB = -96.0
	maxOutputGainDB = 24.0
)

// Params holds the control values of a Shifter. Every value is one atomic
// word, so a control thread may call the setters while the audio thread
// processes. The audio thread loads each value once per block.
type Params struct {
	pitchRatio   atomic.Uint64
	windowMs     atomic.Uint64
	mix          atomic.Uint64
	outputGainDB atomic.Uint64

	maxWindowMs float64
}

func newParams(cfg config) *Params {
	p := &Params{maxWindowMs: cfg.maxWindowMs}
	store(&p.pitchRatio, 1)
	store(&p.windowMs, cfg.windowMs)
	store(&p.mix, cfg.mix)
	store(&p.outputGainDB, cfg.outputGainDB)
	return p
}

func store(v *atomic.Uint64, f float64) { v.Store(math.Float64bits(f)) }

func load(v *atomic.Uint64) float64 { return math.Float64frombits(v.Load()) }

// SetPitchRatio sets the output/input frequency ratio.
func (p *Params) SetPitchRatio(ratio float64) error {
	if err := validateRange("pitch ratio", ratio, MinPitchRatio, MaxPitchRatio); err != nil {
		return err
	}
	store(&p.pitchRatio, ratio)
	return nil
}

// PitchRatio returns the pitch ratio.
func (p *Params) PitchRatio() float64 { return load(&p.pitchRatio) }

// SetPitchSemitones sets the pitch ratio from an equal-tempered interval.
func (p *Params) SetPitchSemitones(semitones float64) error {
	if err := validateRange("semitones", semitones, minSemitones, maxSemitones); err != nil {
		return err
	}
	return p.SetPitchRatio(core.SemitonesToRatio(semitones))
}

// PitchSemitones returns the pitch ratio as semitones.
func (p *Params) PitchSemitones() float64 { return core.RatioToSemitones(p.PitchRatio()) }

// SetWindowMs sets the tap sweep range in milliseconds.
func (p *Params) SetWindowMs(ms float64) error {
	if err := validatePositive("window", ms); err != nil {
		return err
	}
	if err := validateRange("window", ms, 0, p.maxWindowMs); err != nil {
		return err
	}
	store(&p.windowMs, ms)
	return nil
}

// WindowMs returns the tap sweep range in milliseconds.
func (p *Params) WindowMs() float64 { return load(&p.windowMs) }

// SetMix sets the wet share of the output in [0, 1].
func (p *Params) SetMix(mix float64) error {
	if err := validateRange("mix", mix, 0, 1); err != nil {
		return err
	}
	store(&p.mix, mix)
	return nil
}

// Mix returns the wet share of the output.
func (p *Params) Mix() float64 { return load(&p.mix) }

// SetOutputGainDB sets the output gain in dB.
func (p *Params) SetOutputGainDB(db float64) error {
	if err := validateRange("output gain", db, minOutputGainDB, maxOutputGainDB); err != nil {
		return err
	}
	store(&p.outputGainDB, db)
	return nil
}

// OutputGainDB returns the output gain in dB.
func (p *Params) OutputGainDB() float64 { return load(&p.outputGainDB) }
