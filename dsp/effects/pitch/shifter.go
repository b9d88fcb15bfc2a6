package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pitchdelay/dsp/buffer"
	"github.com/cwbudde/algo-pitchdelay/dsp/core"
	"github.com/cwbudde/algo-pitchdelay/dsp/delay"
	"github.com/cwbudde/algo-pitchdelay/dsp/phasor"
	"github.com/cwbudde/algo-pitchdelay/dsp/smooth"
	"github.com/cwbudde/algo-vecmath"
)

// Rows of the per-block work area.
const (
	rowDry = iota
	rowDelayOne
	rowDelayTwo
	rowGainOne
	rowGainTwo
	rowWet
	rowDryGain
	numRows
)

// restPitchDeviation bounds the pitch error while the taps glide back to
// their rest positions at a ratio of exactly 1. A glide across half the
// window takes 50 windows.
const restPitchDeviation = 0.01

// Shifter is a multichannel variable-delay pitch shifter.
//
// All channels share one pitch ratio and one phasor pair, so the shift is
// phase-aligned across a stereo image. A Shifter must be prepared before
// processing and is not safe for concurrent processing calls; its Params
// may be changed from any goroutine.
type Shifter struct {
	cfg    config
	params *Params
	mixer  Mixer

	sampleRate   float64
	maxBlockSize int
	prepared     bool
	primed       bool

	ratio  *smooth.Smoother
	window *smooth.Smoother
	mix    *smooth.Smoother
	gain   *smooth.Smoother

	phasors phasor.Dual
	lines   []*delay.Line
	work    *buffer.Planar

	phasorHz      float64
	windowSamples float64
}

// NewShifter validates options and returns an unprepared Shifter.
func NewShifter(opts ...Option) (*Shifter, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.windowMs > cfg.maxWindowMs {
		return nil, fmt.Errorf("pitch shifter window must not exceed max window %f ms: %f",
			cfg.maxWindowMs, cfg.windowMs)
	}

	return &Shifter{
		cfg:     cfg,
		params:  newParams(cfg),
		mixer:   NewMixer(cfg.shape),
		phasors: phasor.NewDual(),
	}, nil
}

// Prepare allocates delay lines and scratch space for sampleRate and
// blocks of up to maxBlockSize frames, then resets all state.
func (s *Shifter) Prepare(sampleRate float64, maxBlockSize int) error {
	if !core.IsFinitePositive(sampleRate) {
		return fmt.Errorf("pitch shifter sample rate must be > 0 and finite: %f", sampleRate)
	}
	if maxBlockSize <= 0 {
		return fmt.Errorf("pitch shifter max block size must be > 0: %d", maxBlockSize)
	}

	if w := core.MsToSamples(s.params.WindowMs(), sampleRate); w < 1 {
		return fmt.Errorf("pitch shifter window of %f ms is shorter than one sample at %f Hz",
			s.params.WindowMs(), sampleRate)
	}

	maxWindowSamples := core.MsToSamples(s.cfg.maxWindowMs, sampleRate)
	capacity := delay.RequiredCapacity(maxWindowSamples, s.cfg.mode)

	lines := make([]*delay.Line, s.cfg.channels)
	for c := range lines {
		line, err := delay.New(capacity, delay.WithMode(s.cfg.mode))
		if err != nil {
			return fmt.Errorf("pitch shifter delay line: %w", err)
		}
		if float64(line.MaxDelay()) < maxWindowSamples {
			return fmt.Errorf("pitch shifter delay capacity %d cannot hold %f samples",
				capacity, maxWindowSamples)
		}
		lines[c] = line
	}

	work, err := buffer.New(numRows, maxBlockSize)
	if err != nil {
		return fmt.Errorf("pitch shifter work buffer: %w", err)
	}

	smoothers := make([]*smooth.Smoother, 4)
	for i := range smoothers {
		sm, err := smooth.New(s.cfg.smoothingMs, sampleRate, 0)
		if err != nil {
			return fmt.Errorf("pitch shifter smoothing: %w", err)
		}
		smoothers[i] = sm
	}

	s.sampleRate = sampleRate
	s.maxBlockSize = maxBlockSize
	s.lines = lines
	s.work = work
	s.ratio, s.window, s.mix, s.gain = smoothers[0], smoothers[1], smoothers[2], smoothers[3]
	s.prepared = true
	s.Reset()

	return nil
}

// Reset clears the delay lines, returns the phasors to their initial
// phases and lets the smoothers snap to the next block's targets.
func (s *Shifter) Reset() {
	for _, line := range s.lines {
		line.Reset()
	}
	s.phasors.Reset()
	s.phasors.SetFrequency(0, 1)
	s.phasorHz = 0
	s.primed = false

	if s.sampleRate > 0 {
		s.windowSamples = core.MsToSamples(s.params.WindowMs(), s.sampleRate)
	}
}

// Process runs one block with the pitch ratio and window taken from Params.
func (s *Shifter) Process(dst, src [][]float64, numSamples int) error {
	return s.ProcessBlock(dst, src, numSamples, s.params.PitchRatio(), s.params.WindowMs())
}

// ProcessInPlace runs Process on bufs using the length of the first channel.
func (s *Shifter) ProcessInPlace(bufs [][]float64) error {
	if len(bufs) == 0 {
		return ErrChannelCount
	}
	return s.Process(bufs, bufs, len(bufs[0]))
}

// ProcessBlock shifts numSamples frames of src into dst. dst may alias src.
//
// pitchRatio is clamped to [MinPitchRatio, MaxPitchRatio] and delayWindowMs
// to [0, max window]; NaN values fall back to no shift and the configured
// window. Mix and output gain come from Params.
func (s *Shifter) ProcessBlock(dst, src [][]float64, numSamples int, pitchRatio, delayWindowMs float64) error {
	if !s.prepared {
		return ErrNotPrepared
	}
	if len(src) != s.cfg.channels || len(dst) != s.cfg.channels {
		return ErrChannelCount
	}
	if numSamples < 0 || numSamples > s.maxBlockSize {
		return ErrBlockSize
	}
	for c := range src {
		if len(src[c]) < numSamples || len(dst[c]) < numSamples {
			return ErrBlockSize
		}
	}
	if numSamples == 0 {
		return nil
	}

	ratioTarget := pitchRatio
	if math.IsNaN(ratioTarget) {
		ratioTarget = 1
	}
	ratioTarget = core.Clamp(ratioTarget, MinPitchRatio, MaxPitchRatio)

	windowTarget := delayWindowMs
	if math.IsNaN(windowTarget) {
		windowTarget = s.cfg.windowMs
	}
	windowTarget = core.Clamp(windowTarget, 0, s.cfg.maxWindowMs)

	mixTarget := s.params.Mix()
	gainTarget := core.DBToLinear(s.params.OutputGainDB())

	if !s.primed {
		s.ratio.Reset(ratioTarget)
		s.window.Reset(windowTarget)
		s.mix.Reset(mixTarget)
		s.gain.Reset(gainTarget)
		s.primed = true
	}

	s.renderControl(numSamples, ratioTarget, windowTarget, mixTarget, gainTarget)

	delayOne := s.work.Channel(rowDelayOne)[:numSamples]
	delayTwo := s.work.Channel(rowDelayTwo)[:numSamples]
	gainOne := s.work.Channel(rowGainOne)[:numSamples]
	gainTwo := s.work.Channel(rowGainTwo)[:numSamples]
	wet := s.work.Channel(rowWet)[:numSamples]
	dryGain := s.work.Channel(rowDryGain)[:numSamples]
	dry := s.work.Channel(rowDry)[:numSamples]

	for c, line := range s.lines {
		copy(dry, src[c][:numSamples])
		out := dst[c][:numSamples]

		for i, x := range dry {
			line.Write(x)
			a := line.ReadFractional(delayOne[i])
			b := line.ReadFractional(delayTwo[i])
			out[i] = a*gainOne[i] + b*gainTwo[i]
		}

		vecmath.MulBlockInPlace(out, wet)
		vecmath.MulBlockInPlace(dry, dryGain)
		vecmath.AddBlockInPlace(out, dry)
	}

	return nil
}

// renderControl advances the smoothers and phasors for one block and
// fills the per-sample tap delays, tap gains and output ramps.
func (s *Shifter) renderControl(n int, ratioTarget, windowTarget, mixTarget, gainTarget float64) {
	delayOne := s.work.Channel(rowDelayOne)[:n]
	delayTwo := s.work.Channel(rowDelayTwo)[:n]
	gainOne := s.work.Channel(rowGainOne)[:n]
	gainTwo := s.work.Channel(rowGainTwo)[:n]
	wet := s.work.Channel(rowWet)[:n]
	dryGain := s.work.Channel(rowDryGain)[:n]

	for i := range n {
		ratio := s.ratio.Next(ratioTarget)
		windowMs := s.window.Next(windowTarget)
		if s.cfg.adaptive {
			windowMs = ResolveWindowMs(ratio, windowMs, s.cfg.maxPhasorHz, s.cfg.maxWindowMs)
		}

		w := core.MsToSamples(windowMs, s.sampleRate)
		hz := PhasorFrequency(ratio, w, s.sampleRate)

		var forward, reverse float64
		if hz == 0 {
			forward, reverse = s.phasors.Settle(math.Min(0.5, restPitchDeviation/w))
		} else {
			s.phasors.SetFrequency(hz, s.sampleRate)
			forward, reverse = s.phasors.Advance()
		}
		one, two := TapPhases(forward, reverse)

		delayOne[i] = TapDelay(one, w)
		delayTwo[i] = TapDelay(two, w)
		gainOne[i], gainTwo[i] = s.mixer.Gains(one, two)

		mix := s.mix.Next(mixTarget)
		gain := s.gain.Next(gainTarget)
		wet[i] = mix * gain
		dryGain[i] = (1 - mix) * gain

		s.windowSamples = w
		s.phasorHz = hz
	}
}

// Params returns the lock-free control values.
func (s *Shifter) Params() *Params { return s.params }

// SampleRate returns the prepared sample rate, or 0 before Prepare.
func (s *Shifter) SampleRate() float64 { return s.sampleRate }

// Channels returns the configured channel count.
func (s *Shifter) Channels() int { return s.cfg.channels }

// MaxBlockSize returns the prepared block size limit.
func (s *Shifter) MaxBlockSize() int { return s.maxBlockSize }

// Mixer returns the crossfade mixer.
func (s *Shifter) Mixer() Mixer { return s.mixer }

// PhasorFrequency returns the phasor frequency of the last processed sample.
func (s *Shifter) PhasorFrequency() float64 { return s.phasorHz }

// WindowSamples returns the effective window of the last processed sample.
func (s *Shifter) WindowSamples() float64 { return s.windowSamples }

// LatencySamples returns the fixed delay applied at a ratio of 1, which is
// half the window.
func (s *Shifter) LatencySamples() int {
	return int(math.Round(s.windowSamples / 2))
}

// TailSeconds returns how long the output keeps sounding after the input
// stops.
func (s *Shifter) TailSeconds() float64 {
	if s.sampleRate <= 0 {
		return 0
	}
	return s.windowSamples / s.sampleRate
}
