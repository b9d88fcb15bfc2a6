package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/cwbudde/algo-pitchdelay/dsp/core"
	"github.com/cwbudde/algo-pitchdelay/dsp/effects/pitch"
	"github.com/cwbudde/algo-pitchdelay/dsp/interp"
	"github.com/cwbudde/algo-pitchdelay/dsp/window"
)

const (
	minBlock = 16
	maxBlock = 16384
)

var generators = []string{"sine", "sweep", "noise"}

type options struct {
	inPath    string
	outPath   string
	chartPath string

	ratio        float64
	ratioEnd     float64
	sweep        bool
	semitones    float64
	useSemitones bool

	windowMs    float64
	maxWindowMs float64
	smoothingMs float64
	adaptive    bool
	shape       window.Shape
	mode        interp.Mode
	mix         float64
	gainDB      float64
	block       int
	tail        bool

	gen        string
	freq       float64
	freqEnd    float64
	amplitude  float64
	duration   float64
	sampleRate float64
	channels   int
	bitDepth   int

	verbose bool
	quiet   bool
}

func usage(fs *flag.FlagSet, w io.Writer) func() {
	return func() {
		fmt.Fprintf(w, "Usage: pitchdelay [flags] -out <file>\n\n")
		fmt.Fprintf(w, "Renders a file or a generated signal through the delay-line pitch shifter.\n\n")
		fmt.Fprintf(w, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(w, "\nExamples:\n")
		fmt.Fprintf(w, "  pitchdelay -in voice.wav -out up.wav -semitones 7\n")
		fmt.Fprintf(w, "  pitchdelay -in loop.aiff -out dive.aiff -ratio 1 -ratio-end 0.5\n")
		fmt.Fprintf(w, "  pitchdelay -gen sine -freq 1000 -ratio 2 -out octave.wav -chart octave.html\n")
	}
}

// parseFlags parses args (without the program name). It returns
// flag.ErrHelp when -h was requested.
func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("pitchdelay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage(fs, stderr)

	o := &options{}
	var shapeName, modeName string

	fs.StringVar(&o.inPath, "in", "", "input WAV or AIFF file")
	fs.StringVar(&o.outPath, "out", "", "output WAV or AIFF file, container chosen by extension")
	fs.StringVar(&o.chartPath, "chart", "", "write an HTML chart of input and output spectra to this path")

	fs.Float64Var(&o.ratio, "ratio", 1, "pitch ratio, 2 is an octave up")
	fs.Float64Var(&o.ratioEnd, "ratio-end", math.NaN(), "sweep the ratio linearly to this value over the render")
	fs.Float64Var(&o.semitones, "semitones", 0, "pitch shift in semitones, replaces -ratio")

	fs.Float64Var(&o.windowMs, "window", pitch.DefaultWindowMs, "delay window in milliseconds")
	fs.Float64Var(&o.maxWindowMs, "max-window", pitch.DefaultMaxWindowMs, "largest delay window in milliseconds")
	fs.Float64Var(&o.smoothingMs, "smoothing", 20, "parameter smoothing time in milliseconds")
	fs.BoolVar(&o.adaptive, "adaptive", false, "widen the window at extreme ratios to bound the phasor rate")
	fs.StringVar(&shapeName, "shape", window.ShapeHann.String(), "crossfade shape: hann, triangle or sine")
	fs.StringVar(&modeName, "interp", interp.ModeLinear.String(), "delay interpolation: linear or hermite")
	fs.Float64Var(&o.mix, "mix", 1, "wet/dry mix in [0, 1]")
	fs.Float64Var(&o.gainDB, "gain", 0, "output gain in dB")
	fs.IntVar(&o.block, "block", core.DefaultProcessorConfig().BlockSize, "processing block size in frames")
	fs.BoolVar(&o.tail, "tail", true, "render the delay tail after the input ends")

	fs.StringVar(&o.gen, "gen", "", "generate input instead of reading -in: "+strings.Join(generators, ", "))
	fs.Float64Var(&o.freq, "freq", 1000, "generated sine frequency or sweep start in Hz")
	fs.Float64Var(&o.freqEnd, "freq-end", 4000, "generated sweep end frequency in Hz")
	fs.Float64Var(&o.amplitude, "amp", 0.5, "generated signal peak amplitude")
	fs.Float64Var(&o.duration, "duration", 2, "generated signal length in seconds")
	fs.Float64Var(&o.sampleRate, "sr", core.DefaultProcessorConfig().SampleRate, "generated signal sample rate")
	fs.IntVar(&o.channels, "channels", 1, "generated signal channel count")
	fs.IntVar(&o.bitDepth, "bits", 24, "generated signal output bit depth")

	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	fs.BoolVar(&o.quiet, "q", false, "no progress bar")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "semitones":
			o.useSemitones = true
		case "ratio-end":
			o.sweep = true
		}
	})

	var err error
	if o.shape, err = window.ParseShape(shapeName); err != nil {
		return nil, err
	}
	if o.mode, err = interp.ParseMode(modeName); err != nil {
		return nil, err
	}

	if err := o.validate(); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *options) validate() error {
	var errs []error

	switch {
	case o.outPath == "":
		errs = append(errs, errors.New("-out is required"))
	case o.inPath == "" && o.gen == "":
		errs = append(errs, errors.New("one of -in or -gen is required"))
	case o.inPath != "" && o.gen != "":
		errs = append(errs, errors.New("-in and -gen are mutually exclusive"))
	}

	if o.gen != "" && !slices.Contains(generators, o.gen) {
		errs = append(errs, fmt.Errorf("unknown generator %q", o.gen))
	}

	if o.useSemitones {
		if o.sweep {
			errs = append(errs, errors.New("-semitones cannot be combined with -ratio-end"))
		}
		o.ratio = core.SemitonesToRatio(o.semitones)
	}
	errs = append(errs, checkRatio("ratio", o.ratio))
	if o.sweep {
		errs = append(errs, checkRatio("ratio-end", o.ratioEnd))
	}

	if b := core.Bound(o.block, minBlock, maxBlock); b != o.block {
		errs = append(errs, fmt.Errorf("-block must be in [%d, %d]: %d", minBlock, maxBlock, o.block))
	}

	if o.gen != "" {
		if !core.IsFinitePositive(o.duration) {
			errs = append(errs, fmt.Errorf("-duration must be > 0: %g", o.duration))
		}
		if !core.IsFinitePositive(o.sampleRate) {
			errs = append(errs, fmt.Errorf("-sr must be > 0: %g", o.sampleRate))
		}
		if o.channels < 1 {
			errs = append(errs, fmt.Errorf("-channels must be >= 1: %d", o.channels))
		}
	}

	return errors.Join(errs...)
}

func checkRatio(name string, r float64) error {
	if r >= pitch.MinPitchRatio && r <= pitch.MaxPitchRatio {
		return nil
	}
	return fmt.Errorf("-%s must be in [%g, %g]: %g", name, pitch.MinPitchRatio, pitch.MaxPitchRatio, r)
}
