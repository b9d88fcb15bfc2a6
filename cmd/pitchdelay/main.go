// Command pitchdelay renders audio through the delay-line pitch shifter.
//
// It plays the host role for the library: it reads a WAV or AIFF file (or
// generates a test signal), feeds it to the shifter in fixed-size blocks,
// optionally automates the pitch ratio across the render, and writes the
// result.
//
// Usage:
//
//	pitchdelay [flags] -out <file>
//
// Examples:
//
//	pitchdelay -in voice.wav -out up.wav -semitones 7
//	pitchdelay -in loop.aiff -out dive.aiff -ratio 1 -ratio-end 0.5
//	pitchdelay -gen sine -freq 1000 -ratio 2 -out octave.wav -chart octave.html
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/cwbudde/algo-pitchdelay/dsp/effects/pitch"
	"github.com/cwbudde/algo-pitchdelay/dsp/spectrum"
	"github.com/cwbudde/algo-pitchdelay/internal/audiofile"
	"github.com/cwbudde/algo-pitchdelay/internal/report"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "pitchdelay:", err)
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	src, err := openSource(o)
	if err != nil {
		return err
	}
	defer src.Close()

	info := src.Info()
	log.Info("input",
		"path", o.inPath,
		"generator", o.gen,
		"channels", info.Channels,
		"sample_rate", info.SampleRate,
		"bit_depth", info.BitDepth,
		"frames", info.Frames)

	shifter, err := newShifter(o, info)
	if err != nil {
		return err
	}
	log.Info("shifter",
		"ratio", shifter.Params().PitchRatio(),
		"semitones", shifter.Params().PitchSemitones(),
		"window_ms", shifter.Params().WindowMs(),
		"shape", shifter.Mixer().Shape(),
		"latency_samples", shifter.LatencySamples(),
		"tail_s", shifter.TailSeconds())

	w, err := audiofile.Create(o.outPath, info)
	if err != nil {
		return err
	}

	r, err := newRenderer(log, o, shifter, src, w)
	if err != nil {
		w.Close()
		return err
	}

	if err := renderWithProgress(r, o.quiet, stderr); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	if n := w.Clipped(); n > 0 {
		log.Warn("output clipped", "samples", n)
	}
	log.Info("wrote", "path", o.outPath)

	if o.chartPath != "" {
		if err := writeChart(log, o, r, float64(info.SampleRate)); err != nil {
			return err
		}
	}

	return nil
}

func openSource(o *options) (source, error) {
	if o.gen != "" {
		g, err := newGenerated(o)
		if err != nil {
			return nil, err
		}
		return g, nil
	}

	r, err := audiofile.Open(o.inPath, o.block)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func newShifter(o *options, info audiofile.Info) (*pitch.Shifter, error) {
	shifter, err := pitch.NewShifter(
		pitch.WithChannels(info.Channels),
		pitch.WithWindowMs(o.windowMs),
		pitch.WithMaxWindowMs(o.maxWindowMs),
		pitch.WithSmoothingMs(o.smoothingMs),
		pitch.WithAdaptiveWindow(o.adaptive),
		pitch.WithWindowShape(o.shape),
		pitch.WithInterpolation(o.mode),
		pitch.WithMix(o.mix),
		pitch.WithOutputGainDB(o.gainDB),
	)
	if err != nil {
		return nil, err
	}

	if o.useSemitones {
		err = shifter.Params().SetPitchSemitones(o.semitones)
	} else {
		err = shifter.Params().SetPitchRatio(o.ratio)
	}
	if err != nil {
		return nil, err
	}

	if err := shifter.Prepare(float64(info.SampleRate), o.block); err != nil {
		return nil, err
	}
	return shifter, nil
}

func renderWithProgress(r *renderer, quiet bool, stderr io.Writer) error {
	progress := make(chan int)
	errs := make(chan error, 1)
	done := make(chan struct{})

	var bar *progressbar.ProgressBar
	if !quiet {
		bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetDescription("rendering..."),
			progressbar.OptionFullWidth(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
	}

	go r.run(progress, errs, done)

	for {
		select {
		case err := <-errs:
			return fmt.Errorf("render: %w", err)
		case pct := <-progress:
			if bar != nil {
				_ = bar.Set(pct)
			}
		case <-done:
			if bar != nil {
				_ = bar.Finish()
				fmt.Fprintln(stderr)
			}
			return nil
		}
	}
}

func writeChart(log *slog.Logger, o *options, r *renderer, sampleRate float64) error {
	inHz, err := spectrum.DominantFrequency(r.capturedIn, sampleRate)
	if err != nil {
		return fmt.Errorf("input dominant frequency: %w", err)
	}
	outHz, err := spectrum.DominantFrequency(r.capturedOut, sampleRate)
	if err != nil {
		return fmt.Errorf("output dominant frequency: %w", err)
	}
	log.Info("dominant frequency", "input_hz", inHz, "output_hz", outHz)

	freqs, inMags, err := spectrum.MagnitudeSpectrum(r.capturedIn, sampleRate)
	if err != nil {
		return fmt.Errorf("input spectrum: %w", err)
	}
	_, outMags, err := spectrum.MagnitudeSpectrum(r.capturedOut, sampleRate)
	if err != nil {
		return fmt.Errorf("output spectrum: %w", err)
	}

	f, err := os.Create(o.chartPath)
	if err != nil {
		return err
	}
	defer f.Close()

	chart := report.Spectrum{
		Title:    "pitchdelay",
		Subtitle: fmt.Sprintf("ratio %.3f  window %.1f ms", r.ratioStart, o.windowMs),
		Freqs:    freqs,
		Series: []report.Series{
			{Name: "input", Magnitudes: inMags},
			{Name: "output", Magnitudes: outMags},
		},
	}
	if err := chart.Render(f); err != nil {
		return fmt.Errorf("chart: %w", err)
	}

	log.Info("wrote chart", "path", o.chartPath)
	return nil
}
