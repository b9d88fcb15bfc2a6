package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-pitchdelay/dsp/buffer"
	"github.com/cwbudde/algo-pitchdelay/dsp/core"
	"github.com/cwbudde/algo-pitchdelay/dsp/effects/pitch"
	"github.com/cwbudde/algo-pitchdelay/stats/level"
)

// maxCapture bounds the first-channel history kept for the spectrum chart.
const maxCapture = 1 << 18

type sink interface {
	Write(src *buffer.Planar) error
}

// renderer drives a Shifter block by block the way a plugin host does.
// Pitch automation goes through the shifter's Params.
type renderer struct {
	log     *slog.Logger
	shifter *pitch.Shifter
	src     source
	dst     sink

	ratioStart float64
	ratioEnd   float64
	tail       bool

	in, out *buffer.Planar

	inLevel  *level.Meter
	outLevel *level.Meter

	capturedIn  []float64
	capturedOut []float64
}

func newRenderer(log *slog.Logger, o *options, shifter *pitch.Shifter, src source, dst sink) (*renderer, error) {
	channels := src.Info().Channels

	in, err := buffer.New(channels, shifter.MaxBlockSize())
	if err != nil {
		return nil, err
	}
	out, err := buffer.New(channels, shifter.MaxBlockSize())
	if err != nil {
		return nil, err
	}

	r := &renderer{
		log:        log,
		shifter:    shifter,
		src:        src,
		dst:        dst,
		ratioStart: shifter.Params().PitchRatio(),
		ratioEnd:   math.NaN(),
		tail:       o.tail,
		in:         in,
		out:        out,
		inLevel:    level.NewMeter(channels),
		outLevel:   level.NewMeter(channels),
	}
	if o.sweep {
		r.ratioEnd = o.ratioEnd
	}
	if o.chartPath != "" {
		r.capturedIn = make([]float64, 0, min(src.Info().Frames, maxCapture))
		r.capturedOut = make([]float64, 0, cap(r.capturedIn))
	}

	return r, nil
}

// run renders the whole source. It reports percent complete on progress
// and finishes by sending exactly one value on errs or closing done.
func (r *renderer) run(progress chan<- int, errs chan<- error, done chan<- struct{}) {
	if err := r.render(progress); err != nil {
		errs <- err
		return
	}
	close(done)
}

func (r *renderer) render(progress chan<- int) error {
	total := r.src.Info().Frames
	rendered := 0
	lastPct := -1

	for {
		n, err := r.src.Read(r.in)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		if err := r.automate(rendered, total); err != nil {
			return err
		}
		if err := r.process(n); err != nil {
			return err
		}
		r.capture(n)
		r.inLevel.Update(r.in.Data(), n)
		r.outLevel.Update(r.out.Data(), n)

		rendered += n
		if total > 0 {
			pct := core.Bound(rendered*100/total, 0, 100)
			if pct != lastPct {
				lastPct = pct
				progress <- pct
			}
		}
	}

	if r.tail {
		if err := r.flushTail(); err != nil {
			return err
		}
	}

	sampleRate := r.shifter.SampleRate()
	in, out := r.inLevel.Result(0), r.outLevel.Result(0)
	r.log.Info("levels",
		"input_peak_db", in.Peak_dB,
		"output_peak_db", out.Peak_dB,
		"input_rms_db", in.RMS_dB,
		"output_rms_db", out.RMS_dB,
		"input_zc_hz", in.ZeroCrossingHz(sampleRate),
		"output_zc_hz", out.ZeroCrossingHz(sampleRate))

	r.log.Debug("render finished",
		"frames", rendered,
		"phasor_hz", r.shifter.PhasorFrequency(),
		"window_samples", r.shifter.WindowSamples())

	return nil
}

// automate moves the ratio linearly from ratioStart to ratioEnd across the
// source length.
func (r *renderer) automate(position, total int) error {
	if math.IsNaN(r.ratioEnd) || total <= 0 {
		return nil
	}

	ratio := core.MapRange(float64(position), 0, float64(total), r.ratioStart, r.ratioEnd)
	if err := r.shifter.Params().SetPitchRatio(ratio); err != nil {
		return fmt.Errorf("automate ratio: %w", err)
	}
	return nil
}

func (r *renderer) process(n int) error {
	r.out.Resize(n)
	if err := r.shifter.Process(r.out.Data(), r.in.Data(), n); err != nil {
		return fmt.Errorf("process: %w", err)
	}
	if err := r.dst.Write(r.out); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (r *renderer) capture(n int) {
	if r.capturedIn == nil {
		return
	}
	n = min(n, cap(r.capturedIn)-len(r.capturedIn))
	r.capturedIn = append(r.capturedIn, r.in.Channel(0)[:n]...)
	r.capturedOut = append(r.capturedOut, r.out.Channel(0)[:n]...)
}

// flushTail feeds silence until the delay lines have drained.
func (r *renderer) flushTail() error {
	remaining := int(math.Ceil(r.shifter.WindowSamples()))
	r.log.Debug("flushing tail", "frames", remaining)

	for remaining > 0 {
		n := min(remaining, r.shifter.MaxBlockSize())
		r.in.Resize(n)
		if err := r.process(n); err != nil {
			return err
		}
		remaining -= n
	}
	return nil
}
