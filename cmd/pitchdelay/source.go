package main

import (
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-pitchdelay/dsp/buffer"
	"github.com/cwbudde/algo-pitchdelay/dsp/core"
	"github.com/cwbudde/algo-pitchdelay/dsp/signal"
	"github.com/cwbudde/algo-pitchdelay/internal/audiofile"
)

// source yields planar blocks. *audiofile.Reader implements it.
type source interface {
	Info() audiofile.Info
	Read(dst *buffer.Planar) (int, error)
	Close() error
}

// generated plays a precomputed mono signal on every channel.
type generated struct {
	info  audiofile.Info
	data  []float64
	pos   int
	block int
}

func newGenerated(o *options) (*generated, error) {
	frames := int(math.Round(o.duration * o.sampleRate))
	gen := signal.NewGenerator([]core.ProcessorOption{
		core.WithSampleRate(o.sampleRate),
		core.WithBlockSize(o.block),
		core.WithChannels(o.channels),
	})

	var (
		data []float64
		err  error
	)
	switch o.gen {
	case "sine":
		data, err = gen.Sine(o.freq, o.amplitude, frames)
	case "sweep":
		data, err = gen.Sweep(o.freq, o.freqEnd, o.amplitude, frames)
	case "noise":
		data, err = gen.WhiteNoise(1, frames)
		if err == nil {
			err = signal.Normalize(data, o.amplitude)
		}
	default:
		err = fmt.Errorf("unknown generator %q", o.gen)
	}
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", o.gen, err)
	}

	return &generated{
		info: audiofile.Info{
			SampleRate: int(math.Round(gen.SampleRate())),
			Channels:   o.channels,
			BitDepth:   o.bitDepth,
			Frames:     frames,
		},
		data:  data,
		block: o.block,
	}, nil
}

func (g *generated) Info() audiofile.Info { return g.info }

func (g *generated) Read(dst *buffer.Planar) (int, error) {
	n := min(g.block, len(g.data)-g.pos)
	if n <= 0 {
		dst.Resize(0)
		return 0, io.EOF
	}

	dst.Resize(n)
	for c := range dst.Channels() {
		copy(dst.Channel(c), g.data[g.pos:g.pos+n])
	}
	g.pos += n

	return n, nil
}

func (g *generated) Close() error { return nil }
