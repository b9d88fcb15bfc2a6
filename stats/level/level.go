// Package level accumulates block-wise level statistics of a render, such
// as peak, RMS and zero-crossing rate, one channel at a time.
package level

import (
	"math"

	"github.com/cwbudde/algo-pitchdelay/dsp/core"
)

// Stats holds the level of one channel.
//
//nolint:revive
type Stats struct {
	Length         int
	DC             float64
	RMS            float64
	RMS_dB         float64
	Peak           float64
	Peak_dB        float64
	PeakPos        int
	CrestFactor    float64 // peak / RMS
	CrestFactor_dB float64
	ZeroCrossings  int
}

// ZeroCrossingHz estimates the fundamental of a tonal signal from its
// zero-crossing rate. It returns 0 for an empty signal or a non-positive
// sample rate.
func (s Stats) ZeroCrossingHz(sampleRate float64) float64 {
	if s.Length < 2 || sampleRate <= 0 {
		return 0
	}
	return float64(s.ZeroCrossings) / 2 * sampleRate / float64(s.Length-1)
}

// Calculate returns the level of signal.
func Calculate(signal []float64) Stats {
	var a accumulator
	a.update(signal)
	return a.result()
}

type accumulator struct {
	n             int
	sum           float64
	sumSq         float64
	peak          float64
	peakPos       int
	zeroCrossings int
	last          float64
}

func (a *accumulator) update(samples []float64) {
	for _, x := range samples {
		if ax := math.Abs(x); ax > a.peak {
			a.peak = ax
			a.peakPos = a.n
		}
		if a.n > 0 && a.last*x < 0 {
			a.zeroCrossings++
		}
		if x != 0 {
			a.last = x
		}

		a.sum += x
		a.sumSq += x * x
		a.n++
	}
}

func (a *accumulator) result() Stats {
	if a.n == 0 {
		return Stats{
			RMS_dB:         math.Inf(-1),
			Peak_dB:        math.Inf(-1),
			CrestFactor_dB: math.Inf(-1),
		}
	}

	nf := float64(a.n)
	rms := math.Sqrt(a.sumSq / nf)

	s := Stats{
		Length:        a.n,
		DC:            a.sum / nf,
		RMS:           rms,
		RMS_dB:        core.LinearToDB(rms),
		Peak:          a.peak,
		Peak_dB:       core.LinearToDB(a.peak),
		PeakPos:       a.peakPos,
		ZeroCrossings: a.zeroCrossings,
	}
	if rms > 0 {
		s.CrestFactor = a.peak / rms
		s.CrestFactor_dB = core.LinearToDB(s.CrestFactor)
	}
	return s
}

// Meter accumulates Stats for every channel of a block stream.
type Meter struct {
	channels []accumulator
}

// NewMeter returns a Meter for the given channel count.
func NewMeter(channels int) *Meter {
	return &Meter{channels: make([]accumulator, max(channels, 0))}
}

// Channels returns the channel count.
func (m *Meter) Channels() int { return len(m.channels) }

// Update adds the first numSamples frames of block. Extra channels in block
// are ignored.
func (m *Meter) Update(block [][]float64, numSamples int) {
	for c := range min(len(block), len(m.channels)) {
		m.channels[c].update(block[c][:min(numSamples, len(block[c]))])
	}
}

// Result returns the level of channel c.
func (m *Meter) Result(c int) Stats {
	return m.channels[c].result()
}

// Peak returns the largest peak across channels.
func (m *Meter) Peak() float64 {
	peak := 0.0
	for i := range m.channels {
		peak = math.Max(peak, m.channels[i].peak)
	}
	return peak
}

// Reset clears all channels.
func (m *Meter) Reset() {
	clear(m.channels)
}
