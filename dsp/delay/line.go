package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pitchdelay/dsp/interp"
)

// Line is a circular delay line for a single channel.
//
// Delays are measured from the most recently written sample: after
// Write(x), Read(0) returns x. Fractional reads never leave the written
// region; delays outside [0, MaxDelay] are clamped.
type Line struct {
	buffer   []float64
	writePos int
	mode     interp.Mode
	maxDelay int
}

// Option configures a Line.
type Option func(*Line)

// WithMode selects the fractional-read kernel. The default is linear.
func WithMode(mode interp.Mode) Option {
	return func(d *Line) {
		if mode.Valid() {
			d.mode = mode
		}
	}
}

// RequiredCapacity returns the smallest capacity whose MaxDelay covers
// maxDelay samples with the given kernel.
func RequiredCapacity(maxDelay float64, mode interp.Mode) int {
	if !(maxDelay > 0) {
		maxDelay = 0
	}
	return int(math.Ceil(maxDelay)) + mode.Points()
}

// New returns a delay line of fixed capacity.
func New(capacity int, opts ...Option) (*Line, error) {
	d := &Line{mode: interp.ModeLinear}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	if capacity <= d.mode.Points() {
		return nil, fmt.Errorf("delay capacity must be > %d for %s reads: %d",
			d.mode.Points(), d.mode, capacity)
	}

	d.buffer = make([]float64, capacity)
	d.maxDelay = capacity - d.mode.Points()

	return d, nil
}

// Capacity returns the internal buffer size.
func (d *Line) Capacity() int { return len(d.buffer) }

// MaxDelay returns the largest delay in samples a fractional read can reach.
func (d *Line) MaxDelay() int { return d.maxDelay }

// Mode returns the fractional-read kernel.
func (d *Line) Mode() interp.Mode { return d.mode }

// Write stores one sample and advances the write cursor.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos == len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples. Delays outside
// [0, Capacity-1] are clamped.
func (d *Line) Read(delay int) float64 {
	if delay < 0 {
		delay = 0
	} else if delay >= len(d.buffer) {
		delay = len(d.buffer) - 1
	}
	return d.at(delay)
}

// ReadFractional reads a fractional delay with the configured kernel.
func (d *Line) ReadFractional(delay float64) float64 {
	if !(delay > 0) {
		// Also catches NaN.
		delay = 0
	} else if delay > float64(d.maxDelay) {
		delay = float64(d.maxDelay)
	}

	p := int(delay)
	t := delay - float64(p)

	if d.mode == interp.ModeHermite {
		xm1 := d.at(max(p-1, 0))
		return interp.Hermite4(t, xm1, d.at(p), d.at(p+1), d.at(p+2))
	}

	return interp.Linear2(t, d.at(p), d.at(p+1))
}

// Reset clears line content without reallocating.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}

// at assumes 0 <= delay < len(d.buffer).
func (d *Line) at(delay int) float64 {
	idx := d.writePos - 1 - delay
	if idx < 0 {
		idx += len(d.buffer)
	}
	return d.buffer[idx]
}
