package buffer

import "fmt"

// Planar stores one []float64 per channel, all backed by a single
// allocation. Channel slices stay valid until the next Resize that grows
// past the current capacity.
type Planar struct {
	data     []float64
	channels [][]float64
	frames   int
}

// New returns a zero-filled block of channels x frames.
func New(channels, frames int) (*Planar, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("buffer channels must be > 0: %d", channels)
	}
	if frames < 0 {
		return nil, fmt.Errorf("buffer frames must be >= 0: %d", frames)
	}

	p := &Planar{channels: make([][]float64, channels)}
	p.Resize(frames)

	return p, nil
}

// Channels returns the channel count.
func (p *Planar) Channels() int { return len(p.channels) }

// Frames returns the current length of every channel.
func (p *Planar) Frames() int { return p.frames }

// Channel returns the samples of channel c.
func (p *Planar) Channel(c int) []float64 { return p.channels[c] }

// Data returns all channel slices, in the [][]float64 form processors take.
func (p *Planar) Data() [][]float64 { return p.channels }

// Resize sets the frame count and clears the block. Existing capacity is
// reused.
func (p *Planar) Resize(frames int) {
	if frames < 0 {
		frames = 0
	}

	n := frames * len(p.channels)
	if n > cap(p.data) {
		p.data = make([]float64, n)
	} else {
		p.data = p.data[:n]
		clear(p.data)
	}

	p.frames = frames
	for c := range p.channels {
		p.channels[c] = p.data[c*frames : (c+1)*frames : (c+1)*frames]
	}
}

// Zero clears every channel.
func (p *Planar) Zero() {
	clear(p.data)
}

// Deinterleave fills the block from frame-interleaved samples and resizes
// it to len(src)/Channels() frames. A trailing partial frame is dropped.
func (p *Planar) Deinterleave(src []float64) {
	nc := len(p.channels)
	p.Resize(len(src) / nc)

	for i := range p.frames {
		base := i * nc
		for c, ch := range p.channels {
			ch[i] = src[base+c]
		}
	}
}

// Interleave writes the block into dst frame by frame and returns the
// number of samples written. dst is grown if it is too short.
func (p *Planar) Interleave(dst []float64) []float64 {
	nc := len(p.channels)
	n := p.frames * nc
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]

	for i := range p.frames {
		base := i * nc
		for c, ch := range p.channels {
			dst[base+c] = ch[i]
		}
	}

	return dst
}

// PeakAbs returns the largest absolute sample across all channels.
func (p *Planar) PeakAbs() float64 {
	peak := 0.0
	for _, v := range p.data {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	return peak
}
