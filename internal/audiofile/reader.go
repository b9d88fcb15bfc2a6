package audiofile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-pitchdelay/dsp/buffer"
)

// Info describes the stream of a file.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Frames     int
	Duration   time.Duration
}

type pcmDecoder interface {
	PCMBuffer(buf *audio.IntBuffer) (int, error)
}

// Reader decodes a file block by block.
type Reader struct {
	file   *os.File
	format Format
	info   Info
	dec    pcmDecoder
	pcm    *audio.IntBuffer
	scale  float64
}

// Open opens a WAV or AIFF file for reading blocks of up to blockFrames
// frames.
func Open(path string, blockFrames int) (*Reader, error) {
	if blockFrames <= 0 {
		return nil, fmt.Errorf("audiofile: block frames must be > 0: %d", blockFrames)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r, err := newReader(f, blockFrames)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("audiofile: open %s: %w", path, err)
	}

	return r, nil
}

func newReader(f *os.File, blockFrames int) (*Reader, error) {
	format, err := Detect(f)
	if err != nil {
		return nil, err
	}

	r := &Reader{file: f, format: format}

	switch format {
	case FormatWAV:
		d := wav.NewDecoder(f)
		d.ReadInfo()
		if err := d.FwdToPCM(); err != nil {
			return nil, fmt.Errorf("find PCM chunk: %w", err)
		}
		r.info = Info{
			SampleRate: int(d.SampleRate),
			Channels:   int(d.NumChans),
			BitDepth:   int(d.BitDepth),
		}
		if frameBytes := r.info.Channels * r.info.BitDepth / 8; frameBytes > 0 {
			r.info.Frames = d.PCMSize / frameBytes
		}
		r.dec = d
	case FormatAIFF:
		d := aiff.NewDecoder(f)
		d.ReadInfo()
		r.info = Info{
			SampleRate: int(d.SampleRate),
			Channels:   int(d.NumChans),
			BitDepth:   int(d.BitDepth),
			Frames:     int(d.NumSampleFrames),
		}
		r.dec = d
	}

	if r.info.Channels == 0 || r.info.SampleRate == 0 {
		return nil, errors.New("missing channel count or sample rate")
	}

	maxValue, ok := maxSignedValue[r.info.BitDepth]
	if !ok {
		return nil, fmt.Errorf("unsupported bit depth %d", r.info.BitDepth)
	}

	r.info.Duration = time.Duration(float64(r.info.Frames) / float64(r.info.SampleRate) * float64(time.Second))

	r.scale = 1 / float64(maxValue+1)
	r.pcm = &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: r.info.Channels,
			SampleRate:  r.info.SampleRate,
		},
		Data:           make([]int, blockFrames*r.info.Channels),
		SourceBitDepth: r.info.BitDepth,
	}

	return r, nil
}

// Info returns the stream description.
func (r *Reader) Info() Info { return r.info }

// Format returns the container format.
func (r *Reader) Format() Format { return r.format }

// Read decodes the next block into dst, resizing it to the frames read.
// dst must have Info().Channels channels. At the end of the stream Read
// returns 0 and io.EOF.
func (r *Reader) Read(dst *buffer.Planar) (int, error) {
	if dst.Channels() != r.info.Channels {
		return 0, fmt.Errorf("audiofile: block has %d channels, file has %d", dst.Channels(), r.info.Channels)
	}

	n, err := r.dec.PCMBuffer(r.pcm)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("audiofile: decode: %w", err)
	}

	frames := n / r.info.Channels
	if frames == 0 {
		dst.Resize(0)
		return 0, io.EOF
	}

	dst.Resize(frames)
	nc := r.info.Channels
	for i := range frames {
		for c := range nc {
			v := r.pcm.Data[i*nc+c]
			if r.info.BitDepth == 8 {
				v = decode8(r.format, v)
			}
			dst.Channel(c)[i] = float64(v) * r.scale
		}
	}

	return frames, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
