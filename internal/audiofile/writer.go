package audiofile

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-pitchdelay/dsp/buffer"
)

type pcmEncoder interface {
	Write(buf *audio.IntBuffer) error
	Close() error
}

// Writer encodes planar blocks into a file. The container is chosen from
// the file extension.
type Writer struct {
	file     *os.File
	format   Format
	enc      pcmEncoder
	pcm      *audio.IntBuffer
	info     Info
	maxValue int
	clipped  int
}

// Create creates path for writing with the sample rate, channel count and
// bit depth of info.
func Create(path string, info Info) (*Writer, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	maxValue, ok := maxSignedValue[info.BitDepth]
	if !ok {
		return nil, fmt.Errorf("audiofile: unsupported bit depth %d", info.BitDepth)
	}
	if info.Channels <= 0 || info.SampleRate <= 0 {
		return nil, fmt.Errorf("audiofile: invalid stream %d ch @ %d Hz", info.Channels, info.SampleRate)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	var enc pcmEncoder
	switch format {
	case FormatWAV:
		enc = wav.NewEncoder(f, info.SampleRate, info.BitDepth, info.Channels, 1)
	case FormatAIFF:
		enc = aiff.NewEncoder(f, info.SampleRate, info.BitDepth, info.Channels)
	}

	return &Writer{
		file:   f,
		format: format,
		enc:    enc,
		pcm: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: info.Channels,
				SampleRate:  info.SampleRate,
			},
			SourceBitDepth: info.BitDepth,
		},
		info:     info,
		maxValue: maxValue,
	}, nil
}

// Write encodes all frames of src. Samples beyond full scale are clipped.
func (w *Writer) Write(src *buffer.Planar) error {
	nc := w.info.Channels
	if src.Channels() != nc {
		return fmt.Errorf("audiofile: block has %d channels, file has %d", src.Channels(), nc)
	}

	frames := src.Frames()
	if cap(w.pcm.Data) < frames*nc {
		w.pcm.Data = make([]int, frames*nc)
	}
	w.pcm.Data = w.pcm.Data[:frames*nc]

	scale := float64(w.maxValue)
	for c := range nc {
		ch := src.Channel(c)
		for i, v := range ch {
			q := int(math.Round(v * scale))
			if q > w.maxValue {
				q = w.maxValue
				w.clipped++
			} else if q < -w.maxValue {
				q = -w.maxValue
				w.clipped++
			}
			if w.info.BitDepth == 8 {
				q = encode8(w.format, q)
			}
			w.pcm.Data[i*nc+c] = q
		}
	}

	if err := w.enc.Write(w.pcm); err != nil {
		return fmt.Errorf("audiofile: encode: %w", err)
	}

	return nil
}

// Clipped returns how many samples were clipped so far.
func (w *Writer) Clipped() int { return w.clipped }

// Close finalizes the header and closes the file.
func (w *Writer) Close() error {
	encErr := w.enc.Close()
	fileErr := w.file.Close()
	if encErr != nil {
		return fmt.Errorf("audiofile: finalize: %w", encErr)
	}
	return fileErr
}
