package audiofile

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-pitchdelay/dsp/buffer"
	"github.com/cwbudde/algo-pitchdelay/internal/testutil"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.wav", FormatWAV},
		{"dir/B.WAVE", FormatWAV},
		{"c.aif", FormatAIFF},
		{"d.AIFF", FormatAIFF},
		{"e.mp3", FormatUnknown},
		{"noext", FormatUnknown},
	}

	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
		if (tt.want == FormatUnknown) != errors.Is(err, ErrUnknownFormat) {
			t.Errorf("FormatFromPath(%q) err = %v", tt.path, err)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   Format
	}{
		{"wav", "RIFF\x24\x00\x00\x00WAVEfmt ", FormatWAV},
		{"aiff", "FORM\x00\x00\x00\x2eAIFFCOMM", FormatAIFF},
		{"other", "OggS\x00\x02\x00\x00\x00\x00\x00\x00", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bytes.NewReader([]byte(tt.header))
			got, err := Detect(r)
			if got != tt.want {
				t.Fatalf("Detect = %v, want %v (err %v)", got, tt.want, err)
			}
			if pos, _ := r.Seek(0, io.SeekCurrent); pos != 0 {
				t.Fatalf("reader left at %d, want 0", pos)
			}
		})
	}

	if _, err := Detect(bytes.NewReader([]byte("RIFF"))); err == nil {
		t.Fatal("expected error for short header")
	}
}

func TestRoundTrip(t *testing.T) {
	const (
		sampleRate = 48000
		frames     = 3000
		block      = 512
	)

	left := testutil.DeterministicSine(1000, sampleRate, 0.5, frames)
	right := testutil.DeterministicSine(250, sampleRate, -0.25, frames)

	for _, tc := range []struct {
		ext      string
		format   Format
		bitDepth int
		eps      float64
	}{
		{".wav", FormatWAV, 8, 1e-2},
		{".wav", FormatWAV, 16, 1e-4},
		{".wav", FormatWAV, 24, 1e-6},
		{".aiff", FormatAIFF, 8, 1e-2},
		{".aiff", FormatAIFF, 16, 1e-4},
	} {
		t.Run(tc.format.String(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tone"+tc.ext)
			info := Info{SampleRate: sampleRate, Channels: 2, BitDepth: tc.bitDepth}

			w, err := Create(path, info)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}

			blk, err := buffer.New(2, block)
			if err != nil {
				t.Fatal(err)
			}
			for start := 0; start < frames; start += block {
				end := min(start+block, frames)
				blk.Resize(end - start)
				copy(blk.Channel(0), left[start:end])
				copy(blk.Channel(1), right[start:end])
				if err := w.Write(blk); err != nil {
					t.Fatalf("Write: %v", err)
				}
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}

			if got, err := DetectFile(path); err != nil || got != tc.format {
				t.Fatalf("DetectFile = %v, %v; want %v", got, err, tc.format)
			}

			r, err := Open(path, block)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer r.Close()

			gotInfo := r.Info()
			if gotInfo.SampleRate != sampleRate || gotInfo.Channels != 2 || gotInfo.BitDepth != tc.bitDepth {
				t.Fatalf("info = %+v", gotInfo)
			}
			if gotInfo.Frames != frames {
				t.Fatalf("frames = %d, want %d", gotInfo.Frames, frames)
			}

			var outL, outR []float64
			for {
				n, err := r.Read(blk)
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					t.Fatalf("Read: %v", err)
				}
				outL = append(outL, blk.Channel(0)[:n]...)
				outR = append(outR, blk.Channel(1)[:n]...)
			}

			testutil.RequireSliceNearlyEqual(t, outL, left, tc.eps)
			testutil.RequireSliceNearlyEqual(t, outR, right, tc.eps)
		})
	}
}

func TestWAV8BitIsOffsetBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eight.wav")
	w, err := Create(path, Info{SampleRate: 8000, Channels: 1, BitDepth: 8})
	if err != nil {
		t.Fatal(err)
	}

	blk, _ := buffer.New(1, 4)
	copy(blk.Channel(0), []float64{0, 0.5, -0.5, 0})
	if err := w.Write(blk); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{128, 192, 64, 128}; !bytes.HasSuffix(raw, want) {
		t.Fatalf("PCM bytes = %v, want suffix %v", raw[max(0, len(raw)-4):], want)
	}

	r, err := Open(path, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if _, err := r.Read(blk); err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, blk.Channel(0), []float64{0, 0.5, -0.5, 0}, 1e-2)
}

func TestWriterClips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hot.wav")
	w, err := Create(path, Info{SampleRate: 44100, Channels: 1, BitDepth: 16})
	if err != nil {
		t.Fatal(err)
	}

	blk, _ := buffer.New(1, 4)
	copy(blk.Channel(0), []float64{0, 1.5, -2, 0.5})
	if err := w.Write(blk); err != nil {
		t.Fatal(err)
	}
	if w.Clipped() != 2 {
		t.Fatalf("clipped = %d, want 2", w.Clipped())
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if _, err := r.Read(blk); err != nil {
		t.Fatal(err)
	}
	if peak := blk.PeakAbs(); peak > 1 {
		t.Fatalf("peak = %f, want <= 1", peak)
	}
}

func TestChannelMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.aiff")
	w, err := Create(path, Info{SampleRate: 44100, Channels: 1, BitDepth: 16})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	stereo, _ := buffer.New(2, 8)
	if err := w.Write(stereo); err == nil {
		t.Fatal("expected channel mismatch error")
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	if _, err := Create(filepath.Join(dir, "x.flac"), Info{SampleRate: 44100, Channels: 1, BitDepth: 16}); err == nil {
		t.Error("expected unknown format error")
	}
	if _, err := Create(filepath.Join(dir, "x.wav"), Info{SampleRate: 44100, Channels: 1, BitDepth: 12}); err == nil {
		t.Error("expected bit depth error")
	}
	if _, err := Create(filepath.Join(dir, "x.wav"), Info{SampleRate: 0, Channels: 1, BitDepth: 16}); err == nil {
		t.Error("expected sample rate error")
	}
}

func TestOpenRejectsUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.wav")
	if err := os.WriteFile(path, []byte("not an audio file at all"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path, 64); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("Open err = %v, want ErrUnknownFormat", err)
	}
}
