package spectrum

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-pitchdelay/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

// MinSize is the smallest supported analysis size.
const MinSize = 16

var errShortSignal = errors.New("spectrum: signal shorter than minimum analysis size")

// Analyzer computes magnitude spectra of frames of one fixed size. It
// holds its FFT plan and scratch buffers, so repeated calls do not
// allocate beyond the returned slice.
type Analyzer struct {
	size   int
	plan   *algofft.Plan[complex128]
	window []float64
	frame  []float64
	in     []complex128
	out    []complex128
	scale  float64
}

// NewAnalyzer returns an Analyzer for frames of size samples. size must be
// a power of two and at least MinSize.
func NewAnalyzer(size int) (*Analyzer, error) {
	if size < MinSize || size&(size-1) != 0 {
		return nil, fmt.Errorf("spectrum size must be a power of two >= %d: %d", MinSize, size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum plan: %w", err)
	}

	win, err := window.Hann(size, window.WithPeriodic())
	if err != nil {
		return nil, fmt.Errorf("spectrum window: %w", err)
	}

	sum := 0.0
	for _, w := range win {
		sum += w
	}

	return &Analyzer{
		size:   size,
		plan:   plan,
		window: win,
		frame:  make([]float64, size),
		in:     make([]complex128, size),
		out:    make([]complex128, size),
		scale:  2 / sum,
	}, nil
}

// Size returns the frame length.
func (a *Analyzer) Size() int { return a.size }

// Bins returns the number of magnitude bins, size/2+1.
func (a *Analyzer) Bins() int { return a.size/2 + 1 }

// BinFrequency returns the centre frequency of bin k.
func (a *Analyzer) BinFrequency(k int, sampleRate float64) float64 {
	return float64(k) * sampleRate / float64(a.size)
}

// Magnitude returns the one-sided magnitude spectrum of frame. The scale
// is chosen so a sine of amplitude A centred on a bin reads A.
func (a *Analyzer) Magnitude(frame []float64) ([]float64, error) {
	if len(frame) != a.size {
		return nil, fmt.Errorf("spectrum frame must have %d samples: %d", a.size, len(frame))
	}

	copy(a.frame, frame)
	if err := window.ApplyCoefficientsInPlace(a.frame, a.window); err != nil {
		return nil, fmt.Errorf("spectrum window: %w", err)
	}

	for i, v := range a.frame {
		a.in[i] = complex(v, 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return nil, fmt.Errorf("spectrum forward transform: %w", err)
	}

	mag := make([]float64, a.Bins())
	MagnitudeInto(mag, a.out[:a.Bins()])
	vecmath.ScaleBlock(mag, mag, a.scale)

	return mag, nil
}

// AnalysisSize returns the largest power of two not above n, or 0 when n is
// below MinSize.
func AnalysisSize(n int) int {
	if n < MinSize {
		return 0
	}

	size := MinSize
	for size*2 <= n {
		size *= 2
	}

	return size
}

// MagnitudeSpectrum analyses the centre AnalysisSize(len(signal)) samples
// of signal and returns bin frequencies and magnitudes.
func MagnitudeSpectrum(signal []float64, sampleRate float64) (freqs, mags []float64, err error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, nil, fmt.Errorf("spectrum sample rate must be > 0: %f", sampleRate)
	}

	size := AnalysisSize(len(signal))
	if size == 0 {
		return nil, nil, errShortSignal
	}

	a, err := NewAnalyzer(size)
	if err != nil {
		return nil, nil, err
	}

	start := (len(signal) - size) / 2
	mags, err = a.Magnitude(signal[start : start+size])
	if err != nil {
		return nil, nil, err
	}

	freqs = make([]float64, len(mags))
	for k := range freqs {
		freqs[k] = a.BinFrequency(k, sampleRate)
	}

	return freqs, mags, nil
}

// DominantFrequency returns the frequency of the strongest non-DC partial
// of signal, refined by parabolic interpolation between neighbouring bins.
func DominantFrequency(signal []float64, sampleRate float64) (float64, error) {
	freqs, mags, err := MagnitudeSpectrum(signal, sampleRate)
	if err != nil {
		return 0, err
	}

	peak := 1
	for k := 2; k < len(mags)-1; k++ {
		if mags[k] > mags[peak] {
			peak = k
		}
	}

	l, c, r := mags[peak-1], mags[peak], mags[peak+1]
	den := l - 2*c + r
	delta := 0.0
	if den != 0 {
		delta = 0.5 * (l - r) / den
	}

	return freqs[peak] + delta*(freqs[1]-freqs[0]), nil
}
