// Package report renders HTML spectrum charts comparing the input and
// output of a render.
package report

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/cwbudde/algo-pitchdelay/dsp/core"
)

// FloorDB is the lowest level drawn. Quieter bins are clamped to it.
const FloorDB = -120.0

// DefaultMaxPoints bounds the number of x-axis points per chart.
const DefaultMaxPoints = 1024

var errNoData = errors.New("report: no spectrum data")

// Series is one magnitude curve over the shared frequency axis.
type Series struct {
	Name       string
	Magnitudes []float64
}

// Spectrum is a line chart of magnitude spectra in dB.
type Spectrum struct {
	Title    string
	Subtitle string
	// MaxHz drops bins above this frequency. Zero keeps all bins.
	MaxHz float64
	// MaxPoints decimates the axis by keeping the peak of each group of
	// bins. Zero means DefaultMaxPoints.
	MaxPoints int
	Freqs     []float64
	Series    []Series
}

// Render writes the chart as a standalone HTML page.
func (s Spectrum) Render(w io.Writer) error {
	if len(s.Freqs) == 0 || len(s.Series) == 0 {
		return errNoData
	}
	for _, sr := range s.Series {
		if len(sr.Magnitudes) != len(s.Freqs) {
			return fmt.Errorf("report: series %q has %d bins, axis has %d",
				sr.Name, len(sr.Magnitudes), len(s.Freqs))
		}
	}

	bins := len(s.Freqs)
	if s.MaxHz > 0 {
		for bins > 1 && s.Freqs[bins-1] > s.MaxHz {
			bins--
		}
	}

	maxPoints := s.MaxPoints
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}
	step := (bins + maxPoints - 1) / maxPoints

	labels := make([]string, 0, bins/step+1)
	for i := 0; i < bins; i += step {
		labels = append(labels, fmt.Sprintf("%.0f", s.Freqs[i]))
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{
			Title:    s.Title,
			Subtitle: s.Subtitle,
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Hz"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "dB"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
	)
	line.SetXAxis(labels)

	for _, sr := range s.Series {
		line.AddSeries(sr.Name, decimateDB(sr.Magnitudes[:bins], step))
	}

	return line.Render(w)
}

// decimateDB converts magnitudes to dB, keeping the loudest bin of every
// group of step bins.
func decimateDB(mags []float64, step int) []opts.LineData {
	items := make([]opts.LineData, 0, len(mags)/step+1)
	for i := 0; i < len(mags); i += step {
		peak := 0.0
		for _, m := range mags[i:min(i+step, len(mags))] {
			peak = math.Max(peak, math.Abs(m))
		}
		db := math.Max(core.LinearToDB(peak), FloorDB)
		items = append(items, opts.LineData{Value: math.Round(db*100) / 100})
	}
	return items
}
