// Command xfadeinfo prints the crossfade properties of the pitch shifter's
// tap window shapes.
//
// Usage:
//
//	xfadeinfo [flags] [shape ...]
//
// Without arguments it prints every shape.
//
// Examples:
//
//	xfadeinfo
//	xfadeinfo -size 4096 sine
//	xfadeinfo -list
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-pitchdelay/dsp/window"
)

func main() {
	size := flag.Int("size", 1024, "window length and number of crossfade positions probed")
	list := flag.Bool("list", false, "list available shape names")
	periodic := flag.Bool("periodic", false, "use the periodic form for gain and ENBW")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: xfadeinfo [flags] [shape ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints crossfade ripple and spectral properties of window shapes.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, prints every shape.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *list {
		for _, s := range window.Shapes() {
			fmt.Println(s)
		}
		return
	}

	shapes := resolveShapes(flag.Args(), os.Stderr)
	if len(shapes) == 0 {
		fmt.Fprintf(os.Stderr, "error: no matching shapes\n")
		os.Exit(1)
	}

	var opts []window.Option
	if *periodic {
		opts = append(opts, window.WithPeriodic())
	}

	if err := printAnalysis(os.Stdout, shapes, *size, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func resolveShapes(names []string, warn io.Writer) []window.Shape {
	if len(names) == 0 {
		return window.Shapes()
	}

	var shapes []window.Shape
	for _, name := range names {
		s, err := window.ParseShape(strings.ToLower(strings.TrimSpace(name)))
		if err != nil {
			fmt.Fprintf(warn, "warning: %v (use -list to see available)\n", err)
			continue
		}
		shapes = append(shapes, s)
	}
	return shapes
}

func printAnalysis(w io.Writer, shapes []window.Shape, size int, opts []window.Option) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Shape\tDesign\tGain Sum\tPower Sum\tRipple [%%]\tCoherent Gain\tENBW [bins]\n")
	fmt.Fprintf(tw, "-----\t------\t--------\t---------\t----------\t-------------\t-----------\n")

	for _, s := range shapes {
		r, err := window.MeasureRipple(s, size)
		if err != nil {
			return fmt.Errorf("%s: %w", s, err)
		}

		coeffs := window.Generate(s, size, opts...)
		enbw, err := window.EquivalentNoiseBandwidth(coeffs)
		if err != nil {
			return fmt.Errorf("%s: %w", s, err)
		}

		fmt.Fprintf(tw, "%s\t%s\t%.4f..%.4f\t%.4f..%.4f\t%.3f\t%.6f\t%.4f\n",
			s,
			r.Design,
			r.GainSumMin, r.GainSumMax,
			r.PowerSumMin, r.PowerSumMax,
			100*r.Deviation,
			coherentGain(coeffs),
			enbw,
		)
	}

	return tw.Flush()
}

func coherentGain(coeffs []float64) float64 {
	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}
	return sum / float64(len(coeffs))
}
