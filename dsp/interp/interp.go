package interp

import "fmt"

// Mode identifies an interpolation kernel.
type Mode int

const (
	// ModeLinear interpolates between the two nearest samples.
	ModeLinear Mode = iota
	// ModeHermite uses a 4-point cubic Hermite kernel.
	ModeHermite
)

// Points returns how many neighbouring samples the kernel reads.
func (m Mode) Points() int {
	if m == ModeHermite {
		return 4
	}
	return 2
}

// String returns the mode name as used on the command line.
func (m Mode) String() string {
	switch m {
	case ModeLinear:
		return "linear"
	case ModeHermite:
		return "hermite"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeLinear || m == ModeHermite
}

// ParseMode converts a mode name back into a Mode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "linear":
		return ModeLinear, nil
	case "hermite":
		return ModeHermite, nil
	default:
		return ModeLinear, fmt.Errorf("unknown interpolation mode %q", name)
	}
}

// Linear2 interpolates from x0 (t=0) to x1 (t=1).
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}
