package window

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Shape identifies a crossfade gain curve.
type Shape int

const (
	ShapeHann Shape = iota
	ShapeTriangle
	ShapeSine
)

// Design is the quantity a shape keeps constant across complementary pairs.
type Design int

const (
	ConstantSum Design = iota
	ConstantPower
)

func (d Design) String() string {
	if d == ConstantPower {
		return "constant-power"
	}
	return "constant-sum"
}

var shapeNames = map[Shape]string{
	ShapeHann:     "hann",
	ShapeTriangle: "triangle",
	ShapeSine:     "sine",
}

// Shapes lists all known shapes in declaration order.
func Shapes() []Shape {
	return []Shape{ShapeHann, ShapeTriangle, ShapeSine}
}

// String returns the shape name.
func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// Valid reports whether s is a known shape.
func (s Shape) Valid() bool {
	_, ok := shapeNames[s]
	return ok
}

// Design returns the complementary-sum property of s.
func (s Shape) Design() Design {
	if s == ShapeSine {
		return ConstantPower
	}
	return ConstantSum
}

// ParseShape converts a shape name into a Shape.
func ParseShape(name string) (Shape, error) {
	for s, n := range shapeNames {
		if n == name {
			return s, nil
		}
	}
	return ShapeHann, fmt.Errorf("unknown window shape %q", name)
}

// Eval returns the gain of shape s at position x. x is clamped to [0,1].
// Unknown shapes evaluate as Hann.
func Eval(s Shape, x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x >= 1 {
		return 0
	}

	switch s {
	case ShapeTriangle:
		return 1 - math.Abs(2*x-1)
	case ShapeSine:
		return math.Sin(math.Pi * x)
	default:
		v := math.Sin(math.Pi * x)
		return v * v
	}
}

// Option configures table generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic samples x = i/n instead of the symmetric x = i/(n-1), the
// form used for FFT framing.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns n coefficients of shape s.
func Generate(s Shape, n int, opts ...Option) []float64 {
	if n <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, n)
	if n == 1 {
		out[0] = 1
		return out
	}

	den := float64(n - 1)
	if cfg.periodic {
		den = float64(n)
	}

	for i := range out {
		out[i] = Eval(s, float64(i)/den)
	}

	return out
}

// Hann returns periodic or symmetric Hann coefficients.
func Hann(size int, opts ...Option) ([]float64, error) {
	if err := validateLength(size); err != nil {
		return nil, err
	}

	return Generate(ShapeHann, size, opts...), nil
}

// Apply multiplies buf in place by shape s.
func Apply(s Shape, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}

	coeffs := Generate(s, len(buf), opts...)
	vecmath.MulBlockInPlace(buf, coeffs)
}

// ApplyCoefficientsInPlace multiplies samples with coefficients in place.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

// EquivalentNoiseBandwidth returns the ENBW in bins for a window.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum := 0.0
	sumSquares := 0.0

	for _, c := range coeffs {
		sum += c
		sumSquares += c * c
	}

	if sum == 0 {
		return 0, errZeroCoherentGain
	}

	return float64(len(coeffs)) * sumSquares / (sum * sum), nil
}
