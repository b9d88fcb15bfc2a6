package window

import "math"

// Ripple describes how well a shape holds its design constant when paired
// with itself half a cycle later.
type Ripple struct {
	Shape  Shape
	Design Design
	// GainSum and PowerSum are the extremes of g(x)+g(x+0.5) and
	// g(x)^2+g(x+0.5)^2 over the probed positions.
	GainSumMin, GainSumMax   float64
	PowerSumMin, PowerSumMax float64
	// Deviation is the largest relative distance of the design quantity
	// from 1.
	Deviation float64
}

// MeasureRipple probes n positions across one cycle.
func MeasureRipple(s Shape, n int) (Ripple, error) {
	if err := validateShape(s); err != nil {
		return Ripple{}, err
	}
	if err := validateLength(n); err != nil {
		return Ripple{}, err
	}

	r := Ripple{
		Shape:       s,
		Design:      s.Design(),
		GainSumMin:  math.Inf(1),
		GainSumMax:  math.Inf(-1),
		PowerSumMin: math.Inf(1),
		PowerSumMax: math.Inf(-1),
	}

	for i := range n {
		x := float64(i) / float64(n)
		y := x + 0.5
		if y >= 1 {
			y--
		}

		a := Eval(s, x)
		b := Eval(s, y)

		gain := a + b
		power := a*a + b*b

		r.GainSumMin = math.Min(r.GainSumMin, gain)
		r.GainSumMax = math.Max(r.GainSumMax, gain)
		r.PowerSumMin = math.Min(r.PowerSumMin, power)
		r.PowerSumMax = math.Max(r.PowerSumMax, power)
	}

	lo, hi := r.GainSumMin, r.GainSumMax
	if r.Design == ConstantPower {
		lo, hi = r.PowerSumMin, r.PowerSumMax
	}
	r.Deviation = math.Max(math.Abs(1-lo), math.Abs(hi-1))

	return r, nil
}
