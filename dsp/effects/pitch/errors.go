package pitch

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors returned by the block entry points. They are checked
// once per block.
var (
	ErrNotPrepared  = errors.New("pitch: shifter is not prepared")
	ErrChannelCount = errors.New("pitch: channel count does not match configuration")
	ErrBlockSize    = errors.New("pitch: block size exceeds prepared maximum or buffer length")
)

func validateRange(name string, v, lo, hi float64) error {
	if v < lo || v > hi || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("pitch shifter %s must be in [%g, %g]: %f", name, lo, hi, v)
	}
	return nil
}

func validatePositive(name string, v float64) error {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("pitch shifter %s must be > 0 and finite: %f", name, v)
	}
	return nil
}
