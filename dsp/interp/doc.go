// Package interp provides the fractional-read kernels used by delay lines.
//
// Available methods, from cheapest to highest quality:
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite
//
// The [Mode] enum selects the kernel for a [delay.Line] at construction time.
package interp
