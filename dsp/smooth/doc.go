// Package smooth provides one-pole parameter smoothing for control values
// that change at block rate but must be applied at sample rate.
//
// The smoothing coefficient follows the musicdsp "1 pole LPF for smooth
// parameter changes" recipe:
//
//	a = exp(-2π / (timeMs * 0.001 * sampleRate))
//	y = target*(1-a) + previous*a
//
// One step must be taken per sample. Stepping once per block changes the
// effective smoothing time by the block length.
package smooth
