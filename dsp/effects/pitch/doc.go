// Package pitch provides a real-time pitch shifter built on a variable
// delay line.
//
// Two taps read the input history at delays that sweep across a short
// window. A sweeping delay changes the playback rate of what a tap hears,
// which shifts its pitch by the ratio r when the delay changes by 1-r
// samples per sample. Each tap jumps back across the window once per
// phasor cycle; the jump is hidden by a crossfade gain that is zero at
// the cycle boundary, while the other tap, half a cycle away, carries the
// signal at full gain.
//
// [Shifter] is the block processor. It allocates in [Shifter.Prepare] only
// and performs O(1) work per sample in [Shifter.ProcessBlock]. Control
// threads change settings through the lock-free [Params].
//
// The mapping helpers ([PhasorFrequency], [TapPhases], [TapDelay],
// [ResolveWindowMs]) and [Mixer] are exported so hosts and tests can reason
// about the per-sample trajectory without running audio.
package pitch
