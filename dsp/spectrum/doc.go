// Package spectrum measures the frequency content of rendered audio.
//
// [Analyzer] computes Hann-windowed magnitude spectra with algo-fft.
// [DominantFrequency] locates the strongest partial of a signal and
// [ToneLevel] measures the amplitude of one known frequency with the
// Goertzel recursion. These are used to check pitch-shifted output and to
// feed the HTML report.
package spectrum
