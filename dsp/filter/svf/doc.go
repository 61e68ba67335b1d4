// Package svf implements the Chamberlin digital state-variable filter.
//
// The topology comes from Hal Chamberlin's "Musical Applications of
// Microprocessors": two cascaded integrators inside a feedback loop produce
// lowpass, highpass and bandpass responses simultaneously at 12 dB/octave,
// with a notch (bandstop) output formed as the sum of lowpass and highpass.
// Tuning needs only two scalar coefficients:
//
//   - f: per-sample frequency coefficient, derived from a corner frequency
//     via f = 2*sin(pi*fc/fs) (see [CutoffCoefficient])
//   - q: damping coefficient; lower values increase resonance near cutoff
//
// An optional FIR pre-filter with a double zero at Nyquist smooths the raw
// input, compensating for the topology's weak high-frequency rejection. It is
// enabled by default and can be disabled with [WithInputSmoothing] to obtain
// the plain historical update.
//
// The filter performs no stability policing beyond finiteness checks at
// construction. Keeping (f, q) inside the stable region is the caller's
// responsibility; coefficients derived from corner frequencies approaching
// Nyquist will make the recursion oscillate or diverge.
//
// All four outputs are computed on every update regardless of which response
// is requested, so switching responses mid-stream is free and glitchless.
// Each Filter owns its state exclusively; use one instance per stream, or
// [Stereo] for a channel pair.
package svf
