// Package spectrum provides helpers over complex spectrum bins produced by
// external FFT backends.
//
// The package intentionally does not implement FFT itself.
package spectrum

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Magnitude returns |X[k]| for each complex spectrum bin.
//
// The magnitudes are computed with SIMD-optimized kernels when available.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re := make([]float64, len(in))
	im := make([]float64, len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)

	return out
}

// Power returns |X[k]|^2 for each complex spectrum bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re := make([]float64, len(in))
	im := make([]float64, len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(out, re, im)

	return out
}

// MagnitudeDB converts linear magnitudes to dB (20*log10 convention).
// Zero magnitudes map to -Inf.
func MagnitudeDB(magnitude []float64) []float64 {
	if len(magnitude) == 0 {
		return nil
	}

	out := make([]float64, len(magnitude))
	for i, v := range magnitude {
		if v <= 0 {
			out[i] = math.Inf(-1)
			continue
		}

		out[i] = 20 * math.Log10(v)
	}

	return out
}

// HalfSpectrum returns the non-negative-frequency bins [0..Nyquist] of a
// full FFT output, length fftSize/2 + 1.
func HalfSpectrum(full []complex128) []complex128 {
	if len(full) == 0 {
		return nil
	}

	n := len(full)/2 + 1

	return full[:n]
}

// BinFrequencies returns the center frequency in Hz of each bin of a
// one-sided spectrum with binCount bins at the given sample rate.
func BinFrequencies(binCount int, sampleRate float64) []float64 {
	if binCount <= 0 {
		return nil
	}

	out := make([]float64, binCount)
	if binCount == 1 {
		return out
	}

	step := sampleRate / float64(2*(binCount-1))
	for i := range out {
		out[i] = float64(i) * step
	}

	return out
}
