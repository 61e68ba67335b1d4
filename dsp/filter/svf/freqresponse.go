package svf

import (
	"fmt"
	"math"
	"math/cmplx"
)

// ResponseAt computes the complex frequency response H(e^jw) of the filter
// for the given output at the given frequency (Hz) and sample rate (Hz),
// using the current (f, q) coefficients and smoothing setting.
//
// The transfer functions follow from the z-domain solution of the update
// equations. With d = 1 - z^-1 and D = d^2 + q*f*z^-1*d + f^2*z^-1:
//
//	H_hp = d^2 / D
//	H_bp = f*d / D
//	H_lp = f^2 / D
//	H_bs = (d^2 + f^2) / D
//
// each multiplied by the smoothing pre-filter (1 + z^-1)^2 / 4 when input
// smoothing is enabled.
func (f *Filter) ResponseAt(response Response, freqHz, sampleRateHz float64) (complex128, error) {
	if !validResponse(response) {
		return 0, fmt.Errorf("svf: invalid response: %d", int(response))
	}

	if sampleRateHz <= 0 {
		return 0, fmt.Errorf("svf: sample rate must be > 0: %v", sampleRateHz)
	}

	w := 2 * math.Pi * freqHz / sampleRateHz
	zInv := cmplx.Exp(complex(0, -w))

	fc := complex(f.f, 0)
	qc := complex(f.q, 0)

	d := 1 - zInv
	den := d*d + qc*fc*zInv*d + fc*fc*zInv

	var num complex128

	switch response {
	case ResponseLowpass:
		num = fc * fc
	case ResponseHighpass:
		num = d * d
	case ResponseBandpass:
		num = fc * d
	default:
		num = d*d + fc*fc
	}

	h := num / den
	if f.smoothing {
		h *= (1 + zInv) * (1 + zInv) * 0.25
	}

	return h, nil
}

// MagnitudeDB returns 20*log10(|H(f)|) for the given output.
func (f *Filter) MagnitudeDB(response Response, freqHz, sampleRateHz float64) (float64, error) {
	h, err := f.ResponseAt(response, freqHz, sampleRateHz)
	if err != nil {
		return 0, err
	}

	return 20 * math.Log10(cmplx.Abs(h)), nil
}

// PhaseAt returns the phase response in radians for the given output.
// The result is in [-pi, pi], consistent with the H(e^{-jw}) convention.
func (f *Filter) PhaseAt(response Response, freqHz, sampleRateHz float64) (float64, error) {
	h, err := f.ResponseAt(response, freqHz, sampleRateHz)
	if err != nil {
		return 0, err
	}

	return cmplx.Phase(h), nil
}
