package svf

import (
	"fmt"
	"math"
)

const (
	// DefaultFrequencyCoefficient is the constructor default for f, a moderate
	// low cutoff (roughly fs/31).
	DefaultFrequencyCoefficient = 0.2
	// DefaultQ is the constructor default for q, the maximally flat
	// Butterworth-like damping.
	DefaultQ = math.Sqrt2
)

// CutoffCoefficient converts a corner frequency and sample rate into the
// frequency coefficient consumed by the filter:
//
//	f = 2 * sin(pi * cornerHz / sampleRateHz)
//
// The mapping is exact for the Chamberlin topology. Corner frequencies
// approaching or exceeding Nyquist yield coefficients at or beyond the
// stability bound; no validation is performed.
func CutoffCoefficient(cornerHz, sampleRateHz float64) float64 {
	return 2 * math.Sin(math.Pi*cornerHz/sampleRateHz)
}

// State contains the filter runtime state for save/restore workflows.
//
// Lowpass, Highpass, Bandpass and Notch hold the outputs of the most recent
// update; S1 and S2 hold the two most recent raw input samples consumed by
// the input-smoothing pre-filter. The zero value is the reset state.
type State struct {
	Lowpass  float64
	Highpass float64
	Bandpass float64
	Notch    float64
	S1       float64
	S2       float64
}

// Outputs holds all four responses produced by a single update.
type Outputs struct {
	Lowpass  float64
	Highpass float64
	Bandpass float64
	Bandstop float64
}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	f         float64
	q         float64
	smoothing bool
}

func defaultConfig() config {
	return config{
		f:         DefaultFrequencyCoefficient,
		q:         DefaultQ,
		smoothing: true,
	}
}

// WithFrequencyCoefficient sets the initial frequency coefficient directly.
// Useful range is (0, 2); must be finite.
func WithFrequencyCoefficient(f float64) Option {
	return func(cfg *config) error {
		if !isFinite(f) {
			return fmt.Errorf("svf: frequency coefficient must be finite: %v", f)
		}

		cfg.f = f

		return nil
	}
}

// WithCutoff derives the initial frequency coefficient from a corner
// frequency and sample rate via [CutoffCoefficient].
func WithCutoff(cornerHz, sampleRateHz float64) Option {
	return func(cfg *config) error {
		if !isFinite(sampleRateHz) || sampleRateHz <= 0 {
			return fmt.Errorf("svf: sample rate must be > 0 and finite: %v", sampleRateHz)
		}

		if !isFinite(cornerHz) {
			return fmt.Errorf("svf: corner frequency must be finite: %v", cornerHz)
		}

		cfg.f = CutoffCoefficient(cornerHz, sampleRateHz)

		return nil
	}
}

// WithQ sets the initial damping coefficient. Lower values increase
// resonance; must be finite.
func WithQ(q float64) Option {
	return func(cfg *config) error {
		if !isFinite(q) {
			return fmt.Errorf("svf: q coefficient must be finite: %v", q)
		}

		cfg.q = q

		return nil
	}
}

// WithInputSmoothing enables or disables the double-zero-at-Nyquist FIR
// pre-filter on the raw input. Enabled by default.
func WithInputSmoothing(enabled bool) Option {
	return func(cfg *config) error {
		cfg.smoothing = enabled
		return nil
	}
}

// Filter is a Chamberlin state-variable filter.
//
// It is stateful and deterministic. Methods must not be called concurrently
// for the same instance; give each stream its own Filter.
type Filter struct {
	f         float64
	q         float64
	smoothing bool

	state State
}

// New constructs a state-variable filter. Without options the filter uses
// f = [DefaultFrequencyCoefficient], q = [DefaultQ] and input smoothing
// enabled, with all state registers at zero.
func New(opts ...Option) (*Filter, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Filter{
		f:         cfg.f,
		q:         cfg.q,
		smoothing: cfg.smoothing,
	}, nil
}

// FrequencyCoefficient returns the current frequency coefficient.
func (f *Filter) FrequencyCoefficient() float64 { return f.f }

// Q returns the current damping coefficient.
func (f *Filter) Q() float64 { return f.q }

// InputSmoothing reports whether the FIR input pre-filter is active.
func (f *Filter) InputSmoothing() bool { return f.smoothing }

// SetFrequencyCoefficient replaces the frequency coefficient used by
// subsequent updates. No validation is performed; the caller is responsible
// for keeping (f, q) inside the stable region.
func (f *Filter) SetFrequencyCoefficient(coefficient float64) {
	f.f = coefficient
}

// SetQ replaces the damping coefficient used by subsequent updates.
// No validation is performed.
func (f *Filter) SetQ(q float64) {
	f.q = q
}

// SetCutoff replaces the frequency coefficient with one derived from a
// corner frequency and sample rate via [CutoffCoefficient].
func (f *Filter) SetCutoff(cornerHz, sampleRateHz float64) {
	f.f = CutoffCoefficient(cornerHz, sampleRateHz)
}

// Reset clears all state registers and the raw input history.
func (f *Filter) Reset() {
	f.state = State{}
}

// State returns a copy of the current filter state.
func (f *Filter) State() State {
	return f.state
}

// SetState restores an externally saved filter state.
func (f *Filter) SetState(state State) error {
	if !stateIsFinite(state) {
		return fmt.Errorf("svf: state contains NaN or Inf")
	}

	f.state = state

	return nil
}

// Tick advances the filter by one sample and returns all four outputs.
//
// The update recomputes highpass, bandpass, lowpass and notch in sequence,
// each stage consuming the values already produced earlier in the same call.
// This in-call coupling is what gives the two-multiply topology its
// 12 dB/octave slope.
func (f *Filter) Tick(sample float64) Outputs {
	s := &f.state

	x := sample
	if f.smoothing {
		x = (sample + 2*s.S1 + s.S2) * 0.25
	}

	// History tracks the raw input, not the smoothed value.
	s.S2 = s.S1
	s.S1 = sample

	s.Highpass = x - s.Lowpass - f.q*s.Bandpass
	s.Bandpass += f.f * s.Highpass
	s.Lowpass += f.f * s.Bandpass
	s.Notch = s.Lowpass + s.Highpass

	return Outputs{
		Lowpass:  s.Lowpass,
		Highpass: s.Highpass,
		Bandpass: s.Bandpass,
		Bandstop: s.Notch,
	}
}

// Update advances the filter by one sample and returns the output selected
// by response. An out-of-range response fails before the state is advanced.
func (f *Filter) Update(sample float64, response Response) (float64, error) {
	if !validResponse(response) {
		return 0, fmt.Errorf("svf: invalid response: %d", int(response))
	}

	out := f.Tick(sample)

	switch response {
	case ResponseLowpass:
		return out.Lowpass, nil
	case ResponseHighpass:
		return out.Highpass, nil
	case ResponseBandpass:
		return out.Bandpass, nil
	default:
		return out.Bandstop, nil
	}
}

// ProcessInPlace filters a mono buffer in place using the given response.
func (f *Filter) ProcessInPlace(buf []float64, response Response) error {
	if !validResponse(response) {
		return fmt.Errorf("svf: invalid response: %d", int(response))
	}

	for i, x := range buf {
		y, err := f.Update(x, response)
		if err != nil {
			return err
		}

		buf[i] = y
	}

	return nil
}

// ProcessTo filters src into dst using the given response. Both slices must
// have the same length.
func (f *Filter) ProcessTo(dst, src []float64, response Response) error {
	if len(dst) != len(src) {
		return fmt.Errorf("svf: dst length %d does not match src length %d", len(dst), len(src))
	}

	if !validResponse(response) {
		return fmt.Errorf("svf: invalid response: %d", int(response))
	}

	for i, x := range src {
		y, err := f.Update(x, response)
		if err != nil {
			return err
		}

		dst[i] = y
	}

	return nil
}

// ImpulseResponse computes n samples of the impulse response for the given
// response by feeding a unit impulse through the filter. The filter state is
// saved and restored, so this method does not disturb a running stream.
func (f *Filter) ImpulseResponse(n int, response Response) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("svf: impulse response length must be > 0: %d", n)
	}

	if !validResponse(response) {
		return nil, fmt.Errorf("svf: invalid response: %d", int(response))
	}

	saved := f.state
	f.Reset()

	ir := make([]float64, n)

	y, err := f.Update(1, response)
	if err != nil {
		f.state = saved
		return nil, err
	}

	ir[0] = y

	for i := 1; i < n; i++ {
		y, err = f.Update(0, response)
		if err != nil {
			f.state = saved
			return nil, err
		}

		ir[i] = y
	}

	f.state = saved

	return ir, nil
}

func stateIsFinite(state State) bool {
	return isFinite(state.Lowpass) &&
		isFinite(state.Highpass) &&
		isFinite(state.Bandpass) &&
		isFinite(state.Notch) &&
		isFinite(state.S1) &&
		isFinite(state.S2)
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
