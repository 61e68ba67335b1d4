package svf

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-svf/internal/testutil"
)

func TestNewDefaults(t *testing.T) {
	f, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if f.FrequencyCoefficient() != DefaultFrequencyCoefficient {
		t.Fatalf("default f = %v, want %v", f.FrequencyCoefficient(), DefaultFrequencyCoefficient)
	}

	if f.Q() != DefaultQ {
		t.Fatalf("default q = %v, want %v", f.Q(), DefaultQ)
	}

	if !f.InputSmoothing() {
		t.Fatal("input smoothing must default to enabled")
	}

	if f.State() != (State{}) {
		t.Fatalf("initial state must be zero: %+v", f.State())
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(WithFrequencyCoefficient(math.NaN())); err == nil {
		t.Fatal("expected error for NaN frequency coefficient")
	}

	if _, err := New(WithQ(math.Inf(1))); err == nil {
		t.Fatal("expected error for infinite q")
	}

	if _, err := New(WithCutoff(1000, 0)); err == nil {
		t.Fatal("expected error for zero sample rate")
	}

	if _, err := New(WithCutoff(math.NaN(), 48000)); err == nil {
		t.Fatal("expected error for NaN corner frequency")
	}
}

func TestCutoffCoefficient(t *testing.T) {
	got := CutoffCoefficient(1000, 48000)
	want := 2 * math.Sin(math.Pi*1000/48000)

	if math.Abs(got-want) > 1e-15 {
		t.Fatalf("CutoffCoefficient(1000, 48000) = %v, want %v", got, want)
	}

	// Published reference value for this corner/sample rate pair.
	if math.Abs(got-0.1305) > 1e-3 {
		t.Fatalf("CutoffCoefficient(1000, 48000) = %v, want ~0.1305", got)
	}
}

func TestWithCutoffMatchesCutoffCoefficient(t *testing.T) {
	f, err := New(WithCutoff(1000, 48000))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got, want := f.FrequencyCoefficient(), CutoffCoefficient(1000, 48000); got != want {
		t.Fatalf("f = %v, want %v", got, want)
	}
}

func TestNotchInvariant(t *testing.T) {
	f, err := New(WithCutoff(2000, 48000), WithQ(0.7))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 4096; i++ {
		out := f.Tick(rng.Float64()*2 - 1)

		// Exact by construction, not a tolerance comparison.
		if out.Bandstop != out.Lowpass+out.Highpass {
			t.Fatalf("sample %d: bandstop %v != lowpass %v + highpass %v",
				i, out.Bandstop, out.Lowpass, out.Highpass)
		}
	}
}

func TestZeroInputFixedPoint(t *testing.T) {
	f, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 1000; i++ {
		out := f.Tick(0)
		if out != (Outputs{}) {
			t.Fatalf("sample %d: zero input produced nonzero output %+v", i, out)
		}
	}
}

func TestZeroFrequencyCoefficientKeepsRecursivePathSilent(t *testing.T) {
	f, err := New(WithFrequencyCoefficient(0))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 1000; i++ {
		out := f.Tick(rng.Float64()*2 - 1)

		// With f=0 the integrators never accumulate.
		if out.Lowpass != 0 || out.Bandpass != 0 {
			t.Fatalf("sample %d: f=0 produced lowpass %v bandpass %v",
				i, out.Lowpass, out.Bandpass)
		}
	}
}

func TestImpulseResponseBoundedAndDamped(t *testing.T) {
	const n = 10000

	f, err := New(WithCutoff(1000, 48000), WithQ(2))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	lp, err := f.ImpulseResponse(n, ResponseLowpass)
	if err != nil {
		t.Fatalf("ImpulseResponse() error = %v", err)
	}

	for i, v := range lp {
		if math.Abs(v) > 10 {
			t.Fatalf("lowpass sample %d unbounded: %v", i, v)
		}

		// Critically damped setting: the lowpass impulse response decays
		// without changing sign.
		if v < -1e-9 {
			t.Fatalf("lowpass sample %d changed sign: %v", i, v)
		}
	}

	if tail := math.Abs(lp[n-1]); tail > 1e-9 {
		t.Fatalf("lowpass tail did not decay: %v", tail)
	}

	f.Reset()

	hp, err := f.ImpulseResponse(n, ResponseHighpass)
	if err != nil {
		t.Fatalf("ImpulseResponse() error = %v", err)
	}

	for i, v := range hp {
		if math.Abs(v) > 10 {
			t.Fatalf("highpass sample %d unbounded: %v", i, v)
		}
	}

	if tail := math.Abs(hp[n-1]); tail > 1e-9 {
		t.Fatalf("highpass tail did not decay: %v", tail)
	}
}

func TestDefaultQStaysBounded(t *testing.T) {
	f, err := New(WithCutoff(1000, 48000))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ir, err := f.ImpulseResponse(10000, ResponseLowpass)
	if err != nil {
		t.Fatalf("ImpulseResponse() error = %v", err)
	}

	testutil.RequireFinite(t, ir)

	for i, v := range ir {
		if math.Abs(v) > 10 {
			t.Fatalf("sample %d unbounded: %v", i, v)
		}
	}
}

func TestNotchBandstopAliasEquivalence(t *testing.T) {
	notch, err := ParseResponse("notch")
	if err != nil {
		t.Fatalf("ParseResponse(notch) error = %v", err)
	}

	bandstop, err := ParseResponse("bandstop")
	if err != nil {
		t.Fatalf("ParseResponse(bandstop) error = %v", err)
	}

	if notch != bandstop {
		t.Fatalf("notch (%v) and bandstop (%v) must select the same output", notch, bandstop)
	}

	f1, err := New(WithCutoff(3000, 48000))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	f2, err := New(WithCutoff(3000, 48000))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 512; i++ {
		x := rng.Float64()*2 - 1

		y1, err := f1.Update(x, notch)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		y2, err := f2.Update(x, bandstop)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		if y1 != y2 {
			t.Fatalf("sample %d: notch %v != bandstop %v", i, y1, y2)
		}
	}
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		label string
		want  Response
	}{
		{label: "lowpass", want: ResponseLowpass},
		{label: "HIGHPASS", want: ResponseHighpass},
		{label: "Bandpass", want: ResponseBandpass},
		{label: "bandstop", want: ResponseBandstop},
		{label: "notch", want: ResponseBandstop},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ParseResponse(tt.label)
			if err != nil {
				t.Fatalf("ParseResponse(%q) error = %v", tt.label, err)
			}

			if got != tt.want {
				t.Fatalf("ParseResponse(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}

	if _, err := ParseResponse("foo"); err == nil {
		t.Fatal("expected error for unrecognized label")
	}
}

func TestUpdateRejectsInvalidResponse(t *testing.T) {
	f, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	before := f.State()

	if _, err := f.Update(1, Response(7)); err == nil {
		t.Fatal("expected error for out-of-range response")
	}

	if f.State() != before {
		t.Fatal("failed update must not advance filter state")
	}
}

func TestResponseString(t *testing.T) {
	tests := []struct {
		response Response
		want     string
	}{
		{response: ResponseLowpass, want: "lowpass"},
		{response: ResponseHighpass, want: "highpass"},
		{response: ResponseBandpass, want: "bandpass"},
		{response: ResponseBandstop, want: "bandstop"},
		{response: Response(42), want: "unknown"},
	}

	for _, tt := range tests {
		if got := tt.response.String(); got != tt.want {
			t.Fatalf("Response(%d).String() = %q, want %q", int(tt.response), got, tt.want)
		}
	}
}

func TestTickMatchesReferenceRecursion(t *testing.T) {
	const (
		fc = 0.18
		qc = 1.1
	)

	f, err := New(WithFrequencyCoefficient(fc), WithQ(qc))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var lp, hp, bp, s1, s2 float64

	rng := rand.New(rand.NewSource(23))

	for i := 0; i < 2048; i++ {
		u := rng.Float64()*2 - 1

		x := (u + 2*s1 + s2) * 0.25
		s2 = s1
		s1 = u

		hp = x - lp - qc*bp
		bp += fc * hp
		lp += fc * bp
		np := lp + hp

		out := f.Tick(u)
		if out.Lowpass != lp || out.Highpass != hp || out.Bandpass != bp || out.Bandstop != np {
			t.Fatalf("sample %d: got %+v, want lp=%v hp=%v bp=%v bs=%v",
				i, out, lp, hp, bp, np)
		}
	}
}

func TestInputSmoothingDisabledMatchesRawRecursion(t *testing.T) {
	const (
		fc = 0.25
		qc = 1.5
	)

	f, err := New(WithFrequencyCoefficient(fc), WithQ(qc), WithInputSmoothing(false))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if f.InputSmoothing() {
		t.Fatal("expected smoothing to be disabled")
	}

	var lp, hp, bp float64

	rng := rand.New(rand.NewSource(29))

	for i := 0; i < 1024; i++ {
		u := rng.Float64()*2 - 1

		hp = u - lp - qc*bp
		bp += fc * hp
		lp += fc * bp

		out := f.Tick(u)
		if out.Lowpass != lp || out.Highpass != hp || out.Bandpass != bp {
			t.Fatalf("sample %d: got %+v, want lp=%v hp=%v bp=%v", i, out, lp, hp, bp)
		}
	}

	// History still tracks raw input so smoothing can be toggled via state.
	st := f.State()
	if st.S1 == 0 && st.S2 == 0 {
		t.Fatal("raw input history must be tracked with smoothing disabled")
	}
}

func TestSettersReplaceCoefficients(t *testing.T) {
	f, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	f.SetFrequencyCoefficient(0.5)
	if f.FrequencyCoefficient() != 0.5 {
		t.Fatalf("f = %v, want 0.5", f.FrequencyCoefficient())
	}

	f.SetQ(0.9)
	if f.Q() != 0.9 {
		t.Fatalf("q = %v, want 0.9", f.Q())
	}

	f.SetCutoff(1000, 48000)
	if got, want := f.FrequencyCoefficient(), CutoffCoefficient(1000, 48000); got != want {
		t.Fatalf("f = %v, want %v", got, want)
	}
}

func TestStateRoundTrip(t *testing.T) {
	f, err := New(WithCutoff(2500, 48000), WithQ(1.2))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 256; i++ {
		f.Tick(math.Sin(2 * math.Pi * float64(i) / 37))
	}

	clone, err := New(WithCutoff(2500, 48000), WithQ(1.2))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := clone.SetState(f.State()); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}

	for i := 0; i < 256; i++ {
		x := math.Sin(2*math.Pi*float64(i)/31) + 0.2*math.Sin(2*math.Pi*float64(i)/7)

		if y1, y2 := f.Tick(x), clone.Tick(x); y1 != y2 {
			t.Fatalf("sample %d: state mismatch %+v vs %+v", i, y1, y2)
		}
	}
}

func TestSetStateRejectsNonFinite(t *testing.T) {
	f, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	st := State{Bandpass: math.NaN()}
	if err := f.SetState(st); err == nil {
		t.Fatal("expected error for non-finite state")
	}

	st = State{S2: math.Inf(-1)}
	if err := f.SetState(st); err == nil {
		t.Fatal("expected error for non-finite history")
	}
}

func TestResetClearsState(t *testing.T) {
	f, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	f.Tick(1)
	f.Reset()

	if f.State() != (State{}) {
		t.Fatalf("state after Reset() = %+v, want zero", f.State())
	}
}

func TestProcessInPlaceMatchesUpdate(t *testing.T) {
	f1, err := New(WithCutoff(4000, 48000))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	f2, err := New(WithCutoff(4000, 48000))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	in := make([]float64, 384)
	for i := range in {
		in[i] = 0.65*math.Sin(2*math.Pi*float64(i)/47) + 0.12*math.Sin(2*math.Pi*float64(i)/11)
	}

	want := make([]float64, len(in))
	for i, x := range in {
		y, err := f1.Update(x, ResponseBandpass)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		want[i] = y
	}

	got := append([]float64(nil), in...)
	if err := f2.ProcessInPlace(got, ResponseBandpass); err != nil {
		t.Fatalf("ProcessInPlace() error = %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, got, want, 0)
}

func TestProcessToValidation(t *testing.T) {
	f, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := f.ProcessTo(make([]float64, 3), make([]float64, 4), ResponseLowpass); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}

	if err := f.ProcessTo(make([]float64, 4), make([]float64, 4), Response(-1)); err == nil {
		t.Fatal("expected error for invalid response")
	}
}

func TestImpulseResponsePreservesState(t *testing.T) {
	f, err := New(WithCutoff(2000, 48000))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 64; i++ {
		f.Tick(math.Sin(2 * math.Pi * float64(i) / 13))
	}

	saved := f.State()

	if _, err := f.ImpulseResponse(512, ResponseLowpass); err != nil {
		t.Fatalf("ImpulseResponse() error = %v", err)
	}

	if f.State() != saved {
		t.Fatal("ImpulseResponse() must restore the running state")
	}

	if _, err := f.ImpulseResponse(0, ResponseLowpass); err == nil {
		t.Fatal("expected error for non-positive length")
	}

	if _, err := f.ImpulseResponse(16, Response(9)); err == nil {
		t.Fatal("expected error for invalid response")
	}
}

func TestStereoIndependentChannels(t *testing.T) {
	s, err := NewStereo(WithCutoff(1500, 48000))
	if err != nil {
		t.Fatalf("NewStereo() error = %v", err)
	}

	mono, err := New(WithCutoff(1500, 48000))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 256; i++ {
		x := math.Sin(2 * math.Pi * float64(i) / 17)

		l, r, err := s.Update(x, 0, ResponseLowpass)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		want, err := mono.Update(x, ResponseLowpass)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		if l != want {
			t.Fatalf("sample %d: left %v, want %v", i, l, want)
		}

		if r != 0 {
			t.Fatalf("sample %d: silent right channel produced %v", i, r)
		}
	}

	s.Reset()
	if s.Left().State() != (State{}) || s.Right().State() != (State{}) {
		t.Fatal("Reset() must clear both channels")
	}
}

func TestStereoProcessInPlaceValidation(t *testing.T) {
	s, err := NewStereo()
	if err != nil {
		t.Fatalf("NewStereo() error = %v", err)
	}

	if err := s.ProcessInPlace(make([]float64, 2), make([]float64, 3), ResponseLowpass); err == nil {
		t.Fatal("expected error for mismatched channel lengths")
	}
}
