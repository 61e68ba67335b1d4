package response

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-svf/dsp/core"
	"github.com/cwbudde/algo-svf/dsp/filter/svf"
	"github.com/cwbudde/algo-svf/dsp/signal"
	"github.com/cwbudde/algo-svf/dsp/spectrum"
	"github.com/cwbudde/algo-svf/dsp/window"
)

const (
	defaultFFTSize   = 4096
	defaultAmplitude = 1.0
	defaultSeed      = 1
)

// Config holds measurement parameters.
type Config struct {
	// SampleRate in Hz; defaults to the shared processor default when zero.
	SampleRate float64
	// FFTSize is the excitation block length; must be a power of two.
	// Defaults to 4096 when zero.
	FFTSize int
	// Amplitude of the noise excitation; defaults to 1.
	Amplitude float64
	// Seed of the deterministic noise source; defaults to 1.
	Seed int64
	// Window applied before both transforms; defaults to Blackman.
	Window window.Type
}

// Result holds a measured magnitude response.
type Result struct {
	// Frequencies holds the bin center frequencies in Hz, DC to Nyquist.
	Frequencies []float64
	// MagnitudeDB holds the per-bin response estimate in dB.
	MagnitudeDB []float64
	// CutoffHz is the -3 dB corner estimated from the measured curve.
	// Only populated for lowpass and highpass measurements.
	CutoffHz float64
}

func normalizeConfig(cfg Config) Config {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = core.DefaultProcessorConfig().SampleRate
	}

	if cfg.FFTSize == 0 {
		cfg.FFTSize = defaultFFTSize
	}

	if cfg.Amplitude == 0 {
		cfg.Amplitude = defaultAmplitude
	}

	if cfg.Seed == 0 {
		cfg.Seed = defaultSeed
	}

	if cfg.Window == 0 {
		cfg.Window = window.TypeBlackman
	}

	return cfg
}

// Measure estimates the magnitude response of filter for the given response
// selection. The filter state is saved and restored, so measuring does not
// disturb a running stream.
func Measure(filter *svf.Filter, resp svf.Response, cfg Config) (Result, error) {
	if filter == nil {
		return Result{}, fmt.Errorf("response: filter must not be nil")
	}

	cfg = normalizeConfig(cfg)

	if cfg.SampleRate <= 0 || !core.IsFinite(cfg.SampleRate) {
		return Result{}, fmt.Errorf("response: sample rate must be > 0 and finite: %v", cfg.SampleRate)
	}

	if cfg.FFTSize < 2 || cfg.FFTSize&(cfg.FFTSize-1) != 0 {
		return Result{}, fmt.Errorf("response: FFT size must be a power of two >= 2: %d", cfg.FFTSize)
	}

	gen := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(cfg.SampleRate)},
		signal.WithSeed(cfg.Seed),
	)

	noise, err := gen.WhiteNoise(cfg.Amplitude, cfg.FFTSize)
	if err != nil {
		return Result{}, fmt.Errorf("response: noise generation failed: %w", err)
	}

	signal.RemoveDC(noise)

	saved := filter.State()
	filter.Reset()

	filtered := make([]float64, len(noise))

	err = filter.ProcessTo(filtered, noise, resp)
	if err != nil {
		if restoreErr := filter.SetState(saved); restoreErr != nil {
			return Result{}, restoreErr
		}

		return Result{}, err
	}

	if err := filter.SetState(saved); err != nil {
		return Result{}, err
	}

	coeffs := window.Generate(cfg.Window, cfg.FFTSize, window.WithPeriodic())

	if err := window.ApplyCoefficientsInPlace(noise, coeffs); err != nil {
		return Result{}, err
	}

	if err := window.ApplyCoefficientsInPlace(filtered, coeffs); err != nil {
		return Result{}, err
	}

	refMag, err := magnitudeSpectrum(noise)
	if err != nil {
		return Result{}, err
	}

	outMag, err := magnitudeSpectrum(filtered)
	if err != nil {
		return Result{}, err
	}

	db := make([]float64, len(outMag))
	for i := range db {
		if refMag[i] == 0 {
			db[i] = math.NaN()
			continue
		}

		db[i] = core.LinearToDB(outMag[i] / refMag[i])
	}

	res := Result{
		Frequencies: spectrum.BinFrequencies(len(db), cfg.SampleRate),
		MagnitudeDB: db,
	}

	if resp == svf.ResponseLowpass || resp == svf.ResponseHighpass {
		res.CutoffHz = estimateCutoff(res.Frequencies, db, resp)
	}

	return res, nil
}

func magnitudeSpectrum(block []float64) ([]float64, error) {
	plan, err := algofft.NewPlan64(len(block))
	if err != nil {
		return nil, fmt.Errorf("response: failed to create FFT plan: %w", err)
	}

	in := make([]complex128, len(block))
	for i, v := range block {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, len(block))

	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("response: forward FFT failed: %w", err)
	}

	return spectrum.Magnitude(spectrum.HalfSpectrum(out)), nil
}

// estimateCutoff finds the -3 dB point relative to the passband peak.
// The scan runs away from the passband: upward in frequency for lowpass,
// downward for highpass. The DC bin is excluded.
func estimateCutoff(freqs, db []float64, resp svf.Response) float64 {
	if len(db) < 3 {
		return 0
	}

	peakBin := 1
	for i := 2; i < len(db); i++ {
		if !math.IsNaN(db[i]) && db[i] > db[peakBin] {
			peakBin = i
		}
	}

	target := db[peakBin] - 3

	if resp == svf.ResponseLowpass {
		for i := peakBin + 1; i < len(db); i++ {
			if db[i] <= target {
				return crossing(freqs[i-1], freqs[i], db[i-1], db[i], target)
			}
		}

		return 0
	}

	for i := peakBin - 1; i >= 1; i-- {
		if db[i] <= target {
			return crossing(freqs[i+1], freqs[i], db[i+1], db[i], target)
		}
	}

	return 0
}

// crossing linearly interpolates the frequency at which the response passes
// through target between two neighboring bins.
func crossing(fInside, fOutside, dbInside, dbOutside, target float64) float64 {
	if dbOutside == dbInside {
		return fOutside
	}

	t := (target - dbInside) / (dbOutside - dbInside)

	return fInside + core.Clamp(t, 0, 1)*(fOutside-fInside)
}
