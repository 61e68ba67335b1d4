// Package response estimates the magnitude frequency response of a running
// state-variable filter by noise excitation.
//
// The measurement feeds deterministic, DC-free white noise through the
// filter, windows both the excitation and the filtered block, transforms
// both with a forward FFT and reports the per-bin magnitude ratio in dB.
// Because the same noise realization drives numerator and denominator, the
// ratio tracks |H(f)| directly up to window leakage; no spectrum averaging
// is required.
//
// The DC bin is unreliable by construction (the excitation mean is removed)
// and is excluded from cutoff estimation.
package response
