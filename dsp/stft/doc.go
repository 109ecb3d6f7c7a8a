// Package stft implements forward short-time spectral analysis and inverse
// overlap-add synthesis for real-valued audio.
//
// A signal is reflect-padded, sliced into overlapping windowed frames, and
// transformed into half spectra (bins 0..N/2; negative frequencies follow
// from conjugate symmetry and are never stored). Reconstruction runs the
// inverse transform per frame, applies the synthesis window, and normalizes
// every output sample by the summed squared window weight at that position,
// which makes the round trip exact within floating-point tolerance for any
// overlapping window configuration.
//
// The FFT backend is pluggable through the Transform interface; backend
// packing and scaling conventions never leak past it.
package stft
