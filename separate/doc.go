// Package separate implements mask-based source separation on top of the
// short-time transform pipeline.
//
// A separation run analyzes a stereo signal into two spectrograms, slices
// them into fixed-shape chunks for an inference Engine, applies the predicted
// masks, and synthesizes one time-domain buffer per stem. The Orchestrator
// type drives the whole pipeline; the chunking, masking, and engine pieces
// are usable on their own.
package separate
