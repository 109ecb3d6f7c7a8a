package separate

import (
	"context"
	"fmt"

	"github.com/asato99w/vocal-mastery-lab/audioio"
	"github.com/asato99w/vocal-mastery-lab/dsp/stft"
)

// State is the orchestrator's position in the separation pipeline.
type State int

const (
	// StateIdle is the initial state; Separate has not run.
	StateIdle State = iota
	// StateLoaded means the input has been conformed to stereo at the
	// pipeline sample rate.
	StateLoaded
	// StateTransformed means both channels have been analyzed.
	StateTransformed
	// StateMasked means inference ran and masks were applied.
	StateMasked
	// StateReconstructed means every stem has been synthesized back to
	// time-domain samples.
	StateReconstructed
	// StateDone means the output buffers were assembled; the orchestrator
	// is spent.
	StateDone
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoaded:
		return "loaded"
	case StateTransformed:
		return "transformed"
	case StateMasked:
		return "masked"
	case StateReconstructed:
		return "reconstructed"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Orchestrator drives one separation run end to end: conform the input,
// analyze, chunk, infer, mask, reassemble, synthesize.
//
// An Orchestrator is single-use: Separate advances the state machine from
// idle to done and a second call fails. Build a new one per input.
type Orchestrator struct {
	cfg    Config
	engine Engine
	state  State
}

// NewOrchestrator creates an orchestrator for one separation run.
//
// The engine's tensor contract must fit the transform settings: chunk frames
// must equal cfg.ChunkFrames and the predicted bin count must not exceed the
// transform's frameSize/2+1 bins.
func NewOrchestrator(cfg Config, engine Engine) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if engine == nil {
		return nil, fmt.Errorf("%w: engine required", ErrConfiguration)
	}

	shape := engine.Shape()
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.Frames != cfg.ChunkFrames {
		return nil, fmt.Errorf("%w: engine expects %d-frame chunks, configuration says %d",
			ErrConfiguration, shape.Frames, cfg.ChunkFrames)
	}
	if maxBins := cfg.FrameSize/2 + 1; shape.Bins > maxBins {
		return nil, fmt.Errorf("%w: engine predicts %d bins, transform produces only %d",
			ErrConfiguration, shape.Bins, maxBins)
	}

	return &Orchestrator{cfg: cfg, engine: engine, state: StateIdle}, nil
}

// State returns the orchestrator's current pipeline state.
func (o *Orchestrator) State() State { return o.state }

// Separate runs the full pipeline on input and returns one buffer per stem,
// keyed by stem name.
//
// The input is duplicated to stereo if mono and resampled to the configured
// rate if needed; the input buffer itself is never modified. Outputs are
// stereo at the configured sample rate. Output length equals the input
// length rounded down to a whole hop.
//
// Cancellation is checked between inference chunks, so a canceled context
// stops the run within one chunk's work.
func (o *Orchestrator) Separate(ctx context.Context, input *audioio.Buffer) (map[string]*audioio.Buffer, error) {
	if o.state != StateIdle {
		return nil, fmt.Errorf("%w: orchestrator already ran (state %s)", ErrConfiguration, o.state)
	}

	stereo, err := o.load(input)
	if err != nil {
		return nil, err
	}
	o.state = StateLoaded

	proc, err := stft.New(o.cfg.FrameSize, o.cfg.HopSize, stft.WithWindow(o.cfg.Window))
	if err != nil {
		return nil, err
	}
	left, err := proc.Analyze(stereo.Data[0])
	if err != nil {
		return nil, err
	}
	right, err := proc.Analyze(stereo.Data[1])
	if err != nil {
		return nil, err
	}
	o.state = StateTransformed

	maskL, maskR, err := o.infer(ctx, left, right)
	if err != nil {
		return nil, err
	}

	stems := make(map[string][2]*stft.Spectrogram, 2)

	maskedL, err := ApplyMask(left, maskL, o.cfg.MaskMode, o.cfg.HighBins)
	if err != nil {
		return nil, err
	}
	maskedR, err := ApplyMask(right, maskR, o.cfg.MaskMode, o.cfg.HighBins)
	if err != nil {
		return nil, err
	}
	stems[o.cfg.StemName] = [2]*stft.Spectrogram{maskedL, maskedR}

	if o.cfg.EmitComplement {
		compL, err := Complement(maskL)
		if err != nil {
			return nil, err
		}
		compR, err := Complement(maskR)
		if err != nil {
			return nil, err
		}
		restL, err := ApplyMask(left, compL, o.cfg.MaskMode, o.cfg.HighBins)
		if err != nil {
			return nil, err
		}
		restR, err := ApplyMask(right, compR, o.cfg.MaskMode, o.cfg.HighBins)
		if err != nil {
			return nil, err
		}
		stems[o.cfg.ComplementName] = [2]*stft.Spectrogram{restL, restR}
	}
	o.state = StateMasked

	// The inverse transform reconstructs whole hops only; a trailing
	// partial hop of the input is dropped.
	outLen := min(stereo.Frames(), (left.Frames()-1)*o.cfg.HopSize)

	out := make(map[string]*audioio.Buffer, len(stems))
	for name, pair := range stems {
		buf, err := o.reconstruct(proc, pair[0], pair[1], outLen)
		if err != nil {
			return nil, fmt.Errorf("stem %q: %w", name, err)
		}
		out[name] = buf
	}
	o.state = StateReconstructed

	o.state = StateDone
	return out, nil
}

// load conforms the input to stereo samples at the pipeline sample rate.
func (o *Orchestrator) load(input *audioio.Buffer) (*audioio.Buffer, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input buffer required", ErrConfiguration)
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.Frames() == 0 {
		return nil, fmt.Errorf("%w: input buffer is empty", ErrConfiguration)
	}

	stereo, err := audioio.EnsureStereo(input)
	if err != nil {
		return nil, err
	}
	return audioio.Resample(stereo, o.cfg.SampleRate)
}

// infer splits both channel spectrograms into chunks, runs the engine on
// each, and reassembles the predictions into full-length mask spectrograms.
func (o *Orchestrator) infer(ctx context.Context, left, right *stft.Spectrogram) (maskL, maskR *stft.Spectrogram, err error) {
	shape := o.engine.Shape()

	chunks, err := ToChunks(left, right, shape)
	if err != nil {
		return nil, nil, err
	}

	masks := make([]*Chunk, 0, len(chunks))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		mask, err := o.engine.Predict(ctx, chunk)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: chunk %d of %d: %v", ErrInference, i+1, len(chunks), err)
		}
		if err := mask.CheckShape(shape); err != nil {
			return nil, nil, fmt.Errorf("chunk %d of %d: %w", i+1, len(chunks), err)
		}
		masks = append(masks, mask)
	}

	return FromChunks(masks, shape, left.Frames())
}

// reconstruct synthesizes one stereo stem from its masked spectrograms.
func (o *Orchestrator) reconstruct(proc *stft.Processor, left, right *stft.Spectrogram, outLen int) (*audioio.Buffer, error) {
	samplesL, err := proc.Synthesize(left, outLen)
	if err != nil {
		return nil, err
	}
	samplesR, err := proc.Synthesize(right, outLen)
	if err != nil {
		return nil, err
	}

	return &audioio.Buffer{
		Data:       [][]float64{samplesL, samplesR},
		SampleRate: o.cfg.SampleRate,
	}, nil
}
