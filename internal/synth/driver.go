// Package synth adapts the external inference engine: it serializes the
// label stream, invokes the engine as a scoped process, and decodes the
// waveform it produces. Failures surface as SynthesisError without retry;
// a render is expensive but idempotent, so retrying is the host's call.
package synth

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ayasono/utagoe/internal/label"
	"github.com/ayasono/utagoe/internal/voicebank"
	"github.com/ayasono/utagoe/pkg/logger"
	"github.com/go-audio/wav"
	"github.com/google/uuid"
)

// defaultTimeout bounds an engine run when the caller's context carries no
// deadline of its own.
const defaultTimeout = 10 * time.Minute

// EmptyScoreError reports a label stream with no voiced content. It is
// raised here, at the engine boundary, before any process is spawned.
type EmptyScoreError struct{}

func (*EmptyScoreError) Error() string {
	return "score contains no voiced notes, nothing to synthesize"
}

// SynthesisError wraps an engine failure: timeout, non-zero exit, or
// unusable output.
type SynthesisError struct {
	Output string // captured engine stdout/stderr, possibly empty
	Err    error
}

func (e *SynthesisError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("synthesis engine failed: %v (%s)", e.Err, strings.TrimSpace(e.Output))
	}
	return fmt.Sprintf("synthesis engine failed: %v", e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// Driver drives one engine invocation per render.
type Driver struct {
	cfg     *voicebank.Config
	cfgPath string
	log     *logger.Logger
}

// NewDriver returns a driver for the given voicebank. cfgPath is passed to
// the engine verbatim so it can read the document itself (question file,
// dialect flag and model paths are the engine's business, not ours).
func NewDriver(cfgPath string, cfg *voicebank.Config) *Driver {
	return &Driver{cfg: cfg, cfgPath: cfgPath, log: logger.GetLogger()}
}

// Synthesize renders the label sequence to a waveform. The engine runs as a
// single cancellable unit; cancelling the context abandons the run and
// leaves no intermediate files behind.
func (d *Driver) Synthesize(ctx context.Context, labels []label.ContextLabel) (*Waveform, error) {
	if label.CountVoiced(labels) == 0 {
		return nil, &EmptyScoreError{}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	tempDir := d.cfg.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, &SynthesisError{Err: fmt.Errorf("creating temp dir: %w", err)}
	}

	id := uuid.NewString()
	labPath := filepath.Join(tempDir, id+".lab")
	wavPath := filepath.Join(tempDir, id+".wav")
	timingPath := filepath.Join(tempDir, id+"_timing.lab")
	defer os.Remove(labPath)
	defer os.Remove(wavPath)
	defer os.Remove(timingPath)

	if err := os.WriteFile(labPath, []byte(label.Lines(labels)), 0o644); err != nil {
		return nil, &SynthesisError{Err: fmt.Errorf("writing label file: %w", err)}
	}

	d.log.Debugf("Invoking engine %s with %d labels", d.cfg.Engine, len(labels))

	cmd := exec.CommandContext(ctx, d.cfg.Engine, d.cfgPath, labPath, wavPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return nil, &SynthesisError{Output: string(out), Err: ctx.Err()}
		}
		return nil, &SynthesisError{Output: string(out), Err: err}
	}

	wave, err := d.decode(wavPath)
	if err != nil {
		return nil, &SynthesisError{Output: string(out), Err: err}
	}

	// the engine's realized phoneme timing, when it reports one
	if timing, err := os.ReadFile(timingPath); err == nil {
		wave.Timing = string(timing)
	}

	d.log.Infof("Engine produced %d samples at %d Hz", len(wave.Data), wave.SampleRate)
	return wave, nil
}

// decode reads the engine's WAV output into a normalized mono waveform.
func (d *Driver) decode(path string) (*Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("engine produced no output wav: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("engine output %s is not a valid wav file", filepath.Base(path))
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decoding engine output: %w", err)
	}
	if len(buf.Data) == 0 {
		return nil, fmt.Errorf("engine output %s contains no samples", filepath.Base(path))
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	data := make([]float64, 0, len(buf.Data)/channels)
	for i := 0; i < len(buf.Data); i += channels {
		data = append(data, float64(buf.Data[i]))
	}

	sampleRate := buf.Format.SampleRate
	if sampleRate == 0 {
		sampleRate = d.cfg.SampleRate
	}

	return &Waveform{
		Data:       normalize(data, d.cfg.GainNormalize),
		SampleRate: sampleRate,
	}, nil
}
