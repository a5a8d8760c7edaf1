// Package wavio persists a rendered waveform beside the originating score
// file under a deterministic derived name.
package wavio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ayasono/utagoe/internal/synth"
	"github.com/ayasono/utagoe/pkg/utils"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// IOWriteError reports a filesystem failure while writing output. Any
// partial file is removed before the error is returned.
type IOWriteError struct {
	Path string
	Err  error
}

func (e *IOWriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *IOWriteError) Unwrap() error { return e.Err }

// DerivedPath computes the destination for a render of scorePath: same
// directory, score basename plus a timestamp suffix. Concurrent renders of
// the same score at the same second are last-writer-wins.
func DerivedPath(scorePath string, now time.Time) string {
	dir := filepath.Dir(scorePath)
	base := strings.TrimSuffix(filepath.Base(scorePath), filepath.Ext(scorePath))
	return filepath.Join(dir, fmt.Sprintf("%s__%s.wav", base, now.Format("20060102150405")))
}

// Write persists the waveform as 16-bit PCM mono next to the originating
// score file and returns the destination path. The data goes through a
// temp file renamed into place so a failed write never leaves a truncated
// WAV at the destination.
func Write(wave *synth.Waveform, scorePath string) (string, error) {
	dest := DerivedPath(scorePath, time.Now())

	tmpPath := dest + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return "", &IOWriteError{Path: dest, Err: err}
	}

	if err := encode(f, wave); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", &IOWriteError{Path: dest, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", &IOWriteError{Path: dest, Err: err}
	}

	if err := utils.MoveFile(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return "", &IOWriteError{Path: dest, Err: err}
	}

	return dest, nil
}

// WriteTiming stores the engine's realized phoneme timing beside an output
// WAV as a _timing.lab sibling.
func WriteTiming(wavDest, timing string) (string, error) {
	dest := strings.TrimSuffix(wavDest, ".wav") + "_timing.lab"
	if err := os.WriteFile(dest, []byte(timing), 0o644); err != nil {
		os.Remove(dest)
		return "", &IOWriteError{Path: dest, Err: err}
	}
	return dest, nil
}

func encode(f *os.File, wave *synth.Waveform) error {
	intData := make([]int, len(wave.Data))
	for i, sample := range wave.Data {
		if sample > 1 {
			sample = 1
		} else if sample < -1 {
			sample = -1
		}
		intData[i] = int(sample * 32767)
	}

	enc := wav.NewEncoder(f, wave.SampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Data:           intData,
		Format:         &audio.Format{SampleRate: wave.SampleRate, NumChannels: 1},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}
