package wavio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayasono/utagoe/internal/synth"
	"github.com/go-audio/wav"
)

func testWaveform() *synth.Waveform {
	data := make([]float64, 400)
	for i := range data {
		data[i] = float64(i%20-10) / 10
	}
	return &synth.Waveform{Data: data, SampleRate: 8000}
}

func TestDerivedPath(t *testing.T) {
	at := time.Date(2021, 3, 14, 15, 9, 26, 0, time.UTC)
	got := DerivedPath(filepath.Join("songs", "haru.ust"), at)
	want := filepath.Join("songs", "haru__20210314150926.wav")
	if got != want {
		t.Errorf("DerivedPath = %q, want %q", got, want)
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	scorePath := filepath.Join(dir, "haru.ust")

	dest, err := Write(testWaveform(), scorePath)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	if filepath.Dir(dest) != dir {
		t.Errorf("output written to %q, want beside the score in %q", dest, dir)
	}
	base := filepath.Base(dest)
	if !strings.HasPrefix(base, "haru__") || !strings.HasSuffix(base, ".wav") {
		t.Errorf("derived name %q does not match haru__<timestamp>.wav", base)
	}

	f, err := os.Open(dest)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("output is not a valid wav file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if len(buf.Data) != 400 {
		t.Errorf("output has %d samples, want 400", len(buf.Data))
	}
	if buf.Format.SampleRate != 8000 || buf.Format.NumChannels != 1 {
		t.Errorf("output format = %+v, want 8000 Hz mono", buf.Format)
	}

	// no stray temp file
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
}

func TestWriteClampsSamples(t *testing.T) {
	dir := t.TempDir()
	wave := &synth.Waveform{Data: []float64{2.0, -3.0, 0.0}, SampleRate: 8000}

	dest, err := Write(wave, filepath.Join(dir, "clip.ust"))
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	f, err := os.Open(dest)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer f.Close()

	buf, err := wav.NewDecoder(f).FullPCMBuffer()
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if buf.Data[0] != 32767 || buf.Data[1] != -32767 {
		t.Errorf("samples not clamped: %v", buf.Data[:2])
	}
}

func TestWriteFailure(t *testing.T) {
	scorePath := filepath.Join(t.TempDir(), "missing", "deep", "song.ust")

	_, err := Write(testWaveform(), scorePath)
	var ioErr *IOWriteError
	if !errors.As(err, &ioErr) {
		t.Fatalf("got %v, want IOWriteError", err)
	}
}

func TestWriteTiming(t *testing.T) {
	dir := t.TempDir()
	wavDest := filepath.Join(dir, "haru__20210314150926.wav")

	dest, err := WriteTiming(wavDest, "0 5000000 po\n")
	if err != nil {
		t.Fatalf("WriteTiming returned error: %v", err)
	}
	if dest != filepath.Join(dir, "haru__20210314150926_timing.lab") {
		t.Errorf("timing path = %q", dest)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading timing file: %v", err)
	}
	if string(data) != "0 5000000 po\n" {
		t.Errorf("timing content = %q", data)
	}
}
