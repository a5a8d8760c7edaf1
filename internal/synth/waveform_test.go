package synth

import (
	"math"
	"testing"
)

func TestEstimateBitDepth(t *testing.T) {
	tests := []struct {
		maxGain float64
		want    string
	}{
		{0.5, "float"},
		{1.0, "float"},
		{8.0, "float"},
		{9.0, "int16"},
		{32767, "int16"},
		{8388608, "int16"},
		{8388609, "int32"},
		{2147483647, "int32"},
	}

	for _, tt := range tests {
		if got := estimateBitDepth(tt.maxGain); got != tt.want {
			t.Errorf("estimateBitDepth(%.0f) = %q, want %q", tt.maxGain, got, tt.want)
		}
	}
}

func TestNormalizeInt16Scale(t *testing.T) {
	data := normalize([]float64{16384, -32767, 100}, false)
	if math.Abs(data[1]-(-1.0)) > 1e-9 {
		t.Errorf("peak sample = %f, want -1.0", data[1])
	}
	if math.Abs(data[0]-16384.0/32767) > 1e-9 {
		t.Errorf("sample 0 = %f, want %f", data[0], 16384.0/32767)
	}
}

func TestNormalizeFloatPassthrough(t *testing.T) {
	data := normalize([]float64{0.5, -0.25}, false)
	if data[0] != 0.5 || data[1] != -0.25 {
		t.Errorf("float data should pass through unchanged: %v", data)
	}
}

func TestNormalizeGain(t *testing.T) {
	data := normalize([]float64{0.5, -0.25}, true)
	if math.Abs(data[0]-1.0) > 1e-9 {
		t.Errorf("gain-normalized peak = %f, want 1.0", data[0])
	}
	if math.Abs(data[1]-(-0.5)) > 1e-9 {
		t.Errorf("gain-normalized sample 1 = %f, want -0.5", data[1])
	}
}

func TestWaveformDuration(t *testing.T) {
	w := &Waveform{Data: make([]float64, 4410), SampleRate: 44100}
	if d := w.Duration(); math.Abs(d-100) > 1e-9 {
		t.Errorf("Duration = %f ms, want 100", d)
	}
}
