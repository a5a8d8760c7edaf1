package synth

// Waveform is the decoded synthesis result: mono samples normalized to
// [-1, 1] regardless of the bit depth the model was trained at.
type Waveform struct {
	Data       []float64
	SampleRate int

	// Timing holds the engine's realized phoneme timing file, when the
	// engine produced one, for writing beside the output WAV.
	Timing string
}

// Duration returns the waveform length in milliseconds.
func (w *Waveform) Duration() float64 {
	if w.SampleRate == 0 {
		return 0
	}
	return float64(len(w.Data)) / float64(w.SampleRate) * 1000
}

// bit-depth thresholds, matching how the engine's float output scales when
// the model was trained on int16 or int32 waveforms
const (
	int32Threshold = 8388608
	int16Threshold = 8
)

// estimateBitDepth guesses the training-data bit depth from the output's
// peak amplitude.
func estimateBitDepth(maxGain float64) string {
	if maxGain > int32Threshold {
		return "int32"
	}
	if maxGain > int16Threshold {
		return "int16"
	}
	return "float"
}

// normalize rescales samples to [-1, 1] according to the estimated training
// bit depth, optionally gain-normalizing to full scale afterwards.
func normalize(data []float64, gainNormalize bool) []float64 {
	maxGain := 0.0
	for _, v := range data {
		if a := abs(v); a > maxGain {
			maxGain = a
		}
	}

	var scale float64
	switch estimateBitDepth(maxGain) {
	case "int32":
		scale = 1.0 / 2147483647
	case "int16":
		scale = 1.0 / 32767
	default:
		scale = 1
	}

	if gainNormalize && maxGain > 0 {
		scale = 1.0 / maxGain
	}

	if scale != 1 {
		for i := range data {
			data[i] *= scale
		}
	}
	return data
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
