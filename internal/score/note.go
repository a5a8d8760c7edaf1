package score

// RestPitch is the pitch value a rest note carries. The host marks rests by
// lyric ("R" or empty); the reader normalizes them to this pitch so that
// later stages test one field only.
const RestPitch = 0

// Note is one note of the selected score region, read-only once parsed.
// Times are in milliseconds from the start of the selection.
type Note struct {
	Index int     // position within the selection
	Pitch int     // semitone number, RestPitch for rests
	Start float64 // ms
	End   float64 // ms
	Lyric string  // raw lyric text as the host supplied it
}

// IsRest reports whether the note is silence.
func (n Note) IsRest() bool {
	return n.Pitch == RestPitch
}

// Duration returns the note length in milliseconds.
func (n Note) Duration() float64 {
	return n.End - n.Start
}

// Region is the selected part of a score plus the context needed to place
// the rendered output.
type Region struct {
	Notes       []Note
	Tempo       float64
	ProjectPath string // originating score file, if the host supplied one
}
