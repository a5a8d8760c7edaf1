package label

import (
	"fmt"
	"strconv"
	"strings"
)

// Sentinel is the out-of-band "no neighbor" value used in serialized
// labels, borrowed from the HTS label convention. It is never a legal
// phoneme symbol or pitch-class digit, so it cannot collide with real data.
const Sentinel = "xx"

// Config is the immutable generation configuration threaded through
// Generate. The note-key fields of every label carry NoteKey verbatim;
// absolute pitch is never encoded.
type Config struct {
	NoteKey int
}

// DefaultConfig returns the stock dialect settings.
func DefaultConfig() Config {
	return Config{NoteKey: 120}
}

// PitchDelta is a relative pitch-class field. Valid is false when no voiced
// neighbor exists in that direction; the sentinel is out-of-band, never a
// reserved class number.
type PitchDelta struct {
	Class int // 0..11
	Valid bool
}

func (d PitchDelta) String() string {
	if !d.Valid {
		return Sentinel
	}
	return strconv.Itoa(d.Class)
}

// ContextLabel is one full-context record of the label stream. Its grammar
// is a strict subset of the HTS full-context format: phrase, beat and
// measure context are omitted, note-key fields are fixed, and rests are
// first-class entries carrying the pause symbol.
type ContextLabel struct {
	Start int64 // 100 ns units
	End   int64

	Prev string // Sentinel at the stream head
	Cur  string
	Next string // Sentinel at the stream tail

	Rest bool

	PosInNote   int // 1-based index within the owning note, 0 on rests
	NumInNote   int // token count of the owning note, 0 on rests
	NoteInitial bool
	NoteFinal   bool
	Geminate    bool // syllable carries a fused sokuon

	PrevDelta PitchDelta
	NextDelta PitchDelta

	NoteKey int
}

// String serializes the label as one line of the stream format the
// inference engine consumes.
func (l ContextLabel) String() string {
	return fmt.Sprintf("%d %d %s-%s+%s/A:%d_%d_%d_%d_%d/E:%s_%s/K:%d",
		l.Start, l.End,
		l.Prev, l.Cur, l.Next,
		l.PosInNote, l.NumInNote, flag(l.NoteInitial), flag(l.NoteFinal), flag(l.Geminate),
		l.PrevDelta, l.NextDelta,
		l.NoteKey,
	)
}

// Lines joins a label sequence into the file content handed to the engine.
func Lines(labels []ContextLabel) string {
	var b strings.Builder
	for _, l := range labels {
		b.WriteString(l.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// CountVoiced returns the number of non-rest labels.
func CountVoiced(labels []ContextLabel) int {
	n := 0
	for _, l := range labels {
		if !l.Rest {
			n++
		}
	}
	return n
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
