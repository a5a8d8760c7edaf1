package sequence

import (
	"fmt"

	"github.com/ayasono/utagoe/internal/lyric"
	"github.com/ayasono/utagoe/internal/score"
)

// SequenceError reports a structural impossibility in the note sequence,
// such as a sokuon with nothing to attach to.
type SequenceError struct {
	NoteIndex int
	Msg       string
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("sequence error at note %d: %s", e.NoteIndex, e.Msg)
}

// Build tokenizes each note and assembles the ordered segment sequence.
//
// Rest notes become rest segments, with adjacent rests coalesced into one.
// A lone-sokuon lyric is fused onto the immediately preceding voiced
// segment as a geminate token; there is no preceding voiced segment if the
// previous segment is a rest, and override lyrics are merge-opaque, so both
// cases fail with SequenceError. Lyric errors are surfaced with the
// offending note's position.
func Build(notes []score.Note) ([]*Segment, error) {
	var segs []*Segment

	for _, n := range notes {
		if n.IsRest() {
			if len(segs) > 0 && segs[len(segs)-1].IsRest() {
				// coalesce: extend the previous rest
				segs[len(segs)-1].Note.End = n.End
				continue
			}
			segs = append(segs, &Segment{Kind: Rest, Note: n})
			continue
		}

		tok, err := lyric.Tokenize(n.Lyric)
		if err != nil {
			return nil, fmt.Errorf("note %d (%q): %w", n.Index, n.Lyric, err)
		}

		if tok.PendingSokuon {
			if err := mergeSokuon(segs, n); err != nil {
				return nil, err
			}
			continue
		}

		segs = append(segs, &Segment{Kind: Voiced, Note: n, Tokens: tok.Tokens})
	}

	link(segs)
	return segs, nil
}

// mergeSokuon fuses a lone sokuon note onto the previous voiced segment's
// final token as a geminate marker, extending that segment's span over the
// sokuon note. The sokuon's own token is consumed: one token stands for
// the merged two-note unit.
func mergeSokuon(segs []*Segment, n score.Note) error {
	if len(segs) == 0 {
		return &SequenceError{NoteIndex: n.Index, Msg: "sokuon with no preceding voiced note"}
	}
	prev := segs[len(segs)-1]
	if prev.IsRest() {
		return &SequenceError{NoteIndex: n.Index, Msg: "sokuon immediately after a rest"}
	}
	last := &prev.Tokens[len(prev.Tokens)-1]
	if last.Override {
		return &SequenceError{NoteIndex: n.Index, Msg: "sokuon cannot attach to a direct phoneme input note"}
	}
	last.Geminate = true
	prev.Note.End = n.End
	return nil
}

func link(segs []*Segment) {
	for i, s := range segs {
		if i > 0 {
			s.Prev = segs[i-1]
		}
		if i < len(segs)-1 {
			s.Next = segs[i+1]
		}
	}
}
