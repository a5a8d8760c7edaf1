package sequence

import (
	"github.com/ayasono/utagoe/internal/lyric"
	"github.com/ayasono/utagoe/internal/score"
)

// Kind discriminates voiced segments from rests.
type Kind int

const (
	Voiced Kind = iota
	Rest
)

// Segment is one unit of the walked note sequence: a voiced note with its
// phoneme tokens, or an explicit silence. Prev/Next are non-owning
// adjacency references, set once by Build.
type Segment struct {
	Kind   Kind
	Note   score.Note
	Tokens []lyric.PhonemeToken

	Prev *Segment
	Next *Segment
}

// IsRest reports whether the segment is silence.
func (s *Segment) IsRest() bool {
	return s.Kind == Rest
}

// PrevVoiced returns the nearest voiced segment before s, skipping rests,
// or nil if none exists. Pitch lookups treat rests as transparent.
func (s *Segment) PrevVoiced() *Segment {
	for p := s.Prev; p != nil; p = p.Prev {
		if !p.IsRest() {
			return p
		}
	}
	return nil
}

// NextVoiced returns the nearest voiced segment after s, skipping rests,
// or nil if none exists.
func (s *Segment) NextVoiced() *Segment {
	for n := s.Next; n != nil; n = n.Next {
		if !n.IsRest() {
			return n
		}
	}
	return nil
}
