package label

import (
	"math"

	"github.com/ayasono/utagoe/internal/lyric"
	"github.com/ayasono/utagoe/internal/sequence"
)

// hundredNanosPerMs converts the score's millisecond times to the 100 ns
// units the label format uses.
const hundredNanosPerMs = 10000

// entry is one position of the flattened label stream. Rests flatten to a
// single entry carrying the pause symbol, which is what makes the
// rest-adjacency rule fall out of a uniform walk: the phoneme neighbors of
// a note beside a rest are the rest itself, never the voiced note beyond.
type entry struct {
	seg      *sequence.Segment
	tokenIdx int
	symbol   string
	start    int64
	end      int64
}

// Generate walks the segment sequence and emits one label per phoneme plus
// one per rest. Phoneme identity neighbors come from the flattened stream;
// pitch neighbors skip rests and fall back to the sentinel at the edges.
func Generate(segs []*sequence.Segment, cfg Config) []ContextLabel {
	entries := flatten(segs)

	labels := make([]ContextLabel, len(entries))
	for i, e := range entries {
		l := ContextLabel{
			Start:   e.start,
			End:     e.end,
			Cur:     e.symbol,
			Prev:    Sentinel,
			Next:    Sentinel,
			NoteKey: cfg.NoteKey,
		}
		if i > 0 {
			l.Prev = entries[i-1].symbol
		}
		if i < len(entries)-1 {
			l.Next = entries[i+1].symbol
		}

		if e.seg.IsRest() {
			l.Rest = true
		} else {
			l.PosInNote = e.tokenIdx + 1
			l.NumInNote = len(e.seg.Tokens)
			l.NoteInitial = e.tokenIdx == 0
			l.NoteFinal = e.tokenIdx == len(e.seg.Tokens)-1
			l.Geminate = e.seg.Tokens[e.tokenIdx].Geminate
			l.PrevDelta = deltaTo(e.seg, e.seg.PrevVoiced())
			l.NextDelta = deltaTo(e.seg, e.seg.NextVoiced())
		}

		labels[i] = l
	}
	return labels
}

func flatten(segs []*sequence.Segment) []entry {
	var entries []entry
	for _, s := range segs {
		if s.IsRest() {
			entries = append(entries, entry{
				seg:    s,
				symbol: lyric.Pause,
				start:  toLabelTime(s.Note.Start),
				end:    toLabelTime(s.Note.End),
			})
			continue
		}
		// each phoneme gets an even slice of its note's span; the engine's
		// timelag and duration stages refine timing downstream
		n := len(s.Tokens)
		span := s.Note.Duration() / float64(n)
		for i, tok := range s.Tokens {
			entries = append(entries, entry{
				seg:      s,
				tokenIdx: i,
				symbol:   tok.Symbol,
				start:    toLabelTime(s.Note.Start + float64(i)*span),
				end:      toLabelTime(s.Note.Start + float64(i+1)*span),
			})
		}
	}
	return entries
}

// deltaTo computes the pitch-class delta from cur to neighbor, discarding
// octave information. A missing neighbor yields the invalid delta.
func deltaTo(cur, neighbor *sequence.Segment) PitchDelta {
	if neighbor == nil {
		return PitchDelta{}
	}
	d := (neighbor.Note.Pitch - cur.Note.Pitch) % 12
	if d < 0 {
		d += 12
	}
	return PitchDelta{Class: d, Valid: true}
}

func toLabelTime(ms float64) int64 {
	return int64(math.Round(ms * hundredNanosPerMs))
}
