package lyric

import (
	"fmt"
	"strings"
)

// PhonemeToken is one phoneme produced from a lyric. Override marks tokens
// that came from direct space-separated phoneme input rather than kana
// decomposition; override tokens are opaque to all kana merge rules.
type PhonemeToken struct {
	Symbol   string
	Override bool
	Geminate bool
}

// Tokenization is the result of parsing one note's lyric. PendingSokuon
// marks a lone sokuon lyric, which carries no tokens of its own and must be
// fused onto the previous voiced note by the sequence builder.
type Tokenization struct {
	Tokens        []PhonemeToken
	PendingSokuon bool
}

// Join renders the tokens back as a direct-input lyric string.
func (t Tokenization) Join() string {
	parts := make([]string, len(t.Tokens))
	for i, tok := range t.Tokens {
		parts[i] = tok.Symbol
	}
	return strings.Join(parts, " ")
}

// InvalidLyricError reports a lyric that cannot be sung at all: empty text
// on a voiced note, or characters outside the kana inventory.
type InvalidLyricError struct {
	Lyric  string
	Reason string
}

func (e *InvalidLyricError) Error() string {
	return fmt.Sprintf("invalid lyric %q: %s", e.Lyric, e.Reason)
}

// UnsupportedLyricError reports a kana combination this tool does not
// accept. Youon and other multi-kana clusters are rejected on purpose; the
// trailing sokuon is the single sanctioned exception.
type UnsupportedLyricError struct {
	Lyric string
}

func (e *UnsupportedLyricError) Error() string {
	return fmt.Sprintf("unsupported lyric %q: multi-kana combinations other than a trailing sokuon are not accepted", e.Lyric)
}

// Tokenize parses a note's lyric into phoneme tokens.
//
// A lyric containing whitespace is direct phoneme input: each field becomes
// one override token and no kana rules apply. Anything else is hiragana
// input: one kana (plus an optional trailing sokuon), or a lone sokuon,
// which yields a PendingSokuon tokenization to be merged by the builder.
func Tokenize(lyric string) (Tokenization, error) {
	if strings.TrimSpace(lyric) == "" {
		return Tokenization{}, &InvalidLyricError{Lyric: lyric, Reason: "empty lyric on a voiced note"}
	}

	if strings.ContainsAny(lyric, " \t") {
		fields := strings.Fields(lyric)
		tokens := make([]PhonemeToken, len(fields))
		for i, f := range fields {
			tokens[i] = PhonemeToken{Symbol: f, Override: true, Geminate: f == Geminate}
		}
		return Tokenization{Tokens: tokens}, nil
	}

	runes := []rune(lyric)

	if runes[0] == sokuon {
		if len(runes) > 1 {
			return Tokenization{}, &UnsupportedLyricError{Lyric: lyric}
		}
		// not an independent token: the builder folds it into the previous
		// voiced note, consuming this token
		return Tokenization{
			PendingSokuon: true,
			Tokens:        []PhonemeToken{{Symbol: Geminate, Geminate: true}},
		}, nil
	}

	trailingSokuon := false
	if runes[len(runes)-1] == sokuon {
		trailingSokuon = true
		runes = runes[:len(runes)-1]
	}

	if len(runes) != 1 {
		// all-hiragana clusters (youon included) are well-formed kana this
		// tool refuses; anything else is not a lyric at all
		for _, r := range runes {
			if !isHiragana(r) {
				return Tokenization{}, &InvalidLyricError{Lyric: lyric, Reason: fmt.Sprintf("character %q is not hiragana", r)}
			}
		}
		return Tokenization{}, &UnsupportedLyricError{Lyric: lyric}
	}

	symbol, ok := kanaSymbols[runes[0]]
	if !ok {
		if isHiragana(runes[0]) {
			return Tokenization{}, &InvalidLyricError{Lyric: lyric, Reason: fmt.Sprintf("kana %q has no standalone phoneme", runes[0])}
		}
		return Tokenization{}, &InvalidLyricError{Lyric: lyric, Reason: fmt.Sprintf("character %q is not hiragana", runes[0])}
	}

	// a trailing sokuon folds into the syllable as a geminate marker; one
	// token still stands for the whole unit
	return Tokenization{Tokens: []PhonemeToken{{Symbol: symbol, Geminate: trailingSokuon}}}, nil
}
