package lyric

// Phoneme symbols shared across the pipeline. Hiragana lyrics decompose at
// syllable-unit granularity; direct phoneme input may inject arbitrary
// symbols.
const (
	// Pause is the phoneme identity a rest contributes to the label stream.
	Pause = "pau"

	// Geminate is the consonant-doubling phoneme produced by a sokuon.
	Geminate = "cl"

	// MoraicNasal is the phoneme for ん.
	MoraicNasal = "N"
)

// kanaSymbols maps a single hiragana to its phoneme symbol. Multi-kana
// combinations are deliberately absent: the only multi-kana form this tool
// accepts is a trailing sokuon, handled by the tokenizer.
var kanaSymbols = map[rune]string{
	'あ': "a", 'い': "i", 'う': "u", 'え': "e", 'お': "o",
	'か': "ka", 'き': "ki", 'く': "ku", 'け': "ke", 'こ': "ko",
	'が': "ga", 'ぎ': "gi", 'ぐ': "gu", 'げ': "ge", 'ご': "go",
	'さ': "sa", 'し': "shi", 'す': "su", 'せ': "se", 'そ': "so",
	'ざ': "za", 'じ': "ji", 'ず': "zu", 'ぜ': "ze", 'ぞ': "zo",
	'た': "ta", 'ち': "chi", 'つ': "tsu", 'て': "te", 'と': "to",
	'だ': "da", 'ぢ': "ji", 'づ': "zu", 'で': "de", 'ど': "do",
	'な': "na", 'に': "ni", 'ぬ': "nu", 'ね': "ne", 'の': "no",
	'は': "ha", 'ひ': "hi", 'ふ': "fu", 'へ': "he", 'ほ': "ho",
	'ば': "ba", 'び': "bi", 'ぶ': "bu", 'べ': "be", 'ぼ': "bo",
	'ぱ': "pa", 'ぴ': "pi", 'ぷ': "pu", 'ぺ': "pe", 'ぽ': "po",
	'ま': "ma", 'み': "mi", 'む': "mu", 'め': "me", 'も': "mo",
	'や': "ya", 'ゆ': "yu", 'よ': "yo",
	'ら': "ra", 'り': "ri", 'る': "ru", 'れ': "re", 'ろ': "ro",
	'わ': "wa", 'を': "o", 'ん': MoraicNasal,
	'ゔ': "vu",
	// small vowels stand alone in UTAU lyrics as vowel continuations
	'ぁ': "a", 'ぃ': "i", 'ぅ': "u", 'ぇ': "e", 'ぉ': "o",
}

// sokuon is the small tsu, never a phoneme by itself.
const sokuon = 'っ'

// isHiragana reports whether r falls in the hiragana block proper
// (ぁ..ゖ). Small youon kana are hiragana even though they carry no
// standalone phoneme.
func isHiragana(r rune) bool {
	return r >= 'ぁ' && r <= 'ゖ'
}
