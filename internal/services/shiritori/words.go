package shiritori

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/mcoot/shiritorimatch-go/internal/model"
)

// openingChars is the candidate set for the randomly drawn first character
// of a match. ん and を are excluded since no word may be required to start
// with them.
var openingChars = []rune("あいうえおかきくけこさしすせそたちつてとなにぬねのはひふへほまみむめもやゆよらりるれろわ")

const (
	longVowelMark = 'ー'
	losingMora    = "ん"
)

// smallKana maps small kana to the base form used when chaining to the next
// word
var smallKana = map[rune]rune{
	'ぁ': 'あ', 'ぃ': 'い', 'ぅ': 'う', 'ぇ': 'え', 'ぉ': 'お',
	'っ': 'つ', 'ゃ': 'や', 'ゅ': 'ゆ', 'ょ': 'よ', 'ゎ': 'わ',
}

// normalizeWord folds an answer into canonical hiragana: half-width
// katakana is widened, voiced sound marks are composed into their
// precomposed kana, then katakana is shifted into the hiragana block.
// The long-vowel mark is left as-is.
func normalizeWord(word string) string {
	// Widen maps half-width dakuten/handakuten to the combining marks
	// U+3099/U+309A; NFC folds e.g. コ+U+3099 into ゴ
	widened := norm.NFC.String(width.Widen.String(word))
	var b strings.Builder
	b.Grow(len(widened))
	for _, r := range widened {
		if r >= 'ァ' && r <= 'ヶ' {
			r -= 'ァ' - 'ぁ'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// validateWord checks a normalized answer: at least two characters, nothing
// outside hiragana and the long-vowel mark
func validateWord(word string) error {
	runes := []rune(word)
	if len(runes) <= 1 {
		return fmt.Errorf("%w: too short", model.ErrInvalidWord)
	}
	for _, r := range runes {
		if r == longVowelMark {
			continue
		}
		if r < 'ぁ' || r > 'ゖ' {
			return fmt.Errorf("%w: %q is not kana", model.ErrInvalidWord, r)
		}
	}
	return nil
}

// trailingChar returns the character the next answer must start with:
// trailing long-vowel marks are dropped, small kana map to their base form,
// and を maps to お
func trailingChar(word string) string {
	runes := []rune(word)
	i := len(runes) - 1
	for i > 0 && runes[i] == longVowelMark {
		i--
	}
	r := runes[i]
	if base, ok := smallKana[r]; ok {
		r = base
	}
	if r == 'を' {
		r = 'お'
	}
	return string(r)
}
