package shiritori

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWord(t *testing.T) {
	testCases := []struct {
		name     string
		word     string
		expected string
	}{
		{"hiragana unchanged", "りんご", "りんご"},
		{"katakana to hiragana", "リンゴ", "りんご"},
		{"half-width katakana", "ｱｲｽ", "あいす"},
		{"half-width with dakuten", "ﾘﾝｺﾞ", "りんご"},
		{"half-width with handakuten", "ﾍﾟﾝｷ", "ぺんき"},
		{"combining voiced mark", "りんご", "りんご"},
		{"long vowel mark kept", "リレー", "りれー"},
		{"mixed scripts", "りンご", "りんご"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, normalizeWord(tc.word))
		})
	}
}

func TestValidateWord(t *testing.T) {
	testCases := []struct {
		name  string
		word  string
		valid bool
	}{
		{"valid word", "りんご", true},
		{"with long vowel mark", "りれー", true},
		{"empty", "", false},
		{"single char", "り", false},
		{"latin letters", "ringo", false},
		{"contains space", "り ん", false},
		{"kanji", "林檎", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateWord(tc.word)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestTrailingChar(t *testing.T) {
	testCases := []struct {
		name     string
		word     string
		expected string
	}{
		{"plain", "りんご", "ご"},
		{"drops trailing long vowel", "りれー", "れ"},
		{"drops repeated long vowels", "ふりーー", "り"},
		{"small kana to base", "りきしゃ", "や"},
		{"small tsu to base", "ばけっ", "つ"},
		{"wo to o", "かれを", "お"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, trailingChar(tc.word))
		})
	}
}
