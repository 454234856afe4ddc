package japanese

import (
	"strings"
	"unicode"
)

// Tokenizer splits text into terms.
type Tokenizer interface {
	Tokenize(text string) []string
}

type scriptClass int

const (
	classNone scriptClass = iota
	classKanji
	classHiragana
	classKatakana
	classLatin
	classDigit
)

func classify(r rune) scriptClass {
	switch {
	case IsKanji(r):
		return classKanji
	case IsHiragana(r):
		return classHiragana
	case IsKatakana(r):
		return classKatakana
	case unicode.IsDigit(r):
		return classDigit
	case unicode.IsLetter(r):
		return classLatin
	}
	return classNone
}

// ScriptSegmenter splits text at script boundaries. Spaces and punctuation
// separate segments and are dropped. The prolonged sound mark stays with the
// preceding kana run.
type ScriptSegmenter struct{}

// NewScriptSegmenter returns a segmenter.
func NewScriptSegmenter() *ScriptSegmenter {
	return &ScriptSegmenter{}
}

// Tokenize implements Tokenizer.
func (ScriptSegmenter) Tokenize(text string) []string {
	var (
		out  []string
		cur  strings.Builder
		prev scriptClass
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range text {
		c := classify(r)
		if r == 'ー' && (prev == classHiragana || prev == classKatakana) {
			c = prev
		}
		if c == classNone {
			flush()
			prev = classNone
			continue
		}
		if c != prev {
			flush()
		}
		cur.WriteRune(r)
		prev = c
	}
	flush()
	return out
}
