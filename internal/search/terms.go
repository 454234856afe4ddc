package search

import (
	"strings"

	"github.com/hyperjump/jiten/internal/japanese"
	"github.com/hyperjump/jiten/internal/keyword"
	"github.com/hyperjump/jiten/internal/models"
)

// Terms derives index terms from dictionary records and from queries. The
// indexer and the engines share these functions so that query vectors land
// in the same dimensions as document vectors.
type Terms struct {
	tokenizer japanese.Tokenizer
}

// NewTerms creates a term extractor. A nil tokenizer selects the script
// segmenter.
func NewTerms(tokenizer japanese.Tokenizer) *Terms {
	if tokenizer == nil {
		tokenizer = japanese.NewScriptSegmenter()
	}
	return &Terms{tokenizer: tokenizer}
}

// Foreign returns the lowercase words of text plus the whole phrase when it
// has more than one word.
func (t *Terms) Foreign(text string) []string {
	words := keyword.Words(text)
	if len(words) > 1 {
		words = append(words, strings.Join(words, " "))
	}
	return words
}

// Words returns the lowercase words of text.
func (t *Terms) Words(text string) []string {
	return keyword.Words(text)
}

// Native returns text itself plus its segments.
func (t *Terms) Native(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return appendUnique([]string{text}, t.tokenizer.Tokenize(text)...)
}

// WordForeign returns the gloss terms of w in lang.
func (t *Terms) WordForeign(w *models.Word, lang models.Language) []string {
	var out []string
	for _, g := range w.Glosses(lang) {
		out = appendUnique(out, t.Foreign(g)...)
	}
	return out
}

// WordNative returns the reading terms of w.
func (t *Terms) WordNative(w *models.Word) []string {
	var out []string
	for _, d := range w.Dicts() {
		out = appendUnique(out, t.Native(d.Reading)...)
	}
	return out
}

// SentenceNative returns the segments of the Japanese text.
func (t *Terms) SentenceNative(s *models.Sentence) []string {
	return appendUnique(nil, t.tokenizer.Tokenize(s.Japanese)...)
}

// SentenceForeign returns the words of the translation in lang.
func (t *Terms) SentenceForeign(s *models.Sentence, lang models.Language) []string {
	tr, ok := s.Translation(lang)
	if !ok {
		return nil
	}
	return appendUnique(nil, t.Words(tr)...)
}

// Kanji returns the literal and the meaning terms of k.
func (t *Terms) Kanji(k *models.Kanji) []string {
	out := []string{k.Literal}
	for _, m := range k.Meanings {
		out = appendUnique(out, t.Foreign(m)...)
	}
	return out
}

// NameNative returns the reading terms of n.
func (t *Terms) NameNative(n *models.Name) []string {
	out := t.Native(n.Kana)
	if n.Kanji != "" {
		out = appendUnique(out, t.Native(n.Kanji)...)
	}
	return out
}

// NameForeign returns the transcription terms of n.
func (t *Terms) NameForeign(n *models.Name) []string {
	return t.Foreign(n.Transcription)
}

func appendUnique(dst []string, terms ...string) []string {
	for _, term := range terms {
		if term == "" || contains(dst, term) {
			continue
		}
		dst = append(dst, term)
	}
	return dst
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
