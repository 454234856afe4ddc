package indexer

import (
	"strings"
	"unicode"

	"github.com/hyperjump/jiten/internal/japanese"
	"github.com/hyperjump/jiten/internal/models"
)

// Preprocess normalizes text for storage (width folding, trim, collapse whitespace).
func Preprocess(text string) string {
	text = strings.TrimSpace(japanese.Normalize(text))
	var b strings.Builder
	wasSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !wasSpace {
				b.WriteRune(' ')
				wasSpace = true
			}
		} else {
			b.WriteRune(r)
			wasSpace = false
		}
	}
	return b.String()
}

func preprocessAll(list []string) []string {
	out := list[:0]
	for _, s := range list {
		if s = Preprocess(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func preprocessWord(w *models.Word) {
	for i := range w.Senses {
		w.Senses[i].Glosses = preprocessAll(w.Senses[i].Glosses)
	}
}

func preprocessKanji(k *models.Kanji) {
	k.Meanings = preprocessAll(k.Meanings)
}

func preprocessSentence(s *models.Sentence) {
	s.Japanese = strings.TrimSpace(s.Japanese)
	for lang, tr := range s.Translations {
		s.Translations[lang] = Preprocess(tr)
	}
}

func preprocessName(n *models.Name) {
	n.Transcription = Preprocess(n.Transcription)
}
