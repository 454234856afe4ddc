package search

import (
	"strings"

	"github.com/hyperjump/jiten/internal/japanese"
	"github.com/hyperjump/jiten/internal/models"
)

// wordFilter keeps words matching every tag of q.
func wordFilter(q *models.Query) func(*models.Word) bool {
	return func(w *models.Word) bool {
		for _, t := range q.Tags {
			switch t.Kind {
			case models.TagJLPT:
				if w.JLPT != t.Level {
					return false
				}
			case models.TagGenkiLesson:
				if w.GenkiLesson != t.Level {
					return false
				}
			case models.TagPartOfSpeech:
				if !w.HasPOS(t.POS) {
					return false
				}
			case models.TagMisc:
				if !w.HasMisc(t.Misc) {
					return false
				}
			case models.TagIrregularIruEru:
				if !w.IrregularIchidan {
					return false
				}
			}
		}
		return true
	}
}

// kanjiReadingFilter keeps words written with literal whose kana reading
// contains reading.
func kanjiReadingFilter(literal, reading string) func(*models.Word) bool {
	return func(w *models.Word) bool {
		if !strings.Contains(w.Reading(), literal) {
			return false
		}
		return strings.Contains(japanese.KatakanaToHiragana(w.Kana.Reading), reading)
	}
}

// sentenceFilter keeps sentences translated into the user language, or into
// English when enabled.
func sentenceFilter(settings models.UserSettings) func(*models.Sentence) bool {
	return func(s *models.Sentence) bool {
		if _, ok := s.Translation(settings.UserLanguage); ok {
			return true
		}
		if settings.ShowEnglish {
			_, ok := s.Translation(models.English)
			return ok
		}
		return false
	}
}

// splitKanjiReading splits a "<kanji> <reading>" query. The reading is
// returned in hiragana with okurigana markers removed.
func splitKanjiReading(text string) (literal, reading string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) != 2 || !japanese.IsSingleKanji(fields[0]) {
		return "", "", false
	}
	reading = strings.NewReplacer(".", "", "-", "").Replace(fields[1])
	return fields[0], japanese.KatakanaToHiragana(reading), reading != ""
}

// furiganaReadings returns the readings annotated on literal in furigana
// written as "[漢字|かん|じ]" blocks.
func furiganaReadings(furigana, literal string) []string {
	var out []string
	for {
		start := strings.IndexByte(furigana, '[')
		if start < 0 {
			return out
		}
		end := strings.IndexByte(furigana[start:], ']')
		if end < 0 {
			return out
		}
		block := furigana[start+1 : start+end]
		furigana = furigana[start+end+1:]

		parts := strings.Split(block, "|")
		if len(parts) < 2 || !strings.Contains(parts[0], literal) {
			continue
		}
		out = append(out, strings.Join(parts[1:], ""))
	}
}

// sentenceReadingFilter keeps sentences where literal is read as reading.
// Sentences without furigana only need to contain literal.
func sentenceReadingFilter(literal, reading string) func(*models.Sentence) bool {
	return func(s *models.Sentence) bool {
		if !strings.Contains(s.Japanese, literal) {
			return false
		}
		if s.Furigana == "" {
			return true
		}
		for _, r := range furiganaReadings(s.Furigana, literal) {
			if strings.Contains(japanese.KatakanaToHiragana(r), reading) {
				return true
			}
		}
		return false
	}
}
