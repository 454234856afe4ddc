package search

import (
	"math"
	"strings"

	"github.com/hyperjump/jiten/internal/engine"
	"github.com/hyperjump/jiten/internal/models"
)

// Relevance bonuses added on top of the similarity score.
const (
	exactMatchBonus    = 50
	commonWordBonus    = 10
	userLanguageBonus  = 5
	translationBonus   = 550
	exactMeaningBonus  = 20
	sentenceSimilarity = 100000
)

func similarityScore(sim float64) int {
	return int(math.Round(sim * 100))
}

// wordOrder ranks words by similarity, then boosts exact matches, common
// words, easier JLPT levels and hits in the user language.
func wordOrder(q *models.Query) engine.OrderFunc[*models.Word] {
	return func(w *models.Word, sim float64, text string, lang models.Language) int {
		score := similarityScore(sim)
		if wordMatchesExactly(w, text, lang, q.IsJapanese()) {
			score += exactMatchBonus
		}
		if w.IsCommon() {
			score += commonWordBonus
		}
		score += w.JLPT
		if lang != "" && lang == q.Settings.UserLanguage {
			score += userLanguageBonus
		}
		return score
	}
}

func wordMatchesExactly(w *models.Word, text string, lang models.Language, native bool) bool {
	if native {
		for _, d := range w.Dicts() {
			if d.Reading == text {
				return true
			}
		}
		return false
	}
	for _, g := range w.Glosses(lang) {
		if strings.EqualFold(g, text) {
			return true
		}
	}
	return false
}

// foreignSentenceOrder ranks sentences by fine-grained similarity and
// prefers those translated into the user language.
func foreignSentenceOrder(settings models.UserSettings) engine.OrderFunc[*models.Sentence] {
	return func(s *models.Sentence, sim float64, _ string, _ models.Language) int {
		score := int(sim * sentenceSimilarity)
		if _, ok := s.Translation(settings.UserLanguage); ok {
			score += translationBonus
		}
		return score
	}
}

// kanjiMeaningOrder boosts kanji having the query as one of its meanings.
func kanjiMeaningOrder(k *models.Kanji, sim float64, text string, _ models.Language) int {
	score := similarityScore(sim)
	for _, m := range k.Meanings {
		if strings.EqualFold(m, text) {
			return score + exactMeaningBonus
		}
	}
	return score
}
