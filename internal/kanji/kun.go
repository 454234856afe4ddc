// Package kanji resolves kanji records through a bounded cache and links
// kanji to the compounds that use one of their kun readings.
package kanji

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/jiten/internal/japanese"
	"github.com/hyperjump/jiten/internal/models"
)

// MaxKunCompounds caps the compounds linked to one kanji.
const MaxKunCompounds = 10

type matchMode int

const (
	matchExact matchMode = iota
	matchLeftVariable
	matchRightVariable
)

func (m matchMode) match(s, pattern string) bool {
	switch m {
	case matchLeftVariable:
		return strings.HasPrefix(s, pattern)
	case matchRightVariable:
		return strings.HasSuffix(s, pattern)
	default:
		return s == pattern
	}
}

// KunLiteralReading returns the stem of a kun reading: markers removed and
// okurigana dropped. "ふる.い" and "ふる-" both give "ふる".
func KunLiteralReading(kun string) string {
	stem, _, _ := strings.Cut(strings.ReplaceAll(kun, "-", ""), ".")
	return stem
}

// KunLen returns the number of kana in a kun reading without markers.
func KunLen(kun string) int {
	return utf8.RuneCountInString(strings.NewReplacer("-", "", ".", "").Replace(kun))
}

// FormatKun renders the okurigana boundary for display: "ふる.い" → "ふる(い)".
func FormatKun(kun string) string {
	stem, okurigana, ok := strings.Cut(kun, ".")
	if !ok {
		return kun
	}
	return stem + "(" + okurigana + ")"
}

// KunMatchesKanji reports whether a dictionary entry written kanjiReading and
// read kanaReading uses the kun reading kun of literal.
func KunMatchesKanji(literal, kun, kanaReading, kanjiReading string) bool {
	mode := matchExact
	switch {
	case strings.HasPrefix(kun, "-"):
		mode = matchRightVariable
	case strings.HasSuffix(kun, "-") || strings.HasPrefix(kanjiReading, literal):
		mode = matchLeftVariable
	}

	written := literal
	if left, _, ok := strings.Cut(kun, "."); ok {
		written = strings.Replace(strings.ReplaceAll(kun, "-", ""), left+".", literal, 1)
	}
	expected := strings.ReplaceAll(written, literal, KunLiteralReading(kun))
	return mode.match(kanaReading, expected)
}

// MatchKunCompounds keeps the candidates whose kana reading fits one of kuns,
// ranks them when there are more than MaxKunCompounds and truncates.
// Only the first candidate per sequence is considered. tokenizer may be nil.
func MatchKunCompounds(literal string, kuns []string, candidates []models.KunDict, tokenizer japanese.Tokenizer) []models.KunDict {
	seen := make(map[uint32]struct{}, len(candidates))
	var matched []models.KunDict
	for _, c := range candidates {
		if _, dup := seen[c.Sequence]; dup {
			continue
		}
		seen[c.Sequence] = struct{}{}
		kanaLen := utf8.RuneCountInString(c.Kana)
		for _, kun := range kuns {
			if KunLen(kun) <= kanaLen && KunMatchesKanji(literal, kun, c.Kana, c.Reading) {
				matched = append(matched, c)
				break
			}
		}
	}

	if len(matched) > MaxKunCompounds {
		RankKunCompounds(matched, kuns, tokenizer)
		matched = matched[:MaxKunCompounds]
	}
	return matched
}

// RankKunCompounds stable-sorts compounds: readings equal to a kun stem first
// in kun order, then fewer morphemes, then entries with priorities, then
// entries with a JLPT level, easier levels first.
func RankKunCompounds(compounds []models.KunDict, kuns []string, tokenizer japanese.Tokenizer) {
	stems := make(map[string]int, len(kuns))
	for i, kun := range kuns {
		stem := KunLiteralReading(kun)
		if _, ok := stems[stem]; !ok {
			stems[stem] = i
		}
	}

	morphemes := make(map[uint32]int, len(compounds))
	if tokenizer != nil {
		for _, c := range compounds {
			morphemes[c.Sequence] = len(tokenizer.Tokenize(c.Reading))
		}
	}

	sort.SliceStable(compounds, func(i, j int) bool {
		a, b := compounds[i], compounds[j]

		ai, aStem := stems[a.Kana]
		bi, bStem := stems[b.Kana]
		if aStem != bStem {
			return aStem
		}
		if aStem && ai != bi {
			return ai < bi
		}

		if tokenizer != nil && morphemes[a.Sequence] != morphemes[b.Sequence] {
			return morphemes[a.Sequence] < morphemes[b.Sequence]
		}

		aPrio, bPrio := len(a.Priorities) > 0, len(b.Priorities) > 0
		if aPrio != bPrio {
			return aPrio
		}

		aJLPT, bJLPT := a.JLPT > 0, b.JLPT > 0
		if aJLPT != bJLPT {
			return aJLPT
		}
		return a.JLPT > b.JLPT
	})
}
