// Package query turns raw user input into a models.Query.
package query

import (
	"strconv"
	"strings"

	"github.com/hyperjump/jiten/internal/models"
)

// ParseFunc parses one "#token" and reports whether the token should be
// removed from the query text.
type ParseFunc func(token string) (*models.Tag, bool)

// DefaultParseFunc strips every token that ParseTag recognizes.
func DefaultParseFunc(token string) (*models.Tag, bool) {
	tag := ParseTag(token)
	return tag, tag != nil
}

func isTagByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-'
}

// Extract finds every "#[A-Za-z0-9-]*" token in text and passes it to parse.
// Removed tokens take one trailing space with them. The remaining text is
// right-trimmed. Extraction repeats until a pass removes nothing, so a removal
// can never join two fragments into a new tag. Tags form a set: repeats are
// reported once, in order of first appearance.
func Extract(text string, parse ParseFunc) (string, []models.Tag) {
	var tags []models.Tag
	seen := make(map[models.Tag]struct{})
	for pass := 0; ; pass++ {
		out, found, removed := extractOnce(text, parse, pass > 0)
		for _, tag := range found {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
		text = out
		if !removed {
			return text, tags
		}
	}
}

// extractOnce runs a single scan. Later passes only report tags of removed
// tokens; kept tokens were already reported by the first pass.
func extractOnce(text string, parse ParseFunc, removedOnly bool) (string, []models.Tag, bool) {
	var (
		b       strings.Builder
		tags    []models.Tag
		removed bool
	)
	b.Grow(len(text))
	for i := 0; i < len(text); {
		if text[i] != '#' {
			b.WriteByte(text[i])
			i++
			continue
		}
		end := i + 1
		for end < len(text) && isTagByte(text[end]) {
			end++
		}
		tag, remove := parse(text[i:end])
		if tag != nil && (remove || !removedOnly) {
			tags = append(tags, *tag)
		}
		if !remove {
			b.WriteString(text[i:end])
			i = end
			continue
		}
		removed = true
		if end < len(text) && text[end] == ' ' {
			end++
		}
		i = end
	}
	return strings.TrimRight(b.String(), " \t\r\n"), tags, removed
}

// ParseTag parses a single tag token, with or without its leading '#'.
// Unknown tokens return nil.
func ParseTag(token string) *models.Tag {
	s := strings.ToLower(strings.TrimPrefix(token, "#"))
	var tag models.Tag
	switch s {
	case "hidden", "hide":
		tag = models.HiddenTag()
		return &tag
	case "irrichidan", "irregularichidan", "irregular-ichidan":
		tag = models.IrregularIruEruTag()
		return &tag
	}
	if strings.HasPrefix(s, "genki") {
		if n, ok := parseNumber(s[len("genki"):]); ok && n >= 3 && n <= 23 {
			tag = models.GenkiLessonTag(n)
			return &tag
		}
		return nil
	}
	if strings.HasPrefix(s, "n") {
		if n, ok := parseNumber(s[1:]); ok {
			if n < 1 || n > 5 {
				return nil
			}
			tag = models.JLPTTag(n)
			return &tag
		}
	}
	switch s {
	case "kanji":
		tag = models.SearchTypeTag(models.TargetKanji)
	case "sentence", "sentences":
		tag = models.SearchTypeTag(models.TargetSentences)
	case "name", "names":
		tag = models.SearchTypeTag(models.TargetNames)
	case "word", "words":
		tag = models.SearchTypeTag(models.TargetWords)
	case "abbreviation", "abbrev":
		tag = models.MiscTag(models.MiscAbbreviation)
	default:
		pos, ok := models.ParsePartOfSpeech(s)
		if !ok {
			return nil
		}
		tag = models.PartOfSpeechTag(pos)
	}
	return &tag
}

func parseNumber(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
