// Package cli provides CLI output writers for Jiten.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/jiten/internal/kanji"
	"github.com/hyperjump/jiten/internal/models"
	"github.com/hyperjump/jiten/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const (
	headingWidth = 14
	maxLineRunes = 80
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// WriteSearchResults writes search results to w in the given format.
// Unknown formats are written as text.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	fmt.Fprintf(w, "\nFound %d %s in %dms", response.Total, response.Target, response.QueryTime)
	if len(response.Tags) > 0 {
		fmt.Fprintf(w, " (tags: %s)", strings.Join(response.Tags, ", "))
	}
	fmt.Fprint(w, "\n\n")
	for i, entry := range response.Results {
		fmt.Fprintf(w, "%3d. [%d] ", i+1, entry.Relevance)
		switch it := entry.Item.(type) {
		case *models.Word:
			writeWord(w, it, entry.Language)
		case *models.Sentence:
			writeSentence(w, it, entry.Language)
		case *models.Kanji:
			writeKanjiLine(w, it)
		case *models.Name:
			writeName(w, it)
		default:
			fmt.Fprintf(w, "%v\n", it)
		}
	}
	return nil
}

func wordHeading(word *models.Word) string {
	if word.Kanji != nil {
		return fmt.Sprintf("%s【%s】", word.Kanji.Reading, word.Kana.Reading)
	}
	return word.Kana.Reading
}

func writeWord(w io.Writer, word *models.Word, lang models.Language) {
	if lang == "" {
		lang = models.English
	}
	glosses := strings.Join(word.Glosses(lang), "; ")
	if glosses == "" {
		glosses = strings.Join(word.Glosses(models.English), "; ")
	}
	fmt.Fprintf(w, "%s %s\n", utils.PadRight(wordHeading(word), headingWidth), utils.Truncate(glosses, maxLineRunes))
}

func writeSentence(w io.Writer, s *models.Sentence, lang models.Language) {
	fmt.Fprintln(w, s.Japanese)
	if lang == "" {
		lang = models.English
	}
	if tr, ok := s.Translation(lang); ok {
		fmt.Fprintf(w, "     %s\n", utils.Truncate(tr, maxLineRunes))
	}
}

func writeKanjiLine(w io.Writer, k *models.Kanji) {
	fmt.Fprintf(w, "%s %s\n", utils.PadRight(k.Literal, 3), utils.Truncate(strings.Join(k.Meanings, ", "), maxLineRunes))
}

func writeName(w io.Writer, n *models.Name) {
	heading := n.Kana
	if n.Kanji != "" {
		heading = fmt.Sprintf("%s【%s】", n.Kanji, n.Kana)
	}
	fmt.Fprintf(w, "%s %s\n", utils.PadRight(heading, headingWidth), n.Transcription)
}

// WriteSuggestions writes autocomplete suggestions one per line.
func WriteSuggestions(w io.Writer, response *models.SuggestionResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	if len(response.Suggestions) == 0 {
		fmt.Fprintln(w, "No suggestions")
		return nil
	}
	for _, p := range response.Suggestions {
		if p.Secondary != nil {
			fmt.Fprintf(w, "%s %s\n", utils.PadRight(p.Primary, headingWidth), *p.Secondary)
			continue
		}
		fmt.Fprintln(w, p.Primary)
	}
	return nil
}

// KanjiDetail is a kanji with its kun compound words.
type KanjiDetail struct {
	Kanji        *models.Kanji  `json:"kanji"`
	KunCompounds []*models.Word `json:"kun_compounds"`
}

// WriteKanji writes a kanji entry with its readings and kun compounds.
func WriteKanji(w io.Writer, detail KanjiDetail, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, detail)
	}
	k := detail.Kanji
	fmt.Fprintf(w, "\n%s  %s\n\n", k.Literal, strings.Join(k.Meanings, ", "))
	kun := make([]string, len(k.Kunyomi))
	for i, r := range k.Kunyomi {
		kun[i] = kanji.FormatKun(r)
	}
	rows := [][2]string{
		{"On", strings.Join(k.Onyomi, "、")},
		{"Kun", strings.Join(kun, "、")},
		{"Strokes", fmt.Sprint(k.StrokeCount)},
	}
	if k.Grade > 0 {
		rows = append(rows, [2]string{"Grade", fmt.Sprint(k.Grade)})
	}
	if k.JLPT > 0 {
		rows = append(rows, [2]string{"JLPT", fmt.Sprintf("N%d", k.JLPT)})
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(w, "%-8s %s\n", row[0]+":", row[1])
	}
	if len(detail.KunCompounds) > 0 {
		fmt.Fprint(w, "\nKun compounds:\n")
		for _, word := range detail.KunCompounds {
			fmt.Fprint(w, "  ")
			writeWord(w, word, models.English)
		}
	}
	return nil
}
