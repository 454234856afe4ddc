package query

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/jiten/internal/japanese"
	"github.com/hyperjump/jiten/internal/models"
)

// DefaultMaxLength is the longest cleaned query accepted, in runes.
const DefaultMaxLength = 100

// Parser builds models.Query values from raw input.
type Parser struct {
	maxLength int
	parseTag  ParseFunc
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithMaxLength overrides DefaultMaxLength.
func WithMaxLength(n int) ParserOption {
	return func(p *Parser) {
		if n > 0 {
			p.maxLength = n
		}
	}
}

// WithParseFunc replaces the tag parser used during extraction.
func WithParseFunc(f ParseFunc) ParserOption {
	return func(p *Parser) {
		if f != nil {
			p.parseTag = f
		}
	}
}

// NewParser creates a parser.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{maxLength: DefaultMaxLength, parseTag: DefaultParseFunc}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse normalizes raw, extracts tags and classifies the remaining text.
// A search-type tag overrides target. Returns models.ErrBadRequest when
// nothing searchable is left or the text is too long.
func (p *Parser) Parse(raw string, target models.SearchTarget, settings models.UserSettings, page int) (*models.Query, error) {
	text, tags := Extract(japanese.Normalize(raw), p.parseTag)
	text = strings.TrimSpace(text)

	if text == "" && len(tags) == 0 {
		return nil, fmt.Errorf("%w: empty query", models.ErrBadRequest)
	}
	if n := utf8.RuneCountInString(text); n > p.maxLength {
		return nil, fmt.Errorf("%w: query too long (%d runes)", models.ErrBadRequest, n)
	}

	for _, t := range tags {
		if t.Kind == models.TagSearchType {
			target = t.Target
			break
		}
	}
	if page < 1 {
		page = 1
	}

	return &models.Query{
		Raw:      raw,
		Text:     text,
		Language: DetectLanguage(text),
		Form:     DetectForm(text),
		Tags:     tags,
		Target:   target,
		Settings: settings,
		Page:     page,
	}, nil
}

// DetectLanguage classifies text as Japanese when every letter is Japanese,
// Foreign when it contains any other letter, and Undetected otherwise.
func DetectLanguage(text string) models.QueryLanguage {
	switch {
	case japanese.IsJapaneseText(text):
		return models.QueryJapanese
	case japanese.HasLetter(text):
		return models.QueryForeign
	default:
		return models.QueryUndetected
	}
}

// DetectForm classifies the shape of text.
func DetectForm(text string) models.Form {
	fields := strings.Fields(text)
	if len(fields) == 2 && japanese.IsSingleKanji(fields[0]) && isKanaReading(fields[1]) {
		return models.FormKanjiReading
	}
	if japanese.HasJapanese(text) && japanese.HasRoman(text) {
		return models.FormMixed
	}
	if len(fields) > 1 || strings.IndexFunc(text, japanese.IsSentencePunct) >= 0 {
		return models.FormSentence
	}
	return models.FormWord
}

// isKanaReading accepts kana with the reading markers '.' and '-'.
func isKanaReading(s string) bool {
	s = strings.NewReplacer(".", "", "-", "").Replace(s)
	return japanese.IsKanaText(s)
}
