package models

import "strings"

// Language identifies a dictionary language by its ISO-639-2 code.
// The empty Language means "any language".
type Language string

const (
	English   Language = "eng"
	German    Language = "ger"
	Russian   Language = "rus"
	Spanish   Language = "spa"
	Swedish   Language = "swe"
	French    Language = "fre"
	Dutch     Language = "dut"
	Hungarian Language = "hun"
	Slovenian Language = "slv"
	Japanese  Language = "jpn"
)

// Languages lists every supported language, Japanese last.
var Languages = []Language{
	English, German, Russian, Spanish, Swedish, French, Dutch, Hungarian, Slovenian, Japanese,
}

var languageNames = map[Language]string{
	English:   "english",
	German:    "german",
	Russian:   "russian",
	Spanish:   "spanish",
	Swedish:   "swedish",
	French:    "french",
	Dutch:     "dutch",
	Hungarian: "hungarian",
	Slovenian: "slovenian",
	Japanese:  "japanese",
}

// ParseLanguage accepts a code ("ger") or an English name ("German"), case-insensitively.
func ParseLanguage(s string) (Language, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	for lang, name := range languageNames {
		if s == string(lang) || s == name {
			return lang, true
		}
	}
	return "", false
}

// String returns the language code, or "any" for the empty Language.
func (l Language) String() string {
	if l == "" {
		return "any"
	}
	return string(l)
}

// Name returns the lowercase English name of the language.
func (l Language) Name() string {
	return languageNames[l]
}
