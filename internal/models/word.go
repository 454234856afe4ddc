package models

// Dict is one written form of a word.
type Dict struct {
	Reading    string   `json:"reading"`
	Kanji      bool     `json:"kanji"`
	Main       bool     `json:"main,omitempty"`
	Priorities []string `json:"priorities,omitempty"`
	JLPT       int      `json:"jlpt,omitempty"`
}

// Sense is one meaning of a word in one language.
type Sense struct {
	Language Language       `json:"language"`
	Glosses  []string       `json:"glosses"`
	POS      []PartOfSpeech `json:"pos,omitempty"`
	Misc     []Misc         `json:"misc,omitempty"`
}

// Word is a dictionary entry identified by its sequence id.
type Word struct {
	Sequence         uint32   `json:"sequence"`
	Kana             Dict     `json:"kana"`
	Kanji            *Dict    `json:"kanji,omitempty"`
	Alternatives     []Dict   `json:"alternatives,omitempty"`
	Senses           []Sense  `json:"senses"`
	Priorities       []string `json:"priorities,omitempty"`
	JLPT             int      `json:"jlpt,omitempty"`
	GenkiLesson      int      `json:"genki_lesson,omitempty"`
	IrregularIchidan bool     `json:"irregular_ichidan,omitempty"`
}

// Reading returns the kanji reading if the word has one, otherwise the kana reading.
func (w *Word) Reading() string {
	if w.Kanji != nil {
		return w.Kanji.Reading
	}
	return w.Kana.Reading
}

// IsCommon reports whether the word carries any usage priority.
func (w *Word) IsCommon() bool {
	return len(w.Priorities) > 0
}

// Glosses returns every gloss in the given language.
func (w *Word) Glosses(lang Language) []string {
	var out []string
	for _, s := range w.Senses {
		if s.Language == lang {
			out = append(out, s.Glosses...)
		}
	}
	return out
}

// HasLanguage reports whether the word has a sense in lang.
func (w *Word) HasLanguage(lang Language) bool {
	for _, s := range w.Senses {
		if s.Language == lang {
			return true
		}
	}
	return false
}

// HasPOS reports whether any sense is tagged with p.
func (w *Word) HasPOS(p PartOfSpeech) bool {
	for _, s := range w.Senses {
		for _, sp := range s.POS {
			if sp == p {
				return true
			}
		}
	}
	return false
}

// HasMisc reports whether any sense carries m.
func (w *Word) HasMisc(m Misc) bool {
	for _, s := range w.Senses {
		for _, sm := range s.Misc {
			if sm == m {
				return true
			}
		}
	}
	return false
}

// Dicts returns kana, kanji and alternative forms in that order.
func (w *Word) Dicts() []Dict {
	out := []Dict{w.Kana}
	if w.Kanji != nil {
		out = append(out, *w.Kanji)
	}
	return append(out, w.Alternatives...)
}
