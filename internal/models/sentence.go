package models

// Sentence is an example sentence with its translations.
type Sentence struct {
	ID           uint32              `json:"id"`
	Japanese     string              `json:"japanese"`
	Furigana     string              `json:"furigana,omitempty"`
	Translations map[Language]string `json:"translations"`
}

// Translation returns the translation for lang if present.
func (s *Sentence) Translation(lang Language) (string, bool) {
	t, ok := s.Translations[lang]
	return t, ok
}

// Name is a proper name entry.
type Name struct {
	Sequence      uint32 `json:"sequence"`
	Kana          string `json:"kana"`
	Kanji         string `json:"kanji,omitempty"`
	Transcription string `json:"transcription"`
}
