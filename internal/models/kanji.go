package models

// Kanji is a single kanji character with its readings.
type Kanji struct {
	ID          int      `json:"id"`
	Literal     string   `json:"literal"`
	Meanings    []string `json:"meanings"`
	Onyomi      []string `json:"onyomi,omitempty"`
	Kunyomi     []string `json:"kunyomi,omitempty"`
	KunDicts    []uint32 `json:"kun_dicts,omitempty"`
	Grade       int      `json:"grade,omitempty"`
	StrokeCount int      `json:"stroke_count"`
	Frequency   int      `json:"frequency,omitempty"`
	JLPT        int      `json:"jlpt,omitempty"`
}

// KunDict is a kanji-headed dictionary form considered for kun compounds.
type KunDict struct {
	Sequence   uint32
	Reading    string
	Kana       string
	Priorities []string
	JLPT       int
}
