package models

// QueryLanguage is the script class detected for a query.
type QueryLanguage int

const (
	QueryUndetected QueryLanguage = iota
	QueryJapanese
	QueryForeign
)

func (l QueryLanguage) String() string {
	switch l {
	case QueryJapanese:
		return "japanese"
	case QueryForeign:
		return "foreign"
	default:
		return "undetected"
	}
}

// Form classifies the shape of a query.
type Form int

const (
	FormWord Form = iota
	FormSentence
	FormMixed
	// FormKanjiReading is "<kanji> <reading>", e.g. "日 にち".
	FormKanjiReading
)

func (f Form) String() string {
	switch f {
	case FormSentence:
		return "sentence"
	case FormMixed:
		return "mixed"
	case FormKanjiReading:
		return "kanji_reading"
	default:
		return "word"
	}
}

// UserSettings carries per-request user preferences.
type UserSettings struct {
	UserLanguage Language `json:"user_language"`
	ShowEnglish  bool     `json:"show_english"`
	PageSize     int      `json:"page_size"`
}

// DefaultUserSettings returns English settings with a page size of 10.
func DefaultUserSettings() UserSettings {
	return UserSettings{UserLanguage: English, ShowEnglish: true, PageSize: 10}
}

// Query is a parsed search request. It is built by the query parser and treated
// as read-only afterwards.
type Query struct {
	Raw      string
	Text     string
	Language QueryLanguage
	Form     Form
	Tags     []Tag
	Target   SearchTarget
	Settings UserSettings
	Page     int
}

// IsJapanese reports whether the query was detected as Japanese script.
func (q *Query) IsJapanese() bool {
	return q.Language == QueryJapanese
}

// HasTag reports whether a tag of the given kind is present.
func (q *Query) HasTag(kind TagKind) bool {
	_, ok := q.Tag(kind)
	return ok
}

// Tag returns the first tag of the given kind.
func (q *Query) Tag(kind TagKind) (Tag, bool) {
	for _, t := range q.Tags {
		if t.Kind == kind {
			return t, true
		}
	}
	return Tag{}, false
}

// PartsOfSpeech returns all part-of-speech tags.
func (q *Query) PartsOfSpeech() []PartOfSpeech {
	var out []PartOfSpeech
	for _, t := range q.Tags {
		if t.Kind == TagPartOfSpeech {
			out = append(out, t.POS)
		}
	}
	return out
}

// Offset and page size are clamped so offset+limit stays far from overflow.
const (
	maxOffset   = 1 << 30
	maxPageSize = 1 << 20
)

// Offset returns the item offset for the query's page. Pages past the
// reachable range yield the largest offset, which selects nothing.
func (q *Query) Offset() int {
	if q.Page <= 1 {
		return 0
	}
	size := q.PageSize()
	if q.Page-1 > maxOffset/size {
		return maxOffset
	}
	return (q.Page - 1) * size
}

// PageSize returns the effective page size.
func (q *Query) PageSize() int {
	switch {
	case q.Settings.PageSize <= 0:
		return 10
	case q.Settings.PageSize > maxPageSize:
		return maxPageSize
	}
	return q.Settings.PageSize
}
