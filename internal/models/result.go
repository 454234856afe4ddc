package models

// SearchRequest is the body of the search endpoints.
type SearchRequest struct {
	Query       string `json:"query"`
	Lang        string `json:"lang,omitempty"`
	Page        int    `json:"page,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
	ShowEnglish *bool  `json:"show_english,omitempty"`
}

// Settings converts the request's language and paging fields to UserSettings.
// Unknown languages fall back to English.
func (r *SearchRequest) Settings() UserSettings {
	s := DefaultUserSettings()
	if lang, ok := ParseLanguage(r.Lang); ok {
		s.UserLanguage = lang
	}
	if r.PageSize > 0 {
		s.PageSize = r.PageSize
	}
	if r.ShowEnglish != nil {
		s.ShowEnglish = *r.ShowEnglish
	}
	return s
}

// ResultEntry is one ranked hit in a SearchResponse.
type ResultEntry struct {
	Item      interface{} `json:"item"`
	Relevance int         `json:"relevance"`
	Language  Language    `json:"language,omitempty"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Query     string        `json:"query"`
	Target    string        `json:"target"`
	Tags      []string      `json:"tags,omitempty"`
	Results   []ResultEntry `json:"results"`
	Total     int           `json:"total"`
	QueryTime int64         `json:"query_time_ms"`
}
