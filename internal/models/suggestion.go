package models

import (
	"fmt"
	"unicode/utf8"
)

// MaxSuggestionInput is the longest accepted suggestion input in runes.
const MaxSuggestionInput = 37

// SuggestionRequest is the input of a suggestion lookup.
type SuggestionRequest struct {
	Input string `json:"input"`
	Lang  string `json:"lang"`
}

// Validate rejects inputs outside 1..MaxSuggestionInput runes.
func (r *SuggestionRequest) Validate() error {
	n := utf8.RuneCountInString(r.Input)
	if n < 1 || n > MaxSuggestionInput {
		return fmt.Errorf("%w: input length %d out of range", ErrBadRequest, n)
	}
	return nil
}

// WordPair is one suggestion entry.
type WordPair struct {
	Primary   string  `json:"primary"`
	Secondary *string `json:"secondary,omitempty"`
}

// Matches reports whether either field equals s.
func (p WordPair) Matches(s string) bool {
	return p.Primary == s || (p.Secondary != nil && *p.Secondary == s)
}

// SuggestionResponse is the output of a suggestion lookup.
type SuggestionResponse struct {
	Suggestions []WordPair `json:"suggestions"`
}
