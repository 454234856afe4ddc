package keyword

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// TermDictionary is the vocabulary a query is aligned against.
type TermDictionary interface {
	HasTerm(term string) bool
	Vocabulary() []string
}

// Aligner replaces unknown query words by their closest vocabulary term.
type Aligner struct {
	dict        TermDictionary
	maxDistance int
	minLength   int

	once    sync.Once
	buckets map[int][]string
}

// AlignerOption configures an Aligner.
type AlignerOption func(*Aligner)

// WithMaxDistance sets the largest edit distance accepted for a correction (default 2).
func WithMaxDistance(d int) AlignerOption {
	return func(a *Aligner) {
		if d > 0 {
			a.maxDistance = d
		}
	}
}

// WithMinLength sets the shortest word, in runes, that is corrected (default 4).
func WithMinLength(n int) AlignerOption {
	return func(a *Aligner) {
		if n > 0 {
			a.minLength = n
		}
	}
}

// NewAligner creates an aligner over dict.
func NewAligner(dict TermDictionary, opts ...AlignerOption) *Aligner {
	a := &Aligner{dict: dict, maxDistance: 2, minLength: 4}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// buildBuckets groups single-word vocabulary terms by rune length.
func (a *Aligner) buildBuckets() {
	a.buckets = make(map[int][]string)
	for _, t := range a.dict.Vocabulary() {
		if strings.ContainsFunc(t, unicode.IsSpace) {
			continue
		}
		n := utf8.RuneCountInString(t)
		a.buckets[n] = append(a.buckets[n], t)
	}
}

// Words splits a query into lowercase words.
func Words(query string) []string {
	return strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '-'
	})
}

// Align returns query with every unknown word replaced by its closest known
// term. ok is false when nothing was changed.
func (a *Aligner) Align(query string) (string, bool) {
	words := Words(query)
	changed := false
	for i, w := range words {
		if a.dict.HasTerm(w) || utf8.RuneCountInString(w) < a.minLength {
			continue
		}
		if c, ok := a.Correct(w); ok {
			words[i] = c
			changed = true
		}
	}
	if !changed {
		return query, false
	}
	return strings.Join(words, " "), true
}

// Correct returns the closest vocabulary term within the maximum distance.
// Ties prefer the term of equal length, then the lexically smaller term.
func (a *Aligner) Correct(word string) (string, bool) {
	a.once.Do(a.buildBuckets)
	w := []rune(word)
	best, bestDist := "", a.maxDistance+1
	for n := len(w) - a.maxDistance; n <= len(w)+a.maxDistance; n++ {
		for _, t := range a.buckets[n] {
			d := Distance(w, []rune(t), a.maxDistance)
			if d == 0 || d > a.maxDistance {
				continue
			}
			if d < bestDist || (d == bestDist && better(t, best, len(w))) {
				best, bestDist = t, d
			}
		}
	}
	return best, best != ""
}

func better(candidate, current string, wantLen int) bool {
	cl := abs(utf8.RuneCountInString(candidate) - wantLen)
	ol := abs(utf8.RuneCountInString(current) - wantLen)
	if cl != ol {
		return cl < ol
	}
	return candidate < current
}
