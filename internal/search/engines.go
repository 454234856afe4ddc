// Package search implements the dictionary search domains on top of the
// generic engine: words, sentences, kanji and names, each with a native
// (Japanese) and a foreign direction.
package search

import (
	"sync"

	"github.com/hyperjump/jiten/internal/engine"
	"github.com/hyperjump/jiten/internal/keyword"
	"github.com/hyperjump/jiten/internal/models"
	"github.com/hyperjump/jiten/internal/resources"
	"github.com/hyperjump/jiten/internal/vector"
)

// domainEngine resolves one index domain against the resource snapshot.
type domainEngine[T comparable] struct {
	indices *vector.Registry
	domain  vector.Domain
	terms   func(query string) []string
	resolve func(seq uint32) (T, bool)
}

func (e *domainEngine[T]) Index(lang models.Language) (*vector.Index, bool) {
	return e.indices.Get(e.domain, lang)
}

func (e *domainEngine[T]) QueryVector(idx *vector.Index, query string, _ models.Language) (*vector.Vector, bool) {
	return idx.BuildVector(e.terms(query))
}

func (e *domainEngine[T]) Outputs(doc vector.Document) []T {
	out := make([]T, 0, len(doc.SeqIDs))
	for _, seq := range doc.SeqIDs {
		if v, ok := e.resolve(seq); ok {
			out = append(out, v)
		}
	}
	return out
}

// aligningEngine corrects misspelled query words against the index
// vocabulary before the query vector is built.
type aligningEngine[T comparable] struct {
	*domainEngine[T]
	aligners sync.Map // *vector.Index -> *keyword.Aligner
}

func (e *aligningEngine[T]) Align(idx *vector.Index, query string, _ models.Language) (string, bool) {
	a, ok := e.aligners.Load(idx)
	if !ok {
		a, _ = e.aligners.LoadOrStore(idx, keyword.NewAligner(idx))
	}
	return a.(*keyword.Aligner).Align(query)
}

// NewForeignWordsEngine searches glosses per language with spelling alignment.
func NewForeignWordsEngine(indices *vector.Registry, res *resources.Memory, terms *Terms) engine.Engine[*models.Word] {
	return &aligningEngine[*models.Word]{domainEngine: &domainEngine[*models.Word]{
		indices: indices,
		domain:  vector.DomainWordsForeign,
		terms:   terms.Foreign,
		resolve: res.Word,
	}}
}

// NewNativeWordsEngine searches readings.
func NewNativeWordsEngine(indices *vector.Registry, res *resources.Memory, terms *Terms) engine.Engine[*models.Word] {
	return &domainEngine[*models.Word]{
		indices: indices,
		domain:  vector.DomainWordsNative,
		terms:   terms.Native,
		resolve: res.Word,
	}
}

// NewForeignSentencesEngine searches translations per language.
func NewForeignSentencesEngine(indices *vector.Registry, res *resources.Memory, terms *Terms) engine.Engine[*models.Sentence] {
	return &domainEngine[*models.Sentence]{
		indices: indices,
		domain:  vector.DomainSentencesForeign,
		terms:   terms.Words,
		resolve: res.Sentence,
	}
}

// NewNativeSentencesEngine searches Japanese sentence segments.
func NewNativeSentencesEngine(indices *vector.Registry, res *resources.Memory, terms *Terms) engine.Engine[*models.Sentence] {
	return &domainEngine[*models.Sentence]{
		indices: indices,
		domain:  vector.DomainSentencesNative,
		terms:   terms.Native,
		resolve: res.Sentence,
	}
}

// NewKanjiMeaningsEngine searches kanji by meaning.
func NewKanjiMeaningsEngine(indices *vector.Registry, res *resources.Memory, terms *Terms) engine.Engine[*models.Kanji] {
	return &aligningEngine[*models.Kanji]{domainEngine: &domainEngine[*models.Kanji]{
		indices: indices,
		domain:  vector.DomainKanji,
		terms:   terms.Foreign,
		resolve: func(seq uint32) (*models.Kanji, bool) { return res.KanjiByID(int(seq)) },
	}}
}

// NewForeignNamesEngine searches name transcriptions.
func NewForeignNamesEngine(indices *vector.Registry, res *resources.Memory, terms *Terms) engine.Engine[*models.Name] {
	return &domainEngine[*models.Name]{
		indices: indices,
		domain:  vector.DomainNamesForeign,
		terms:   terms.Foreign,
		resolve: res.Name,
	}
}

// NewNativeNamesEngine searches name readings.
func NewNativeNamesEngine(indices *vector.Registry, res *resources.Memory, terms *Terms) engine.Engine[*models.Name] {
	return &domainEngine[*models.Name]{
		indices: indices,
		domain:  vector.DomainNamesNative,
		terms:   terms.Native,
		resolve: res.Name,
	}
}
