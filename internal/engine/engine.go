// Package engine implements generic ranked retrieval over vector indices.
//
// A domain plugs in by implementing Engine; a Task then drives candidate
// generation, similarity scoring, filtering, ordering and pagination.
package engine

import (
	"github.com/hyperjump/jiten/internal/models"
	"github.com/hyperjump/jiten/internal/vector"
)

// Engine adapts one search domain to the generic Task.
type Engine[T comparable] interface {
	// Index returns the index for lang. An empty lang selects the
	// language-agnostic index.
	Index(lang models.Language) (*vector.Index, bool)
	// QueryVector builds the query vector for query. ok is false when the
	// query contains no indexed term.
	QueryVector(idx *vector.Index, query string, lang models.Language) (*vector.Vector, bool)
	// Outputs maps a matched document to zero or more result values.
	Outputs(doc vector.Document) []T
}

// Aligner is implemented by engines that can correct a query before the
// query vector is built.
type Aligner interface {
	Align(idx *vector.Index, query string, lang models.Language) (string, bool)
}

// VectorFilter decides whether a candidate document is scored at all.
type VectorFilter func(doc vector.Document) bool

// ResultFilter decides whether a mapped output is kept.
type ResultFilter[T any] func(item T) bool

// OrderFunc computes the relevance of an output.
type OrderFunc[T any] func(item T, similarity float64, query string, lang models.Language) int
