package engine

import "github.com/hyperjump/jiten/internal/models"

// ResultItem is one ranked output.
type ResultItem[T any] struct {
	Item      T
	Relevance int
	// Language is the language whose index produced the item; empty for
	// language-agnostic searches.
	Language models.Language
}

// Result is a page of ranked outputs.
type Result[T any] struct {
	Items []ResultItem[T]
	// Total is the number of distinct outputs before pagination.
	Total int
}

// Len returns the number of items on the page.
func (r *Result[T]) Len() int {
	return len(r.Items)
}

// IsEmpty reports whether the search matched nothing at all.
func (r *Result[T]) IsEmpty() bool {
	return r.Total == 0
}

// Values returns the items without their scores.
func (r *Result[T]) Values() []T {
	out := make([]T, len(r.Items))
	for i, it := range r.Items {
		out[i] = it.Item
	}
	return out
}
