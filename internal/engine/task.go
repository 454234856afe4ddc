package engine

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/hyperjump/jiten/internal/models"
	"github.com/hyperjump/jiten/internal/vector"
)

// Task defaults.
const (
	DefaultThreshold   = 0.2
	DefaultLimit       = 1000
	DefaultVectorLimit = 100000
)

type taskQuery struct {
	text string
	lang models.Language
}

// Task is one logical search over an Engine. Query variants are evaluated in
// the order they were added and their outputs merged; the first variant to
// produce an output decides its relevance.
type Task[T comparable] struct {
	engine       Engine[T]
	queries      []taskQuery
	threshold    float64
	limit        int
	offset       int
	vectorLimit  int
	allowAlign   bool
	vectorFilter VectorFilter
	resultFilter ResultFilter[T]
	order        OrderFunc[T]
	logger       *zap.Logger
}

// NewTask creates a language-agnostic task for query.
func NewTask[T comparable](e Engine[T], query string) *Task[T] {
	return NewLanguageTask(e, query, "")
}

// NewLanguageTask creates a task searching query in lang.
func NewLanguageTask[T comparable](e Engine[T], query string, lang models.Language) *Task[T] {
	t := &Task[T]{
		engine:      e,
		threshold:   DefaultThreshold,
		limit:       DefaultLimit,
		vectorLimit: DefaultVectorLimit,
		allowAlign:  true,
		logger:      zap.NewNop(),
	}
	return t.AddQuery(query, lang)
}

// AddQuery adds another query variant. Empty queries are ignored.
func (t *Task[T]) AddQuery(query string, lang models.Language) *Task[T] {
	if query != "" {
		t.queries = append(t.queries, taskQuery{text: query, lang: lang})
	}
	return t
}

// WithThreshold sets the exclusive minimum similarity.
func (t *Task[T]) WithThreshold(threshold float64) *Task[T] {
	t.threshold = threshold
	return t
}

// WithLimit sets the page size.
func (t *Task[T]) WithLimit(limit int) *Task[T] {
	if limit >= 0 {
		t.limit = limit
	}
	return t
}

// WithOffset sets the number of ranked outputs skipped.
func (t *Task[T]) WithOffset(offset int) *Task[T] {
	if offset >= 0 {
		t.offset = offset
	}
	return t
}

// WithVectorLimit caps the candidate documents examined per query variant.
func (t *Task[T]) WithVectorLimit(limit int) *Task[T] {
	if limit > 0 {
		t.vectorLimit = limit
	}
	return t
}

// WithAlign allows or forbids query alignment.
func (t *Task[T]) WithAlign(allow bool) *Task[T] {
	t.allowAlign = allow
	return t
}

// WithVectorFilter sets the filter applied to documents before scoring.
func (t *Task[T]) WithVectorFilter(f VectorFilter) *Task[T] {
	t.vectorFilter = f
	return t
}

// WithResultFilter sets the filter applied to each mapped output.
func (t *Task[T]) WithResultFilter(f ResultFilter[T]) *Task[T] {
	t.resultFilter = f
	return t
}

// WithOrder sets a custom relevance function.
func (t *Task[T]) WithOrder(f OrderFunc[T]) *Task[T] {
	t.order = f
	return t
}

// WithLogger sets the logger used for misconfiguration errors.
func (t *Task[T]) WithLogger(l *zap.Logger) *Task[T] {
	if l != nil {
		t.logger = l
	}
	return t
}

// Queries returns the number of query variants.
func (t *Task[T]) Queries() int {
	return len(t.queries)
}

// HasTerm reports whether any query variant is literally a term of its index.
func (t *Task[T]) HasTerm() bool {
	for _, q := range t.queries {
		if idx, ok := t.engine.Index(q.lang); ok && idx.HasTerm(q.text) {
			return true
		}
	}
	return false
}

func (t *Task[T]) score(item T, sim float64, query string, lang models.Language) int {
	if t.order != nil {
		return t.order(item, sim, query, lang)
	}
	return int(math.Round(sim * 100))
}

// Find runs the task. A missing index is reported as models.ErrUnexpected and
// a candidate retrieval failure as models.ErrNotFound. Queries without any
// indexed term simply contribute nothing.
func (t *Task[T]) Find(ctx context.Context) (*Result[T], error) {
	seen := make(map[T]struct{})
	top := newTopK[T](t.offset + t.limit)
	total := 0

	for _, q := range t.queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		idx, ok := t.engine.Index(q.lang)
		if !ok {
			t.logger.Error("index not loaded", zap.Stringer("language", q.lang))
			return nil, fmt.Errorf("%w: no index for language %s", models.ErrUnexpected, q.lang)
		}

		text := q.text
		if t.allowAlign {
			if a, ok := t.engine.(Aligner); ok {
				if aligned, ok := a.Align(idx, text, q.lang); ok {
					t.logger.Debug("query aligned", zap.String("from", text), zap.String("to", aligned))
					text = aligned
				}
			}
		}

		qv, ok := t.engine.QueryVector(idx, text, q.lang)
		if !ok {
			continue
		}
		candidates, err := idx.Candidates(qv.Dimensions(), t.vectorLimit)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrNotFound, err)
		}

		for _, c := range candidates {
			if t.vectorFilter != nil && !t.vectorFilter(c.Document) {
				continue
			}
			sim := vector.CosineSimilarity(qv, c.Vector)
			if sim <= t.threshold {
				continue
			}
			for _, out := range t.engine.Outputs(c.Document) {
				if t.resultFilter != nil && !t.resultFilter(out) {
					continue
				}
				if _, dup := seen[out]; dup {
					continue
				}
				seen[out] = struct{}{}
				total++
				top.Push(ResultItem[T]{
					Item:      out,
					Relevance: t.score(out, sim, text, q.lang),
					Language:  q.lang,
				})
			}
		}
	}

	items := top.Drain()
	if t.offset >= len(items) {
		items = nil
	} else {
		items = items[t.offset:]
	}
	return &Result[T]{Items: items, Total: total}, nil
}
