package vector

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDocumentMissing is returned when a posting list references a document
// the index does not hold.
var ErrDocumentMissing = errors.New("vector: document missing")

// Document is the payload attached to a document vector: the sequence ids of
// the entries it stands for.
type Document struct {
	SeqIDs []uint32
}

// DocumentVector is a document and its term vector.
type DocumentVector struct {
	Document Document
	Vector   *Vector
}

// Index maps terms to dimensions and holds document vectors with postings per
// dimension. It is read-only once constructed and safe for concurrent use.
type Index struct {
	terms       map[string]uint32
	vocab       []string
	termWeights []float32
	docs        []DocumentVector
	postings    map[uint32][]uint32
}

// NewIndex creates an index. Dimension i is vocab[i]. termWeights holds the
// query weight of each dimension and may be nil for uniform weights.
func NewIndex(vocab []string, termWeights []float32, docs []DocumentVector) (*Index, error) {
	if termWeights != nil && len(termWeights) != len(vocab) {
		return nil, fmt.Errorf("term weights length %d does not match vocabulary %d", len(termWeights), len(vocab))
	}
	idx := &Index{
		terms:       make(map[string]uint32, len(vocab)),
		vocab:       vocab,
		termWeights: termWeights,
		docs:        docs,
		postings:    make(map[uint32][]uint32),
	}
	for i, t := range vocab {
		if _, dup := idx.terms[t]; dup {
			return nil, fmt.Errorf("duplicate term %q", t)
		}
		idx.terms[t] = uint32(i)
	}
	for pos, dv := range docs {
		if dv.Vector == nil {
			return nil, fmt.Errorf("document %d has no vector", pos)
		}
		for _, d := range dv.Vector.Dimensions() {
			if int(d) >= len(vocab) {
				return nil, fmt.Errorf("document %d uses dimension %d outside vocabulary", pos, d)
			}
			idx.postings[d] = append(idx.postings[d], uint32(pos))
		}
	}
	return idx, nil
}

// FindTerm returns the dimension of term.
func (i *Index) FindTerm(term string) (uint32, bool) {
	d, ok := i.terms[term]
	return d, ok
}

// HasTerm reports whether term is in the vocabulary.
func (i *Index) HasTerm(term string) bool {
	_, ok := i.terms[term]
	return ok
}

// Vocabulary returns the terms in dimension order.
func (i *Index) Vocabulary() []string {
	return i.vocab
}

// Size returns the number of documents.
func (i *Index) Size() int {
	return len(i.docs)
}

func (i *Index) termWeight(d uint32) float32 {
	if i.termWeights == nil {
		return 1
	}
	return i.termWeights[d]
}

// BuildVector returns the query vector for terms. Unknown terms are ignored;
// ok is false when no term is known.
func (i *Index) BuildVector(terms []string) (*Vector, bool) {
	entries := make(map[uint32]float32, len(terms))
	for _, t := range terms {
		if d, ok := i.terms[t]; ok {
			entries[d] = i.termWeight(d)
		}
	}
	v := NewVector(entries)
	if v.IsZero() {
		return nil, false
	}
	return v, true
}

// Candidates returns the documents sharing at least one of dims, in index
// order, at most limit of them. A limit <= 0 means no limit.
func (i *Index) Candidates(dims []uint32, limit int) ([]DocumentVector, error) {
	var positions []uint32
	for _, d := range dims {
		positions = append(positions, i.postings[d]...)
	}
	if len(dims) > 1 {
		sort.Slice(positions, func(a, b int) bool { return positions[a] < positions[b] })
		positions = dedupSorted(positions)
	}
	if limit > 0 && len(positions) > limit {
		positions = positions[:limit]
	}
	out := make([]DocumentVector, 0, len(positions))
	for _, p := range positions {
		if int(p) >= len(i.docs) {
			return nil, fmt.Errorf("%w: position %d", ErrDocumentMissing, p)
		}
		out = append(out, i.docs[p])
	}
	return out, nil
}

func dedupSorted(s []uint32) []uint32 {
	if len(s) == 0 {
		return s
	}
	n := 1
	for k := 1; k < len(s); k++ {
		if s[k] != s[n-1] {
			s[n] = s[k]
			n++
		}
	}
	return s[:n]
}
