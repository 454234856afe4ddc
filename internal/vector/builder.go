package vector

import (
	"math"

	"github.com/hyperjump/jiten/pkg/utils"
)

type builderDoc struct {
	doc Document
	tf  map[uint32]int
}

// Builder accumulates documents and produces a tf-idf weighted Index.
type Builder struct {
	terms map[string]uint32
	vocab []string
	df    []int
	docs  []builderDoc
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{terms: make(map[string]uint32)}
}

// Add registers a document with its terms. Empty terms are skipped and a
// document without terms is dropped.
func (b *Builder) Add(doc Document, terms []string) {
	tf := make(map[uint32]int)
	for _, t := range terms {
		if t == "" {
			continue
		}
		d, ok := b.terms[t]
		if !ok {
			d = uint32(len(b.vocab))
			b.terms[t] = d
			b.vocab = append(b.vocab, t)
			b.df = append(b.df, 0)
		}
		if tf[d] == 0 {
			b.df[d]++
		}
		tf[d]++
	}
	if len(tf) == 0 {
		return
	}
	b.docs = append(b.docs, builderDoc{doc: doc, tf: tf})
}

// Len returns the number of documents added.
func (b *Builder) Len() int {
	return len(b.docs)
}

// Build computes idf weights and L2-normalized document vectors.
func (b *Builder) Build() (*Index, error) {
	n := float64(len(b.docs))
	idf := make([]float32, len(b.vocab))
	for d, df := range b.df {
		idf[d] = float32(math.Log(1 + n/float64(df)))
	}
	docs := make([]DocumentVector, len(b.docs))
	for i, bd := range b.docs {
		entries := make(map[uint32]float32, len(bd.tf))
		for d, tf := range bd.tf {
			entries[d] = float32(1+math.Log(float64(tf))) * idf[d]
		}
		v := NewVector(entries)
		utils.NormalizeL2(v.weights)
		v.norm = L2Norm(v.weights)
		docs[i] = DocumentVector{Document: bd.doc, Vector: v}
	}
	return NewIndex(b.vocab, idf, docs)
}
