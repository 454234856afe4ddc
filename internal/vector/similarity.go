// Package vector provides sparse term vectors and the read-only indices built from them.
package vector

import (
	"math"
	"sort"
)

// Vector is a sparse vector with dimensions in ascending order.
type Vector struct {
	dims    []uint32
	weights []float32
	norm    float64
}

// NewVector builds a vector from a dimension→weight map. Zero weights are dropped.
func NewVector(entries map[uint32]float32) *Vector {
	dims := make([]uint32, 0, len(entries))
	for d, w := range entries {
		if w != 0 {
			dims = append(dims, d)
		}
	}
	sort.Slice(dims, func(i, j int) bool { return dims[i] < dims[j] })
	weights := make([]float32, len(dims))
	for i, d := range dims {
		weights[i] = entries[d]
	}
	return newSorted(dims, weights)
}

// newSorted takes ownership of already sorted, duplicate-free slices.
func newSorted(dims []uint32, weights []float32) *Vector {
	return &Vector{dims: dims, weights: weights, norm: L2Norm(weights)}
}

// Dimensions returns the non-zero dimensions in ascending order.
func (v *Vector) Dimensions() []uint32 {
	return v.dims
}

// Weight returns the weight of dimension d.
func (v *Vector) Weight(d uint32) float32 {
	i := sort.Search(len(v.dims), func(i int) bool { return v.dims[i] >= d })
	if i < len(v.dims) && v.dims[i] == d {
		return v.weights[i]
	}
	return 0
}

// Len returns the number of non-zero dimensions.
func (v *Vector) Len() int {
	return len(v.dims)
}

// IsZero reports whether v has no non-zero dimension.
func (v *Vector) IsZero() bool {
	return v == nil || len(v.dims) == 0 || v.norm == 0
}

// InnerProduct returns the dot product of two sparse vectors.
func InnerProduct(a, b *Vector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(a.dims) && j < len(b.dims) {
		switch {
		case a.dims[i] == b.dims[j]:
			dot += float64(a.weights[i]) * float64(b.weights[j])
			i++
			j++
		case a.dims[i] < b.dims[j]:
			i++
		default:
			j++
		}
	}
	return dot
}

// L2Norm returns the L2 norm of a weight slice.
func L2Norm(x []float32) float64 {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

// CosineSimilarity returns the cosine similarity of a and b clamped to [0,1].
// Zero vectors have similarity 0.
func CosineSimilarity(a, b *Vector) float64 {
	if a.IsZero() || b.IsZero() {
		return 0
	}
	sim := InnerProduct(a, b) / (a.norm * b.norm)
	return math.Max(0, math.Min(1, sim))
}
