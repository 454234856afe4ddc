package vector

import (
	"fmt"
	"testing"
)

func benchIndex(b *testing.B, docs int) *Index {
	b.Helper()
	builder := NewBuilder()
	for i := 0; i < docs; i++ {
		terms := []string{
			fmt.Sprintf("t%d", i%97),
			fmt.Sprintf("t%d", i%13),
			fmt.Sprintf("t%d", i%7),
		}
		builder.Add(Document{SeqIDs: []uint32{uint32(i)}}, terms)
	}
	idx, err := builder.Build()
	if err != nil {
		b.Fatal(err)
	}
	return idx
}

func BenchmarkBuilder_Build(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = benchIndex(b, 1000)
	}
}

func BenchmarkIndex_Candidates(b *testing.B) {
	idx := benchIndex(b, 10000)
	q, ok := idx.BuildVector([]string{"t3", "t5"})
	if !ok {
		b.Fatal("query has no known terms")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cands, _ := idx.Candidates(q.Dimensions(), 100000)
		for _, c := range cands {
			_ = CosineSimilarity(q, c.Vector)
		}
	}
}
