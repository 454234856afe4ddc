package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hyperjump/jiten/internal/models"
	"github.com/hyperjump/jiten/internal/vector"
)

// fakeEngine resolves terms by splitting the query on spaces and maps each
// document to "doc<seq>" for every sequence id.
type fakeEngine struct {
	indices map[models.Language]*vector.Index
	aligned map[string]string
}

func (e *fakeEngine) Index(lang models.Language) (*vector.Index, bool) {
	idx, ok := e.indices[lang]
	return idx, ok
}

func (e *fakeEngine) QueryVector(idx *vector.Index, query string, _ models.Language) (*vector.Vector, bool) {
	return idx.BuildVector(strings.Fields(query))
}

func (e *fakeEngine) Outputs(doc vector.Document) []string {
	out := make([]string, len(doc.SeqIDs))
	for i, s := range doc.SeqIDs {
		out[i] = fmt.Sprintf("doc%d", s)
	}
	return out
}

type aligningEngine struct{ *fakeEngine }

func (e aligningEngine) Align(_ *vector.Index, query string, _ models.Language) (string, bool) {
	a, ok := e.aligned[query]
	return a, ok
}

func mustIndex(t *testing.T, vocab []string, docs ...vector.DocumentVector) *vector.Index {
	t.Helper()
	idx, err := vector.NewIndex(vocab, nil, docs)
	if err != nil {
		t.Fatal(err)
	}
	return idx
}

func doc(vec map[uint32]float32, seqs ...uint32) vector.DocumentVector {
	return vector.DocumentVector{Document: vector.Document{SeqIDs: seqs}, Vector: vector.NewVector(vec)}
}

// rankingIndex has documents whose similarity to "a" decreases with their id.
func rankingIndex(t *testing.T) *vector.Index {
	return mustIndex(t, []string{"a", "b", "c", "d"},
		doc(map[uint32]float32{0: 1}, 1),
		doc(map[uint32]float32{0: 1, 1: 0.2}, 2),
		doc(map[uint32]float32{0: 1, 1: 0.5}, 3),
		doc(map[uint32]float32{0: 1, 1: 1}, 4),
		doc(map[uint32]float32{0: 1, 1: 1, 2: 1}, 5),
		doc(map[uint32]float32{0: 1, 1: 1, 2: 1, 3: 1}, 6),
		doc(map[uint32]float32{1: 1}, 7),
	)
}

func TestTask_SingleDocument(t *testing.T) {
	idx := mustIndex(t, []string{"zero", "one"}, doc(map[uint32]float32{1: 1}, 42))
	e := &fakeEngine{indices: map[models.Language]*vector.Index{"": idx}}

	for _, limit := range []int{1, 5, 1000} {
		t.Run(fmt.Sprintf("limit %d", limit), func(t *testing.T) {
			res, err := NewTask[string](e, "one").WithLimit(limit).Find(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if res.Len() != 1 || res.Total != 1 {
				t.Fatalf("got %d items (total %d), want 1", res.Len(), res.Total)
			}
			if res.Items[0].Item != "doc42" || res.Items[0].Relevance != 100 {
				t.Errorf("item = %+v, want doc42 with relevance 100", res.Items[0])
			}
			if res.Items[0].Language != "" {
				t.Errorf("language = %q, want empty", res.Items[0].Language)
			}
		})
	}
}

func TestTask_SortedAndPaginated(t *testing.T) {
	e := &fakeEngine{indices: map[models.Language]*vector.Index{"": rankingIndex(t)}}
	ctx := context.Background()

	full, err := NewTask[string](e, "a").WithThreshold(0).Find(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if full.Total != 6 || full.Len() != 6 {
		t.Fatalf("full ranking: %d items, total %d", full.Len(), full.Total)
	}
	for i := 1; i < full.Len(); i++ {
		if full.Items[i-1].Relevance < full.Items[i].Relevance {
			t.Fatalf("items not sorted at %d: %v", i, full.Items)
		}
	}
	if full.Items[0].Item != "doc1" {
		t.Errorf("best item = %s, want doc1", full.Items[0].Item)
	}

	for offset := 0; offset <= 7; offset++ {
		for limit := 0; limit <= 7; limit++ {
			page, err := NewTask[string](e, "a").WithThreshold(0).WithOffset(offset).WithLimit(limit).Find(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if page.Len() > limit {
				t.Fatalf("offset %d limit %d: %d items exceed limit", offset, limit, page.Len())
			}
			if page.Total != full.Total {
				t.Errorf("offset %d limit %d: total %d, want %d", offset, limit, page.Total, full.Total)
			}
			for i, it := range page.Items {
				if want := full.Items[offset+i].Item; it.Item != want {
					t.Errorf("offset %d limit %d: item %d = %s, want %s", offset, limit, i, it.Item, want)
				}
			}
		}
	}
}

func TestTask_ThresholdIsExclusive(t *testing.T) {
	e := &fakeEngine{indices: map[models.Language]*vector.Index{"": rankingIndex(t)}}
	// doc4 is {a:1, b:1}: similarity to "a" is exactly 1/sqrt(2).
	threshold := vector.CosineSimilarity(
		vector.NewVector(map[uint32]float32{0: 1}),
		vector.NewVector(map[uint32]float32{0: 1, 1: 1}),
	)
	res, err := NewTask[string](e, "a").WithThreshold(threshold).
		WithOrder(func(item string, sim float64, _ string, _ models.Language) int {
			if sim <= threshold {
				t.Errorf("%s scored with similarity %v <= threshold", item, sim)
			}
			return int(sim * 1000)
		}).Find(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, it := range res.Items {
		if it.Item == "doc4" || it.Item == "doc5" || it.Item == "doc6" {
			t.Errorf("%s returned with similarity at or below threshold", it.Item)
		}
	}
	if res.Total != 3 {
		t.Errorf("total = %d, want 3", res.Total)
	}
}

func TestTask_DeduplicatesAcrossQueries(t *testing.T) {
	eng := mustIndex(t, []string{"water", "drink"},
		doc(map[uint32]float32{0: 1}, 1),
		doc(map[uint32]float32{0: 1, 1: 1}, 2))
	ger := mustIndex(t, []string{"wasser"},
		doc(map[uint32]float32{0: 1}, 1, 3))
	e := &fakeEngine{indices: map[models.Language]*vector.Index{models.English: eng, models.German: ger}}

	res, err := NewLanguageTask[string](e, "water", models.English).
		AddQuery("wasser", models.German).
		Find(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	count := map[string]int{}
	for _, it := range res.Items {
		count[it.Item]++
	}
	if count["doc1"] != 1 {
		t.Errorf("doc1 appears %d times, want 1", count["doc1"])
	}
	if res.Total != 3 {
		t.Errorf("total = %d, want 3", res.Total)
	}
	for _, it := range res.Items {
		if it.Item == "doc1" && it.Language != models.English {
			t.Errorf("doc1 language = %s, want first occurrence (eng)", it.Language)
		}
		if it.Item == "doc3" && it.Language != models.German {
			t.Errorf("doc3 language = %s, want ger", it.Language)
		}
	}
}

func TestTask_Filters(t *testing.T) {
	e := &fakeEngine{indices: map[models.Language]*vector.Index{"": rankingIndex(t)}}
	res, err := NewTask[string](e, "a").
		WithThreshold(0).
		WithVectorFilter(func(d vector.Document) bool { return d.SeqIDs[0] != 1 }).
		WithResultFilter(func(s string) bool { return s != "doc2" }).
		Find(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, it := range res.Items {
		if it.Item == "doc1" || it.Item == "doc2" {
			t.Errorf("filtered item %s returned", it.Item)
		}
	}
	if res.Total != 4 {
		t.Errorf("total = %d, want 4", res.Total)
	}
}

func TestTask_NoVectorIsEmpty(t *testing.T) {
	e := &fakeEngine{indices: map[models.Language]*vector.Index{"": rankingIndex(t)}}
	res, err := NewTask[string](e, "unknown words").Find(context.Background())
	if err != nil {
		t.Fatalf("out of vocabulary query returned error: %v", err)
	}
	if !res.IsEmpty() || res.Len() != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestTask_MissingIndex(t *testing.T) {
	e := &fakeEngine{indices: map[models.Language]*vector.Index{}}
	_, err := NewLanguageTask[string](e, "water", models.French).Find(context.Background())
	if !errors.Is(err, models.ErrUnexpected) {
		t.Errorf("err = %v, want ErrUnexpected", err)
	}
}

func TestTask_Align(t *testing.T) {
	base := &fakeEngine{
		indices: map[models.Language]*vector.Index{"": rankingIndex(t)},
		aligned: map[string]string{"aa": "a"},
	}
	e := aligningEngine{base}

	res, err := NewTask[string](e, "aa").Find(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.IsEmpty() {
		t.Error("aligned query found nothing")
	}
	res, err = NewTask[string](e, "aa").WithAlign(false).Find(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsEmpty() {
		t.Error("alignment used although disabled")
	}
}

func TestTask_HasTerm(t *testing.T) {
	e := &fakeEngine{indices: map[models.Language]*vector.Index{"": rankingIndex(t)}}
	if !NewTask[string](e, "a").HasTerm() {
		t.Error("HasTerm(a) = false")
	}
	if NewTask[string](e, "z").HasTerm() {
		t.Error("HasTerm(z) = true")
	}
	if NewTask[string](e, "").Queries() != 0 {
		t.Error("empty query added")
	}
}

func TestTopK(t *testing.T) {
	top := newTopK[string](3)
	for i, rel := range []int{5, 9, 1, 9, 7, 3} {
		top.Push(ResultItem[string]{Item: fmt.Sprint(i), Relevance: rel})
	}
	got := top.Drain()
	want := []string{"1", "3", "4"}
	if len(got) != len(want) {
		t.Fatalf("Drain() = %v", got)
	}
	for i := range want {
		if got[i].Item != want[i] {
			t.Errorf("Drain()[%d] = %s, want %s", i, got[i].Item, want[i])
		}
	}
}
