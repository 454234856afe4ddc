package vector

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hyperjump/jiten/internal/models"
	"github.com/hyperjump/jiten/pkg/utils"
)

func testIndex(t *testing.T) *Index {
	t.Helper()
	docs := []DocumentVector{
		{Document: Document{SeqIDs: []uint32{10}}, Vector: NewVector(map[uint32]float32{0: 1})},
		{Document: Document{SeqIDs: []uint32{20}}, Vector: NewVector(map[uint32]float32{1: 1, 2: 1})},
		{Document: Document{SeqIDs: []uint32{30, 31}}, Vector: NewVector(map[uint32]float32{0: 1, 2: 1})},
	}
	idx, err := NewIndex([]string{"eat", "drink", "water"}, nil, docs)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	return idx
}

func TestIndex_BuildVector(t *testing.T) {
	idx := testIndex(t)
	v, ok := idx.BuildVector([]string{"water", "unknown", "water"})
	if !ok {
		t.Fatal("expected vector")
	}
	if !reflect.DeepEqual(v.Dimensions(), []uint32{2}) {
		t.Errorf("Dimensions() = %v", v.Dimensions())
	}
	if _, ok := idx.BuildVector([]string{"nothing"}); ok {
		t.Error("out of vocabulary query built a vector")
	}
	if !idx.HasTerm("eat") || idx.HasTerm("Eat") {
		t.Error("HasTerm mismatch")
	}
}

func TestIndex_Candidates(t *testing.T) {
	idx := testIndex(t)

	got, err := idx.Candidates([]uint32{0, 2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d candidates, want 3", len(got))
	}
	if got[0].Document.SeqIDs[0] != 10 || got[2].Document.SeqIDs[0] != 30 {
		t.Errorf("candidates not in index order")
	}

	got, err = idx.Candidates([]uint32{0, 2}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("limit not applied: %d", len(got))
	}

	got, _ = idx.Candidates([]uint32{1}, 0)
	if len(got) != 1 || got[0].Document.SeqIDs[0] != 20 {
		t.Errorf("only documents sharing a dimension expected, got %v", got)
	}
}

func TestNewIndex_Errors(t *testing.T) {
	if _, err := NewIndex([]string{"a", "a"}, nil, nil); err == nil {
		t.Error("duplicate term accepted")
	}
	docs := []DocumentVector{{Vector: NewVector(map[uint32]float32{5: 1})}}
	if _, err := NewIndex([]string{"a"}, nil, docs); err == nil {
		t.Error("dimension outside vocabulary accepted")
	}
	if _, err := NewIndex([]string{"a"}, []float32{1, 2}, nil); err == nil {
		t.Error("weight length mismatch accepted")
	}
}

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder()
	b.Add(Document{SeqIDs: []uint32{1}}, []string{"to", "eat", "to eat"})
	b.Add(Document{SeqIDs: []uint32{2}}, []string{"to", "drink", "to drink"})
	b.Add(Document{SeqIDs: []uint32{3}}, nil)
	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
	idx, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	q, ok := idx.BuildVector([]string{"eat"})
	if !ok {
		t.Fatal("no query vector")
	}
	cands, _ := idx.Candidates(q.Dimensions(), 0)
	if len(cands) != 1 || cands[0].Document.SeqIDs[0] != 1 {
		t.Fatalf("candidates = %v", cands)
	}
	if norm := L2Norm(cands[0].Vector.weights); norm < 0.999 || norm > 1.001 {
		t.Errorf("document vector not normalized: %v", norm)
	}
	// "to" occurs everywhere and must weigh less than "eat".
	toDim, _ := idx.FindTerm("to")
	eatDim, _ := idx.FindTerm("eat")
	if idx.termWeight(toDim) >= idx.termWeight(eatDim) {
		t.Errorf("idf(to)=%v >= idf(eat)=%v", idx.termWeight(toDim), idx.termWeight(eatDim))
	}
}

func TestSaveLoad(t *testing.T) {
	idx := testIndex(t)
	path := filepath.Join(t.TempDir(), "words-foreign", "eng.idx")
	if err := Save(idx, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(loaded.Vocabulary(), idx.Vocabulary()) {
		t.Errorf("vocabulary = %v", loaded.Vocabulary())
	}
	if loaded.Size() != idx.Size() {
		t.Errorf("Size() = %d", loaded.Size())
	}
	cands, err := loaded.Candidates([]uint32{0}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 2 || !reflect.DeepEqual(cands[1].Document.SeqIDs, []uint32{30, 31}) {
		t.Errorf("candidates after load = %v", cands)
	}
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()
	idx := testIndex(t)
	for _, key := range []Key{
		{Domain: DomainWordsForeign, Language: models.English},
		{Domain: DomainWordsForeign, Language: models.German},
		{Domain: DomainWordsNative},
	} {
		if err := Save(idx, Path(dir, key)); err != nil {
			t.Fatal(err)
		}
	}
	if err := Save(idx, filepath.Join(dir, string(DomainKanji), "klingon.idx")); err != nil {
		t.Fatal(err)
	}

	reg, err := LoadRegistry(dir, nil)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if reg.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (keys %v)", reg.Len(), reg.Keys())
	}
	if _, ok := reg.Get(DomainWordsNative, ""); !ok {
		t.Error("language-agnostic index missing")
	}
	if _, ok := reg.Get(DomainWordsForeign, models.German); !ok {
		t.Error("german index missing")
	}
	if _, ok := reg.Get(DomainWordsForeign, models.French); ok {
		t.Error("unexpected french index")
	}
}

func TestPublish_RejectsSecondCall(t *testing.T) {
	r := NewRegistry(nil)
	if err := Publish(r); err != nil {
		t.Fatalf("first Publish: %v", err)
	}
	if err := Publish(NewRegistry(nil)); !errors.Is(err, utils.ErrAlreadySet) {
		t.Errorf("second Publish err = %v, want ErrAlreadySet", err)
	}
	got, ok := Published()
	if !ok || got != r {
		t.Error("Published() did not return the first registry")
	}
}
