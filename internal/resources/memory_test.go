package resources

import (
	"context"
	"errors"
	"testing"

	"github.com/hyperjump/jiten/internal/storage/storagetest"
	"github.com/hyperjump/jiten/pkg/utils"
)

func TestLoad(t *testing.T) {
	store := storagetest.Seeded(t)

	m, err := Load(context.Background(), store)
	if err != nil {
		t.Fatal(err)
	}
	c := m.Counts()
	if c.Words != len(storagetest.Words) || c.Kanji != len(storagetest.Kanji) ||
		c.Sentences != len(storagetest.Sentences) || c.Names != len(storagetest.Names) {
		t.Errorf("counts: got %+v", c)
	}

	w, ok := m.Word(1358280)
	if !ok || w.Reading() != "食べる" {
		t.Errorf("word: got %+v, %v", w, ok)
	}
	if _, ok := m.Word(1); ok {
		t.Error("unexpected word 1")
	}
	if k, ok := m.KanjiByID(2); !ok || k.Literal != "古" {
		t.Errorf("kanji by id: got %+v, %v", k, ok)
	}
	if k, ok := m.Kanji("古"); !ok || k.ID != 2 {
		t.Errorf("kanji: got %+v, %v", k, ok)
	}
	if s, ok := m.Sentence(2); !ok || s.Japanese == "" {
		t.Errorf("sentence: got %+v, %v", s, ok)
	}
	if n, ok := m.Name(5000001); !ok || n.Transcription != "Tanaka" {
		t.Errorf("name: got %+v, %v", n, ok)
	}
}

func TestPublish(t *testing.T) {
	m := New(nil, nil, nil, nil)
	if err := Publish(m); err != nil {
		t.Fatal(err)
	}
	got, ok := Published()
	if !ok || got != m {
		t.Fatal("published snapshot not returned")
	}
	if err := Publish(New(nil, nil, nil, nil)); !errors.Is(err, utils.ErrAlreadySet) {
		t.Errorf("expected ErrAlreadySet, got %v", err)
	}
}
