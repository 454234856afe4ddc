// Package resources holds the immutable in-memory dictionary snapshot that
// search engines resolve index documents against.
package resources

import (
	"context"
	"fmt"

	"github.com/hyperjump/jiten/internal/models"
	"github.com/hyperjump/jiten/internal/storage"
	"github.com/hyperjump/jiten/pkg/utils"
)

// Memory is a read-only snapshot of the dictionary keyed by id.
type Memory struct {
	words     map[uint32]*models.Word
	sentences map[uint32]*models.Sentence
	names     map[uint32]*models.Name
	kanji     map[string]*models.Kanji
	kanjiByID map[int]*models.Kanji
}

// New builds a snapshot from already loaded records.
func New(words []*models.Word, sentences []*models.Sentence, names []*models.Name, kanji []*models.Kanji) *Memory {
	m := &Memory{
		words:     make(map[uint32]*models.Word, len(words)),
		sentences: make(map[uint32]*models.Sentence, len(sentences)),
		names:     make(map[uint32]*models.Name, len(names)),
		kanji:     make(map[string]*models.Kanji, len(kanji)),
		kanjiByID: make(map[int]*models.Kanji, len(kanji)),
	}
	for _, w := range words {
		m.words[w.Sequence] = w
	}
	for _, s := range sentences {
		m.sentences[s.ID] = s
	}
	for _, n := range names {
		m.names[n.Sequence] = n
	}
	for _, k := range kanji {
		m.kanji[k.Literal] = k
		m.kanjiByID[k.ID] = k
	}
	return m
}

// Load reads every record from store.
func Load(ctx context.Context, store storage.Storage) (*Memory, error) {
	words, err := store.Words(ctx)
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	sentences, err := store.Sentences(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sentences: %w", err)
	}
	names, err := store.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("load names: %w", err)
	}
	kanji, err := store.AllKanji(ctx)
	if err != nil {
		return nil, fmt.Errorf("load kanji: %w", err)
	}
	return New(words, sentences, names, kanji), nil
}

func (m *Memory) Word(seq uint32) (*models.Word, bool) {
	w, ok := m.words[seq]
	return w, ok
}

func (m *Memory) Sentence(id uint32) (*models.Sentence, bool) {
	s, ok := m.sentences[id]
	return s, ok
}

func (m *Memory) Name(seq uint32) (*models.Name, bool) {
	n, ok := m.names[seq]
	return n, ok
}

func (m *Memory) Kanji(literal string) (*models.Kanji, bool) {
	k, ok := m.kanji[literal]
	return k, ok
}

func (m *Memory) KanjiByID(id int) (*models.Kanji, bool) {
	k, ok := m.kanjiByID[id]
	return k, ok
}

// Counts returns the number of words, sentences, names and kanji.
func (m *Memory) Counts() storage.Stats {
	return storage.Stats{
		Words:     len(m.words),
		Kanji:     len(m.kanji),
		Sentences: len(m.sentences),
		Names:     len(m.names),
	}
}

var published utils.OnceValue[Memory]

// Publish makes m the process-wide snapshot. It fails if one is already set.
func Publish(m *Memory) error {
	if err := published.Set(m); err != nil {
		return fmt.Errorf("publish resources: %w", err)
	}
	return nil
}

// Published returns the process-wide snapshot.
func Published() (*Memory, bool) {
	return published.Get()
}
