// Package indexer builds the vector indices from the dictionary store and
// imports dictionary records into it.
package indexer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/jiten/internal/kanji"
	"github.com/hyperjump/jiten/internal/models"
	"github.com/hyperjump/jiten/internal/search"
	"github.com/hyperjump/jiten/internal/storage"
	"github.com/hyperjump/jiten/internal/vector"
)

// Indexer derives the per-domain indices from a store.
type Indexer struct {
	store  storage.Storage
	terms  *search.Terms
	kanji  *kanji.Service // optional; when set, Run links kun compounds first
	logger *zap.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for progress output.
func WithLogger(l *zap.Logger) IndexerOption {
	return func(ix *Indexer) { ix.logger = l }
}

// WithTerms sets the term extractor shared with the search engines.
func WithTerms(t *search.Terms) IndexerOption {
	return func(ix *Indexer) { ix.terms = t }
}

// WithKanjiService makes Run refresh the kun compound links of every kanji.
func WithKanjiService(k *kanji.Service) IndexerOption {
	return func(ix *Indexer) { ix.kanji = k }
}

// NewIndexer creates an indexer over store.
func NewIndexer(store storage.Storage, opts ...IndexerOption) *Indexer {
	ix := &Indexer{store: store, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(ix)
	}
	if ix.terms == nil {
		ix.terms = search.NewTerms(nil)
	}
	if ix.logger == nil {
		ix.logger = zap.NewNop()
	}
	return ix
}

// Report summarizes a Run.
type Report struct {
	Indices    int
	Documents  int
	KunLinked  int
	Duration   time.Duration
	IndexStats []IndexStat
}

// IndexStat describes one written index.
type IndexStat struct {
	Key       vector.Key
	Documents int
	Terms     int
	Path      string
}

type builders map[vector.Key]*vector.Builder

// ensure registers an empty builder for key unless one exists.
func (b builders) ensure(key vector.Key) {
	if _, ok := b[key]; !ok {
		b[key] = vector.NewBuilder()
	}
}

func (b builders) add(key vector.Key, seq uint32, terms []string) {
	if len(terms) == 0 {
		return
	}
	bl, ok := b[key]
	if !ok {
		bl = vector.NewBuilder()
		b[key] = bl
	}
	bl.Add(vector.Document{SeqIDs: []uint32{seq}}, terms)
}

// Build reads every record from the store and returns the resulting indices.
func (ix *Indexer) Build(ctx context.Context) (*vector.Registry, error) {
	b := make(builders)

	words, err := ix.store.Words(ctx)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	for _, w := range words {
		b.add(vector.Key{Domain: vector.DomainWordsNative}, w.Sequence, ix.terms.WordNative(w))
		for _, lang := range senseLanguages(w) {
			b.add(vector.Key{Domain: vector.DomainWordsForeign, Language: lang}, w.Sequence, ix.terms.WordForeign(w, lang))
		}
	}

	sentences, err := ix.store.Sentences(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sentences: %w", err)
	}
	for _, s := range sentences {
		b.add(vector.Key{Domain: vector.DomainSentencesNative}, s.ID, ix.terms.SentenceNative(s))
		for lang := range s.Translations {
			b.add(vector.Key{Domain: vector.DomainSentencesForeign, Language: lang}, s.ID, ix.terms.SentenceForeign(s, lang))
		}
	}

	kanjis, err := ix.store.AllKanji(ctx)
	if err != nil {
		return nil, fmt.Errorf("list kanji: %w", err)
	}
	for _, k := range kanjis {
		b.add(vector.Key{Domain: vector.DomainKanji}, uint32(k.ID), ix.terms.Kanji(k))
	}

	names, err := ix.store.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}
	for _, n := range names {
		b.add(vector.Key{Domain: vector.DomainNamesNative}, n.Sequence, ix.terms.NameNative(n))
		b.add(vector.Key{Domain: vector.DomainNamesForeign}, n.Sequence, ix.terms.NameForeign(n))
	}

	// Every selectable user language gets a foreign index, empty when the
	// data has no glosses or translations in it.
	for _, lang := range models.Languages {
		b.ensure(vector.Key{Domain: vector.DomainWordsForeign, Language: lang})
		b.ensure(vector.Key{Domain: vector.DomainSentencesForeign, Language: lang})
	}
	for _, d := range []vector.Domain{vector.DomainWordsNative, vector.DomainSentencesNative, vector.DomainKanji, vector.DomainNamesNative, vector.DomainNamesForeign} {
		b.ensure(vector.Key{Domain: d})
	}

	indices := make(map[vector.Key]*vector.Index, len(b))
	for key, bl := range b {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		idx, err := bl.Build()
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", key, err)
		}
		indices[key] = idx
		ix.logger.Debug("index built",
			zap.Stringer("key", key),
			zap.Int("documents", idx.Size()),
			zap.Int("terms", len(idx.Vocabulary())),
		)
	}
	return vector.NewRegistry(indices), nil
}

// Write saves every index of reg below dir.
func (ix *Indexer) Write(reg *vector.Registry, dir string) ([]IndexStat, error) {
	stats := make([]IndexStat, 0, reg.Len())
	for _, key := range reg.Keys() {
		idx, _ := reg.Get(key.Domain, key.Language)
		path := vector.Path(dir, key)
		if err := vector.Save(idx, path); err != nil {
			return nil, fmt.Errorf("write %s: %w", key, err)
		}
		stats = append(stats, IndexStat{
			Key:       key,
			Documents: idx.Size(),
			Terms:     len(idx.Vocabulary()),
			Path:      path,
		})
	}
	return stats, nil
}

// Run links kun compounds when a kanji service is configured, then builds
// and writes every index below dir.
func (ix *Indexer) Run(ctx context.Context, dir string) (*Report, error) {
	start := time.Now()
	report := &Report{}
	if ix.kanji != nil {
		linked, err := ix.kanji.LinkKunCompounds(ctx)
		if err != nil {
			return nil, err
		}
		report.KunLinked = linked
		ix.logger.Info("kun compounds linked", zap.Int("kanji", linked))
	}
	reg, err := ix.Build(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := ix.Write(reg, dir)
	if err != nil {
		return nil, err
	}
	report.IndexStats = stats
	report.Indices = len(stats)
	for _, s := range stats {
		report.Documents += s.Documents
	}
	report.Duration = time.Since(start)
	ix.logger.Info("indices written",
		zap.String("dir", dir),
		zap.Int("indices", report.Indices),
		zap.Int("documents", report.Documents),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

func senseLanguages(w *models.Word) []models.Language {
	var out []models.Language
	for _, s := range w.Senses {
		seen := false
		for _, l := range out {
			if l == s.Language {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, s.Language)
		}
	}
	return out
}
