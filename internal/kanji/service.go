package kanji

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/jiten/internal/japanese"
	"github.com/hyperjump/jiten/internal/metrics"
	"github.com/hyperjump/jiten/internal/models"
	"github.com/hyperjump/jiten/internal/storage"
)

// Service looks up kanji through the cache and the store.
type Service struct {
	store     storage.Storage
	cache     *Cache
	tokenizer japanese.Tokenizer
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCache replaces the default cache.
func WithCache(c *Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithTokenizer sets the tokenizer used to count morphemes when ranking kun
// compounds. nil disables that criterion.
func WithTokenizer(t japanese.Tokenizer) Option {
	return func(s *Service) { s.tokenizer = t }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a kanji service backed by store.
func NewService(store storage.Storage, opts ...Option) (*Service, error) {
	s := &Service{
		store:     store,
		tokenizer: japanese.NewScriptSegmenter(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		c, err := NewCache(DefaultCacheCapacity)
		if err != nil {
			return nil, err
		}
		s.cache = c
	}
	return s, nil
}

// Cache returns the service cache.
func (s *Service) Cache() *Cache {
	return s.cache
}

// FindByLiteral returns the kanji written literal.
func (s *Service) FindByLiteral(ctx context.Context, literal string) (*models.Kanji, error) {
	list, err := s.FindByLiterals(ctx, []string{literal})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: kanji %s", models.ErrNotFound, literal)
	}
	return list[0], nil
}

// FindByLiterals returns the known kanji among literals in the order of their
// first occurrence. Unknown literals are skipped.
func (s *Service) FindByLiterals(ctx context.Context, literals []string) ([]*models.Kanji, error) {
	literals = uniqueStrings(literals)
	if len(literals) == 0 {
		return nil, nil
	}

	hits, misses := s.cache.ByLiterals(literals)
	s.metrics.KanjiCache(len(hits), len(misses))

	found := make(map[string]*models.Kanji, len(literals))
	for _, k := range hits {
		found[k.Literal] = k
	}
	if len(misses) > 0 {
		loaded, err := s.store.KanjiByLiterals(ctx, misses)
		if err != nil {
			return nil, fmt.Errorf("load kanji: %w", err)
		}
		s.cache.Add(loaded...)
		for _, k := range loaded {
			found[k.Literal] = k
		}
	}

	out := make([]*models.Kanji, 0, len(found))
	for _, l := range literals {
		if k, ok := found[l]; ok {
			out = append(out, k)
		}
	}
	return out, nil
}

// LoadByIDs returns the known kanji among ids in the order given.
func (s *Service) LoadByIDs(ctx context.Context, ids []int) ([]*models.Kanji, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	hits, misses := s.cache.ByIDs(ids)
	s.metrics.KanjiCache(len(hits), len(misses))

	found := make(map[int]*models.Kanji, len(ids))
	for _, k := range hits {
		found[k.ID] = k
	}
	if len(misses) > 0 {
		loaded, err := s.store.KanjiByIDs(ctx, misses)
		if err != nil {
			return nil, fmt.Errorf("load kanji: %w", err)
		}
		s.cache.Add(loaded...)
		for _, k := range loaded {
			found[k.ID] = k
		}
	}

	out := make([]*models.Kanji, 0, len(found))
	for _, id := range ids {
		if k, ok := found[id]; ok {
			out = append(out, k)
			delete(found, id)
		}
	}
	return out, nil
}

// KunCompounds returns up to MaxKunCompounds sequences of words written with
// k and read with one of its kun readings.
func (s *Service) KunCompounds(ctx context.Context, k *models.Kanji) ([]uint32, error) {
	if len(k.Kunyomi) == 0 {
		return nil, nil
	}
	candidates, err := s.store.KanjiHeadedDicts(ctx, k.Literal)
	if err != nil {
		return nil, fmt.Errorf("load compounds of %s: %w", k.Literal, err)
	}
	matched := MatchKunCompounds(k.Literal, k.Kunyomi, candidates, s.tokenizer)
	seqs := make([]uint32, len(matched))
	for i, m := range matched {
		seqs[i] = m.Sequence
	}
	return seqs, nil
}

// LinkKunCompounds recomputes and stores the kun compounds of every kanji.
// It returns the number of kanji that received at least one compound.
func (s *Service) LinkKunCompounds(ctx context.Context) (int, error) {
	all, err := s.store.AllKanji(ctx)
	if err != nil {
		return 0, fmt.Errorf("load kanji: %w", err)
	}
	linked := 0
	for _, k := range all {
		if err := ctx.Err(); err != nil {
			return linked, err
		}
		seqs, err := s.KunCompounds(ctx, k)
		if err != nil {
			return linked, err
		}
		if err := s.store.SetKunDicts(ctx, k.ID, seqs); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				s.logger.Warn("kanji vanished while linking", zap.String("literal", k.Literal))
				continue
			}
			return linked, err
		}
		if len(seqs) > 0 {
			linked++
		}
	}
	s.logger.Info("kun compounds linked", zap.Int("kanji", len(all)), zap.Int("linked", linked))
	return linked, nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
