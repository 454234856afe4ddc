package suggest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/jiten/internal/japanese"
	"github.com/hyperjump/jiten/internal/metrics"
	"github.com/hyperjump/jiten/internal/models"
	"github.com/hyperjump/jiten/internal/query"
	"github.com/hyperjump/jiten/internal/storage"
)

const (
	// DefaultMaxResults caps the suggestions returned.
	DefaultMaxResults = 10
	// DefaultTimeout bounds one suggestion lookup.
	DefaultTimeout = 500 * time.Millisecond
)

// Service produces suggestions for partial input.
type Service struct {
	store      storage.Storage
	registry   *Registry
	parser     *query.Parser
	timeout    time.Duration
	maxResults int
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithMaxResults(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxResults = n
		}
	}
}

func WithParser(p *query.Parser) Option {
	return func(s *Service) { s.parser = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a suggestion service. registry may be nil, in which
// case foreign input yields no suggestions.
func NewService(store storage.Storage, registry *Registry, opts ...Option) *Service {
	s := &Service{
		store:      store,
		registry:   registry,
		parser:     query.NewParser(),
		timeout:    DefaultTimeout,
		maxResults: DefaultMaxResults,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type outcome struct {
	resp *models.SuggestionResponse
	err  error
}

// Suggest validates req and looks up suggestions within the configured
// timeout. Errors wrap models.ErrBadRequest, models.ErrTimeout or
// models.ErrUnexpected.
func (s *Service) Suggest(ctx context.Context, req models.SuggestionRequest) (*models.SuggestionResponse, error) {
	if err := req.Validate(); err != nil {
		s.metrics.Suggestion("bad_request")
		return nil, err
	}

	settings := models.DefaultUserSettings()
	if lang, ok := models.ParseLanguage(req.Lang); ok && lang != "" {
		settings.UserLanguage = lang
	}

	q, err := s.parser.Parse(stripTrailingRomaji(req.Input), models.TargetWords, settings, 1)
	if err != nil {
		s.metrics.Suggestion("bad_request")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		resp, err := s.suggest(ctx, q)
		done <- outcome{resp, err}
	}()

	select {
	case <-ctx.Done():
		s.metrics.Suggestion("timeout")
		s.logger.Warn("suggestion timed out", zap.String("input", req.Input), zap.Duration("timeout", s.timeout))
		return nil, fmt.Errorf("%w: suggestion for %q", models.ErrTimeout, req.Input)
	case o := <-done:
		if o.err != nil {
			if errors.Is(o.err, context.DeadlineExceeded) {
				s.metrics.Suggestion("timeout")
				return nil, fmt.Errorf("%w: suggestion for %q", models.ErrTimeout, req.Input)
			}
			s.metrics.Suggestion("error")
			s.logger.Error("suggestion failed", zap.String("input", req.Input), zap.Error(o.err))
			return nil, fmt.Errorf("%w: %v", models.ErrUnexpected, o.err)
		}
		if len(o.resp.Suggestions) == 0 {
			s.metrics.Suggestion("empty")
		} else {
			s.metrics.Suggestion("ok")
		}
		return o.resp, nil
	}
}

// stripTrailingRomaji drops a Latin letter typed after Japanese text, which
// an IME leaves behind while a kana is still being composed.
func stripTrailingRomaji(input string) string {
	last, size := utf8.DecodeLastRuneInString(input)
	if utf8.RuneCountInString(input) < 2 || !japanese.IsRomanLetter(last) {
		return input
	}
	rest := input[:len(input)-size]
	if !japanese.IsJapaneseText(rest) {
		return input
	}
	return rest
}

func (s *Service) suggest(ctx context.Context, q *models.Query) (*models.SuggestionResponse, error) {
	pairs, err := s.byQuery(ctx, q.Text, q.Language, q.Settings.UserLanguage)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 && japanese.IsHiraganaText(q.Text) {
		pairs, err = s.byQuery(ctx, japanese.HiraganaToKatakana(q.Text), q.Language, q.Settings.UserLanguage)
		if err != nil {
			return nil, err
		}
	}
	if pairs == nil {
		pairs = []models.WordPair{}
	}
	return &models.SuggestionResponse{Suggestions: pairs}, nil
}

// byQuery runs the lookup matching the query language and moves pairs equal
// to text to the front.
func (s *Service) byQuery(ctx context.Context, text string, lang models.QueryLanguage, userLang models.Language) ([]models.WordPair, error) {
	if text == "" {
		return nil, nil
	}

	var (
		pairs []models.WordPair
		err   error
	)
	if lang == models.QueryJapanese {
		pairs, err = s.native(ctx, text)
	} else {
		pairs, err = s.foreign(ctx, text, userLang)
	}
	if err != nil {
		return nil, err
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Matches(text) && !pairs[j].Matches(text)
	})
	return pairs, nil
}

func (s *Service) foreign(ctx context.Context, text string, lang models.Language) ([]models.WordPair, error) {
	if s.registry == nil {
		return nil, nil
	}
	entries, err := s.registry.Search(ctx, lang, text, s.maxResults)
	if err != nil {
		return nil, err
	}
	pairs := make([]models.WordPair, len(entries))
	for i, e := range entries {
		pairs[i] = models.WordPair{Primary: e.Text}
	}
	return pairs, nil
}

// native looks up words whose reading starts with text and pairs each kana
// reading with its kanji form. Lookups run concurrently; order follows the
// sequence lookup.
func (s *Service) native(ctx context.Context, text string) ([]models.WordPair, error) {
	seqs, err := s.store.SuggestionSequences(ctx, text, s.maxResults)
	if err != nil {
		return nil, err
	}

	readings := make([][]models.Dict, len(seqs))
	g, gctx := errgroup.WithContext(ctx)
	for i, seq := range seqs {
		i, seq := i, seq
		g.Go(func() error {
			dicts, err := s.store.SuggestionReadings(gctx, seq)
			if err != nil {
				return err
			}
			readings[i] = dicts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pairs := make([]models.WordPair, 0, len(seqs))
	for _, dicts := range readings {
		if p, ok := pairReadings(dicts); ok {
			pairs = append(pairs, p)
		}
	}
	return pairs, nil
}

// pairReadings uses the first kana reading as primary and the first kanji
// reading, if any, as secondary. Words without a kana reading are skipped.
func pairReadings(dicts []models.Dict) (models.WordPair, bool) {
	var pair models.WordPair
	found := false
	for _, d := range dicts {
		if !d.Kanji && !found {
			pair.Primary = d.Reading
			found = true
		}
		if d.Kanji && pair.Secondary == nil {
			reading := d.Reading
			pair.Secondary = &reading
		}
	}
	return pair, found
}
