package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/jiten/internal/engine"
	"github.com/hyperjump/jiten/internal/japanese"
	"github.com/hyperjump/jiten/internal/kanji"
	"github.com/hyperjump/jiten/internal/metrics"
	"github.com/hyperjump/jiten/internal/models"
	"github.com/hyperjump/jiten/internal/query"
	"github.com/hyperjump/jiten/internal/resources"
	"github.com/hyperjump/jiten/internal/vector"
)

// Config tunes every task the service runs.
type Config struct {
	Threshold   float64
	VectorLimit int
	AllowAlign  bool
	// MaxPageSize caps the page size a request may ask for. Zero disables the cap.
	MaxPageSize int
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Threshold:   engine.DefaultThreshold,
		VectorLimit: engine.DefaultVectorLimit,
		AllowAlign:  true,
		MaxPageSize: 100,
	}
}

// Service answers search requests for all targets.
type Service struct {
	kanji   *kanji.Service
	parser  *query.Parser
	cfg     Config
	metrics *metrics.Metrics
	logger  *zap.Logger

	foreignWords     engine.Engine[*models.Word]
	nativeWords      engine.Engine[*models.Word]
	foreignSentences engine.Engine[*models.Sentence]
	nativeSentences  engine.Engine[*models.Sentence]
	kanjiMeanings    engine.Engine[*models.Kanji]
	foreignNames     engine.Engine[*models.Name]
	nativeNames      engine.Engine[*models.Name]
}

// Option configures a Service.
type Option func(*Service)

func WithConfig(cfg Config) Option {
	return func(s *Service) { s.cfg = cfg }
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

// NewService wires the domain engines over indices and res. kanjiSvc serves
// kanji lookups by literal.
func NewService(indices *vector.Registry, res *resources.Memory, kanjiSvc *kanji.Service, terms *Terms, opts ...Option) *Service {
	if terms == nil {
		terms = NewTerms(nil)
	}
	s := &Service{
		kanji:  kanjiSvc,
		parser: query.NewParser(),
		cfg:    DefaultConfig(),
		logger: zap.NewNop(),

		foreignWords:     NewForeignWordsEngine(indices, res, terms),
		nativeWords:      NewNativeWordsEngine(indices, res, terms),
		foreignSentences: NewForeignSentencesEngine(indices, res, terms),
		nativeSentences:  NewNativeSentencesEngine(indices, res, terms),
		kanjiMeanings:    NewKanjiMeaningsEngine(indices, res, terms),
		foreignNames:     NewForeignNamesEngine(indices, res, terms),
		nativeNames:      NewNativeNamesEngine(indices, res, terms),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// configure applies the service configuration and the query's page.
func configure[T comparable](s *Service, t *engine.Task[T], q *models.Query) *engine.Task[T] {
	return t.WithThreshold(s.cfg.Threshold).
		WithVectorLimit(s.cfg.VectorLimit).
		WithAlign(s.cfg.AllowAlign).
		WithLimit(q.PageSize()).
		WithOffset(q.Offset()).
		WithLogger(s.logger)
}

// Search parses req and runs it against target, which a search-type tag in
// the query may override.
func (s *Service) Search(ctx context.Context, target models.SearchTarget, req models.SearchRequest) (*models.SearchResponse, error) {
	if s.cfg.MaxPageSize > 0 && req.PageSize > s.cfg.MaxPageSize {
		req.PageSize = s.cfg.MaxPageSize
	}
	q, err := s.parser.Parse(req.Query, target, req.Settings(), req.Page)
	if err != nil {
		return nil, err
	}
	start := time.Now()

	var (
		entries []models.ResultEntry
		total   int
	)
	switch q.Target {
	case models.TargetKanji:
		var res *engine.Result[*models.Kanji]
		if res, err = s.Kanji(ctx, q); err == nil {
			entries, total = toEntries(res), res.Total
		}
	case models.TargetSentences:
		var res *engine.Result[*models.Sentence]
		if res, err = s.Sentences(ctx, q); err == nil {
			entries, total = toEntries(res), res.Total
		}
	case models.TargetNames:
		var res *engine.Result[*models.Name]
		if res, err = s.Names(ctx, q); err == nil {
			entries, total = toEntries(res), res.Total
		}
	default:
		var res *engine.Result[*models.Word]
		if res, err = s.Words(ctx, q); err == nil {
			entries, total = toEntries(res), res.Total
		}
	}
	elapsed := time.Since(start)
	if err != nil {
		s.logger.Error("search failed",
			zap.String("query", q.Text),
			zap.Stringer("target", q.Target),
			zap.Error(err))
		return nil, err
	}
	s.metrics.ObserveSearch(q.Target.String(), elapsed, total)

	tags := make([]string, len(q.Tags))
	for i, t := range q.Tags {
		tags[i] = t.String()
	}
	return &models.SearchResponse{
		Query:     q.Text,
		Target:    q.Target.String(),
		Tags:      tags,
		Results:   entries,
		Total:     total,
		QueryTime: elapsed.Milliseconds(),
	}, nil
}

func toEntries[T comparable](res *engine.Result[T]) []models.ResultEntry {
	out := make([]models.ResultEntry, len(res.Items))
	for i, it := range res.Items {
		out[i] = models.ResultEntry{Item: it.Item, Relevance: it.Relevance, Language: it.Language}
	}
	return out
}

// Words searches readings for Japanese queries and glosses otherwise. A
// "<kanji> <reading>" query lists words using the kanji with that reading.
func (s *Service) Words(ctx context.Context, q *models.Query) (*engine.Result[*models.Word], error) {
	var task *engine.Task[*models.Word]
	tagFilter := wordFilter(q)
	filter := tagFilter

	switch {
	case q.Form == models.FormKanjiReading:
		literal, reading, _ := splitKanjiReading(q.Text)
		readingFilter := kanjiReadingFilter(literal, reading)
		task = engine.NewTask(s.nativeWords, literal)
		filter = func(w *models.Word) bool { return tagFilter(w) && readingFilter(w) }
	case q.IsJapanese():
		task = engine.NewTask(s.nativeWords, q.Text)
	default:
		lang := q.Settings.UserLanguage
		task = engine.NewLanguageTask(s.foreignWords, q.Text, lang)
		if q.Settings.ShowEnglish && lang != models.English {
			task.AddQuery(q.Text, models.English)
		}
	}

	return configure(s, task, q).
		WithResultFilter(filter).
		WithOrder(wordOrder(q)).
		Find(ctx)
}

// Sentences searches Japanese text for Japanese queries and translations
// otherwise. Only sentences readable in the user's languages are returned.
func (s *Service) Sentences(ctx context.Context, q *models.Query) (*engine.Result[*models.Sentence], error) {
	readable := sentenceFilter(q.Settings)

	if q.Form == models.FormKanjiReading {
		literal, reading, _ := splitKanjiReading(q.Text)
		byReading := sentenceReadingFilter(literal, reading)
		task := engine.NewTask(s.nativeSentences, literal)
		return configure(s, task, q).
			WithResultFilter(func(st *models.Sentence) bool { return readable(st) && byReading(st) }).
			Find(ctx)
	}

	if q.IsJapanese() {
		task := engine.NewTask(s.nativeSentences, q.Text)
		return configure(s, task, q).WithResultFilter(readable).Find(ctx)
	}

	lang := q.Settings.UserLanguage
	task := engine.NewLanguageTask(s.foreignSentences, q.Text, lang)
	if q.Settings.ShowEnglish && lang != models.English {
		task.AddQuery(q.Text, models.English)
	}
	return configure(s, task, q).
		WithResultFilter(readable).
		WithOrder(foreignSentenceOrder(q.Settings)).
		Find(ctx)
}

// Kanji looks up every kanji of a Japanese query in order of appearance and
// searches meanings otherwise.
func (s *Service) Kanji(ctx context.Context, q *models.Query) (*engine.Result[*models.Kanji], error) {
	if !q.IsJapanese() && q.Form != models.FormKanjiReading {
		task := engine.NewTask(s.kanjiMeanings, q.Text)
		return configure(s, task, q).WithOrder(kanjiMeaningOrder).Find(ctx)
	}

	text := q.Text
	if literal, _, ok := splitKanjiReading(text); ok {
		text = literal
	}
	found, err := s.kanji.FindByLiterals(ctx, japanese.Kanji(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnexpected, err)
	}

	res := &engine.Result[*models.Kanji]{Total: len(found)}
	offset, limit := q.Offset(), q.PageSize()
	for i := offset; i < len(found) && i < offset+limit; i++ {
		res.Items = append(res.Items, engine.ResultItem[*models.Kanji]{
			Item:      found[i],
			Relevance: len(found) - i,
		})
	}
	return res, nil
}

// Names searches readings for Japanese queries and transcriptions otherwise.
func (s *Service) Names(ctx context.Context, q *models.Query) (*engine.Result[*models.Name], error) {
	e := s.foreignNames
	if q.IsJapanese() {
		e = s.nativeNames
	}
	return configure(s, engine.NewTask(e, q.Text), q).Find(ctx)
}
