// Package server provides the HTTP API for Jiten.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hyperjump/jiten/internal/config"
	"github.com/hyperjump/jiten/internal/kanji"
	"github.com/hyperjump/jiten/internal/metrics"
	"github.com/hyperjump/jiten/internal/search"
	"github.com/hyperjump/jiten/internal/storage"
	"github.com/hyperjump/jiten/internal/suggest"
)

// Server is the HTTP server for the Jiten API.
type Server struct {
	search   *search.Service
	suggest  *suggest.Service
	kanji    *kanji.Service
	storage  storage.Storage
	config   *config.Config
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	logger   *zap.Logger
	server   *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records request metrics into m and serves g on /metrics.
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a server with the given dependencies.
func NewServer(
	searchSvc *search.Service,
	suggestSvc *suggest.Service,
	kanjiSvc *kanji.Service,
	store storage.Storage,
	cfg *config.Config,
	opts ...Option,
) *Server {
	s := &Server{
		search:  searchSvc,
		suggest: suggestSvc,
		kanji:   kanjiSvc,
		storage: store,
		config:  cfg,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.metrics.Middleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Route("/api", func(r chi.Router) {
		r.Post("/suggestion", s.handleSuggestion)
		r.Post("/search/{target}", s.handleSearch)
		r.Get("/kanji/{literal}", s.handleKanji)
	})
	r.Get("/health", s.handleHealth)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := s.config.Server.Addr()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
