// Package metrics exposes Prometheus collectors for searches, suggestions,
// the kanji cache and HTTP traffic.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "jiten"

// Metrics groups the collectors. A nil *Metrics records nothing.
type Metrics struct {
	searchDuration *prometheus.HistogramVec
	searchResults  *prometheus.HistogramVec
	kanjiCache     *prometheus.CounterVec
	suggestions    *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		searchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Search duration in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"domain"},
		),
		searchResults: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_results",
				Help:      "Number of matches per search before pagination",
				Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000},
			},
			[]string{"domain"},
		),
		kanjiCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "kanji_cache_total",
				Help:      "Kanji cache hits and misses",
			},
			[]string{"result"}, // "hit" / "miss"
		),
		suggestions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "suggestions_total",
				Help:      "Suggestion requests by outcome",
			},
			[]string{"outcome"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path", "status"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
	}
	reg.MustRegister(
		m.searchDuration,
		m.searchResults,
		m.kanjiCache,
		m.suggestions,
		m.httpDuration,
		m.httpRequests,
	)
	return m
}

// ObserveSearch records one search in domain.
func (m *Metrics) ObserveSearch(domain string, d time.Duration, total int) {
	if m == nil {
		return
	}
	m.searchDuration.WithLabelValues(domain).Observe(d.Seconds())
	m.searchResults.WithLabelValues(domain).Observe(float64(total))
}

// KanjiCache records n cache hits and misses.
func (m *Metrics) KanjiCache(hits, misses int) {
	if m == nil {
		return
	}
	if hits > 0 {
		m.kanjiCache.WithLabelValues("hit").Add(float64(hits))
	}
	if misses > 0 {
		m.kanjiCache.WithLabelValues("miss").Add(float64(misses))
	}
}

// Suggestion records the outcome of one suggestion request.
func (m *Metrics) Suggestion(outcome string) {
	if m == nil {
		return
	}
	m.suggestions.WithLabelValues(outcome).Inc()
}
