package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/hyperjump/jiten/internal/config"
	"github.com/hyperjump/jiten/internal/indexer"
	"github.com/hyperjump/jiten/internal/kanji"
	"github.com/hyperjump/jiten/internal/metrics"
	"github.com/hyperjump/jiten/internal/models"
	"github.com/hyperjump/jiten/internal/resources"
	"github.com/hyperjump/jiten/internal/search"
	"github.com/hyperjump/jiten/internal/storage/storagetest"
	"github.com/hyperjump/jiten/internal/suggest"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()
	store := storagetest.Seeded(t)

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	dir := t.TempDir()
	cfg.Storage.DatabasePath = filepath.Join(dir, "jiten.db")
	cfg.Storage.IndexDir = filepath.Join(dir, "indices")
	cfg.Storage.SuggestionDir = filepath.Join(dir, "suggestions")

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	terms := search.NewTerms(nil)
	indices, err := indexer.NewIndexer(store, indexer.WithTerms(terms)).Build(ctx)
	if err != nil {
		t.Fatal(err)
	}
	res, err := resources.Load(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	kanjiSvc, err := kanji.NewService(store, kanji.WithMetrics(m))
	if err != nil {
		t.Fatal(err)
	}
	searchSvc := search.NewService(indices, res, kanjiSvc, terms, search.WithMetrics(m))
	suggestions := suggest.NewRegistry(nil)
	suggestSvc := suggest.NewService(store, suggestions, suggest.WithMetrics(m))

	srv := NewServer(searchSvc, suggestSvc, kanjiSvc, store, cfg,
		WithMetrics(m, reg),
		WithLogger(logger),
	)
	return srv.Routes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestHandleSuggestion(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodPost, "/api/suggestion", `{"input":"たべ","lang":"eng"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var resp models.SuggestionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Suggestions) != 2 || resp.Suggestions[0].Primary != "たべる" {
		t.Errorf("unexpected suggestions %+v", resp.Suggestions)
	}
	if resp.Suggestions[0].Secondary == nil || *resp.Suggestions[0].Secondary != "食べる" {
		t.Errorf("expected secondary 食べる, got %v", resp.Suggestions[0].Secondary)
	}
}

func TestHandleSuggestion_BadRequest(t *testing.T) {
	h := newTestServer(t)
	tests := []struct {
		name string
		body string
	}{
		{"empty input", `{"input":""}`},
		{"too long", fmt.Sprintf(`{"input":%q}`, strings.Repeat("あ", models.MaxSuggestionInput+1))},
		{"invalid json", `{"input":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/suggestion", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", w.Code)
			}
		})
	}
}

func TestHandleSearch(t *testing.T) {
	h := newTestServer(t)
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantTotal  int
		wantTarget string
	}{
		{"words", "/api/search/words", `{"query":"eat"}`, http.StatusOK, 1, "words"},
		{"kanji", "/api/search/kanji", `{"query":"古"}`, http.StatusOK, 1, "kanji"},
		{"sentences", "/api/search/sentences", `{"query":"camera"}`, http.StatusOK, 1, "sentences"},
		{"names", "/api/search/names", `{"query":"suzuki"}`, http.StatusOK, 1, "names"},
		{"tag overrides path", "/api/search/words", `{"query":"house #sentence"}`, http.StatusOK, 1, "sentences"},
		{"language without data", "/api/search/words", `{"query":"eat","lang":"fre","show_english":false}`, http.StatusOK, 0, "words"},
		{"japanese user language", "/api/search/sentences", `{"query":"camera","lang":"jpn","show_english":false}`, http.StatusOK, 0, "sentences"},
		{"empty query", "/api/search/words", `{"query":"  "}`, http.StatusBadRequest, 0, ""},
		{"invalid body", "/api/search/words", `nope`, http.StatusBadRequest, 0, ""},
		{"unknown target", "/api/search/everything", `{"query":"eat"}`, http.StatusNotFound, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, tt.path, tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d, body: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				var out map[string]string
				if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
					t.Fatal(err)
				}
				if out["error"] == "" || out["request_id"] == "" {
					t.Errorf("expected error and request_id, got %v", out)
				}
				return
			}
			var resp models.SearchResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.Total != tt.wantTotal {
				t.Errorf("total: got %d, want %d", resp.Total, tt.wantTotal)
			}
			if resp.Target != tt.wantTarget {
				t.Errorf("target: got %s, want %s", resp.Target, tt.wantTarget)
			}
		})
	}
}

func TestHandleKanji(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodGet, "/api/kanji/"+url.PathEscape("古"), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Kanji        models.Kanji  `json:"kanji"`
		KunCompounds []models.Word `json:"kun_compounds"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Kanji.Literal != "古" {
		t.Errorf("literal: got %s", resp.Kanji.Literal)
	}
	if len(resp.KunCompounds) != 2 || resp.KunCompounds[0].Sequence != 1198180 {
		t.Errorf("unexpected kun compounds %+v", resp.KunCompounds)
	}

	w = do(t, h, http.MethodGet, "/api/kanji/"+url.PathEscape("猫"), "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown kanji: got %d, want 404", w.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	h := newTestServer(t)
	w := do(t, h, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var resp struct {
		Status  string `json:"status"`
		Records struct {
			Words int `json:"words"`
			Kanji int `json:"kanji"`
		} `json:"records"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" || resp.Records.Words != len(storagetest.Words) || resp.Records.Kanji != len(storagetest.Kanji) {
		t.Errorf("unexpected health %+v", resp)
	}
}

func TestRequestID(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodGet, "/health", "")
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("expected generated request id")
	}

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("expected propagated request id, got %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t)
	do(t, h, http.MethodPost, "/api/search/words", `{"query":"eat"}`)

	w := do(t, h, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	body, _ := io.ReadAll(w.Body)
	for _, name := range []string{"jiten_http_requests_total", "jiten_search_duration_seconds"} {
		if !bytes.Contains(body, []byte(name)) {
			t.Errorf("expected %s in metrics output", name)
		}
	}
	if !bytes.Contains(body, []byte(`path="/api/search/{target}"`)) {
		t.Error("expected route pattern label")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: empty", models.ErrBadRequest), http.StatusBadRequest},
		{fmt.Errorf("kanji: %w", models.ErrNotFound), http.StatusNotFound},
		{models.ErrTimeout, http.StatusRequestTimeout},
		{models.ErrUnexpected, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
