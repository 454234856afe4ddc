package suggest

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hyperjump/jiten/internal/metrics"
	"github.com/hyperjump/jiten/internal/models"
	"github.com/hyperjump/jiten/internal/storage"
	"github.com/hyperjump/jiten/internal/storage/storagetest"
)

type pair struct {
	primary, secondary string
}

func flatten(resp *models.SuggestionResponse) []pair {
	out := make([]pair, len(resp.Suggestions))
	for i, p := range resp.Suggestions {
		out[i].primary = p.Primary
		if p.Secondary != nil {
			out[i].secondary = *p.Secondary
		}
	}
	return out
}

func newTestService(t *testing.T, store storage.Storage, opts ...Option) *Service {
	t.Helper()
	eng, err := NewTextIndex([]Entry{
		{Text: "eating", Sequence: 1358280},
		{Text: "eat", Sequence: 1358280},
		{Text: "food", Sequence: 1358300},
	})
	if err != nil {
		t.Fatal(err)
	}
	ger, err := NewTextIndex([]Entry{{Text: "essen", Sequence: 1358280}})
	if err != nil {
		t.Fatal(err)
	}
	r := NewRegistry(map[models.Language]*TextIndex{models.English: eng, models.German: ger})
	t.Cleanup(func() { _ = r.Close() })
	opts = append([]Option{WithMetrics(metrics.New(prometheus.NewRegistry()))}, opts...)
	return NewService(store, r, opts...)
}

func TestService_Suggest(t *testing.T) {
	svc := newTestService(t, storagetest.Seeded(t))
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.SuggestionRequest
		want []pair
	}{
		{"native readings", models.SuggestionRequest{Input: "たべ"}, []pair{{"たべる", "食べる"}, {"たべもの", "食べ物"}}},
		{"trailing romaji stripped", models.SuggestionRequest{Input: "たべm"}, []pair{{"たべる", "食べる"}, {"たべもの", "食べ物"}}},
		{"katakana fallback", models.SuggestionRequest{Input: "かめ"}, []pair{{"カメラ", ""}}},
		{"exact match first", models.SuggestionRequest{Input: "eat"}, []pair{{"eat", ""}, {"eating", ""}}},
		{"user language", models.SuggestionRequest{Input: "ess", Lang: "ger"}, []pair{{"essen", ""}}},
		{"language by name", models.SuggestionRequest{Input: "ess", Lang: "German"}, []pair{{"essen", ""}}},
		{"unknown language falls back to english", models.SuggestionRequest{Input: "foo", Lang: "xx"}, []pair{{"food", ""}}},
		{"language without suggestions", models.SuggestionRequest{Input: "man", Lang: "fre"}, []pair{}},
		{"no match", models.SuggestionRequest{Input: "ぬぬぬ"}, []pair{}},
		{"roman letter alone is kept", models.SuggestionRequest{Input: "f"}, []pair{{"food", ""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Suggest(ctx, tt.req)
			if err != nil {
				t.Fatal(err)
			}
			if got := flatten(resp); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestService_SuggestBadRequest(t *testing.T) {
	svc := newTestService(t, storagetest.Seeded(t))
	inputs := []string{"", strings.Repeat("あ", models.MaxSuggestionInput+1)}
	for _, in := range inputs {
		_, err := svc.Suggest(context.Background(), models.SuggestionRequest{Input: in})
		if !errors.Is(err, models.ErrBadRequest) {
			t.Errorf("input of %d runes: expected ErrBadRequest, got %v", len([]rune(in)), err)
		}
	}
	if _, err := svc.Suggest(context.Background(), models.SuggestionRequest{Input: strings.Repeat("あ", models.MaxSuggestionInput)}); err != nil {
		t.Errorf("max length input rejected: %v", err)
	}
}

// slowStore blocks sequence lookups until released.
type slowStore struct {
	storage.Storage
	release chan struct{}
}

func (s *slowStore) SuggestionSequences(ctx context.Context, prefix string, limit int) ([]uint32, error) {
	<-s.release
	return nil, nil
}

type failingStore struct {
	storage.Storage
}

func (failingStore) SuggestionSequences(context.Context, string, int) ([]uint32, error) {
	return nil, errors.New("database is locked")
}

func TestService_SuggestTimeout(t *testing.T) {
	store := &slowStore{release: make(chan struct{})}
	defer close(store.release)
	svc := newTestService(t, store, WithTimeout(20*time.Millisecond))

	_, err := svc.Suggest(context.Background(), models.SuggestionRequest{Input: "たべ"})
	if !errors.Is(err, models.ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestService_SuggestStoreError(t *testing.T) {
	svc := newTestService(t, failingStore{})
	_, err := svc.Suggest(context.Background(), models.SuggestionRequest{Input: "たべ"})
	if !errors.Is(err, models.ErrUnexpected) {
		t.Errorf("expected ErrUnexpected, got %v", err)
	}
}

func TestService_MaxResults(t *testing.T) {
	svc := newTestService(t, storagetest.Seeded(t), WithMaxResults(1))
	resp, err := svc.Suggest(context.Background(), models.SuggestionRequest{Input: "e"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Suggestions) != 1 {
		t.Errorf("expected 1 suggestion, got %d", len(resp.Suggestions))
	}
}

func TestStripTrailingRomaji(t *testing.T) {
	tests := map[string]string{
		"たべr":  "たべ",
		"たべ":   "たべ",
		"r":    "r",
		"eat":  "eat",
		"食べk":  "食べ",
		"たべrr": "たべrr",
	}
	for in, want := range tests {
		if got := stripTrailingRomaji(in); got != want {
			t.Errorf("%q: got %q, want %q", in, got, want)
		}
	}
}
