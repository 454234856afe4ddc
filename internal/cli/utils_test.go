package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/jiten/internal/models"
)

func strPtr(s string) *string { return &s }

func sampleResponse() *models.SearchResponse {
	return &models.SearchResponse{
		Query:     "eat",
		Target:    "words",
		Tags:      []string{"n5"},
		Total:     2,
		QueryTime: 42,
		Results: []models.ResultEntry{
			{
				Relevance: 120,
				Language:  models.English,
				Item: &models.Word{
					Sequence: 1358280,
					Kana:     models.Dict{Reading: "たべる"},
					Kanji:    &models.Dict{Reading: "食べる", Kanji: true},
					Senses:   []models.Sense{{Language: models.English, Glosses: []string{"to eat", "to live on"}}},
				},
			},
			{
				Relevance: 40,
				Item:      &models.Sentence{ID: 3, Japanese: "何を食べたい？", Translations: map[models.Language]string{models.English: "What do you want to eat?"}},
			},
		},
	}
}

func TestWriteSearchResults_JSON(t *testing.T) {
	response := sampleResponse()
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, response, OutputJSON); err != nil {
		t.Fatalf("WriteSearchResults(json): %v", err)
	}
	var decoded struct {
		Query     string `json:"query"`
		QueryTime int64  `json:"query_time_ms"`
		Results   []struct {
			Relevance int             `json:"relevance"`
			Item      json.RawMessage `json:"item"`
		} `json:"results"`
	}
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Query != "eat" || decoded.QueryTime != 42 {
		t.Errorf("decoded query=%q query_time=%d", decoded.Query, decoded.QueryTime)
	}
	if len(decoded.Results) != 2 || decoded.Results[0].Relevance != 120 {
		t.Fatalf("unexpected results %+v", decoded.Results)
	}
	if !bytes.Contains(decoded.Results[0].Item, []byte("食べる")) {
		t.Errorf("expected unescaped reading in item: %s", decoded.Results[0].Item)
	}
}

func TestWriteSearchResults_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatalf("WriteSearchResults(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{"Found 2 words", "42ms", "tags: n5", "食べる【たべる】", "to eat; to live on", "何を食べたい？", "What do you want to eat?", "[120]"} {
		if !strings.Contains(out, sub) {
			t.Errorf("text output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteSearchResults_unknownFormatTreatedAsText(t *testing.T) {
	response := &models.SearchResponse{Query: "x", Target: "kanji"}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, response, OutputFormat("unknown")); err != nil {
		t.Fatalf("WriteSearchResults(unknown): %v", err)
	}
	if !strings.Contains(buf.String(), "Found 0 kanji") {
		t.Errorf("unknown format should fall back to text; got %q", buf.String())
	}
}

func TestWriteSuggestions(t *testing.T) {
	resp := &models.SuggestionResponse{Suggestions: []models.WordPair{
		{Primary: "たべる", Secondary: strPtr("食べる")},
		{Primary: "カメラ"},
	}}
	var buf bytes.Buffer
	if err := WriteSuggestions(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasSuffix(lines[0], "食べる") || lines[1] != "カメラ" {
		t.Errorf("unexpected output %q", buf.String())
	}

	buf.Reset()
	if err := WriteSuggestions(&buf, &models.SuggestionResponse{Suggestions: []models.WordPair{}}, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No suggestions") {
		t.Errorf("expected empty notice, got %q", buf.String())
	}

	buf.Reset()
	if err := WriteSuggestions(&buf, resp, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.SuggestionResponse
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Suggestions) != 2 || decoded.Suggestions[1].Secondary != nil {
		t.Errorf("unexpected decoded %+v", decoded)
	}
}

func TestWriteKanji(t *testing.T) {
	detail := KanjiDetail{
		Kanji: &models.Kanji{
			Literal: "古", Meanings: []string{"old"}, Onyomi: []string{"コ"},
			Kunyomi: []string{"ふる.い", "ふる-"}, StrokeCount: 5, Grade: 2, JLPT: 4,
		},
		KunCompounds: []*models.Word{{
			Kana:   models.Dict{Reading: "ふるい"},
			Kanji:  &models.Dict{Reading: "古い", Kanji: true},
			Senses: []models.Sense{{Language: models.English, Glosses: []string{"old"}}},
		}},
	}
	var buf bytes.Buffer
	if err := WriteKanji(&buf, detail, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, sub := range []string{"古  old", "On:", "コ", "ふる(い)、ふる-", "Strokes: 5", "N4", "Kun compounds", "古い【ふるい】"} {
		if !strings.Contains(out, sub) {
			t.Errorf("output missing %q:\n%s", sub, out)
		}
	}
}
