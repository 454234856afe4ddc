package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/hyperjump/jiten/internal/models"
)

func TestParser_Parse(t *testing.T) {
	p := NewParser()
	settings := models.DefaultUserSettings()

	t.Run("jlpt tag with japanese text", func(t *testing.T) {
		q, err := p.Parse("#n4 食べる", models.TargetWords, settings, 1)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if q.Text != "食べる" {
			t.Errorf("Text = %q, want 食べる", q.Text)
		}
		if len(q.Tags) != 1 || q.Tags[0] != models.JLPTTag(4) {
			t.Errorf("Tags = %v, want [n4]", q.Tags)
		}
		if q.Language != models.QueryJapanese {
			t.Errorf("Language = %v, want japanese", q.Language)
		}
		if q.Form != models.FormWord {
			t.Errorf("Form = %v, want word", q.Form)
		}
		if q.Raw != "#n4 食べる" {
			t.Errorf("Raw = %q", q.Raw)
		}
	})

	t.Run("search type tag overrides target", func(t *testing.T) {
		q, err := p.Parse("water #sentence", models.TargetWords, settings, 0)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if q.Target != models.TargetSentences {
			t.Errorf("Target = %v, want sentences", q.Target)
		}
		if q.Language != models.QueryForeign || q.Page != 1 {
			t.Errorf("Language = %v, Page = %d", q.Language, q.Page)
		}
	})

	t.Run("full width input is folded", func(t *testing.T) {
		q, err := p.Parse("ｗａｔｅｒ", models.TargetWords, settings, 1)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if q.Text != "water" {
			t.Errorf("Text = %q", q.Text)
		}
	})

	t.Run("repeated tags form a set", func(t *testing.T) {
		q, err := p.Parse("#n4 #n4 x", models.TargetWords, settings, 1)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if len(q.Tags) != 1 || q.Tags[0] != models.JLPTTag(4) {
			t.Errorf("Tags = %v, want [n4]", q.Tags)
		}
	})

	t.Run("tags only", func(t *testing.T) {
		q, err := p.Parse("#n5", models.TargetWords, settings, 1)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if q.Text != "" || q.Language != models.QueryUndetected {
			t.Errorf("Text = %q, Language = %v", q.Text, q.Language)
		}
	})

	errCases := []struct {
		name string
		in   string
	}{
		{"empty", "   "},
		{"too long", strings.Repeat("a", DefaultMaxLength+1)},
	}
	for _, tt := range errCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(tt.in, models.TargetWords, settings, 1)
			if !errors.Is(err, models.ErrBadRequest) {
				t.Errorf("err = %v, want ErrBadRequest", err)
			}
		})
	}
}

func TestDetectForm(t *testing.T) {
	tests := []struct {
		in   string
		want models.Form
	}{
		{"食べる", models.FormWord},
		{"water", models.FormWord},
		{"to drink water", models.FormSentence},
		{"私は学生です。", models.FormSentence},
		{"日 にち", models.FormKanjiReading},
		{"疼 うず.く", models.FormKanjiReading},
		{"食べる eat", models.FormMixed},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := DetectForm(tt.in); got != tt.want {
				t.Errorf("DetectForm(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
