// Package storagetest seeds a small dictionary for tests.
package storagetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hyperjump/jiten/internal/models"
	"github.com/hyperjump/jiten/internal/storage"
)

// Words is the seeded word list.
var Words = []*models.Word{
	{
		Sequence: 1358280,
		Kana:     models.Dict{Reading: "たべる", Priorities: []string{"ichi1"}, JLPT: 5},
		Kanji:    &models.Dict{Reading: "食べる", Kanji: true, Main: true, Priorities: []string{"ichi1", "news1"}, JLPT: 5},
		Senses: []models.Sense{
			{Language: models.English, Glosses: []string{"to eat"}, POS: []models.PartOfSpeech{models.PosVerb}},
			{Language: models.German, Glosses: []string{"essen"}, POS: []models.PartOfSpeech{models.PosVerb}},
		},
		Priorities:  []string{"ichi1"},
		JLPT:        5,
		GenkiLesson: 3,
	},
	{
		Sequence: 1358300,
		Kana:     models.Dict{Reading: "たべもの"},
		Kanji:    &models.Dict{Reading: "食べ物", Kanji: true, Main: true},
		Senses: []models.Sense{
			{Language: models.English, Glosses: []string{"food"}, POS: []models.PartOfSpeech{models.PosNoun}},
		},
		JLPT: 4,
	},
	{
		Sequence: 1198180,
		Kana:     models.Dict{Reading: "ふるい", Priorities: []string{"ichi1"}, JLPT: 5},
		Kanji:    &models.Dict{Reading: "古い", Kanji: true, Main: true, Priorities: []string{"ichi1"}, JLPT: 5},
		Senses: []models.Sense{
			{Language: models.English, Glosses: []string{"old", "aged"}, POS: []models.PartOfSpeech{models.PosAdjective}},
		},
		Priorities: []string{"ichi1"},
		JLPT:       5,
	},
	{
		Sequence: 1198190,
		Kana:     models.Dict{Reading: "ふるいえ"},
		Kanji:    &models.Dict{Reading: "古家", Kanji: true, Main: true},
		Senses: []models.Sense{
			{Language: models.English, Glosses: []string{"old house"}, POS: []models.PartOfSpeech{models.PosNoun}},
		},
	},
	{
		Sequence: 1002280,
		Kana:     models.Dict{Reading: "あたらしい", Priorities: []string{"ichi1"}, JLPT: 5},
		Kanji:    &models.Dict{Reading: "新しい", Kanji: true, Main: true, Priorities: []string{"ichi1"}, JLPT: 5},
		Senses: []models.Sense{
			{Language: models.English, Glosses: []string{"new", "novel"}, POS: []models.PartOfSpeech{models.PosAdjective}},
		},
		Priorities: []string{"ichi1"},
		JLPT:       5,
	},
	{
		Sequence: 1080350,
		Kana:     models.Dict{Reading: "カメラ", Priorities: []string{"gai1"}},
		Senses: []models.Sense{
			{Language: models.English, Glosses: []string{"camera"}, POS: []models.PartOfSpeech{models.PosNoun}},
		},
		Priorities: []string{"gai1"},
	},
	{
		Sequence: 1270190,
		Kana:     models.Dict{Reading: "いる"},
		Senses: []models.Sense{
			{Language: models.English, Glosses: []string{"to need"}, POS: []models.PartOfSpeech{models.PosVerb}},
		},
		IrregularIchidan: true,
	},
	{
		Sequence: 2000100,
		Kana:     models.Dict{Reading: "エヌエイチケー"},
		Senses: []models.Sense{
			{Language: models.English, Glosses: []string{"NHK"}, Misc: []models.Misc{models.MiscAbbreviation}},
		},
	},
}

// Kanji is the seeded kanji list.
var Kanji = []*models.Kanji{
	{ID: 1, Literal: "食", Meanings: []string{"eat", "food"}, Onyomi: []string{"ショク"}, Kunyomi: []string{"く.う", "た.べる"}, Grade: 2, StrokeCount: 9, Frequency: 328, JLPT: 4},
	{ID: 2, Literal: "古", Meanings: []string{"old"}, Onyomi: []string{"コ"}, Kunyomi: []string{"ふる.い", "ふる-"}, Grade: 2, StrokeCount: 5, Frequency: 509, JLPT: 4},
	{ID: 3, Literal: "新", Meanings: []string{"new"}, Onyomi: []string{"シン"}, Kunyomi: []string{"あたら.しい", "にい-"}, Grade: 2, StrokeCount: 13, Frequency: 51, JLPT: 4},
	{ID: 4, Literal: "家", Meanings: []string{"house", "home"}, Onyomi: []string{"カ", "ケ"}, Kunyomi: []string{"いえ", "や"}, Grade: 2, StrokeCount: 10, Frequency: 133, JLPT: 4},
}

// Sentences is the seeded sentence list.
var Sentences = []*models.Sentence{
	{ID: 1, Japanese: "古い家を買った。", Translations: map[models.Language]string{models.English: "I bought an old house.", models.German: "Ich habe ein altes Haus gekauft."}},
	{ID: 2, Japanese: "新しいカメラが欲しい。", Translations: map[models.Language]string{models.English: "I want a new camera."}},
	{ID: 3, Japanese: "何を食べたい？", Translations: map[models.Language]string{models.German: "Was möchtest du essen?"}},
}

// Names is the seeded name list.
var Names = []*models.Name{
	{Sequence: 5000001, Kana: "たなか", Kanji: "田中", Transcription: "Tanaka"},
	{Sequence: 5000002, Kana: "すずき", Kanji: "鈴木", Transcription: "Suzuki"},
	{Sequence: 5000003, Kana: "アンナ", Transcription: "Anna"},
}

// Open returns an empty store backed by a file in a temporary directory.
func Open(t testing.TB) *storage.SQLiteStorage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "jiten.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// Seeded returns a store filled with the fixture data.
func Seeded(t testing.TB) *storage.SQLiteStorage {
	t.Helper()
	store := Open(t)
	Seed(t, store)
	return store
}

// Seed writes the fixture data into store.
func Seed(t testing.TB, store storage.Storage) {
	t.Helper()
	ctx := context.Background()
	for _, w := range Words {
		if err := store.CreateWord(ctx, w); err != nil {
			t.Fatalf("seed word %d: %v", w.Sequence, err)
		}
	}
	for _, k := range Kanji {
		if err := store.CreateKanji(ctx, k); err != nil {
			t.Fatalf("seed kanji %s: %v", k.Literal, err)
		}
	}
	for _, s := range Sentences {
		if err := store.CreateSentence(ctx, s); err != nil {
			t.Fatalf("seed sentence %d: %v", s.ID, err)
		}
	}
	for _, n := range Names {
		if err := store.CreateName(ctx, n); err != nil {
			t.Fatalf("seed name %d: %v", n.Sequence, err)
		}
	}
}
