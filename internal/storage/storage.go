// Package storage defines the persistence interface for dictionary data.
package storage

import (
	"context"

	"github.com/hyperjump/jiten/internal/models"
)

// Storage defines dictionary persistence. Lookups of a single missing record
// return an error wrapping models.ErrNotFound.
type Storage interface {
	// Words
	CreateWord(ctx context.Context, word *models.Word) error
	WordBySequence(ctx context.Context, seq uint32) (*models.Word, error)
	Words(ctx context.Context) ([]*models.Word, error)

	// Kanji
	CreateKanji(ctx context.Context, kanji *models.Kanji) error
	KanjiByLiteral(ctx context.Context, literal string) (*models.Kanji, error)
	KanjiByLiterals(ctx context.Context, literals []string) ([]*models.Kanji, error)
	KanjiByIDs(ctx context.Context, ids []int) ([]*models.Kanji, error)
	AllKanji(ctx context.Context) ([]*models.Kanji, error)
	SetKunDicts(ctx context.Context, kanjiID int, seqs []uint32) error
	KanjiHeadedDicts(ctx context.Context, literal string) ([]models.KunDict, error)

	// Sentences and names
	CreateSentence(ctx context.Context, sentence *models.Sentence) error
	SentenceByID(ctx context.Context, id uint32) (*models.Sentence, error)
	Sentences(ctx context.Context) ([]*models.Sentence, error)
	CreateName(ctx context.Context, name *models.Name) error
	Names(ctx context.Context) ([]*models.Name, error)

	// Suggestions
	SuggestionSequences(ctx context.Context, readingPrefix string, limit int) ([]uint32, error)
	SuggestionReadings(ctx context.Context, seq uint32) ([]models.Dict, error)

	Stats(ctx context.Context) (Stats, error)
	Close() error
}

// Stats holds row counts per table.
type Stats struct {
	Words     int `json:"words"`
	Kanji     int `json:"kanji"`
	Sentences int `json:"sentences"`
	Names     int `json:"names"`
}
