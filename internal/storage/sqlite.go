// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/jiten/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist. ":memory:" opens a
// private in-memory database on a single connection.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	memory := dbPath == ":memory:"
	if !memory {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if memory {
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS words (
		sequence INTEGER PRIMARY KEY,
		jlpt INTEGER,
		genki_lesson INTEGER,
		irregular_ichidan INTEGER NOT NULL DEFAULT 0,
		priorities TEXT,
		senses TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS dict (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL,
		position INTEGER NOT NULL,
		reading TEXT NOT NULL,
		kanji INTEGER NOT NULL,
		is_main INTEGER NOT NULL DEFAULT 0,
		jlpt_lvl INTEGER,
		priorities TEXT,
		FOREIGN KEY (sequence) REFERENCES words(sequence) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_dict_sequence ON dict(sequence, position);
	CREATE INDEX IF NOT EXISTS idx_dict_reading ON dict(reading);

	CREATE TABLE IF NOT EXISTS kanji (
		id INTEGER PRIMARY KEY,
		literal TEXT NOT NULL UNIQUE,
		meanings TEXT NOT NULL,
		onyomi TEXT,
		kunyomi TEXT,
		kun_dicts TEXT,
		grade INTEGER,
		stroke_count INTEGER NOT NULL,
		frequency INTEGER,
		jlpt INTEGER
	);

	CREATE TABLE IF NOT EXISTS sentences (
		id INTEGER PRIMARY KEY,
		japanese TEXT NOT NULL,
		furigana TEXT,
		translations TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS names (
		sequence INTEGER PRIMARY KEY,
		kana TEXT NOT NULL,
		kanji TEXT,
		transcription TEXT NOT NULL
	);
	`
	_, err := db.Exec(schema)
	return err
}

// nullableJSON encodes v, storing NULL for empty slices so that ORDER BY ...
// NULLS LAST treats "no priorities" as absent.
func nullableJSON(v []string) (sql.NullString, error) {
	if len(v) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func nullableInt(v int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: v != 0}
}

func decodeJSON(s sql.NullString, v interface{}) error {
	if !s.Valid || s.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(s.String), v)
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// CreateWord inserts a word and its dict rows.
func (s *SQLiteStorage) CreateWord(ctx context.Context, word *models.Word) error {
	senses, err := json.Marshal(word.Senses)
	if err != nil {
		return fmt.Errorf("failed to marshal senses: %w", err)
	}
	prio, err := nullableJSON(word.Priorities)
	if err != nil {
		return fmt.Errorf("failed to marshal priorities: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO words (sequence, jlpt, genki_lesson, irregular_ichidan, priorities, senses)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		word.Sequence, nullableInt(word.JLPT), nullableInt(word.GenkiLesson), word.IrregularIchidan, prio, string(senses),
	); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO dict (sequence, position, reading, kanji, is_main, jlpt_lvl, priorities)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for pos, d := range word.Dicts() {
		dprio, err := nullableJSON(d.Priorities)
		if err != nil {
			return fmt.Errorf("failed to marshal priorities: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, word.Sequence, pos, d.Reading, d.Kanji, d.Main, nullableInt(d.JLPT), dprio); err != nil {
			return err
		}
	}
	return tx.Commit()
}

const wordColumns = `sequence, jlpt, genki_lesson, irregular_ichidan, priorities, senses`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWord(row rowScanner) (*models.Word, error) {
	var (
		w          models.Word
		jlpt       sql.NullInt64
		genki      sql.NullInt64
		prio       sql.NullString
		sensesJSON string
	)
	if err := row.Scan(&w.Sequence, &jlpt, &genki, &w.IrregularIchidan, &prio, &sensesJSON); err != nil {
		return nil, err
	}
	w.JLPT = int(jlpt.Int64)
	w.GenkiLesson = int(genki.Int64)
	if err := decodeJSON(prio, &w.Priorities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal priorities: %w", err)
	}
	if err := json.Unmarshal([]byte(sensesJSON), &w.Senses); err != nil {
		return nil, fmt.Errorf("failed to unmarshal senses: %w", err)
	}
	return &w, nil
}

// dictsBySequence loads dict rows of one word in insertion order.
func (s *SQLiteStorage) dictsBySequence(ctx context.Context, seq uint32) ([]models.Dict, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT reading, kanji, is_main, jlpt_lvl, priorities FROM dict
		 WHERE sequence = ? ORDER BY position`, seq)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var dicts []models.Dict
	for rows.Next() {
		var (
			d    models.Dict
			jlpt sql.NullInt64
			prio sql.NullString
		)
		if err := rows.Scan(&d.Reading, &d.Kanji, &d.Main, &jlpt, &prio); err != nil {
			return nil, err
		}
		d.JLPT = int(jlpt.Int64)
		if err := decodeJSON(prio, &d.Priorities); err != nil {
			return nil, fmt.Errorf("failed to unmarshal priorities: %w", err)
		}
		dicts = append(dicts, d)
	}
	return dicts, rows.Err()
}

// assignDicts splits dict rows into kana, main kanji and alternatives.
func assignDicts(w *models.Word, dicts []models.Dict) {
	kanaSet := false
	for i := range dicts {
		d := dicts[i]
		switch {
		case !d.Kanji && !kanaSet:
			w.Kana = d
			kanaSet = true
		case d.Kanji && w.Kanji == nil && (d.Main || !hasMainKanji(dicts)):
			w.Kanji = &d
		default:
			w.Alternatives = append(w.Alternatives, d)
		}
	}
}

func hasMainKanji(dicts []models.Dict) bool {
	for _, d := range dicts {
		if d.Kanji && d.Main {
			return true
		}
	}
	return false
}

// WordBySequence returns a word by sequence id.
func (s *SQLiteStorage) WordBySequence(ctx context.Context, seq uint32) (*models.Word, error) {
	w, err := scanWord(s.db.QueryRowContext(ctx,
		`SELECT `+wordColumns+` FROM words WHERE sequence = ?`, seq))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: word %d", models.ErrNotFound, seq)
	}
	if err != nil {
		return nil, err
	}
	dicts, err := s.dictsBySequence(ctx, seq)
	if err != nil {
		return nil, err
	}
	assignDicts(w, dicts)
	return w, nil
}

// Words returns every word ordered by sequence.
func (s *SQLiteStorage) Words(ctx context.Context) ([]*models.Word, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+wordColumns+` FROM words ORDER BY sequence`)
	if err != nil {
		return nil, err
	}
	var words []*models.Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		words = append(words, w)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, w := range words {
		dicts, err := s.dictsBySequence(ctx, w.Sequence)
		if err != nil {
			return nil, err
		}
		assignDicts(w, dicts)
	}
	return words, nil
}

// CreateKanji inserts a kanji.
func (s *SQLiteStorage) CreateKanji(ctx context.Context, k *models.Kanji) error {
	meanings, err := json.Marshal(k.Meanings)
	if err != nil {
		return fmt.Errorf("failed to marshal meanings: %w", err)
	}
	on, err := nullableJSON(k.Onyomi)
	if err != nil {
		return err
	}
	kun, err := nullableJSON(k.Kunyomi)
	if err != nil {
		return err
	}
	kunDicts, err := json.Marshal(k.KunDicts)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kanji (id, literal, meanings, onyomi, kunyomi, kun_dicts, grade, stroke_count, frequency, jlpt)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		k.ID, k.Literal, string(meanings), on, kun, string(kunDicts),
		nullableInt(k.Grade), k.StrokeCount, nullableInt(k.Frequency), nullableInt(k.JLPT),
	)
	return err
}

const kanjiColumns = `id, literal, meanings, onyomi, kunyomi, kun_dicts, grade, stroke_count, frequency, jlpt`

func scanKanji(row rowScanner) (*models.Kanji, error) {
	var (
		k                      models.Kanji
		meanings               string
		on, kun, kunDicts      sql.NullString
		grade, frequency, jlpt sql.NullInt64
	)
	if err := row.Scan(&k.ID, &k.Literal, &meanings, &on, &kun, &kunDicts, &grade, &k.StrokeCount, &frequency, &jlpt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(meanings), &k.Meanings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meanings: %w", err)
	}
	if err := decodeJSON(on, &k.Onyomi); err != nil {
		return nil, err
	}
	if err := decodeJSON(kun, &k.Kunyomi); err != nil {
		return nil, err
	}
	if err := decodeJSON(kunDicts, &k.KunDicts); err != nil {
		return nil, err
	}
	k.Grade = int(grade.Int64)
	k.Frequency = int(frequency.Int64)
	k.JLPT = int(jlpt.Int64)
	return &k, nil
}

func (s *SQLiteStorage) queryKanji(ctx context.Context, query string, args ...interface{}) ([]*models.Kanji, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Kanji
	for rows.Next() {
		k, err := scanKanji(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// KanjiByLiteral returns a kanji by its literal.
func (s *SQLiteStorage) KanjiByLiteral(ctx context.Context, literal string) (*models.Kanji, error) {
	k, err := scanKanji(s.db.QueryRowContext(ctx, `SELECT `+kanjiColumns+` FROM kanji WHERE literal = ?`, literal))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: kanji %s", models.ErrNotFound, literal)
	}
	return k, err
}

// KanjiByLiterals returns the kanji found among literals in no particular order.
func (s *SQLiteStorage) KanjiByLiterals(ctx context.Context, literals []string) ([]*models.Kanji, error) {
	if len(literals) == 0 {
		return nil, nil
	}
	args := make([]interface{}, len(literals))
	for i, l := range literals {
		args[i] = l
	}
	return s.queryKanji(ctx,
		`SELECT `+kanjiColumns+` FROM kanji WHERE literal IN (`+placeholders(len(literals))+`)`, args...)
}

// KanjiByIDs returns the kanji found among ids in no particular order.
func (s *SQLiteStorage) KanjiByIDs(ctx context.Context, ids []int) ([]*models.Kanji, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return s.queryKanji(ctx,
		`SELECT `+kanjiColumns+` FROM kanji WHERE id IN (`+placeholders(len(ids))+`)`, args...)
}

// AllKanji returns every kanji ordered by id.
func (s *SQLiteStorage) AllKanji(ctx context.Context) ([]*models.Kanji, error) {
	return s.queryKanji(ctx, `SELECT `+kanjiColumns+` FROM kanji ORDER BY id`)
}

// SetKunDicts replaces the kun compound sequences of a kanji.
func (s *SQLiteStorage) SetKunDicts(ctx context.Context, kanjiID int, seqs []uint32) error {
	b, err := json.Marshal(seqs)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE kanji SET kun_dicts = ? WHERE id = ?`, string(b), kanjiID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: kanji id %d", models.ErrNotFound, kanjiID)
	}
	return nil
}

// KanjiHeadedDicts returns kanji readings starting with literal, each paired
// with the first kana reading of its word.
func (s *SQLiteStorage) KanjiHeadedDicts(ctx context.Context, literal string) ([]models.KunDict, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.sequence, d.reading, d.jlpt_lvl, d.priorities,
		        (SELECT k.reading FROM dict k WHERE k.sequence = d.sequence AND k.kanji = 0 ORDER BY k.position LIMIT 1)
		 FROM dict d
		 WHERE d.kanji = 1 AND d.reading LIKE ? ESCAPE '\'
		 ORDER BY d.sequence, d.position`, escapeLike(literal)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.KunDict
	for rows.Next() {
		var (
			kd   models.KunDict
			jlpt sql.NullInt64
			prio sql.NullString
			kana sql.NullString
		)
		if err := rows.Scan(&kd.Sequence, &kd.Reading, &jlpt, &prio, &kana); err != nil {
			return nil, err
		}
		if !kana.Valid {
			continue
		}
		kd.Kana = kana.String
		kd.JLPT = int(jlpt.Int64)
		if err := decodeJSON(prio, &kd.Priorities); err != nil {
			return nil, err
		}
		out = append(out, kd)
	}
	return out, rows.Err()
}

// CreateSentence inserts a sentence.
func (s *SQLiteStorage) CreateSentence(ctx context.Context, st *models.Sentence) error {
	tr, err := json.Marshal(st.Translations)
	if err != nil {
		return fmt.Errorf("failed to marshal translations: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sentences (id, japanese, furigana, translations) VALUES (?, ?, ?, ?)`,
		st.ID, st.Japanese, st.Furigana, string(tr))
	return err
}

func scanSentence(row rowScanner) (*models.Sentence, error) {
	var (
		st       models.Sentence
		furigana sql.NullString
		tr       string
	)
	if err := row.Scan(&st.ID, &st.Japanese, &furigana, &tr); err != nil {
		return nil, err
	}
	st.Furigana = furigana.String
	if err := json.Unmarshal([]byte(tr), &st.Translations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal translations: %w", err)
	}
	return &st, nil
}

// SentenceByID returns a sentence by id.
func (s *SQLiteStorage) SentenceByID(ctx context.Context, id uint32) (*models.Sentence, error) {
	st, err := scanSentence(s.db.QueryRowContext(ctx,
		`SELECT id, japanese, furigana, translations FROM sentences WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: sentence %d", models.ErrNotFound, id)
	}
	return st, err
}

// Sentences returns every sentence ordered by id.
func (s *SQLiteStorage) Sentences(ctx context.Context) ([]*models.Sentence, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, japanese, furigana, translations FROM sentences ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Sentence
	for rows.Next() {
		st, err := scanSentence(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// CreateName inserts a name.
func (s *SQLiteStorage) CreateName(ctx context.Context, n *models.Name) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO names (sequence, kana, kanji, transcription) VALUES (?, ?, ?, ?)`,
		n.Sequence, n.Kana, sql.NullString{String: n.Kanji, Valid: n.Kanji != ""}, n.Transcription)
	return err
}

// Names returns every name ordered by sequence.
func (s *SQLiteStorage) Names(ctx context.Context) ([]*models.Name, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT sequence, kana, kanji, transcription FROM names ORDER BY sequence`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Name
	for rows.Next() {
		var (
			n     models.Name
			kanji sql.NullString
		)
		if err := rows.Scan(&n.Sequence, &n.Kana, &kanji, &n.Transcription); err != nil {
			return nil, err
		}
		n.Kanji = kanji.String
		out = append(out, &n)
	}
	return out, rows.Err()
}

// escapeLike escapes LIKE wildcards with a backslash.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// SuggestionSequences returns the sequences of readings starting with
// readingPrefix, easiest JLPT level first, then most priorities, then
// shortest reading. Duplicates are removed keeping the first occurrence.
func (s *SQLiteStorage) SuggestionSequences(ctx context.Context, readingPrefix string, limit int) ([]uint32, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sequence FROM dict WHERE reading LIKE ? ESCAPE '\'
		 ORDER BY jlpt_lvl DESC NULLS LAST, json_array_length(priorities) DESC NULLS LAST, LENGTH(reading)
		 LIMIT ?`, escapeLike(readingPrefix)+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seen := make(map[uint32]struct{})
	var out []uint32
	for rows.Next() {
		var seq uint32
		if err := rows.Scan(&seq); err != nil {
			return nil, err
		}
		if _, dup := seen[seq]; dup {
			continue
		}
		seen[seq] = struct{}{}
		out = append(out, seq)
	}
	return out, rows.Err()
}

// SuggestionReadings returns the main kanji and all kana readings of a word
// in insertion order.
func (s *SQLiteStorage) SuggestionReadings(ctx context.Context, seq uint32) ([]models.Dict, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT reading, kanji FROM dict WHERE sequence = ? AND (is_main OR kanji = 0) ORDER BY position`, seq)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Dict
	for rows.Next() {
		var d models.Dict
		if err := rows.Scan(&d.Reading, &d.Kanji); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Stats counts the rows of each table.
func (s *SQLiteStorage) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM words), (SELECT COUNT(*) FROM kanji),
		        (SELECT COUNT(*) FROM sentences), (SELECT COUNT(*) FROM names)`,
	).Scan(&st.Words, &st.Kanji, &st.Sentences, &st.Names)
	return st, err
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
