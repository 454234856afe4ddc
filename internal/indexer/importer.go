package indexer

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/jiten/internal/models"
	"github.com/hyperjump/jiten/internal/storage"
)

const importExt = ".jsonl"

const maxRecordSize = 4 << 20

// recordKind maps a file name to the record type it holds. The kind is the
// part of the name before the first "-" or ".", e.g. "words-ger.jsonl".
func recordKind(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if i := strings.IndexByte(name, '-'); i >= 0 {
		name = name[:i]
	}
	switch name {
	case "words", "kanji", "sentences", "names":
		return name
	}
	return ""
}

// ImportDirectory walks dir and imports every JSON lines file whose name
// starts with a record kind. Other files are skipped.
func (ix *Indexer) ImportDirectory(ctx context.Context, dir string) (storage.Stats, error) {
	var total storage.Stats
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return total, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return total, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return total, fmt.Errorf("not a directory: %s", absDir)
	}
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || strings.ToLower(filepath.Ext(path)) != importExt {
			return nil
		}
		if recordKind(path) == "" {
			ix.logger.Debug("skipping file", zap.String("path", path))
			return nil
		}
		stats, err := ix.ImportFile(ctx, path)
		if err != nil {
			return err
		}
		total.Words += stats.Words
		total.Kanji += stats.Kanji
		total.Sentences += stats.Sentences
		total.Names += stats.Names
		return nil
	})
	return total, err
}

// ImportFile inserts every record of a JSON lines file. Blank lines are
// skipped; a malformed line aborts the import with its line number.
func (ix *Indexer) ImportFile(ctx context.Context, path string) (storage.Stats, error) {
	var stats storage.Stats
	kind := recordKind(path)
	if kind == "" {
		return stats, fmt.Errorf("unknown record kind: %s", filepath.Base(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return stats, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxRecordSize)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := ix.importRecord(ctx, kind, []byte(raw), &stats); err != nil {
			return stats, fmt.Errorf("%s:%d: %w", filepath.Base(path), line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("read %s: %w", path, err)
	}
	ix.logger.Info("file imported",
		zap.String("path", path),
		zap.String("kind", kind),
		zap.Int("records", stats.Words+stats.Kanji+stats.Sentences+stats.Names),
	)
	return stats, nil
}

func (ix *Indexer) importRecord(ctx context.Context, kind string, raw []byte, stats *storage.Stats) error {
	switch kind {
	case "words":
		var w models.Word
		if err := json.Unmarshal(raw, &w); err != nil {
			return fmt.Errorf("decode word: %w", err)
		}
		preprocessWord(&w)
		if err := ix.store.CreateWord(ctx, &w); err != nil {
			return fmt.Errorf("create word %d: %w", w.Sequence, err)
		}
		stats.Words++
	case "kanji":
		var k models.Kanji
		if err := json.Unmarshal(raw, &k); err != nil {
			return fmt.Errorf("decode kanji: %w", err)
		}
		preprocessKanji(&k)
		if err := ix.store.CreateKanji(ctx, &k); err != nil {
			return fmt.Errorf("create kanji %s: %w", k.Literal, err)
		}
		stats.Kanji++
	case "sentences":
		var s models.Sentence
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("decode sentence: %w", err)
		}
		preprocessSentence(&s)
		if err := ix.store.CreateSentence(ctx, &s); err != nil {
			return fmt.Errorf("create sentence %d: %w", s.ID, err)
		}
		stats.Sentences++
	case "names":
		var n models.Name
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("decode name: %w", err)
		}
		preprocessName(&n)
		if err := ix.store.CreateName(ctx, &n); err != nil {
			return fmt.Errorf("create name %d: %w", n.Sequence, err)
		}
		stats.Names++
	}
	return nil
}
