package suggest

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/jiten/internal/models"
	"github.com/hyperjump/jiten/pkg/utils"
)

// Registry maps languages to their suggestion index.
type Registry struct {
	indexes map[models.Language]*TextIndex
}

// NewRegistry wraps already built indexes.
func NewRegistry(indexes map[models.Language]*TextIndex) *Registry {
	if indexes == nil {
		indexes = make(map[models.Language]*TextIndex)
	}
	return &Registry{indexes: indexes}
}

// LoadDir builds one index per file in dir. The file name selects the
// language (code or English name). Files with an unknown name are skipped,
// as are files containing a malformed line. A missing dir yields an empty
// registry.
func LoadDir(dir string, logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := NewRegistry(nil)

	files, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		logger.Warn("suggestion directory missing", zap.String("dir", dir))
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read suggestion directory: %w", err)
	}

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		lang, ok := models.ParseLanguage(f.Name())
		if !ok {
			logger.Debug("skipping suggestion file", zap.String("file", f.Name()))
			continue
		}
		path := filepath.Join(dir, f.Name())
		entries, err := LoadFile(path)
		if err != nil {
			logger.Error("failed to load suggestion file", zap.String("file", path), zap.Error(err))
			continue
		}
		idx, err := NewTextIndex(entries)
		if err != nil {
			return nil, err
		}
		if old, ok := r.indexes[lang]; ok {
			_ = old.Close()
		}
		r.indexes[lang] = idx
		logger.Info("loaded suggestion file",
			zap.Stringer("language", lang),
			zap.Int("entries", len(entries)))
	}
	return r, nil
}

// LoadFile parses "text,sequence" lines. The sequence is the last
// comma-separated field, so text may itself contain commas. Any malformed
// line fails the whole file.
func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Text()
		i := strings.LastIndexByte(raw, ',')
		if i < 0 {
			return nil, fmt.Errorf("line %d: missing sequence", line)
		}
		text, seq := raw[:i], raw[i+1:]
		n, err := strconv.ParseUint(seq, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid sequence %q", line, seq)
		}
		entries = append(entries, Entry{Text: text, Sequence: uint32(n)})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Search returns up to limit entries of lang starting with prefix. A
// language without suggestions yields no entries.
func (r *Registry) Search(ctx context.Context, lang models.Language, prefix string, limit int) ([]Entry, error) {
	idx, ok := r.indexes[lang]
	if !ok {
		return nil, nil
	}
	return idx.Search(ctx, prefix, limit)
}

// Languages returns the loaded languages in sorted order.
func (r *Registry) Languages() []models.Language {
	out := make([]models.Language, 0, len(r.indexes))
	for l := range r.indexes {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Close releases every index.
func (r *Registry) Close() error {
	var first error
	for _, idx := range r.indexes {
		if err := idx.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

var published utils.OnceValue[Registry]

// Publish makes r the process-wide registry. It fails if one is already set.
func Publish(r *Registry) error {
	if err := published.Set(r); err != nil {
		return fmt.Errorf("publish suggestions: %w", err)
	}
	return nil
}

// Published returns the process-wide registry.
func Published() (*Registry, bool) {
	return published.Get()
}
