// Package suggest provides search-as-you-type suggestions: prefix lookups
// over per-language suggestion lists and reading lookups over the dictionary.
package suggest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/single"
)

const (
	analyzerName = "suggestion"
	textField    = "text"
)

// Entry is one suggestion line: the text shown and the word it points to.
type Entry struct {
	Text     string
	Sequence uint32
}

// TextIndex answers prefix queries over a fixed list of entries. Hits are
// returned in list order.
type TextIndex struct {
	index   bleve.Index
	entries []Entry
}

// NewTextIndex indexes entries in memory. Each text is kept as a single
// lowercased token so a prefix query matches the start of the whole text.
func NewTextIndex(entries []Entry) (*TextIndex, error) {
	im := bleve.NewIndexMapping()
	if err := im.AddCustomAnalyzer(analyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     single.Name,
		"token_filters": []string{lowercase.Name},
	}); err != nil {
		return nil, fmt.Errorf("failed to register analyzer: %w", err)
	}

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = analyzerName
	textFieldMapping.Store = false
	textFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt(textField, textFieldMapping)
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}

	batch := index.NewBatch()
	for i, e := range entries {
		if err := batch.Index(docID(i), map[string]interface{}{textField: e.Text}); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("failed to index entry %d: %w", i, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("failed to index entries: %w", err)
	}
	return &TextIndex{index: index, entries: entries}, nil
}

// docID zero-pads the position so that sorting by id keeps list order.
func docID(i int) string {
	return fmt.Sprintf("%09d", i)
}

// Search returns up to limit entries whose text starts with prefix,
// ignoring case.
func (t *TextIndex) Search(ctx context.Context, prefix string, limit int) ([]Entry, error) {
	prefix = strings.ToLower(prefix)
	if prefix == "" || limit <= 0 {
		return nil, nil
	}
	q := bleve.NewPrefixQuery(prefix)
	q.SetField(textField)
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	req.SortBy([]string{"_id"})

	res, err := t.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]Entry, 0, len(res.Hits))
	for _, hit := range res.Hits {
		i, err := strconv.Atoi(hit.ID)
		if err != nil || i < 0 || i >= len(t.entries) {
			continue
		}
		out = append(out, t.entries[i])
	}
	return out, nil
}

// Len returns the number of entries.
func (t *TextIndex) Len() int {
	return len(t.entries)
}

// Close releases the index.
func (t *TextIndex) Close() error {
	return t.index.Close()
}
