package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestMeasureFootprint(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "jiten.db")
	writeFile(t, db, 5)
	writeFile(t, db+"-wal", 2)
	writeFile(t, filepath.Join(dir, "indexes", "kanji", "any.idx"), 7)
	writeFile(t, filepath.Join(dir, "indexes", "words-foreign", "eng.idx"), 3)
	writeFile(t, filepath.Join(dir, "indexes", "words-foreign", "ger.idx"), 4)
	writeFile(t, filepath.Join(dir, "indexes", "stray.txt"), 100)
	writeFile(t, filepath.Join(dir, "suggestions", "English"), 11)

	fp, err := MeasureFootprint(db, filepath.Join(dir, "indexes"), filepath.Join(dir, "suggestions"))
	if err != nil {
		t.Fatal(err)
	}
	if fp.Database != 7 {
		t.Errorf("database: got %d, want 7", fp.Database)
	}
	if fp.Suggestions != 11 {
		t.Errorf("suggestions: got %d, want 11", fp.Suggestions)
	}
	if fp.Indexes["kanji"] != 7 || fp.Indexes["words-foreign"] != 7 {
		t.Errorf("indexes: got %v", fp.Indexes)
	}
	if got := fp.Domains(); len(got) != 2 || got[0] != "kanji" {
		t.Errorf("domains: got %v", got)
	}
	if fp.Total() != 32 {
		t.Errorf("total: got %d, want 32", fp.Total())
	}
}

func TestMeasureFootprint_Missing(t *testing.T) {
	dir := t.TempDir()
	fp, err := MeasureFootprint(filepath.Join(dir, "none.db"), filepath.Join(dir, "none"), "")
	if err != nil {
		t.Fatal(err)
	}
	if fp.Total() != 0 {
		t.Errorf("expected empty footprint, got %+v", fp)
	}

	fp, err = MeasureFootprint(":memory:", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if fp.Database != 0 {
		t.Errorf("memory database should not be measured")
	}
}
