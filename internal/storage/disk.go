package storage

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Footprint is the on-disk size of the dictionary artifacts.
type Footprint struct {
	Database    int64            `json:"database_bytes"`
	Indexes     map[string]int64 `json:"index_bytes"`
	Suggestions int64            `json:"suggestion_bytes"`
}

// Total returns the sum of all measured artifacts.
func (f Footprint) Total() int64 {
	total := f.Database + f.Suggestions
	for _, n := range f.Indexes {
		total += n
	}
	return total
}

// Domains returns the measured index domains in sorted order.
func (f Footprint) Domains() []string {
	out := make([]string, 0, len(f.Indexes))
	for d := range f.Indexes {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// MeasureFootprint sizes the database file (with its WAL and shm siblings),
// each domain directory below indexDir and the suggestion directory.
// Missing paths count as zero.
func MeasureFootprint(dbPath, indexDir, suggestionDir string) (Footprint, error) {
	fp := Footprint{Indexes: make(map[string]int64)}

	var err error
	if dbPath != "" && dbPath != ":memory:" {
		if fp.Database, err = pathSize(dbPath, dbPath+"-wal", dbPath+"-shm"); err != nil {
			return fp, err
		}
	}
	if fp.Suggestions, err = pathSize(suggestionDir); err != nil {
		return fp, err
	}

	if indexDir == "" {
		return fp, nil
	}
	entries, err := os.ReadDir(indexDir)
	if os.IsNotExist(err) {
		return fp, nil
	}
	if err != nil {
		return fp, err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		n, err := pathSize(filepath.Join(indexDir, e.Name()))
		if err != nil {
			return fp, err
		}
		fp.Indexes[e.Name()] = n
	}
	return fp, nil
}

// pathSize returns the total size of the given files or directories.
// Empty and missing paths are skipped.
func pathSize(paths ...string) (int64, error) {
	var total int64
	for _, p := range paths {
		if p == "" {
			continue
		}
		err := filepath.WalkDir(p, func(_ string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			total += info.Size()
			return nil
		})
		if err != nil && !os.IsNotExist(err) {
			return 0, err
		}
	}
	return total, nil
}
