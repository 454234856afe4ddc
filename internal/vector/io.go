package vector

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var magic = [4]byte{'J', 'V', 'I', '1'}

// Save writes idx to path, creating parent directories. Format (little endian):
// magic, term count, per term (length, bytes, weight), document count, per
// document (seq count, seqs, nnz, dims, weights).
func Save(idx *Index, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := write(w, idx); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush index file: %w", err)
	}
	return nil
}

func write(w io.Writer, idx *Index) error {
	le := binary.LittleEndian
	if _, err := w.Write(magic[:]); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}
	if err := binary.Write(w, le, uint32(len(idx.vocab))); err != nil {
		return fmt.Errorf("write term count: %w", err)
	}
	for d, t := range idx.vocab {
		if err := binary.Write(w, le, uint32(len(t))); err != nil {
			return fmt.Errorf("write term len: %w", err)
		}
		if _, err := io.WriteString(w, t); err != nil {
			return fmt.Errorf("write term: %w", err)
		}
		if err := binary.Write(w, le, idx.termWeight(uint32(d))); err != nil {
			return fmt.Errorf("write term weight: %w", err)
		}
	}
	if err := binary.Write(w, le, uint32(len(idx.docs))); err != nil {
		return fmt.Errorf("write document count: %w", err)
	}
	for _, dv := range idx.docs {
		seqs := dv.Document.SeqIDs
		if err := binary.Write(w, le, uint32(len(seqs))); err != nil {
			return fmt.Errorf("write seq count: %w", err)
		}
		if err := binary.Write(w, le, seqs); err != nil {
			return fmt.Errorf("write seqs: %w", err)
		}
		if err := binary.Write(w, le, uint32(dv.Vector.Len())); err != nil {
			return fmt.Errorf("write nnz: %w", err)
		}
		if err := binary.Write(w, le, dv.Vector.dims); err != nil {
			return fmt.Errorf("write dims: %w", err)
		}
		if err := binary.Write(w, le, dv.Vector.weights); err != nil {
			return fmt.Errorf("write weights: %w", err)
		}
	}
	return nil
}

// Load reads an index written by Save.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()

	idx, err := read(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return idx, nil
}

func read(r io.Reader) (*Index, error) {
	le := binary.LittleEndian
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if m != magic {
		return nil, fmt.Errorf("bad magic %q", m[:])
	}

	var nTerms uint32
	if err := binary.Read(r, le, &nTerms); err != nil {
		return nil, fmt.Errorf("read term count: %w", err)
	}
	vocab := make([]string, nTerms)
	weights := make([]float32, nTerms)
	for i := range vocab {
		var n uint32
		if err := binary.Read(r, le, &n); err != nil {
			return nil, fmt.Errorf("read term len: %w", err)
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("read term: %w", err)
		}
		vocab[i] = string(buf)
		if err := binary.Read(r, le, &weights[i]); err != nil {
			return nil, fmt.Errorf("read term weight: %w", err)
		}
	}

	var nDocs uint32
	if err := binary.Read(r, le, &nDocs); err != nil {
		return nil, fmt.Errorf("read document count: %w", err)
	}
	docs := make([]DocumentVector, nDocs)
	for i := range docs {
		var nSeq uint32
		if err := binary.Read(r, le, &nSeq); err != nil {
			return nil, fmt.Errorf("read seq count: %w", err)
		}
		seqs := make([]uint32, nSeq)
		if err := binary.Read(r, le, seqs); err != nil {
			return nil, fmt.Errorf("read seqs: %w", err)
		}
		var nnz uint32
		if err := binary.Read(r, le, &nnz); err != nil {
			return nil, fmt.Errorf("read nnz: %w", err)
		}
		dims := make([]uint32, nnz)
		if err := binary.Read(r, le, dims); err != nil {
			return nil, fmt.Errorf("read dims: %w", err)
		}
		ws := make([]float32, nnz)
		if err := binary.Read(r, le, ws); err != nil {
			return nil, fmt.Errorf("read weights: %w", err)
		}
		for k := 1; k < len(dims); k++ {
			if dims[k] <= dims[k-1] {
				return nil, fmt.Errorf("document %d: dimensions not ascending", i)
			}
		}
		docs[i] = DocumentVector{Document: Document{SeqIDs: seqs}, Vector: newSorted(dims, ws)}
	}
	return NewIndex(vocab, weights, docs)
}
