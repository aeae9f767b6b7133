package vectorstore

import (
	"encoding/gob"
	"fmt"
	"io"
	"sort"
)

// flatIndex is an exact inner-product index: vectors are kept as-is and
// every search scans all of them. Positions double as internal row ids.
type flatIndex struct {
	dim     int
	vectors [][]float32
}

type scoredRow struct {
	row   int
	score float32
}

func newFlatIndex(dim int) *flatIndex {
	return &flatIndex{dim: dim}
}

func (x *flatIndex) count() int {
	return len(x.vectors)
}

func (x *flatIndex) add(vecs [][]float32) error {
	for _, v := range vecs {
		if len(v) != x.dim {
			return fmt.Errorf("vector has dimension %d, index has %d", len(v), x.dim)
		}
	}
	x.vectors = append(x.vectors, vecs...)
	return nil
}

// search returns up to limit rows by descending inner product. The query is
// assumed unit-normalized, so scores are cosine similarities.
func (x *flatIndex) search(query []float32, limit int) []scoredRow {
	if len(x.vectors) == 0 || len(query) != x.dim || limit <= 0 {
		return nil
	}
	rows := make([]scoredRow, 0, len(x.vectors))
	for i, v := range x.vectors {
		rows = append(rows, scoredRow{row: i, score: dot(query, v)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].score != rows[j].score {
			return rows[i].score > rows[j].score
		}
		return rows[i].row < rows[j].row
	})
	if limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// indexSnapshot is the on-disk form of a flatIndex.
type indexSnapshot struct {
	Dim     int
	Vectors [][]float32
}

func (x *flatIndex) writeTo(w io.Writer) error {
	snap := indexSnapshot{Dim: x.dim, Vectors: x.vectors}
	if err := gob.NewEncoder(w).Encode(&snap); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	return nil
}

func readFlatIndex(r io.Reader) (*flatIndex, error) {
	var snap indexSnapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	if snap.Dim <= 0 {
		return nil, fmt.Errorf("decode index: invalid dimension %d", snap.Dim)
	}
	return &flatIndex{dim: snap.Dim, vectors: snap.Vectors}, nil
}
