// Package embedding matches athletes to events by cosine similarity over
// precomputed text embeddings. Results are advisory and never feed the
// rule or learned scores.
package embedding

import (
	"context"
	"fmt"

	"github.com/okian/simumatch/internal/domain/dedupe"
)

// Table holds labels and their vectors row by row: Labels[i] names
// Vectors[i]. Every vector has the same width. Treat a Table as read-only
// once built.
type Table struct {
	Labels  []string
	Vectors [][]float32
}

// NewTable copies labels and vectors into a Table after checking alignment.
func NewTable(labels []string, vectors [][]float32) (*Table, error) {
	if len(labels) != len(vectors) {
		return nil, fmt.Errorf("%w: %d labels, %d vectors", ErrMisaligned, len(labels), len(vectors))
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: empty table", ErrMisaligned)
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: zero-width vectors", ErrDimensionMismatch)
	}

	t := &Table{
		Labels:  append([]string(nil), labels...),
		Vectors: make([][]float32, len(vectors)),
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: row %d has width %d, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
		t.Vectors[i] = append([]float32(nil), v...)
	}
	return t, nil
}

// Len is the number of rows.
func (t *Table) Len() int { return len(t.Labels) }

// Dim is the vector width.
func (t *Table) Dim() int {
	if len(t.Vectors) == 0 {
		return 0
	}
	return len(t.Vectors[0])
}

// Dedupe returns a table without repeated labels. Labels compare case- and
// space-insensitively, the first row wins and its vector stays with it.
func (t *Table) Dedupe(ctx context.Context) *Table {
	keep := dedupe.KeepFirst(ctx, t.Labels, dedupe.WithNormalizer(dedupe.FoldLabel))
	if len(keep) == len(t.Labels) {
		return t
	}
	out := &Table{
		Labels:  make([]string, 0, len(keep)),
		Vectors: make([][]float32, 0, len(keep)),
	}
	for _, i := range keep {
		out.Labels = append(out.Labels, t.Labels[i])
		out.Vectors = append(out.Vectors, t.Vectors[i])
	}
	return out
}
