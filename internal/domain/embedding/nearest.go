package embedding

import (
	"fmt"
	"math"
	"sort"
)

// Neighbor is one candidate row and its similarity to the query vector.
type Neighbor struct {
	Index      int     `json:"index"`
	Label      string  `json:"label,omitempty"`
	Similarity float64 `json:"similarity"`
}

// NearestEvents ranks events by cosine similarity to athlete, highest
// first, ties broken by lower index, and keeps at most topK.
func NearestEvents(athlete []float32, events [][]float32, topK int) ([]Neighbor, error) {
	if topK <= 0 {
		return nil, ErrInvalidTopK
	}
	out := make([]Neighbor, 0, len(events))
	for i, e := range events {
		if len(e) != len(athlete) {
			return nil, fmt.Errorf("%w: event %d has width %d, athlete has %d", ErrDimensionMismatch, i, len(e), len(athlete))
		}
		out = append(out, Neighbor{Index: i, Similarity: cosineSimilarity(athlete, e)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

// cosineSimilarity is zero when either vector has zero norm.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
