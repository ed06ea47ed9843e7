package services

import (
	"math"
	"sort"
)

// Cosine returns the cosine similarity of two vectors in [-1, 1].
// Mismatched lengths or a zero-norm vector yield 0: corrupt or missing
// data degrades a comparison rather than failing it.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

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

// Scored pairs a candidate id with its similarity score.
type Scored struct {
	ID    string
	Score float64
}

// Candidate is an id with an embedding, eligible for similarity search.
type Candidate struct {
	ID        string
	Embedding []float32
}

// TopK scores every candidate against the query vector and returns the
// k best, sorted by descending score. Ties keep the original candidate
// order.
func TopK(query []float32, candidates []Candidate, k int) []Scored {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}

	scored := make([]Scored, len(candidates))
	for i, c := range candidates {
		scored[i] = Scored{ID: c.ID, Score: Cosine(query, c.Embedding)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}
