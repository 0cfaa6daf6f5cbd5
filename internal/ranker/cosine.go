// Package ranker scores stored embeddings against a query vector.
package ranker

import (
	"math"
	"sort"

	"docqa/internal/domain"
)

// CosineSimilarity returns dot(a, b) / (|a| * |b|). The result is NaN when
// either vector has zero norm or the lengths differ. Each vector is divided
// by its largest absolute component first, so very large or very small
// magnitudes neither overflow nor underflow the sums.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.NaN()
	}
	sa, sb := maxAbs(a), maxAbs(b)
	if sa == 0 || sb == 0 {
		return math.NaN()
	}
	var dot, na, nb float64
	for i := range a {
		x, y := a[i]/sa, b[i]/sb
		dot += x * y
		na += x * x
		nb += y * y
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func maxAbs(v []float64) float64 {
	var m float64
	for _, x := range v {
		if x = math.Abs(x); x > m || math.IsNaN(x) {
			m = x
		}
	}
	return m
}

// Rank scores every entry against query and returns at most k results,
// best first. Equal scores keep snapshot order and NaN scores sort last.
func Rank(query []float64, entries []domain.IndexedVector, k int) []domain.ScoredChunk {
	if k <= 0 || len(entries) == 0 {
		return []domain.ScoredChunk{}
	}
	results := make([]domain.ScoredChunk, len(entries))
	for i, e := range entries {
		results[i] = domain.ScoredChunk{
			Chunk: e.Chunk,
			Score: CosineSimilarity(query, e.Embedding),
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return less(results[i].Score, results[j].Score)
	})
	if k < len(results) {
		results = results[:k]
	}
	return results
}

// less orders descending with NaN after every number.
func less(a, b float64) bool {
	switch {
	case math.IsNaN(a):
		return false
	case math.IsNaN(b):
		return true
	default:
		return a > b
	}
}
