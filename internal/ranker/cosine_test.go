package ranker

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

func entry(pos int, v ...float64) domain.IndexedVector {
	return domain.IndexedVector{Chunk: domain.Chunk{Text: "c", Position: pos}, Embedding: v}
}

func positions(res []domain.ScoredChunk) []int {
	out := make([]int, len(res))
	for i, r := range res {
		out[i] = r.Chunk.Position
	}
	return out
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float64{3, 4}, []float64{3, 4}), 1e-12)
	assert.InDelta(t, 1.0, CosineSimilarity([]float64{1, 1}, []float64{5, 5}), 1e-12)
	assert.InDelta(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-12)
	assert.InDelta(t, -1.0, CosineSimilarity([]float64{1, 0}, []float64{-2, 0}), 1e-12)
}

func TestCosineSimilarity_Undefined(t *testing.T) {
	assert.True(t, math.IsNaN(CosineSimilarity([]float64{0, 0}, []float64{1, 0})))
	assert.True(t, math.IsNaN(CosineSimilarity([]float64{1, 0}, []float64{0, 0})))
	assert.True(t, math.IsNaN(CosineSimilarity([]float64{1, 0}, []float64{1, 0, 0})))
}

func TestCosineSimilarity_ExtremeMagnitudes(t *testing.T) {
	assert.Equal(t, 1.0, CosineSimilarity([]float64{1e200, 0}, []float64{1e200, 0}))
	assert.Equal(t, 1.0, CosineSimilarity([]float64{1e-200, 0}, []float64{1e-200, 0}))
	assert.InDelta(t, 1.0, CosineSimilarity([]float64{1e200, 1}, []float64{1e200, 1}), 1e-12)
	assert.InDelta(t, 1.0, CosineSimilarity([]float64{1e200, 1e200}, []float64{1e-200, 1e-200}), 1e-12)
	assert.InDelta(t, 0.0, CosineSimilarity([]float64{1e200, 0}, []float64{0, 1e-200}), 1e-12)
}

func TestRank_ExtremeMagnitudesScoreFinite(t *testing.T) {
	entries := []domain.IndexedVector{
		entry(0, 0, 1),
		entry(1, 1e200, 1),
		entry(2, 1e-200, 1e-200),
	}
	res := Rank([]float64{1e200, 1}, entries, 3)
	require.Len(t, res, 3)
	for _, r := range res {
		assert.False(t, math.IsNaN(r.Score) || math.IsInf(r.Score, 0), "position %d", r.Chunk.Position)
	}
	assert.Equal(t, []int{1, 2, 0}, positions(res))
	assert.InDelta(t, 1.0, res[0].Score, 1e-12)
}

func TestRank_DescendingAndTopK(t *testing.T) {
	entries := []domain.IndexedVector{
		entry(0, 0, 1),
		entry(1, 1, 0),
		entry(2, 1, 1),
		entry(3, -1, 0),
	}

	res := Rank([]float64{1, 0}, entries, 3)

	require.Len(t, res, 3)
	assert.Equal(t, []int{1, 2, 0}, positions(res))
	assert.InDelta(t, 1.0, res[0].Score, 1e-12)
	assert.InDelta(t, math.Sqrt2/2, res[1].Score, 1e-12)
	assert.InDelta(t, 0.0, res[2].Score, 1e-12)
}

func TestRank_ReturnsMinOfKAndSize(t *testing.T) {
	entries := []domain.IndexedVector{entry(0, 1, 0), entry(1, 0, 1)}
	for _, k := range []int{1, 2, 3, 10} {
		res := Rank([]float64{1, 1}, entries, k)
		assert.Len(t, res, min(k, len(entries)))
	}
	assert.Empty(t, Rank([]float64{1, 1}, entries, 0))
	assert.Empty(t, Rank([]float64{1, 1}, nil, 3))
}

func TestRank_StableTieBreak(t *testing.T) {
	entries := []domain.IndexedVector{
		entry(4, 2, 0),
		entry(1, 1, 0),
		entry(7, 3, 0),
		entry(0, 0, 1),
	}

	res := Rank([]float64{1, 0}, entries, 4)

	// 4, 1 and 7 all score exactly 1; they keep snapshot order.
	assert.Equal(t, []int{4, 1, 7, 0}, positions(res))
}

func TestRank_Deterministic(t *testing.T) {
	entries := []domain.IndexedVector{
		entry(0, 0.3, 0.1, 0.9),
		entry(2, 0.5, 0.5, 0.5),
		entry(3, 0.9, 0.2, 0.1),
		entry(5, 0.5, 0.5, 0.5),
		entry(6, 0.1, 0.9, 0.3),
	}
	q := []float64{0.4, 0.4, 0.6}

	first := Rank(q, entries, 3)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Rank(q, entries, 3))
	}
}

func TestRank_NaNSortsLast(t *testing.T) {
	entries := []domain.IndexedVector{
		entry(0, 0, 0),
		entry(1, -1, 0),
		entry(2, 1, 0, 0),
		entry(3, 1, 0),
	}

	res := Rank([]float64{1, 0}, entries, 4)

	assert.Equal(t, []int{3, 1, 0, 2}, positions(res))
	assert.True(t, math.IsNaN(res[2].Score))
	assert.True(t, math.IsNaN(res[3].Score))
}

func TestRank_DoesNotReorderInput(t *testing.T) {
	entries := []domain.IndexedVector{entry(0, 0, 1), entry(1, 1, 0)}
	_ = Rank([]float64{1, 0}, entries, 2)

	assert.Equal(t, 0, entries[0].Chunk.Position)
	assert.Equal(t, 1, entries[1].Chunk.Position)
}
