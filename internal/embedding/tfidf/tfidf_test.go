package tfidf

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/ranker"
)

func norm(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func TestEmbed_Unfitted(t *testing.T) {
	_, err := NewEmbedder().Embed(context.Background(), "anything")
	assert.Error(t, err)
}

func TestFit_EmptyCorpus(t *testing.T) {
	_, err := NewEmbedder().Fit(nil)
	assert.Error(t, err)

	_, err = NewEmbedder().Fit([]string{"the and of"})
	assert.Error(t, err)
}

func TestFit_DoesNotMutateReceiver(t *testing.T) {
	base := NewEmbedder()
	fitted, err := base.Fit([]string{"alpha beta", "gamma"})
	require.NoError(t, err)

	assert.Equal(t, 0, base.Dimension())
	assert.Equal(t, 3, fitted.(*Embedder).Dimension())
}

func TestEmbed_NormalisedAndDeterministic(t *testing.T) {
	fitted, err := NewEmbedder().Fit([]string{"Paris is the capital of France.", "Berlin is the capital of Germany."})
	require.NoError(t, err)
	ctx := context.Background()

	v1, err := fitted.Embed(ctx, "capital of France")
	require.NoError(t, err)
	v2, err := fitted.Embed(ctx, "capital of France")
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.InDelta(t, 1.0, norm(v1), 1e-9)
}

func TestEmbed_UnknownTermsGiveZeroVector(t *testing.T) {
	fitted, err := NewEmbedder().Fit([]string{"alpha beta"})
	require.NoError(t, err)

	v, err := fitted.Embed(context.Background(), "zeta")
	require.NoError(t, err)
	assert.Len(t, v, 2)
	assert.Equal(t, 0.0, norm(v))
}

func TestEmbed_DigitsAreTokens(t *testing.T) {
	fitted, err := NewEmbedder().Fit([]string{"Revenue grew 2024", "Costs fell"})
	require.NoError(t, err)

	v, err := fitted.Embed(context.Background(), "2024")
	require.NoError(t, err)
	assert.Greater(t, norm(v), 0.0)
}

func TestEmbed_RanksRelevantParagraph(t *testing.T) {
	paris := "Paris is the capital of France."
	berlin := "Berlin is the capital of Germany."
	fitted, err := NewEmbedder().Fit([]string{paris, berlin})
	require.NoError(t, err)
	ctx := context.Background()

	q, err := fitted.Embed(ctx, "What is the capital of France?")
	require.NoError(t, err)
	p, err := fitted.Embed(ctx, paris)
	require.NoError(t, err)
	b, err := fitted.Embed(ctx, berlin)
	require.NoError(t, err)

	assert.Greater(t, ranker.CosineSimilarity(q, p), ranker.CosineSimilarity(q, b))
}

func TestEmbed_HonoursCancelledContext(t *testing.T) {
	fitted, err := NewEmbedder().Fit([]string{"alpha"})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = fitted.Embed(ctx, "alpha")
	assert.ErrorIs(t, err, context.Canceled)
}
