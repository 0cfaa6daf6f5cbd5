package tfidf

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"

	"docqa/internal/domain"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}\p{N}]+)*`)

// Embedder implements a simple TF-IDF vectorizer.
// A fitted Embedder is immutable; Fit always returns a new one.
type Embedder struct {
	vocabulary map[string]int
	idf        []float64
	stopwords  map[string]struct{}
}

// NewEmbedder creates an unfitted TF-IDF embedder.
func NewEmbedder() *Embedder {
	return &Embedder{stopwords: defaultStopwords()}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// Fit builds a vocabulary and IDF values from corpus and returns an embedder
// for that vector space.
func (e *Embedder) Fit(corpus []string) (domain.Embedder, error) {
	if len(corpus) == 0 {
		return nil, errors.New("empty corpus for TF-IDF fit")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	// Create stable ordering for vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return nil, errors.New("no tokens found in corpus")
	}
	fitted := &Embedder{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
		stopwords:  e.stopwords,
	}
	n := float64(len(corpus))
	for i, term := range terms {
		fitted.vocabulary[term] = i
		// Smoothed IDF
		fitted.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	return fitted, nil
}

// Dimension returns the vocabulary size, zero when unfitted.
func (e *Embedder) Dimension() int { return len(e.idf) }

// Embed computes the L2-normalised TF-IDF vector of text. Text without any
// vocabulary term yields the zero vector.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.vocabulary == nil {
		return nil, errors.New("tfidf embedder not fitted")
	}
	vec := make([]float64, len(e.idf))
	tf := make(map[int]int)
	total := 0
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}
	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * e.idf[idx]
	}
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

func (e *Embedder) tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
