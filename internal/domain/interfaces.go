package domain

import "context"

// Chunk is one non-empty unit of the ingested document. For paragraph
// chunking Position is the index in the raw split, so positions may be
// sparse when blank paragraphs were dropped.
type Chunk struct {
	Text     string
	Position int
}

// IndexedVector pairs a chunk with its embedding inside the vector index.
type IndexedVector struct {
	Chunk     Chunk
	Embedding []float64
}

// ScoredChunk is a chunk ranked against a query vector.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// Answer is the result of a question asked against the current document.
type Answer struct {
	Text    string
	Context string
	Sources []ScoredChunk
}

// Embedder converts free text into a numeric vector representation.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float64, error)
}

// CorpusFitter is implemented by embedders whose vector space is derived
// from the ingested corpus. Fit must not mutate the receiver.
type CorpusFitter interface {
	Fit(corpus []string) (Embedder, error)
}

// Generator produces a natural-language answer for a prompt.
// An empty string means the provider returned no content.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// Chunker splits extracted document text into chunks.
type Chunker interface {
	Chunk(text string) []Chunk
}
