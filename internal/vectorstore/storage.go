package vectorstore

import (
	"fmt"
	"math"

	"docqa/internal/domain"
)

// Storage holds one generation of indexed vectors at a time.
type Storage interface {
	// Update runs fn under the exclusive lock against a working copy of the
	// index. The copy becomes the live generation only if fn returns nil.
	Update(fn func(tx Tx) error) error
	// Snapshot returns the committed generation.
	Snapshot() Snapshot
	Reset()
	Add(chunk domain.Chunk, embedding []float64) error
	All() []domain.IndexedVector
	Size() int
}

// Tx is the write view handed to Update.
type Tx interface {
	Reset()
	Add(chunk domain.Chunk, embedding []float64) error
	// SetEmbedder records the embedder whose vector space the entries live in.
	SetEmbedder(e domain.Embedder)
	Size() int
}

// Snapshot is a read-only view of one committed generation.
type Snapshot struct {
	Entries    []domain.IndexedVector
	Dimension  int
	Generation uint64
	// Embedder is nil unless the ingestion fitted one to the corpus.
	Embedder domain.Embedder
}

// ValidateEmbedding checks that v can take part in cosine scoring. When
// dimension is non-zero, v must have exactly that many components.
func ValidateEmbedding(v []float64, dimension int) error {
	if len(v) == 0 {
		return &domain.ValidationError{Err: domain.ErrEmptyEmbedding}
	}
	if dimension != 0 && len(v) != dimension {
		return &domain.ValidationError{Err: fmt.Errorf("%w: got %d, want %d", domain.ErrDimensionMismatch, len(v), dimension)}
	}
	// Cosine scoring divides by the largest component before squaring, so
	// every finite vector with a non-zero component has a usable norm.
	nonZero := false
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return &domain.ValidationError{Err: domain.ErrNonFinite}
		}
		if x != 0 {
			nonZero = true
		}
	}
	if !nonZero {
		return &domain.ValidationError{Err: domain.ErrZeroNorm}
	}
	return nil
}
