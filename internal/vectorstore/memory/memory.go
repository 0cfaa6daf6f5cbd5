package memory

import (
	"slices"
	"sync"

	"docqa/internal/domain"
	"docqa/internal/vectorstore"
)

// Storage is an in-memory vector index searched exhaustively. Writers
// replace whole generations under the exclusive lock; readers take
// snapshots under the shared lock.
type Storage struct {
	mu         sync.RWMutex
	entries    []domain.IndexedVector
	dimension  int
	generation uint64
	embedder   domain.Embedder
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Update(fn func(tx vectorstore.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &tx{
		entries:   slices.Clip(s.entries),
		dimension: s.dimension,
		embedder:  s.embedder,
	}
	if err := fn(tx); err != nil {
		return err
	}
	s.entries = tx.entries
	s.dimension = tx.dimension
	s.embedder = tx.embedder
	s.generation++
	return nil
}

func (s *Storage) Snapshot() vectorstore.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return vectorstore.Snapshot{
		Entries:    slices.Clone(s.entries),
		Dimension:  s.dimension,
		Generation: s.generation,
		Embedder:   s.embedder,
	}
}

// Reset discards every entry and starts a new, empty generation.
func (s *Storage) Reset() {
	_ = s.Update(func(tx vectorstore.Tx) error {
		tx.Reset()
		return nil
	})
}

// Add appends one entry to the live generation.
func (s *Storage) Add(chunk domain.Chunk, embedding []float64) error {
	return s.Update(func(tx vectorstore.Tx) error {
		return tx.Add(chunk, embedding)
	})
}

func (s *Storage) All() []domain.IndexedVector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}

func (s *Storage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

type tx struct {
	entries   []domain.IndexedVector
	dimension int
	embedder  domain.Embedder
}

func (t *tx) Reset() {
	t.entries = nil
	t.dimension = 0
	t.embedder = nil
}

func (t *tx) Add(chunk domain.Chunk, embedding []float64) error {
	if err := vectorstore.ValidateEmbedding(embedding, t.dimension); err != nil {
		return err
	}
	if t.dimension == 0 {
		t.dimension = len(embedding)
	}
	t.entries = append(t.entries, domain.IndexedVector{
		Chunk:     chunk,
		Embedding: slices.Clone(embedding),
	})
	return nil
}

func (t *tx) SetEmbedder(e domain.Embedder) { t.embedder = e }

func (t *tx) Size() int { return len(t.entries) }
