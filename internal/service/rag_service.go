package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"docqa/internal/domain"
	"docqa/internal/ranker"
	"docqa/internal/vectorstore"
)

// DefaultTopK is the number of chunks handed to the generator.
const DefaultTopK = 3

// Stats describes the live index generation.
type Stats struct {
	Chunks     int    `json:"chunks"`
	Generation uint64 `json:"generation"`
}

type RAGServiceImpl struct {
	chunker   domain.Chunker
	embedder  domain.Embedder
	generator domain.Generator
	store     vectorstore.Storage
	topK      int
	log       logrus.FieldLogger

	// ingestMu serialises writers; readers only use the store's own lock.
	ingestMu sync.Mutex
}

func NewRAGService(chunker domain.Chunker, embedder domain.Embedder, generator domain.Generator, store vectorstore.Storage, topK int, log logrus.FieldLogger) *RAGServiceImpl {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &RAGServiceImpl{
		chunker:   chunker,
		embedder:  embedder,
		generator: generator,
		store:     store,
		topK:      topK,
		log:       log.WithField("component", "rag"),
	}
}

// Ingest replaces the index content with the chunks of text and returns the
// number of entries committed. On any error the previous generation stays live.
func (s *RAGServiceImpl) Ingest(ctx context.Context, text string) (int, error) {
	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()

	start := time.Now()
	chunks := s.chunker.Chunk(text)
	log := s.log.WithField("chunks", len(chunks))
	log.Debug("ingestion started")

	space, fitted := s.embedder, false
	if fitter, ok := s.embedder.(domain.CorpusFitter); ok && len(chunks) > 0 {
		corpus := make([]string, len(chunks))
		for i, ch := range chunks {
			corpus[i] = ch.Text
		}
		e, err := fitter.Fit(corpus)
		if err != nil {
			log.WithError(err).Warn("ingestion failed")
			return 0, &domain.CollaboratorError{Op: "embed", Err: err}
		}
		space, fitted = e, true
	}

	vectors := make([][]float64, len(chunks))
	for i, ch := range chunks {
		if err := ctx.Err(); err != nil {
			return 0, &domain.CollaboratorError{Op: "embed", Err: err}
		}
		v, err := space.Embed(ctx, ch.Text)
		if err != nil {
			log.WithError(err).WithField("position", ch.Position).Warn("ingestion failed")
			return 0, &domain.CollaboratorError{Op: "embed", Err: fmt.Errorf("chunk %d: %w", ch.Position, err)}
		}
		vectors[i] = v
	}

	err := s.store.Update(func(tx vectorstore.Tx) error {
		tx.Reset()
		if fitted {
			tx.SetEmbedder(space)
		}
		for i, ch := range chunks {
			if err := tx.Add(ch, vectors[i]); err != nil {
				return fmt.Errorf("chunk %d: %w", ch.Position, err)
			}
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Warn("ingestion rejected")
		return 0, err
	}
	generation := s.store.Snapshot().Generation

	log.WithFields(logrus.Fields{
		"generation": generation,
		"duration":   time.Since(start).String(),
	}).Info("ingestion committed")
	return len(chunks), nil
}

// Query answers question from the top ranked chunks of the live generation.
func (s *RAGServiceImpl) Query(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, &domain.ValidationError{Err: domain.ErrEmptyQuestion}
	}

	snap := s.store.Snapshot()
	ranked := []domain.ScoredChunk{}
	if len(snap.Entries) > 0 {
		emb := snap.Embedder
		if emb == nil {
			emb = s.embedder
		}
		qv, err := emb.Embed(ctx, question)
		if err != nil {
			return nil, &domain.CollaboratorError{Op: "embed", Err: err}
		}
		// A question sharing nothing with the document matches no chunk.
		switch err := vectorstore.ValidateEmbedding(qv, snap.Dimension); {
		case errors.Is(err, domain.ErrZeroNorm):
		case err != nil:
			return nil, err
		default:
			ranked = ranker.Rank(qv, snap.Entries, s.topK)
		}
	}

	prompt := domain.NewPrompt(question, ranked)
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, &domain.CollaboratorError{Op: "generate", Err: err}
	}
	if strings.TrimSpace(text) == "" {
		text = domain.NoAnswer
	}

	fields := logrus.Fields{"generation": snap.Generation, "ranked": len(ranked)}
	if len(ranked) > 0 {
		fields["top_position"] = ranked[0].Chunk.Position
		fields["top_score"] = ranked[0].Score
	}
	s.log.WithFields(fields).Info("query answered")

	return &domain.Answer{Text: text, Context: prompt.Context(), Sources: ranked}, nil
}

// Reset clears the index.
func (s *RAGServiceImpl) Reset(ctx context.Context) {
	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()
	s.store.Reset()
	s.log.Info("index reset")
}

func (s *RAGServiceImpl) Stats() Stats {
	snap := s.store.Snapshot()
	return Stats{Chunks: len(snap.Entries), Generation: snap.Generation}
}
