// Package app assembles the retrieval service from configuration.
package app

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"docqa/internal/chunker"
	"docqa/internal/config"
	"docqa/internal/domain"
	embopenai "docqa/internal/embedding/openai"
	"docqa/internal/embedding/tfidf"
	genopenai "docqa/internal/generation/openai"
	"docqa/internal/service"
	"docqa/internal/summarizer"
	"docqa/internal/vectorstore/memory"
)

func BuildEmbedder(cfg config.EmbedderConfig) (domain.Embedder, error) {
	switch cfg.Type {
	case "tfidf", "":
		return tfidf.NewEmbedder(), nil
	case "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		client, err := embopenai.NewClient(embopenai.Config{
			BaseURL:   cfg.OpenAI.BaseURL,
			APIKeyEnv: cfg.OpenAI.APIKeyEnv,
			Model:     cfg.OpenAI.Model,
			Timeout:   time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder init failed: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}

func BuildGenerator(cfg config.GeneratorConfig) (domain.Generator, error) {
	switch cfg.Type {
	case "extractive", "":
		return summarizer.NewGenerator(cfg.MaxSentences), nil
	case "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai generator config missing")
		}
		client, err := genopenai.NewClient(genopenai.Config{
			BaseURL:   cfg.OpenAI.BaseURL,
			APIKeyEnv: cfg.OpenAI.APIKeyEnv,
			Model:     cfg.OpenAI.Model,
			Timeout:   time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("openai generator init failed: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown generator: %s", cfg.Type)
	}
}

func BuildChunker(cfg config.ChunkerConfig) (domain.Chunker, error) {
	switch cfg.Type {
	case "paragraph", "":
		return chunker.NewParagraphChunker(cfg.Separator), nil
	case "sentence":
		return chunker.NewSentenceChunker(cfg.SentencesPerChunk, cfg.OverlapSentences), nil
	default:
		return nil, fmt.Errorf("unknown chunker: %s", cfg.Type)
	}
}

// BuildService wires every component named by cfg around a fresh in-memory index.
func BuildService(cfg *config.AppConfig, log logrus.FieldLogger) (*service.RAGServiceImpl, error) {
	emb, err := BuildEmbedder(cfg.Embedder)
	if err != nil {
		return nil, err
	}
	gen, err := BuildGenerator(cfg.Generator)
	if err != nil {
		return nil, err
	}
	ch, err := BuildChunker(cfg.Chunker)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"embedder":  emb.Name(),
		"generator": gen.Name(),
		"top_k":     cfg.Retrieval.TopK,
	}).Info("service assembled")
	return service.NewRAGService(ch, emb, gen, memory.NewStorage(), cfg.Retrieval.TopK, log), nil
}
