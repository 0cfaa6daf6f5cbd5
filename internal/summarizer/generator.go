package summarizer

import (
	"context"
	"strings"

	"docqa/internal/domain"
)

// Generator answers a prompt offline by extracting the sentences of the
// retrieved sources that best match the question.
type Generator struct {
	summarizer   *FrequencySummarizer
	maxSentences int
}

func NewGenerator(maxSentences int) *Generator {
	return &Generator{summarizer: NewFrequencySummarizer(), maxSentences: maxSentences}
}

func (g *Generator) Name() string { return "extractive" }

// Generate returns "" when the prompt carries no sources.
func (g *Generator) Generate(ctx context.Context, prompt domain.Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	texts := make([]string, 0, len(prompt.Sources))
	for _, src := range prompt.Sources {
		texts = append(texts, src.Chunk.Text)
	}
	return g.summarizer.SummarizeFor(strings.Join(texts, "\n\n"), prompt.Question, g.maxSentences), nil
}
