package chunker

import (
	"regexp"
	"strings"

	"docqa/internal/domain"
)

var sentenceSplitter = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)

// SentenceChunker groups sentences into fixed-size windows with overlap.
// Position is the window index.
type SentenceChunker struct {
	sentencesPerChunk int
	overlapSentences  int
}

func NewSentenceChunker(sentencesPerChunk, overlapSentences int) *SentenceChunker {
	if sentencesPerChunk <= 0 {
		sentencesPerChunk = 5
	}
	if overlapSentences < 0 {
		overlapSentences = 0
	}
	// overlap must leave room for progress
	if overlapSentences >= sentencesPerChunk {
		overlapSentences = sentencesPerChunk - 1
	}
	return &SentenceChunker{
		sentencesPerChunk: sentencesPerChunk,
		overlapSentences:  overlapSentences,
	}
}

func (c *SentenceChunker) Chunk(text string) []domain.Chunk {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var sentences []string
	for _, s := range sentenceSplitter.FindAllString(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		sentences = []string{trimmed}
	}
	var chunks []domain.Chunk
	for i, idx := 0, 0; i < len(sentences); idx++ {
		end := min(i+c.sentencesPerChunk, len(sentences))
		chunks = append(chunks, domain.Chunk{
			Text:     strings.Join(sentences[i:end], " "),
			Position: idx,
		})
		if end == len(sentences) {
			break
		}
		i = end - c.overlapSentences
	}
	return chunks
}
