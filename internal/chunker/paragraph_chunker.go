package chunker

import (
	"strings"

	"docqa/internal/domain"
)

// DefaultSeparator is the paragraph boundary emitted by the text extractors.
const DefaultSeparator = "\n\n"

// ParagraphChunker splits text on a paragraph separator. Empty paragraphs
// are dropped without renumbering, so positions keep their raw split index.
type ParagraphChunker struct {
	separator string
}

func NewParagraphChunker(separator string) *ParagraphChunker {
	if separator == "" {
		separator = DefaultSeparator
	}
	return &ParagraphChunker{separator: separator}
}

func (c *ParagraphChunker) Chunk(text string) []domain.Chunk {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	segments := strings.Split(text, c.separator)
	var chunks []domain.Chunk
	for i, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{Text: seg, Position: i})
	}
	return chunks
}
