package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

func TestParagraphChunker_ContiguousPositions(t *testing.T) {
	chunks := NewParagraphChunker("").Chunk("a\n\nb\n\nc")

	assert.Equal(t, []domain.Chunk{
		{Text: "a", Position: 0},
		{Text: "b", Position: 1},
		{Text: "c", Position: 2},
	}, chunks)
}

func TestParagraphChunker_SparsePositions(t *testing.T) {
	chunks := NewParagraphChunker("").Chunk("a\n\n\n\nb")

	require.Len(t, chunks, 2)
	assert.Equal(t, 0, chunks[0].Position)
	assert.Equal(t, 2, chunks[1].Position)
}

func TestParagraphChunker_TrimsAndDropsBlank(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"\n\n\n\n",
		"  first paragraph \n\n \t \n\n second\nline  ",
		"\r\n\r\nwindows\r\n\r\nline endings",
	}
	c := NewParagraphChunker("")
	for _, in := range inputs {
		for _, ch := range c.Chunk(in) {
			assert.NotEmpty(t, ch.Text)
			assert.Equal(t, strings.TrimSpace(ch.Text), ch.Text)
			assert.GreaterOrEqual(t, ch.Position, 0)
		}
	}

	chunks := c.Chunk("  first paragraph \n\n \t \n\n second\nline  ")
	assert.Equal(t, []domain.Chunk{
		{Text: "first paragraph", Position: 0},
		{Text: "second\nline", Position: 2},
	}, chunks)
}

func TestParagraphChunker_EmptyInput(t *testing.T) {
	assert.Empty(t, NewParagraphChunker("").Chunk(""))
	assert.Empty(t, NewParagraphChunker("").Chunk(" \n\n \n\n"))
}

func TestParagraphChunker_CRLF(t *testing.T) {
	chunks := NewParagraphChunker("").Chunk("one\r\n\r\ntwo")

	assert.Equal(t, []domain.Chunk{{Text: "one", Position: 0}, {Text: "two", Position: 1}}, chunks)
}

func TestParagraphChunker_CustomSeparator(t *testing.T) {
	chunks := NewParagraphChunker("---").Chunk("x---y")

	assert.Equal(t, []domain.Chunk{{Text: "x", Position: 0}, {Text: "y", Position: 1}}, chunks)
}
