package domain

import (
	"fmt"
	"strings"
)

const (
	// DefaultInstruction is the system message sent with every question.
	DefaultInstruction = "Answer using only the document context."
	// NoAnswer is returned when the generator produced no content.
	NoAnswer = "No answer found"
)

// Message is one entry of a chat-style generation request.
type Message struct {
	Role    string
	Content string
}

// Prompt is the generation request assembled by the query pipeline.
type Prompt struct {
	Instruction string
	Question    string
	Sources     []ScoredChunk
}

// NewPrompt builds a prompt with the default instruction.
func NewPrompt(question string, sources []ScoredChunk) Prompt {
	return Prompt{Instruction: DefaultInstruction, Question: question, Sources: sources}
}

// Context concatenates the sources in ranked order, each prefixed with its
// chunk position and separated by a blank line.
func (p Prompt) Context() string {
	return BuildContext(p.Sources)
}

// Messages renders the prompt as a system + user message pair.
func (p Prompt) Messages() []Message {
	return []Message{
		{Role: "system", Content: p.Instruction},
		{Role: "user", Content: fmt.Sprintf("Context:\n%s\n\nQ: %s", p.Context(), p.Question)},
	}
}

// BuildContext renders ranked chunks as the context block of a prompt.
func BuildContext(sources []ScoredChunk) string {
	parts := make([]string, 0, len(sources))
	for _, s := range sources {
		parts = append(parts, fmt.Sprintf("[Page %d]: %s", s.Chunk.Position, s.Chunk.Text))
	}
	return strings.Join(parts, "\n\n")
}
