package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildContext_RankedOrderWithPositions(t *testing.T) {
	sources := []ScoredChunk{
		{Chunk: Chunk{Text: "Berlin is the capital of Germany.", Position: 2}, Score: 0.9},
		{Chunk: Chunk{Text: "Paris is the capital of France.", Position: 0}, Score: 0.4},
	}

	got := BuildContext(sources)
	assert.Equal(t, "[Page 2]: Berlin is the capital of Germany.\n\n[Page 0]: Paris is the capital of France.", got)
}

func TestBuildContext_Empty(t *testing.T) {
	assert.Equal(t, "", BuildContext(nil))
}

func TestPromptMessages(t *testing.T) {
	p := NewPrompt("Where?", []ScoredChunk{{Chunk: Chunk{Text: "Here.", Position: 1}}})

	msgs := p.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, DefaultInstruction, msgs[0].Content)
	assert.Equal(t, "user", msgs[1].Role)
	assert.Equal(t, "Context:\n[Page 1]: Here.\n\nQ: Where?", msgs[1].Content)
}

func TestErrorKinds(t *testing.T) {
	verr := error(&ValidationError{Err: ErrZeroNorm})
	assert.True(t, IsValidation(verr))
	assert.False(t, IsCollaborator(verr))
	assert.ErrorIs(t, verr, ErrZeroNorm)

	cause := errors.New("provider unavailable")
	cerr := error(&CollaboratorError{Op: "embed", Err: cause})
	assert.True(t, IsCollaborator(cerr))
	assert.ErrorIs(t, cerr, cause)
	assert.Equal(t, "embed: provider unavailable", cerr.Error())
}
