package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	t.Setenv("DOCQA_TEST_CHAT_KEY", "sk-test")

	c, err := NewClient(Config{BaseURL: srv.URL + "/v1", APIKeyEnv: "DOCQA_TEST_CHAT_KEY", Model: "gpt-4"})
	require.NoError(t, err)
	return c
}

func TestGenerate_SendsSystemAndUserMessages(t *testing.T) {
	var got chatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","model":"gpt-4","choices":[{"index":0,"message":{"role":"assistant","content":"Paris."},"finish_reason":"stop"}]}`))
	})

	prompt := domain.NewPrompt("What is the capital of France?", []domain.ScoredChunk{
		{Chunk: domain.Chunk{Text: "Paris is the capital of France.", Position: 0}, Score: 0.9},
	})
	answer, err := c.Generate(context.Background(), prompt)
	require.NoError(t, err)

	assert.Equal(t, "Paris.", answer)
	assert.Equal(t, "gpt-4", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, domain.DefaultInstruction, got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Contains(t, got.Messages[1].Content, "[Page 0]: Paris is the capital of France.")
	assert.Contains(t, got.Messages[1].Content, "Q: What is the capital of France?")
}

func TestGenerate_NoChoicesIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","model":"gpt-4","choices":[]}`))
	})

	answer, err := c.Generate(context.Background(), domain.NewPrompt("q", nil))
	require.NoError(t, err)
	assert.Equal(t, "", answer)
}

func TestGenerate_ProviderError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	})

	_, err := c.Generate(context.Background(), domain.NewPrompt("q", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}
