package openai

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"docqa/internal/domain"
)

// Client answers prompts with the OpenAI chat completions API.
type Client struct {
	client *goopenai.Client
	model  string
}

// Config configures the chat completions client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = goopenai.GPT4
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	oc := goopenai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: t}
	return &Client{client: goopenai.NewClientWithConfig(oc), model: cfg.Model}, nil
}

func (c *Client) Name() string { return "openai" }

// Generate sends the prompt as a system + user conversation. A response
// without choices is reported as empty content, not as an error.
func (c *Client) Generate(ctx context.Context, prompt domain.Prompt) (string, error) {
	msgs := prompt.Messages()
	req := goopenai.ChatCompletionRequest{
		Model:    c.model,
		Messages: make([]goopenai.ChatCompletionMessage, 0, len(msgs)),
	}
	for _, m := range msgs {
		req.Messages = append(req.Messages, goopenai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
