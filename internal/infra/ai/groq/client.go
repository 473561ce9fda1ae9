package groq

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	domain "github.com/bryanwahyu/contract-compliance/internal/domain/analysis"
)

const (
	// DefaultBaseURL is Groq's openai-compatible endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "llama-3.1-8b-instant"

	systemPrompt = "You are a contract analysis assistant. " +
		"Always return responses in valid JSON format. " +
		"Do not include any additional text or explanations."
)

// Client implements the Generator port against Groq's chat completions API.
type Client struct {
	*openai.Client
	model       string
	maxTokens   int
	temperature float32
}

func NewClient(apiKey, baseURL, model string, maxTokens int, temperature float32) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &Client{
		Client:      openai.NewClientWithConfig(cfg),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Generate performs a single completion call. Retry policy lives in the
// decorating layer, not here.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	model := c.model
	if model == "" {
		model = defaultModel
	}
	maxTokens := c.maxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	resp, err := c.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrModelCall, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrModelCall)
	}
	return resp.Choices[0].Message.Content, nil
}
