package inference

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"mercator-hq/ganymede/pkg/config"
)

// Client produces completions for a message list.
type Client interface {
	Complete(ctx context.Context, msgs []Message) (*Completion, error)
}

// CompletionError reports a failed completion call.
type CompletionError struct {
	Model      string
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *CompletionError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("completion with model %q failed (status %d): %v", e.Model, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("completion with model %q failed: %v", e.Model, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *CompletionError) Unwrap() error {
	return e.Cause
}

// OpenAIClient calls an OpenAI-compatible chat completions API.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAIClient creates a client from the inference configuration.
func NewOpenAIClient(cfg config.InferenceConfig) *OpenAIClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// Complete implements Client.
func (c *OpenAIClient) Complete(ctx context.Context, msgs []Message) (*Completion, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages:    make([]openai.ChatCompletionMessage, len(msgs)),
	}
	for i, m := range msgs {
		req.Messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		cErr := &CompletionError{Model: c.model, Cause: err}
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			cErr.StatusCode = apiErr.HTTPStatusCode
		}
		return nil, cErr
	}
	if len(resp.Choices) == 0 {
		return nil, &CompletionError{Model: c.model, Cause: errors.New("response contained no choices")}
	}

	choice := resp.Choices[0]
	return &Completion{
		Content:      choice.Message.Content,
		Model:        resp.Model,
		FinishReason: string(choice.FinishReason),
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}
