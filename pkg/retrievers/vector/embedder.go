package vector

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/retrievers"
)

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbedderFactory creates the embedder for one retriever.
type EmbedderFactory func(settings retrievers.Settings) (Embedder, error)

// OpenAIEmbedder calls an OpenAI-compatible embeddings endpoint.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder creates an embedder from the embeddings configuration.
func NewOpenAIEmbedder(cfg config.EmbeddingsConfig) *OpenAIEmbedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

// Embed implements Embedder.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no vectors")
	}
	return resp.Data[0].Embedding, nil
}

// OpenAIEmbedderFactory builds an OpenAIEmbedder from the application
// configuration. An "embedding_model" param overrides the configured model.
func OpenAIEmbedderFactory(settings retrievers.Settings) (Embedder, error) {
	cfg := config.EmbeddingsConfig{
		BaseURL: config.DefaultEmbeddingsBaseURL,
		Model:   config.DefaultEmbeddingsModel,
	}
	if settings.Config != nil {
		cfg = settings.Config.Embeddings
	}

	model, err := retrievers.StringParam(settings.Params, "embedding_model", cfg.Model)
	if err != nil {
		return nil, err
	}
	cfg.Model = model
	return NewOpenAIEmbedder(cfg), nil
}
