package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms/ollama"
)

// EmbedderConfig configures the Ollama-backed embedding provider.
type EmbedderConfig struct {
	Model   string
	BaseURL string // Ollama server URL
}

// Embedder provides text embeddings through an Ollama server. It implements
// types.EmbeddingProvider.
type Embedder struct {
	config EmbedderConfig
	llm    *ollama.LLM
}

func NewEmbedder(config EmbedderConfig) (*Embedder, error) {
	if config.Model == "" {
		config.Model = "nomic-embed-text:latest"
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}

	emb, err := ollama.New(
		ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	return &Embedder{
		config: config,
		llm:    emb,
	}, nil
}

// Encode embeds a batch of texts. All vectors in one batch share dimension.
func (e *Embedder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return e.llm.CreateEmbedding(ctx, texts)
}
