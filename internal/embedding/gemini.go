package embedding

import (
	"context"
	"fmt"

	"github.com/Veraticus/grocer/internal/common"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiEmbedder uses a Gemini embedding model.
type GeminiEmbedder struct {
	client     *genai.Client
	model      *genai.EmbeddingModel
	dimensions int
}

// NewGeminiEmbedder requires cfg.APIKey.
func NewGeminiEmbedder(ctx context.Context, cfg Config) (*GeminiEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key is required", common.ErrMissingConfig)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	name := cfg.Model
	if name == "" {
		name = defaultGeminiModel
	}
	dims := cfg.Dimensions
	if dims <= 0 {
		dims = defaultGeminiDims
	}

	return &GeminiEmbedder{client: client, model: client.EmbeddingModel(name), dimensions: dims}, nil
}

// Dimension returns the model's vector length.
func (e *GeminiEmbedder) Dimension() int {
	return e.dimensions
}

// Embed requests one embedding.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := e.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, &common.RetryableError{Err: fmt.Errorf("gemini embedding failed: %w", err), Retryable: ctx.Err() == nil}
	}
	if res == nil || res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("no embedding in gemini response")
	}
	return res.Embedding.Values, nil
}

// Close closes the underlying client.
func (e *GeminiEmbedder) Close() error {
	return e.client.Close()
}
