package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/grocer/internal/common"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// geminiClient implements the Client interface with the Gemini SDK.
type geminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func newGeminiClient(ctx context.Context, cfg Config) (Client, error) {
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

	model := client.GenerativeModel(name)
	model.SetTemperature(float32(cfg.temperatureOr(0)))
	model.SetMaxOutputTokens(int32(cfg.maxTokens()))
	model.ResponseMIMEType = "application/json"

	return &geminiClient{client: client, model: model}, nil
}

// Complete sends the instruction and the text as two parts of one request.
func (c *geminiClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(system), genai.Text(prompt))
	if err != nil {
		return "", &common.RetryableError{Err: fmt.Errorf("gemini request failed: %w", err), Retryable: ctx.Err() == nil}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates in gemini response")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("no text in gemini response")
	}

	return text.String(), nil
}

func (c *geminiClient) Close() error {
	return c.client.Close()
}
