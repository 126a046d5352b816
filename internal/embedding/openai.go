package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/grocer/internal/common"
)

const (
	openAIBaseURL        = "https://api.openai.com/v1"
	defaultOpenAIModel   = "text-embedding-3-small"
	defaultOpenAIDims    = 1536
	defaultGeminiModel   = "text-embedding-004"
	defaultGeminiDims    = 768
	embeddingHTTPTimeout = 30 * time.Second
)

// OpenAIEmbedder calls the OpenAI embeddings endpoint.
type OpenAIEmbedder struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
	dimensions int
}

// NewOpenAIEmbedder requires cfg.APIKey.
func NewOpenAIEmbedder(cfg Config) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required", common.ErrMissingConfig)
	}

	e := &OpenAIEmbedder{
		httpClient: &http.Client{Timeout: embeddingHTTPTimeout},
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
	if e.baseURL == "" {
		e.baseURL = openAIBaseURL
	}
	if e.model == "" {
		e.model = defaultOpenAIModel
	}
	if e.dimensions <= 0 {
		e.dimensions = defaultOpenAIDims
	}
	return e, nil
}

// Dimension returns the requested vector length.
func (e *OpenAIEmbedder) Dimension() int {
	return e.dimensions
}

// Embed requests one embedding.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	payload, err := json.Marshal(map[string]any{
		"model":      e.model,
		"input":      text,
		"dimensions": e.dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, &common.RetryableError{Err: fmt.Errorf("embedding request failed: %w", err), Retryable: ctx.Err() == nil}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &common.HTTPStatusError{Service: "OpenAI embeddings", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("no embedding in response")
	}
	return parsed.Data[0].Embedding, nil
}

// Close releases idle connections.
func (e *OpenAIEmbedder) Close() error {
	e.httpClient.CloseIdleConnections()
	return nil
}
