package llm

import (
	"context"
	"time"
)

// Client defines the interface for LLM providers.
type Client interface {
	// Complete sends one system instruction and one user message and returns
	// the model's text reply.
	Complete(ctx context.Context, system, prompt string) (string, error)
	Close() error
}

// Config holds provider and call settings.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	MaxRetries  int
	RetryDelay  time.Duration
	CacheTTL    time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}

const (
	defaultOpenAIModel    = "gpt-4.1-nano"
	defaultAnthropicModel = "claude-3-5-haiku-latest"
	defaultGeminiModel    = "gemini-2.0-flash-lite"
	defaultMaxTokens      = 1024
)

func (c Config) temperatureOr(fallback float64) float64 {
	if c.Temperature == 0 {
		return fallback
	}
	return c.Temperature
}

func (c Config) maxTokens() int {
	if c.MaxTokens == 0 {
		return defaultMaxTokens
	}
	return c.MaxTokens
}
