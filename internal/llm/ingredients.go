package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/grocer/internal/common"
	"github.com/Veraticus/grocer/internal/model"
	"github.com/Veraticus/grocer/internal/parser"
	"github.com/Veraticus/grocer/internal/service"
)

const systemPrompt = `You extract grocery ingredients from recipe text.
Reply with JSON only: an array of objects with the keys "amount", "unit" and "name".
- "amount" is a number. Use 1 when the text gives none.
- "unit" is one of: item, cup, tablespoon, teaspoon, ounce, fluid ounce, pound, gram, milligram, kilogram.
  Use "item" for things counted whole, such as eggs, cloves or cans.
- "name" is the ingredient alone, lowercase, without preparation notes.
Skip lines that are not ingredients.`

// IngredientParser turns free text into ingredients with a language model.
type IngredientParser struct {
	client      Client
	cache       *responseCache
	logger      *slog.Logger
	rateLimiter *rateLimiter
	retryOpts   service.RetryOptions
}

// NewIngredientParser builds a parser backed by the provider named in cfg.
func NewIngredientParser(ctx context.Context, cfg Config, logger *slog.Logger) (*IngredientParser, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return NewIngredientParserWithClient(client, cfg, logger), nil
}

// NewIngredientParserWithClient wraps an existing client.
func NewIngredientParserWithClient(client Client, cfg Config, logger *slog.Logger) *IngredientParser {
	if logger == nil {
		logger = slog.Default()
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &IngredientParser{
		client:      client,
		cache:       newResponseCache(cfg.CacheTTL),
		logger:      logger,
		retryOpts:   retryOpts,
		rateLimiter: newRateLimiter(cfg.RateLimit),
	}
}

// Parse extracts the ingredients in text and tags them with recipe. Entries
// the model returns with units outside the taxonomy are logged and dropped.
func (p *IngredientParser) Parse(ctx context.Context, text, recipe string) ([]parser.ParsedIngredient, error) {
	if strings.TrimSpace(text) == "" {
		return nil, common.ErrEmptyInput
	}

	key := cacheKey(text)
	parsed, found := p.cache.get(key)
	if found {
		p.logger.Debug("cache hit for ingredient text", "recipe", recipe, "entries", len(parsed))
	} else {
		var err error
		parsed, err = p.complete(ctx, text)
		if err != nil {
			return nil, err
		}
		p.cache.set(key, parsed)
	}

	for i := range parsed {
		parsed[i].Recipe = recipe
		parsed[i].Origin = model.OriginLLM
	}

	p.logger.Info("ingredients extracted", "recipe", recipe, "count", len(parsed))
	return parsed, nil
}

func (p *IngredientParser) complete(ctx context.Context, text string) ([]parser.ParsedIngredient, error) {
	var parsed []parser.ParsedIngredient

	err := common.WithRetry(ctx, func() error {
		if err := p.rateLimiter.wait(ctx); err != nil {
			return common.Permanent(err)
		}

		content, err := p.client.Complete(ctx, systemPrompt, text)
		if err != nil {
			return err
		}

		var skipped []error
		parsed, skipped, err = parseIngredientResponse(content)
		if err != nil {
			// A malformed reply is worth another sample; an empty one is not.
			if errors.Is(err, common.ErrNoIngredient) {
				return common.Permanent(err)
			}
			return &common.RetryableError{Err: err, Retryable: true}
		}
		for _, s := range skipped {
			p.logger.Warn("skipping ingredient from model reply", "error", s)
		}
		return nil
	}, p.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to extract ingredients: %w", err)
	}

	if len(parsed) == 0 {
		return nil, common.ErrNoIngredient
	}
	return parsed, nil
}

// Close releases the client and stops background work.
func (p *IngredientParser) Close() error {
	p.cache.Close()
	return p.client.Close()
}
