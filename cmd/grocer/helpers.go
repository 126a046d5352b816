package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/grocer/internal/config"
	"github.com/Veraticus/grocer/internal/embedding"
	"github.com/Veraticus/grocer/internal/llm"
	"github.com/Veraticus/grocer/internal/model"
	"github.com/Veraticus/grocer/internal/parser"
	"github.com/Veraticus/grocer/internal/storage"
	"github.com/spf13/viper"
)

// app bundles what most commands need: configuration, the database and the
// list loaded from it.
type app struct {
	cfg   *config.Config
	store *storage.SQLiteStorage
	list  *model.ShoppingList
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openApp loads configuration, migrates the database and loads the list.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	list, err := store.LoadShoppingList(ctx)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load shopping list: %w", err)
	}

	return &app{cfg: cfg, store: store, list: list}, nil
}

// initStorage opens the database with the configured unit priority.
func initStorage(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	taxonomy, err := cfg.Taxonomy()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	store.SetTaxonomy(taxonomy)

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Debug("Opened database", "path", cfg.Database.Path)
	return store, nil
}

func (a *app) save(ctx context.Context) error {
	if err := a.store.SaveShoppingList(ctx, a.list); err != nil {
		return fmt.Errorf("failed to save shopping list: %w", err)
	}
	return nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

func newIngredientParser(ctx context.Context, cfg *config.Config) (*llm.IngredientParser, error) {
	c := cfg.LLM
	return llm.NewIngredientParser(ctx, llm.Config{
		Provider:    c.Provider,
		APIKey:      c.APIKey,
		Model:       c.Model,
		BaseURL:     c.BaseURL,
		MaxRetries:  c.MaxRetries,
		RetryDelay:  c.RetryDelay,
		CacheTTL:    c.CacheTTL,
		RateLimit:   c.RateLimit,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}, slog.Default())
}

func newEmbeddingService(ctx context.Context, cfg *config.Config) (*embedding.Service, error) {
	c := cfg.Embeddings
	embedder, err := embedding.NewEmbedder(ctx, embedding.Config{
		Provider:   c.Provider,
		APIKey:     c.APIKey,
		Model:      c.Model,
		BaseURL:    c.BaseURL,
		Dimensions: c.Dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	store, err := embedding.OpenStore(ctx, c.Driver, cfg.EmbeddingsDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open embedding store: %w", err)
	}

	return embedding.NewService(embedder, store, slog.Default()), nil
}

// quantity resolves unit within kind when kind is set. Otherwise canonical
// names follow the taxonomy's priority order and aliases such as "tbsp" go
// through the line parser's table.
func quantity(t *model.Taxonomy, kind, unit string, amount float64) (model.Quantity, error) {
	if kind != "" {
		k, err := model.ParseUnitKind(kind)
		if err != nil {
			return model.Quantity{}, err
		}
		u, err := t.ParseUnitOfKind(k, unit)
		if err != nil {
			return model.Quantity{}, err
		}
		return model.Quantity{Unit: u, Amount: amount}, nil
	}

	q, err := t.NewQuantity(unit, amount)
	if err == nil || !errors.Is(err, model.ErrUnknownUnit) {
		return q, err
	}
	alias, ok := parser.NormalizeUnit(unit)
	if !ok {
		return model.Quantity{}, err
	}
	u, aliasErr := alias.Resolve(t)
	if aliasErr != nil {
		return model.Quantity{}, aliasErr
	}
	return model.Quantity{Unit: u, Amount: amount}, nil
}

// ingredientNames lists every distinct ingredient name in recipe order.
// Unlike the combined view it never fails on unit conflicts.
func ingredientNames(list *model.ShoppingList) []string {
	seen := make(map[string]bool)
	var names []string
	for _, recipe := range list.Recipes() {
		for _, ing := range list.RecipeIngredients(recipe) {
			if !seen[ing.Name] {
				seen[ing.Name] = true
				names = append(names, ing.Name)
			}
		}
	}
	return names
}
