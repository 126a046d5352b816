// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/grocer/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Shopping list operations
	SaveShoppingList(ctx context.Context, list *model.ShoppingList) error
	LoadShoppingList(ctx context.Context) (*model.ShoppingList, error)

	// Recipe operations
	SaveRecipe(ctx context.Context, recipe *model.Recipe, ingredients []model.Ingredient) error
	GetRecipe(ctx context.Context, name string) (*model.Recipe, error)
	ListRecipes(ctx context.Context) ([]model.Recipe, error)
	DeleteRecipe(ctx context.Context, name string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// ReportWriter exports the combined shopping list somewhere outside the app.
type ReportWriter interface {
	Write(ctx context.Context, rows []model.Row, summary ReportSummary) error
}

// ReportSummary contains aggregate information for the report.
type ReportSummary struct {
	GeneratedAt     time.Time
	Recipes         []string
	IngredientCount int
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
