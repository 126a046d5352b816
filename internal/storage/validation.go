// Package storage persists shopping lists and recipe metadata in SQLite.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/grocer/internal/model"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrNilParameter      = errors.New("parameter cannot be nil")
	ErrInvalidRecipe     = errors.New("invalid recipe")
	ErrInvalidIngredient = errors.New("invalid ingredient")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRecipe validates recipe metadata.
func validateRecipe(recipe *model.Recipe) error {
	if recipe == nil {
		return fmt.Errorf("%w: recipe", ErrNilParameter)
	}
	if strings.TrimSpace(recipe.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidRecipe)
	}
	if recipe.Origin != "" && !recipe.Origin.Valid() {
		return fmt.Errorf("%w: unknown origin %q", ErrInvalidRecipe, recipe.Origin)
	}
	return nil
}

// validateIngredients validates ingredients before they are written.
func validateIngredients(ingredients []model.Ingredient) error {
	seen := make(map[string]bool, len(ingredients))
	for i, ing := range ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return fmt.Errorf("%w at index %d: missing name", ErrInvalidIngredient, i)
		}
		if !ing.Quantity.Unit.Valid() {
			return fmt.Errorf("%w %q: %w", ErrInvalidIngredient, ing.Name, model.ErrUnknownUnit)
		}
		if seen[ing.Name] {
			return fmt.Errorf("%w: duplicate %q", ErrInvalidIngredient, ing.Name)
		}
		seen[ing.Name] = true
	}
	return nil
}
