// Package recipes provides fluent builders for shopping lists used in tests.
//
// Example usage:
//
//	list := recipes.NewBuilder(t).
//		WithFixture(recipes.Porridge).
//		WithIngredient("cookies", "oats", "tablespoon", 8).
//		Build()
package recipes

import (
	"testing"

	"github.com/Veraticus/grocer/internal/model"
)

// Builder accumulates ingredients and fails the test on the first one the
// list rejects.
type Builder struct {
	t    testing.TB
	list *model.ShoppingList
}

// NewBuilder starts an empty list with the default taxonomy.
func NewBuilder(t testing.TB) *Builder {
	t.Helper()
	return &Builder{t: t, list: model.NewShoppingList()}
}

// WithTaxonomy restarts the builder with t's unit priority. Call it first.
func (b *Builder) WithTaxonomy(taxonomy *model.Taxonomy) *Builder {
	b.list = model.NewShoppingListWithTaxonomy(taxonomy)
	return b
}

// WithIngredient adds one ingredient, resolving unit by priority.
func (b *Builder) WithIngredient(recipe, name, unit string, amount float64) *Builder {
	b.t.Helper()
	return b.add(recipe, Line{Name: name, Unit: unit, Amount: amount})
}

// WithFixture adds every line of f under f.Recipe.
func (b *Builder) WithFixture(f Fixture) *Builder {
	b.t.Helper()
	for _, line := range f.Lines {
		b.add(f.Recipe, line)
	}
	return b
}

// WithFixtures adds several fixtures in order.
func (b *Builder) WithFixtures(fs ...Fixture) *Builder {
	b.t.Helper()
	for _, f := range fs {
		b.WithFixture(f)
	}
	return b
}

func (b *Builder) add(recipe string, line Line) *Builder {
	b.t.Helper()

	t := b.list.Taxonomy()
	var (
		u   model.Unit
		err error
	)
	if line.Kind != "" {
		u, err = t.ParseUnitOfKind(line.Kind, line.Unit)
	} else {
		u, err = t.ParseUnit(line.Unit)
	}
	if err == nil {
		err = b.list.Add(recipe, model.Ingredient{
			Name:     line.Name,
			Quantity: model.Quantity{Unit: u, Amount: line.Amount},
		})
	}
	if err != nil {
		b.t.Fatalf("failed to add %s to %s: %v", line.Name, recipe, err)
	}
	return b
}

// Build returns the list. The builder must not be reused afterwards.
func (b *Builder) Build() *model.ShoppingList {
	return b.list
}
