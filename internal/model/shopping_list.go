package model

import (
	"fmt"
	"strings"
)

// DefaultRecipe is the bucket used when no recipe is named.
const DefaultRecipe = "general"

// Row is the flat tabular form of one ingredient.
type Row struct {
	Name   string  `json:"name"`
	Unit   string  `json:"unit"`
	Amount float64 `json:"amount"`
}

// recipeBucket keeps one recipe's ingredients in insertion order.
type recipeBucket struct {
	items map[string]Ingredient
	order []string
}

func newRecipeBucket() *recipeBucket {
	return &recipeBucket{items: make(map[string]Ingredient)}
}

func (b *recipeBucket) clone() *recipeBucket {
	out := &recipeBucket{
		items: make(map[string]Ingredient, len(b.items)),
		order: append([]string(nil), b.order...),
	}
	for name, ing := range b.items {
		out.items[name] = ing.Copy()
	}
	return out
}

func (b *recipeBucket) ingredients() []Ingredient {
	out := make([]Ingredient, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.items[name].Copy())
	}
	return out
}

// ShoppingList groups ingredients by recipe and sums duplicates. Totals across
// recipes are computed on every read, so removing a recipe never leaves stale
// sums behind. A ShoppingList is not safe for concurrent use.
type ShoppingList struct {
	taxonomy *Taxonomy
	recipes  map[string]*recipeBucket
	order    []string
}

// NewShoppingList returns an empty list using the default taxonomy.
func NewShoppingList() *ShoppingList {
	return NewShoppingListWithTaxonomy(defaultTaxonomy)
}

// NewShoppingListWithTaxonomy returns an empty list that resolves and converts
// units with t.
func NewShoppingListWithTaxonomy(t *Taxonomy) *ShoppingList {
	if t == nil {
		t = defaultTaxonomy
	}
	return &ShoppingList{
		taxonomy: t,
		recipes:  make(map[string]*recipeBucket),
	}
}

// NewShoppingListFrom returns a list pre-seeded with the given recipes, added
// in the order of recipeOrder. Recipes missing from recipeOrder are ignored.
func NewShoppingListFrom(recipeOrder []string, recipes map[string][]Ingredient) (*ShoppingList, error) {
	l := NewShoppingList()
	for _, recipe := range recipeOrder {
		for _, ing := range recipes[recipe] {
			if err := l.Add(recipe, ing); err != nil {
				return nil, err
			}
		}
	}
	return l, nil
}

// Taxonomy returns the taxonomy the list converts with.
func (l *ShoppingList) Taxonomy() *Taxonomy {
	return l.taxonomy
}

// AddIngredient resolves unitName and adds the ingredient to recipe, summing
// with any same-named ingredient already in that recipe. An empty recipe
// means DefaultRecipe. On error the list is left unchanged.
func (l *ShoppingList) AddIngredient(name, unitName string, amount float64, recipe string) error {
	q, err := l.taxonomy.NewQuantity(unitName, amount)
	if err != nil {
		return fmt.Errorf("add %q: %w", name, err)
	}
	return l.Add(recipe, Ingredient{Name: name, Quantity: q})
}

// Add adds a pre-built ingredient to recipe.
func (l *ShoppingList) Add(recipe string, ing Ingredient) error {
	if recipe == "" {
		recipe = DefaultRecipe
	}
	if !ing.Quantity.Unit.Valid() {
		return fmt.Errorf("add %q: %w: %v", ing.Name, ErrUnknownUnit, ing.Quantity.Unit)
	}

	bucket, ok := l.recipes[recipe]
	if existing, found := bucket.lookup(ing.Name); ok && found {
		sum, err := l.taxonomy.AddIngredients(existing, ing)
		if err != nil {
			return fmt.Errorf("recipe %q: %w", recipe, err)
		}
		bucket.items[ing.Name] = sum
		return nil
	}

	if !ok {
		bucket = newRecipeBucket()
		l.recipes[recipe] = bucket
		l.order = append(l.order, recipe)
	}
	bucket.items[ing.Name] = ing.Copy()
	bucket.order = append(bucket.order, ing.Name)
	return nil
}

func (b *recipeBucket) lookup(name string) (Ingredient, bool) {
	if b == nil {
		return Ingredient{}, false
	}
	ing, ok := b.items[name]
	return ing, ok
}

// Ingredients returns the combined view: every ingredient summed across
// recipes, in order of first appearance. The first occurrence's unit wins.
// A fresh slice is built on every call.
func (l *ShoppingList) Ingredients() ([]Ingredient, error) {
	var names []string
	combined := make(map[string]Ingredient)
	for _, recipe := range l.order {
		bucket := l.recipes[recipe]
		for _, name := range bucket.order {
			ing := bucket.items[name]
			prev, seen := combined[name]
			if !seen {
				combined[name] = ing.Copy()
				names = append(names, name)
				continue
			}
			sum, err := l.taxonomy.AddIngredients(prev, ing)
			if err != nil {
				return nil, fmt.Errorf("combine recipe %q: %w", recipe, err)
			}
			combined[name] = sum
		}
	}

	out := make([]Ingredient, 0, len(names))
	for _, name := range names {
		out = append(out, combined[name])
	}
	return out, nil
}

// FindIngredient looks name up in the combined view. found is false when no
// recipe has it; err is only set when the recipes disagree on unit kind.
func (l *ShoppingList) FindIngredient(name string) (ing Ingredient, found bool, err error) {
	for _, recipe := range l.order {
		next, ok := l.recipes[recipe].items[name]
		if !ok {
			continue
		}
		if !found {
			ing, found = next.Copy(), true
			continue
		}
		if ing, err = l.taxonomy.AddIngredients(ing, next); err != nil {
			return Ingredient{}, true, fmt.Errorf("combine recipe %q: %w", recipe, err)
		}
	}
	return ing, found, nil
}

// ForRecipe returns a new list holding a copy of recipe's ingredients.
func (l *ShoppingList) ForRecipe(recipe string) (*ShoppingList, error) {
	bucket, ok := l.recipes[recipe]
	if !ok || len(bucket.order) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, recipe)
	}
	out := NewShoppingListWithTaxonomy(l.taxonomy)
	out.recipes[recipe] = bucket.clone()
	out.order = []string{recipe}
	return out, nil
}

// RemoveRecipe drops recipe and its ingredients. Removing an unknown recipe
// is a no-op.
func (l *ShoppingList) RemoveRecipe(recipe string) {
	if _, ok := l.recipes[recipe]; !ok {
		return
	}
	delete(l.recipes, recipe)
	for i, name := range l.order {
		if name == recipe {
			l.order = append(l.order[:i:i], l.order[i+1:]...)
			break
		}
	}
}

// Recipes returns recipe names in insertion order.
func (l *ShoppingList) Recipes() []string {
	return append([]string(nil), l.order...)
}

// HasRecipe reports whether recipe has a bucket.
func (l *ShoppingList) HasRecipe(recipe string) bool {
	_, ok := l.recipes[recipe]
	return ok
}

// RecipeIngredients returns copies of recipe's ingredients in insertion
// order, or nil when the recipe is unknown.
func (l *ShoppingList) RecipeIngredients(recipe string) []Ingredient {
	bucket, ok := l.recipes[recipe]
	if !ok {
		return nil
	}
	return bucket.ingredients()
}

// Len returns the number of distinct ingredient names across all recipes.
func (l *ShoppingList) Len() int {
	seen := make(map[string]struct{})
	for _, bucket := range l.recipes {
		for name := range bucket.items {
			seen[name] = struct{}{}
		}
	}
	return len(seen)
}

// Rows returns the combined view in flat tabular form.
func (l *ShoppingList) Rows() ([]Row, error) {
	ings, err := l.Ingredients()
	if err != nil {
		return nil, err
	}
	rows := make([]Row, len(ings))
	for i, ing := range ings {
		rows[i] = ing.Flat()
	}
	return rows, nil
}

// Render returns one "amount unit name" line per combined ingredient.
func (l *ShoppingList) Render() (string, error) {
	rows, err := l.Rows()
	if err != nil {
		return "", err
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = fmt.Sprintf("%s %s %s", formatAmount(r.Amount), r.Unit, r.Name)
	}
	return strings.Join(lines, "\n"), nil
}

// String renders the list, or the combine error when recipes disagree on
// unit kind.
func (l *ShoppingList) String() string {
	s, err := l.Render()
	if err != nil {
		return "error: " + err.Error()
	}
	return s
}
