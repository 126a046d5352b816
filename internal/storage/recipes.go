package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/grocer/internal/common"
	"github.com/Veraticus/grocer/internal/model"
	"github.com/google/uuid"
)

// SaveShoppingList replaces the stored list with list. Metadata of recipes
// that already exist is kept; recipes no longer in list are deleted.
func (s *SQLiteStorage) SaveShoppingList(ctx context.Context, list *model.ShoppingList) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if list == nil {
		return fmt.Errorf("%w: list", ErrNilParameter)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := recipeIDsTx(ctx, tx)
	if err != nil {
		return err
	}

	keep := make(map[string]bool)
	for position, name := range list.Recipes() {
		ingredients := list.RecipeIngredients(name)
		if err := validateIngredients(ingredients); err != nil {
			return fmt.Errorf("recipe %q: %w", name, err)
		}

		id, ok := existing[name]
		if ok {
			_, err = tx.ExecContext(ctx, `UPDATE recipes SET position = ? WHERE id = ?`, position, id)
		} else {
			id = uuid.NewString()
			_, err = tx.ExecContext(ctx, `
				INSERT INTO recipes (id, name, origin, source, position)
				VALUES (?, ?, ?, '', ?)
			`, id, name, model.OriginManual, position)
		}
		if err != nil {
			return fmt.Errorf("failed to save recipe %q: %w", name, err)
		}

		if err := replaceIngredientsTx(ctx, tx, id, ingredients); err != nil {
			return fmt.Errorf("recipe %q: %w", name, err)
		}
		keep[name] = true
	}

	for name, id := range existing {
		if keep[name] {
			continue
		}
		if err := deleteRecipeTx(ctx, tx, id); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit shopping list: %w", err)
	}

	s.clearRecipeCache()
	return nil
}

// LoadShoppingList rebuilds the stored list in recipe and ingredient order.
func (s *SQLiteStorage) LoadShoppingList(ctx context.Context) (*model.ShoppingList, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.name, ri.name, ri.unit, ri.kind, ri.amount
		FROM recipes r
		JOIN recipe_ingredients ri ON ri.recipe_id = r.id
		ORDER BY r.position, ri.position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shopping list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	list := model.NewShoppingListWithTaxonomy(s.taxonomy)
	for rows.Next() {
		var recipe, name, unit, kind string
		var amount float64
		if err := rows.Scan(&recipe, &name, &unit, &kind, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}

		u, err := s.taxonomy.ParseUnitOfKind(model.UnitKind(kind), unit)
		if err != nil {
			return nil, fmt.Errorf("%w: recipe %q ingredient %q: %w", common.ErrDatabaseCorrupted, recipe, name, err)
		}
		ing := model.Ingredient{Name: name, Quantity: model.Quantity{Unit: u, Amount: amount}}
		if err := list.Add(recipe, ing); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrDatabaseCorrupted, err)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shopping list: %w", err)
	}
	return list, nil
}

// SaveRecipe stores recipe metadata and replaces its ingredients. New recipes
// are appended after the existing ones. recipe.ID and recipe.Position are
// filled in.
func (s *SQLiteStorage) SaveRecipe(ctx context.Context, recipe *model.Recipe, ingredients []model.Ingredient) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecipe(recipe); err != nil {
		return err
	}
	if err := validateIngredients(ingredients); err != nil {
		return err
	}
	if recipe.Origin == "" {
		recipe.Origin = model.OriginManual
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := s.getRecipeTx(ctx, tx, recipe.Name)
	switch {
	case err == nil:
		recipe.ID = existing.ID
		recipe.Position = existing.Position
		recipe.CreatedAt = existing.CreatedAt
		_, err = tx.ExecContext(ctx, `UPDATE recipes SET origin = ?, source = ? WHERE id = ?`,
			recipe.Origin, recipe.Source, recipe.ID)
	case errors.Is(err, common.ErrNotFound):
		if recipe.ID == "" {
			recipe.ID = uuid.NewString()
		}
		if err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM recipes`).Scan(&recipe.Position); err != nil {
			return fmt.Errorf("failed to compute recipe position: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO recipes (id, name, origin, source, position)
			VALUES (?, ?, ?, ?, ?)
		`, recipe.ID, recipe.Name, recipe.Origin, recipe.Source, recipe.Position)
	default:
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to save recipe %q: %w", recipe.Name, err)
	}

	if err := replaceIngredientsTx(ctx, tx, recipe.ID, ingredients); err != nil {
		return fmt.Errorf("recipe %q: %w", recipe.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recipe: %w", err)
	}

	s.clearRecipeCache()
	return nil
}

// GetRecipe retrieves recipe metadata by name.
func (s *SQLiteStorage) GetRecipe(ctx context.Context, name string) (*model.Recipe, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	if r := s.getCachedRecipe(name); r != nil {
		return r, nil
	}

	r, err := s.getRecipeTx(ctx, s.db, name)
	if err != nil {
		return nil, err
	}
	s.cacheRecipe(r)
	return r, nil
}

func (s *SQLiteStorage) getRecipeTx(ctx context.Context, q queryable, name string) (*model.Recipe, error) {
	var r model.Recipe
	err := q.QueryRowContext(ctx, `
		SELECT id, name, origin, source, position, created_at
		FROM recipes
		WHERE name = ?
	`, name).Scan(&r.ID, &r.Name, &r.Origin, &r.Source, &r.Position, &r.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: recipe %q", common.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &r, nil
}

// ListRecipes returns all recipe metadata in list order.
func (s *SQLiteStorage) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, origin, source, position, created_at
		FROM recipes
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recipes []model.Recipe
	for rows.Next() {
		var r model.Recipe
		if err := rows.Scan(&r.ID, &r.Name, &r.Origin, &r.Source, &r.Position, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, r)
	}

	return recipes, rows.Err()
}

// DeleteRecipe removes a recipe and its ingredients.
func (s *SQLiteStorage) DeleteRecipe(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	r, err := s.getRecipeTx(ctx, tx, name)
	if err != nil {
		return err
	}
	if err := deleteRecipeTx(ctx, tx, r.ID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	s.clearRecipeCache()
	return nil
}

func recipeIDsTx(ctx context.Context, q queryable) (map[string]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT name, id FROM recipes`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ids := make(map[string]string)
	for rows.Next() {
		var name, id string
		if err := rows.Scan(&name, &id); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		ids[name] = id
	}
	return ids, rows.Err()
}

func replaceIngredientsTx(ctx context.Context, q queryable, recipeID string, ingredients []model.Ingredient) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, recipeID); err != nil {
		return fmt.Errorf("failed to clear ingredients: %w", err)
	}

	for position, ing := range ingredients {
		_, err := q.ExecContext(ctx, `
			INSERT INTO recipe_ingredients (recipe_id, name, unit, kind, amount, position)
			VALUES (?, ?, ?, ?, ?, ?)
		`, recipeID, ing.Name, ing.Quantity.Unit.Name(), string(ing.Quantity.Unit.Kind()), ing.Quantity.Amount, position)
		if err != nil {
			return fmt.Errorf("failed to save ingredient %q: %w", ing.Name, err)
		}
	}
	return nil
}

func deleteRecipeTx(ctx context.Context, q queryable, id string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete ingredients: %w", err)
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}
