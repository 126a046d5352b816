// Package testutil provides test helpers shared across packages.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/grocer/internal/model"
	"github.com/Veraticus/grocer/internal/storage"
)

// TestDB is a migrated database seeded with a shopping list.
type TestDB struct {
	Storage *storage.SQLiteStorage
	List    *model.ShoppingList
	t       testing.TB
}

// SetupTestDB creates a database in a temporary directory, migrates it and
// saves list (when non-nil). The database is closed when the test ends.
//
// Example:
//
//	db := testutil.SetupTestDB(t, recipes.NewBuilder(t).WithFixture(recipes.Porridge).Build())
func SetupTestDB(t testing.TB, list *model.ShoppingList) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "grocer.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	if list == nil {
		list = model.NewShoppingList()
	} else {
		store.SetTaxonomy(list.Taxonomy())
	}
	if err := store.SaveShoppingList(ctx, list); err != nil {
		t.Fatalf("failed to seed shopping list: %v", err)
	}

	return &TestDB{Storage: store, List: list, t: t}
}

// Reload returns the list as currently stored, failing the test on error.
func (db *TestDB) Reload() *model.ShoppingList {
	db.t.Helper()
	list, err := db.Storage.LoadShoppingList(context.Background())
	if err != nil {
		db.t.Fatalf("failed to load shopping list: %v", err)
	}
	return list
}
