package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreOrdered(t *testing.T) {
	require.NotEmpty(t, migrations)
	for i, m := range migrations {
		assert.Equal(t, i+1, m.Version, "migration %q", m.Description)
		assert.NotNil(t, m.Up)
	}
	assert.Equal(t, ExpectedSchemaVersion, migrations[len(migrations)-1].Version)
}

func TestMigrationSchema(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	tests := []struct {
		name    string
		kind    string
		element string
	}{
		{name: "recipes table", kind: "table", element: "recipes"},
		{name: "ingredients table", kind: "table", element: "recipe_ingredients"},
		{name: "recipe order index", kind: "index", element: "idx_recipes_position"},
		{name: "ingredient name index", kind: "index", element: "idx_recipe_ingredients_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var count int
			err := store.db.QueryRow(
				`SELECT COUNT(*) FROM sqlite_master WHERE type = ? AND name = ?`,
				tt.kind, tt.element,
			).Scan(&count)
			require.NoError(t, err)
			assert.Equal(t, 1, count)
		})
	}
}

func TestMigrateFromPartialSchema(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	// Apply only the first migration by hand.
	tx, err := store.db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, migrations[0].Up(tx))
	_, err = tx.Exec("PRAGMA user_version = 1")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	require.NoError(t, store.Migrate(ctx))

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestMigrateRejectsNilContext(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	//nolint:staticcheck // nil context is the point of the test
	assert.ErrorIs(t, store.Migrate(nil), ErrNilContext)
}
