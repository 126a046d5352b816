package recipes

import (
	"testing"

	"github.com/Veraticus/grocer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	list := NewBuilder(t).
		WithFixtures(Porridge, Cookies).
		WithIngredient("cookies", "sugar", "cup", 0.5).
		Build()

	assert.Equal(t, []string{"porridge", "cookies"}, list.Recipes())
	assert.Len(t, list.RecipeIngredients("cookies"), 4)

	oats, found, err := list.FindIngredient("oats")
	require.NoError(t, err)
	require.True(t, found)
	assert.InDelta(t, 1.5, oats.Quantity.Amount, 1e-9)

	butter, _, err := list.FindIngredient("butter")
	require.NoError(t, err)
	assert.Equal(t, model.MassOunce, butter.Quantity.Unit)
}

func TestBuilderWithTaxonomy(t *testing.T) {
	taxonomy, err := model.NewTaxonomy(model.VolumeTable(), model.MassTable(),
		model.KindMass, model.KindVolume, model.KindCount)
	require.NoError(t, err)

	list := NewBuilder(t).
		WithTaxonomy(taxonomy).
		WithIngredient("sauce", "cheddar", "ounce", 4).
		Build()

	cheddar, _, err := list.FindIngredient("cheddar")
	require.NoError(t, err)
	assert.Equal(t, model.MassOunce, cheddar.Quantity.Unit)
}

func TestGranolaConflicts(t *testing.T) {
	list := NewBuilder(t).WithFixtures(Porridge, Granola).Build()

	_, err := list.Rows()
	assert.ErrorIs(t, err, model.ErrTypeMismatch)
}
