package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustQuantity(t *testing.T, unit string, amount float64) Quantity {
	t.Helper()
	q, err := NewQuantity(unit, amount)
	require.NoError(t, err)
	return q
}

func TestQuantityAdd(t *testing.T) {
	t.Run("same unit", func(t *testing.T) {
		sum, err := mustQuantity(t, "item", 2).Add(mustQuantity(t, "item", 3))
		require.NoError(t, err)
		assert.Equal(t, Item, sum.Unit)
		assert.Equal(t, 5.0, sum.Amount)
	})

	t.Run("cup plus tablespoons keeps cups", func(t *testing.T) {
		sum, err := mustQuantity(t, "cup", 1).Add(mustQuantity(t, "tablespoon", 2))
		require.NoError(t, err)
		assert.Equal(t, Cup, sum.Unit)
		assert.InDelta(t, 1.125, sum.Amount, 1e-9)
	})

	t.Run("commutative in value not in representation", func(t *testing.T) {
		a := mustQuantity(t, "cup", 1)
		b := mustQuantity(t, "tablespoon", 4)

		ab, err := a.Add(b)
		require.NoError(t, err)
		ba, err := b.Add(a)
		require.NoError(t, err)

		assert.False(t, ab.Equal(ba))
		converted, err := ba.ConvertTo(ab.Unit)
		require.NoError(t, err)
		assert.InDelta(t, ab.Amount, converted.Amount, 1e-9)
	})

	t.Run("negative amounts", func(t *testing.T) {
		sum, err := mustQuantity(t, "gram", -5).Add(mustQuantity(t, "gram", 2))
		require.NoError(t, err)
		assert.Equal(t, -3.0, sum.Amount)
	})
}

func TestQuantityKindMismatch(t *testing.T) {
	pairs := []struct {
		name string
		a    Quantity
		b    Quantity
	}{
		{name: "volume and mass", a: Quantity{Unit: Cup, Amount: 1}, b: Quantity{Unit: Gram, Amount: 1}},
		{name: "mass and count", a: Quantity{Unit: Pound, Amount: 1}, b: Quantity{Unit: Item, Amount: 1}},
		{name: "count and volume", a: Quantity{Unit: Item, Amount: 1}, b: Quantity{Unit: Teaspoon, Amount: 1}},
		{name: "the two ounces", a: Quantity{Unit: VolumeOunce, Amount: 1}, b: Quantity{Unit: MassOunce, Amount: 1}},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.a.Add(tt.b)
			assert.ErrorIs(t, err, ErrTypeMismatch)
			_, err = tt.a.Sub(tt.b)
			assert.ErrorIs(t, err, ErrTypeMismatch)
			_, err = tt.a.ConvertTo(tt.b.Unit)
			assert.ErrorIs(t, err, ErrTypeMismatch)
		})
	}
}

func TestQuantitySub(t *testing.T) {
	diff, err := mustQuantity(t, "kilogram", 1).Sub(mustQuantity(t, "gram", 250))
	require.NoError(t, err)
	assert.Equal(t, Kilogram, diff.Unit)
	assert.InDelta(t, 0.75, diff.Amount, 1e-9)
}

func TestQuantityConvertTo(t *testing.T) {
	t.Run("pounds to kilograms", func(t *testing.T) {
		kg, err := mustQuantity(t, "pound", 2).ConvertTo(Kilogram)
		require.NoError(t, err)
		assert.Equal(t, Kilogram, kg.Unit)
		assert.InDelta(t, 0.907184, kg.Amount, 1e-5)
	})

	t.Run("identity", func(t *testing.T) {
		for _, kind := range Kinds {
			for _, u := range UnitsOf(kind) {
				q := Quantity{Unit: u, Amount: 3.3}
				same, err := q.ConvertTo(u)
				require.NoError(t, err, "%s %s", kind, u)
				assert.True(t, q.Equal(same), "%s %s", kind, u)
			}
		}
		assert.Contains(t, UnitsOf(KindMass), MassOunce)
	})
}

func TestQuantityEqual(t *testing.T) {
	cup := mustQuantity(t, "cup", 1)
	tbsp := mustQuantity(t, "tablespoon", 16)

	assert.True(t, cup.Equal(Quantity{Unit: Cup, Amount: 1}))
	assert.False(t, cup.Equal(tbsp), "equal does not convert")
	assert.False(t, cup.Equal(Quantity{Unit: Cup, Amount: 1.0000001}))
}

func TestQuantityString(t *testing.T) {
	assert.Equal(t, "1.5 cup", mustQuantity(t, "cup", 1.5).String())
	assert.Equal(t, "2 item", mustQuantity(t, "item", 2).String())
}

func TestQuantityMap(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		for _, q := range []Quantity{
			{Unit: Cup, Amount: 1.5},
			{Unit: MassOunce, Amount: 14},
			{Unit: VolumeOunce, Amount: 8},
			{Unit: Item, Amount: -2},
		} {
			parsed, err := QuantityFromMap(q.ToMap())
			require.NoError(t, err)
			assert.True(t, q.Equal(parsed), "round trip of %v", q)
		}
	})

	t.Run("without kind uses priority", func(t *testing.T) {
		q, err := QuantityFromMap(map[string]any{"unit": "Ounce", "amount": 2})
		require.NoError(t, err)
		assert.Equal(t, VolumeOunce, q.Unit)
	})

	t.Run("unknown unit", func(t *testing.T) {
		_, err := QuantityFromMap(map[string]any{"unit": "pinch", "amount": 1.0})
		assert.ErrorIs(t, err, ErrUnknownUnit)
	})

	t.Run("missing unit", func(t *testing.T) {
		_, err := QuantityFromMap(map[string]any{"amount": 1.0})
		assert.ErrorIs(t, err, ErrUnknownUnit)
	})

	t.Run("bad amount", func(t *testing.T) {
		_, err := QuantityFromMap(map[string]any{"unit": "cup", "amount": []int{1}})
		assert.Error(t, err)
	})
}

func TestQuantityJSON(t *testing.T) {
	data, err := json.Marshal(Quantity{Unit: MassOunce, Amount: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"unit":"ounce","kind":"mass","amount":3}`, string(data))

	var q Quantity
	require.NoError(t, json.Unmarshal(data, &q))
	assert.Equal(t, MassOunce, q.Unit)

	err = json.Unmarshal([]byte(`{"unit":"bushel","amount":1}`), &q)
	assert.ErrorIs(t, err, ErrUnknownUnit)

	_, err = json.Marshal(Quantity{})
	assert.Error(t, err)
}
