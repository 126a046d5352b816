package parser

import (
	"testing"

	"github.com/Veraticus/grocer/internal/common"
	"github.com/Veraticus/grocer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantName   string
		wantUnit   string
		wantKind   model.UnitKind
		wantAmount float64
	}{
		{name: "plain", line: "2 cups oats", wantName: "oats", wantUnit: "cup", wantKind: model.KindVolume, wantAmount: 2},
		{name: "fraction", line: "1/2 tbsp olive oil", wantName: "olive oil", wantUnit: "tablespoon", wantKind: model.KindVolume, wantAmount: 0.5},
		{name: "mixed number", line: "1 1/2 cups milk", wantName: "milk", wantUnit: "cup", wantKind: model.KindVolume, wantAmount: 1.5},
		{name: "unicode fraction", line: "*   1¾ cups water or broth", wantName: "water or broth", wantUnit: "cup", wantKind: model.KindVolume, wantAmount: 1.75},
		{name: "lone unicode fraction", line: "½ tsp salt", wantName: "salt", wantUnit: "teaspoon", wantKind: model.KindVolume, wantAmount: 0.5},
		{name: "attached unit", line: "100g flour", wantName: "flour", wantUnit: "gram", wantKind: model.KindMass, wantAmount: 100},
		{name: "abbreviation with dot", line: "3 tbsp. extra-virgin olive oil", wantName: "extra-virgin olive oil", wantUnit: "tablespoon", wantKind: model.KindVolume, wantAmount: 3},
		{name: "pounds", line: "2 lb. chicken thighs", wantName: "chicken thighs", wantUnit: "pound", wantKind: model.KindMass, wantAmount: 2},
		{name: "fluid ounces", line: "8 fl oz cream", wantName: "cream", wantUnit: "ounce", wantKind: model.KindVolume, wantAmount: 8},
		{name: "bare oz is weight", line: "4 oz cheddar", wantName: "cheddar", wantUnit: "ounce", wantKind: model.KindMass, wantAmount: 4},
		{name: "count", line: "3 eggs", wantName: "eggs", wantUnit: "item", wantKind: model.KindCount, wantAmount: 3},
		{name: "no amount", line: "freshly chopped parsley", wantName: "freshly chopped parsley", wantUnit: "item", wantKind: model.KindCount, wantAmount: 1},
		{name: "of", line: "2 cups of flour", wantName: "flour", wantUnit: "cup", wantKind: model.KindVolume, wantAmount: 2},
		{name: "range keeps lower bound", line: "2-3 cloves garlic", wantName: "garlic", wantUnit: "item", wantKind: model.KindCount, wantAmount: 2},
		{name: "package size", line: "1 (14-ounce) can of beans", wantName: "beans", wantUnit: "ounce", wantKind: model.KindMass, wantAmount: 14},
		{name: "two packages", line: "2 (15 oz) cans chickpeas", wantName: "chickpeas", wantUnit: "ounce", wantKind: model.KindMass, wantAmount: 30},
		{name: "unit word alone is a name", line: "2 cups", wantName: "cups", wantUnit: "item", wantKind: model.KindCount, wantAmount: 2},
		{name: "decimal comma", line: "1,5 kg potatoes", wantName: "potatoes", wantUnit: "kilogram", wantKind: model.KindMass, wantAmount: 1.5},
		{name: "tab after unit", line: "2 cups\toats", wantName: "oats", wantUnit: "cup", wantKind: model.KindVolume, wantAmount: 2},
		{name: "tab separated columns", line: "8\tfl oz\theavy cream", wantName: "heavy cream", wantUnit: "ounce", wantKind: model.KindVolume, wantAmount: 8},
		{name: "capital T is tablespoon", line: "1 T butter", wantName: "butter", wantUnit: "tablespoon", wantKind: model.KindVolume, wantAmount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantUnit, got.Unit)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.InDelta(t, tt.wantAmount, got.Amount, 1e-9)
			assert.Equal(t, model.OriginText, got.Origin)
		})
	}
}

func TestParseLineErrors(t *testing.T) {
	_, err := ParseLine("   ")
	assert.ErrorIs(t, err, common.ErrEmptyInput)

	_, err = ParseLine("- ")
	assert.ErrorIs(t, err, common.ErrEmptyInput)

	_, err = ParseLine("1/0 cup sugar")
	assert.ErrorIs(t, err, common.ErrParseFailed)

	_, err = ParseLine("12")
	assert.ErrorIs(t, err, common.ErrParseFailed)
}

func TestParseLines(t *testing.T) {
	text := `**Ingredients:**

*   1 cup quinoa
*   2 tablespoons olive oil
## Dressing
- 1 lemon
- 5
`
	parsed, errs := ParseLines(text, "quinoa bowl")
	require.Len(t, parsed, 3)
	assert.Equal(t, "quinoa", parsed[0].Name)
	assert.Equal(t, "quinoa bowl", parsed[2].Recipe)
	assert.Equal(t, "lemon", parsed[2].Name)

	require.Len(t, errs, 1)
	assert.Equal(t, 7, errs[0].Line)
	assert.ErrorIs(t, errs[0], common.ErrParseFailed)
}

func TestApply(t *testing.T) {
	list := model.NewShoppingList()

	for _, line := range []string{"1 cup milk", "2 tbsp milk", "4 oz cheddar", "2 oz cheddar"} {
		p, err := ParseLine(line)
		require.NoError(t, err)
		p.Recipe = "mac"
		require.NoError(t, p.Apply(list))
	}

	milk, _, err := list.FindIngredient("milk")
	require.NoError(t, err)
	assert.InDelta(t, 1.125, milk.Quantity.Amount, 1e-9)

	cheddar, _, err := list.FindIngredient("cheddar")
	require.NoError(t, err)
	assert.Equal(t, model.MassOunce, cheddar.Quantity.Unit)
	assert.Equal(t, 6.0, cheddar.Quantity.Amount)
}

func TestNormalizeUnit(t *testing.T) {
	tests := []struct {
		label string
		want  Unit
		ok    bool
	}{
		{label: "Cups", want: Unit{Name: "cup", Kind: model.KindVolume}, ok: true},
		{label: "tbsp.", want: Unit{Name: "tablespoon", Kind: model.KindVolume}, ok: true},
		{label: "t", want: Unit{Name: "teaspoon", Kind: model.KindVolume}, ok: true},
		{label: "lbs", want: Unit{Name: "pound", Kind: model.KindMass}, ok: true},
		{label: "fl oz", want: Unit{Name: "ounce", Kind: model.KindVolume}, ok: true},
		{label: "ounces", want: Unit{Name: "ounce", Kind: model.KindMass}, ok: true},
		{label: "pcs", want: Unit{Name: "item", Kind: model.KindCount}, ok: true},
		{label: "pinch", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := NormalizeUnit(tt.label)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize(t *testing.T) {
	p, err := Normalize(ParsedIngredient{Name: "  chicken   thighs ", Unit: "lb.", Amount: 2})
	require.NoError(t, err)
	assert.Equal(t, ParsedIngredient{Name: "chicken thighs", Unit: "pound", Kind: model.KindMass, Amount: 2}, p)

	p, err = Normalize(ParsedIngredient{Name: "parsley"})
	require.NoError(t, err)
	assert.Equal(t, "item", p.Unit)
	assert.Equal(t, 1.0, p.Amount)

	_, err = Normalize(ParsedIngredient{Name: "salt", Unit: "pinch", Amount: 1})
	assert.ErrorIs(t, err, model.ErrUnknownUnit)

	_, err = Normalize(ParsedIngredient{Unit: "cup", Amount: 1})
	assert.ErrorIs(t, err, common.ErrParseFailed)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "2", want: 2},
		{in: " 1 1/2 ", want: 1.5},
		{in: "¾", want: 0.75},
		{in: "2-3", want: 2},
		{in: "a few", wantErr: true},
		{in: "2 cups", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrParseFailed)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
