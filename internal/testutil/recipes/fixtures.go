package recipes

import "github.com/Veraticus/grocer/internal/model"

// Line is one ingredient of a fixture. Kind pins ambiguous units such as
// "ounce".
type Line struct {
	Name   string
	Unit   string
	Kind   model.UnitKind
	Amount float64
}

// Fixture is a named recipe.
type Fixture struct {
	Recipe string
	Lines  []Line
}

// Common fixtures. Porridge and Cookies share oats in different volume
// units; Granola lists oats by weight, so combining it with either of them
// fails.
var (
	Porridge = Fixture{
		Recipe: "porridge",
		Lines: []Line{
			{Name: "oats", Unit: "cup", Amount: 1},
			{Name: "milk", Unit: "cup", Amount: 2},
		},
	}

	Cookies = Fixture{
		Recipe: "cookies",
		Lines: []Line{
			{Name: "oats", Unit: "tablespoon", Amount: 8},
			{Name: "eggs", Unit: "item", Amount: 2},
			{Name: "butter", Unit: "ounce", Kind: model.KindMass, Amount: 4},
		},
	}

	Granola = Fixture{
		Recipe: "granola",
		Lines: []Line{
			{Name: "oats", Unit: "gram", Amount: 300},
			{Name: "honey", Unit: "tablespoon", Amount: 3},
		},
	}
)
