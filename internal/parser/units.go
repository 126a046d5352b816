// Package parser turns free-text ingredient lines into name, unit and amount
// triples the shopping list understands.
package parser

import (
	"strings"

	"github.com/Veraticus/grocer/internal/model"
)

// unitAliases maps spellings seen in recipes to canonical unit names.
// Multi-word keys are matched before single words.
var unitAliases = map[string]string{
	"item": "item", "items": "item", "piece": "item", "pieces": "item", "pc": "item", "pcs": "item",
	"whole": "item", "each": "item", "ea": "item", "clove": "item", "cloves": "item",
	"can": "item", "cans": "item", "bunch": "item", "bunches": "item",

	"cup": "cup", "cups": "cup", "c": "cup",
	"tablespoon": "tablespoon", "tablespoons": "tablespoon", "tbsp": "tablespoon",
	"tbsps": "tablespoon", "tbs": "tablespoon", "tbl": "tablespoon", "T": "tablespoon",
	"teaspoon": "teaspoon", "teaspoons": "teaspoon", "tsp": "teaspoon", "tsps": "teaspoon", "t": "teaspoon",
	"fl oz": "fluid ounce", "fl. oz": "fluid ounce", "fluid ounce": "fluid ounce", "fluid ounces": "fluid ounce",

	"pound": "pound", "pounds": "pound", "lb": "pound", "lbs": "pound",
	"ounce": "ounce", "ounces": "ounce", "oz": "ounce",
	"gram": "gram", "grams": "gram", "g": "gram", "gr": "gram",
	"milligram": "milligram", "milligrams": "milligram", "mg": "milligram",
	"kilogram": "kilogram", "kilograms": "kilogram", "kg": "kilogram", "kgs": "kilogram", "kilo": "kilogram", "kilos": "kilogram",
}

// Unit is a resolved unit label: the canonical name and, when the label
// pins it down, the kind.
type Unit struct {
	Name string
	Kind model.UnitKind
}

// NormalizeUnit maps an alias such as "Tbsp." or "lbs" to its canonical unit.
// "fl oz" resolves to the volume ounce and a bare "oz" to the mass ounce.
// The single letters "T" and "t" are case-sensitive.
func NormalizeUnit(label string) (Unit, bool) {
	label = strings.TrimSpace(label)
	label = strings.TrimSuffix(label, ".")
	if label == "T" || label == "t" {
		return resolveAlias(unitAliases[label])
	}
	return resolveAlias(unitAliases[strings.ToLower(label)])
}

func resolveAlias(canonical string) (Unit, bool) {
	switch canonical {
	case "":
		return Unit{}, false
	case "fluid ounce":
		return Unit{Name: "ounce", Kind: model.KindVolume}, true
	case "ounce":
		return Unit{Name: "ounce", Kind: model.KindMass}, true
	}
	u, err := model.ParseUnit(canonical)
	if err != nil {
		return Unit{}, false
	}
	return Unit{Name: canonical, Kind: u.Kind()}, true
}

// Resolve returns the model unit for u using t.
func (u Unit) Resolve(t *model.Taxonomy) (model.Unit, error) {
	if u.Kind != "" {
		return t.ParseUnitOfKind(u.Kind, u.Name)
	}
	return t.ParseUnit(u.Name)
}
