package model

import (
	"encoding/json"
	"fmt"
)

// Ingredient is a named quantity such as "2 cup flour".
type Ingredient struct {
	Name     string
	Quantity Quantity
}

// NewIngredient builds an Ingredient, resolving unitName with the default taxonomy.
func NewIngredient(name, unitName string, amount float64) (Ingredient, error) {
	q, err := NewQuantity(unitName, amount)
	if err != nil {
		return Ingredient{}, fmt.Errorf("ingredient %q: %w", name, err)
	}
	return Ingredient{Name: name, Quantity: q}, nil
}

// Add combines two ingredients with the same name, keeping i's unit.
// Names are compared exactly.
func (i Ingredient) Add(o Ingredient) (Ingredient, error) {
	return defaultTaxonomy.AddIngredients(i, o)
}

// AddIngredients combines two ingredients with the same name using t.
func (t *Taxonomy) AddIngredients(a, b Ingredient) (Ingredient, error) {
	if a.Name != b.Name {
		return Ingredient{}, fmt.Errorf("%w: %q and %q", ErrNameMismatch, a.Name, b.Name)
	}
	q, err := t.Add(a.Quantity, b.Quantity)
	if err != nil {
		return Ingredient{}, fmt.Errorf("ingredient %q: %w", a.Name, err)
	}
	return Ingredient{Name: a.Name, Quantity: q}, nil
}

// Copy returns an independent copy of i.
func (i Ingredient) Copy() Ingredient {
	return Ingredient{Name: i.Name, Quantity: i.Quantity}
}

// Equal reports whether names match and quantities are Equal.
func (i Ingredient) Equal(o Ingredient) bool {
	return i.Name == o.Name && i.Quantity.Equal(o.Quantity)
}

func (i Ingredient) String() string {
	return i.Quantity.String() + " " + i.Name
}

// Flat returns the tabular form of i. The unit kind is dropped, so "ounce"
// rows cannot be told apart afterwards.
func (i Ingredient) Flat() Row {
	return Row{Name: i.Name, Unit: i.Quantity.Unit.Name(), Amount: i.Quantity.Amount}
}

// ToMap returns {"name", "unit", "amount"} when flatten is set and
// {"name", "quantity": {...}} otherwise. Only the nested form parses back.
func (i Ingredient) ToMap(flatten bool) map[string]any {
	if flatten {
		return map[string]any{
			"name":   i.Name,
			"unit":   i.Quantity.Unit.Name(),
			"amount": i.Quantity.Amount,
		}
	}
	return map[string]any{
		"name":     i.Name,
		"quantity": i.Quantity.ToMap(),
	}
}

// IngredientFromMap parses the nested dictionary form.
func IngredientFromMap(m map[string]any) (Ingredient, error) {
	name, ok := m["name"].(string)
	if !ok {
		return Ingredient{}, fmt.Errorf("ingredient: missing name")
	}
	qm, ok := m["quantity"].(map[string]any)
	if !ok {
		return Ingredient{}, fmt.Errorf("ingredient %q: missing quantity", name)
	}
	q, err := QuantityFromMap(qm)
	if err != nil {
		return Ingredient{}, fmt.Errorf("ingredient %q: %w", name, err)
	}
	return Ingredient{Name: name, Quantity: q}, nil
}

type ingredientJSON struct {
	Name     string   `json:"name"`
	Quantity Quantity `json:"quantity"`
}

// MarshalJSON encodes the nested form.
func (i Ingredient) MarshalJSON() ([]byte, error) {
	return json.Marshal(ingredientJSON(i))
}

// UnmarshalJSON decodes the nested form.
func (i *Ingredient) UnmarshalJSON(data []byte) error {
	var raw ingredientJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Quantity.Unit.Valid() {
		return fmt.Errorf("%w: ingredient %q has no valid quantity", ErrUnknownUnit, raw.Name)
	}
	*i = Ingredient(raw)
	return nil
}
