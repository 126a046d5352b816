package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Quantity is an amount in a unit. Amounts may be any real number.
type Quantity struct {
	Unit   Unit
	Amount float64
}

// NewQuantity builds a Quantity from a unit name resolved with the default
// taxonomy's priority order.
func NewQuantity(unitName string, amount float64) (Quantity, error) {
	return defaultTaxonomy.NewQuantity(unitName, amount)
}

// NewQuantityOfKind builds a Quantity from a unit name resolved within kind.
// Use it to get the mass ounce.
func NewQuantityOfKind(kind UnitKind, unitName string, amount float64) (Quantity, error) {
	u, err := defaultTaxonomy.ParseUnitOfKind(kind, unitName)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Unit: u, Amount: amount}, nil
}

// NewQuantity builds a Quantity from a unit name resolved in t.
func (t *Taxonomy) NewQuantity(unitName string, amount float64) (Quantity, error) {
	u, err := t.ParseUnit(unitName)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Unit: u, Amount: amount}, nil
}

// Add returns a + b in a's unit, converting b when the units differ.
func (t *Taxonomy) Add(a, b Quantity) (Quantity, error) {
	amount, err := t.Convert(b.Amount, b.Unit, a.Unit)
	if err != nil {
		return Quantity{}, fmt.Errorf("add %s to %s: %w", b, a, err)
	}
	return Quantity{Unit: a.Unit, Amount: a.Amount + amount}, nil
}

// Sub returns a - b in a's unit, converting b when the units differ.
func (t *Taxonomy) Sub(a, b Quantity) (Quantity, error) {
	amount, err := t.Convert(b.Amount, b.Unit, a.Unit)
	if err != nil {
		return Quantity{}, fmt.Errorf("subtract %s from %s: %w", b, a, err)
	}
	return Quantity{Unit: a.Unit, Amount: a.Amount - amount}, nil
}

// ConvertTo returns q expressed in unit.
func (t *Taxonomy) ConvertTo(q Quantity, unit Unit) (Quantity, error) {
	amount, err := t.Convert(q.Amount, q.Unit, unit)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Unit: unit, Amount: amount}, nil
}

// Add returns q + o in q's unit.
func (q Quantity) Add(o Quantity) (Quantity, error) {
	return defaultTaxonomy.Add(q, o)
}

// Sub returns q - o in q's unit.
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	return defaultTaxonomy.Sub(q, o)
}

// ConvertTo returns q expressed in unit.
func (q Quantity) ConvertTo(unit Unit) (Quantity, error) {
	return defaultTaxonomy.ConvertTo(q, unit)
}

// Equal reports representational equality: same unit and exactly the same
// amount. It never converts, so 1 cup is not Equal to 16 tablespoons.
func (q Quantity) Equal(o Quantity) bool {
	return q.Unit == o.Unit && q.Amount == o.Amount
}

func (q Quantity) String() string {
	return formatAmount(q.Amount) + " " + q.Unit.String()
}

// ToMap returns the dictionary form {"unit", "amount", "kind"}.
func (q Quantity) ToMap() map[string]any {
	return map[string]any{
		"unit":   q.Unit.Name(),
		"amount": q.Amount,
		"kind":   string(q.Unit.Kind()),
	}
}

// QuantityFromMap parses the dictionary form. "kind" is optional; without it
// the unit name is resolved in priority order.
func QuantityFromMap(m map[string]any) (Quantity, error) {
	name, ok := m["unit"].(string)
	if !ok {
		return Quantity{}, fmt.Errorf("%w: missing unit", ErrUnknownUnit)
	}
	amount, err := toFloat(m["amount"])
	if err != nil {
		return Quantity{}, fmt.Errorf("quantity amount: %w", err)
	}
	kind, _ := m["kind"].(string)
	return quantityFrom(name, kind, amount)
}

type quantityJSON struct {
	Unit   string  `json:"unit"`
	Kind   string  `json:"kind,omitempty"`
	Amount float64 `json:"amount"`
}

// MarshalJSON encodes q in its dictionary form.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if !q.Unit.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownUnit, q.Unit)
	}
	return json.Marshal(quantityJSON{Unit: q.Unit.Name(), Kind: string(q.Unit.Kind()), Amount: q.Amount})
}

// UnmarshalJSON decodes the dictionary form.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var raw quantityJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := quantityFrom(raw.Unit, raw.Kind, raw.Amount)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

func quantityFrom(unitName, kind string, amount float64) (Quantity, error) {
	if kind == "" {
		return NewQuantity(unitName, amount)
	}
	k, err := ParseUnitKind(kind)
	if err != nil {
		return Quantity{}, err
	}
	return NewQuantityOfKind(k, unitName, amount)
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(n, 64)
	case nil:
		return 0, fmt.Errorf("missing number")
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
