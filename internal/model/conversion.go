package model

import (
	"fmt"
	"math"
)

// ConversionTable is a square matrix of factors indexed [from][to] in the
// table order of one unit kind: amount_in_to = amount_in_from * table[from][to].
type ConversionTable [][]float64

// VolumeTable converts between cup, tablespoon, teaspoon and fluid ounce.
func VolumeTable() ConversionTable {
	return ConversionTable{
		{1, 16, 48, 8},
		{1.0 / 16, 1, 3, 1.0 / 2},
		{1.0 / 48, 1.0 / 3, 1, 1.0 / 6},
		{1.0 / 8, 2, 6, 1},
	}
}

// MassTable converts between pound, ounce, gram, milligram and kilogram.
func MassTable() ConversionTable {
	return ConversionTable{
		{1, 16, 453.592, 453592, 0.453592},
		{1.0 / 16, 1, 28.3495, 28349.5, 0.0283495},
		{1 / 453.592, 1 / 28.3495, 1, 1000, 0.001},
		{1.0 / 453592, 1 / 28349.5, 1.0 / 1000, 1, 0.000001},
		{2.20462, 35.274, 1000, 1000000, 1},
	}
}

func (t ConversionTable) clone() ConversionTable {
	out := make(ConversionTable, len(t))
	for i, row := range t {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

func (t ConversionTable) validate(kind UnitKind) error {
	size := len(unitNames[kind])
	if len(t) != size {
		return fmt.Errorf("%w: %s table has %d rows, want %d", ErrInvalidTable, kind, len(t), size)
	}
	for i, row := range t {
		if len(row) != size {
			return fmt.Errorf("%w: %s table row %d has %d columns, want %d", ErrInvalidTable, kind, i, len(row), size)
		}
		for j, f := range row {
			if f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
				return fmt.Errorf("%w: %s factor [%d][%d] = %v", ErrInvalidTable, kind, i, j, f)
			}
		}
	}
	return nil
}

// Taxonomy resolves unit names and converts amounts between units of the same
// kind. It is immutable after construction and safe for concurrent use.
type Taxonomy struct {
	tables   map[UnitKind]ConversionTable
	priority []UnitKind
}

var defaultTaxonomy = mustTaxonomy(VolumeTable(), MassTable())

// DefaultTaxonomy returns the shared taxonomy built from VolumeTable and
// MassTable with name resolution order volume, mass, count.
func DefaultTaxonomy() *Taxonomy {
	return defaultTaxonomy
}

func mustTaxonomy(volume, mass ConversionTable, priority ...UnitKind) *Taxonomy {
	t, err := NewTaxonomy(volume, mass, priority...)
	if err != nil {
		panic(err)
	}
	return t
}

// NewTaxonomy builds a Taxonomy from the given tables. The tables are copied.
// priority sets the order in which kinds are searched when a bare unit name
// such as "ounce" belongs to more than one kind; it defaults to Kinds and any
// kind left out is appended in default order.
func NewTaxonomy(volume, mass ConversionTable, priority ...UnitKind) (*Taxonomy, error) {
	if err := volume.validate(KindVolume); err != nil {
		return nil, err
	}
	if err := mass.validate(KindMass); err != nil {
		return nil, err
	}

	order := make([]UnitKind, 0, len(Kinds))
	seen := make(map[UnitKind]bool, len(Kinds))
	for _, k := range append(append([]UnitKind(nil), priority...), Kinds...) {
		if !k.Valid() {
			return nil, fmt.Errorf("%w: kind %q", ErrUnknownUnit, k)
		}
		if !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
	}

	return &Taxonomy{
		tables: map[UnitKind]ConversionTable{
			KindCount:  {{1}},
			KindVolume: volume.clone(),
			KindMass:   mass.clone(),
		},
		priority: order,
	}, nil
}

// Priority returns the kind search order used by ParseUnit.
func (t *Taxonomy) Priority() []UnitKind {
	return append([]UnitKind(nil), t.priority...)
}

// ParseUnit resolves a case-insensitive unit name, searching kinds in
// priority order. With the default order "ounce" is the volume ounce.
func (t *Taxonomy) ParseUnit(name string) (Unit, error) {
	for _, kind := range t.priority {
		if u, ok := lookupUnit(kind, name); ok {
			return u, nil
		}
	}
	return Unit{}, fmt.Errorf("%w: %q", ErrUnknownUnit, name)
}

// ParseUnitOfKind resolves a unit name within a single kind.
func (t *Taxonomy) ParseUnitOfKind(kind UnitKind, name string) (Unit, error) {
	if u, ok := lookupUnit(kind, name); ok {
		return u, nil
	}
	return Unit{}, fmt.Errorf("%w: %q is not a %s unit", ErrUnknownUnit, name, kind)
}

// Factor returns f such that an amount in from times f is the amount in to.
func (t *Taxonomy) Factor(from, to Unit) (float64, error) {
	if !from.Valid() {
		return 0, fmt.Errorf("%w: %v", ErrUnknownUnit, from)
	}
	if !to.Valid() {
		return 0, fmt.Errorf("%w: %v", ErrUnknownUnit, to)
	}
	if from == to {
		return 1, nil
	}
	if from.kind != to.kind {
		return 0, fmt.Errorf("%w: cannot convert %s (%s) to %s (%s)", ErrTypeMismatch, from, from.kind, to, to.kind)
	}
	return t.tables[from.kind][from.index][to.index], nil
}

// Convert returns amount, expressed in from, expressed in to.
func (t *Taxonomy) Convert(amount float64, from, to Unit) (float64, error) {
	f, err := t.Factor(from, to)
	if err != nil {
		return 0, err
	}
	return amount * f, nil
}

// ParseUnit resolves name with the default taxonomy.
func ParseUnit(name string) (Unit, error) {
	return defaultTaxonomy.ParseUnit(name)
}

// ParseUnitOfKind resolves name within kind using the default taxonomy.
func ParseUnitOfKind(kind UnitKind, name string) (Unit, error) {
	return defaultTaxonomy.ParseUnitOfKind(kind, name)
}
