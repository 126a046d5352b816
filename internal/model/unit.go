// Package model holds the grocery domain: units, quantities, ingredients and
// the shopping list that aggregates them.
package model

import (
	"fmt"
	"strings"
)

// UnitKind groups units that can be converted into one another.
type UnitKind string

const (
	// KindCount is for discrete items.
	KindCount UnitKind = "count"
	// KindVolume is for cups, spoons and fluid ounces.
	KindVolume UnitKind = "volume"
	// KindMass is for pounds, ounces and metric weights.
	KindMass UnitKind = "mass"
)

// Kinds lists every unit kind in the default name resolution order.
var Kinds = []UnitKind{KindVolume, KindMass, KindCount}

// Valid reports whether k is a known kind.
func (k UnitKind) Valid() bool {
	_, ok := unitNames[k]
	return ok
}

// ParseUnitKind resolves a kind label such as "Volume" or "mass".
func ParseUnitKind(label string) (UnitKind, error) {
	k := UnitKind(strings.ToLower(strings.TrimSpace(label)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: kind %q", ErrUnknownUnit, label)
	}
	return k, nil
}

// Unit identifies one member of one UnitKind. The zero Unit is invalid.
// Units are comparable with ==.
type Unit struct {
	kind  UnitKind
	index int
}

// Row and column order of the conversion tables.
var unitNames = map[UnitKind][]string{
	KindCount:  {"item"},
	KindVolume: {"cup", "tablespoon", "teaspoon", "ounce"},
	KindMass:   {"pound", "ounce", "gram", "milligram", "kilogram"},
}

// Known units.
var (
	Item = Unit{kind: KindCount, index: 0}

	Cup         = Unit{kind: KindVolume, index: 0}
	Tablespoon  = Unit{kind: KindVolume, index: 1}
	Teaspoon    = Unit{kind: KindVolume, index: 2}
	VolumeOunce = Unit{kind: KindVolume, index: 3}

	Pound     = Unit{kind: KindMass, index: 0}
	MassOunce = Unit{kind: KindMass, index: 1}
	Gram      = Unit{kind: KindMass, index: 2}
	Milligram = Unit{kind: KindMass, index: 3}
	Kilogram  = Unit{kind: KindMass, index: 4}
)

// Kind returns the unit's kind, or "" for the zero Unit.
func (u Unit) Kind() UnitKind {
	return u.kind
}

// Name returns the lower-case canonical name. VolumeOunce and MassOunce both
// render as "ounce".
func (u Unit) Name() string {
	names, ok := unitNames[u.kind]
	if !ok || u.index < 0 || u.index >= len(names) {
		return ""
	}
	return names[u.index]
}

// Valid reports whether u is one of the known units.
func (u Unit) Valid() bool {
	return u.Name() != ""
}

func (u Unit) String() string {
	if !u.Valid() {
		return "invalid"
	}
	return u.Name()
}

// UnitsOf returns every unit of the given kind in table order.
func UnitsOf(kind UnitKind) []Unit {
	names := unitNames[kind]
	units := make([]Unit, len(names))
	for i := range names {
		units[i] = Unit{kind: kind, index: i}
	}
	return units
}

// lookupUnit finds name among the units of a single kind.
func lookupUnit(kind UnitKind, name string) (Unit, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range unitNames[kind] {
		if candidate == name {
			return Unit{kind: kind, index: i}, true
		}
	}
	return Unit{}, false
}
