package model

import "errors"

// Errors returned by unit, quantity, ingredient and shopping list operations.
// They are always wrapped with context; match them with errors.Is.
var (
	// ErrUnknownUnit is returned when a unit label matches no known unit.
	ErrUnknownUnit = errors.New("unknown unit")
	// ErrTypeMismatch is returned when combining or converting across unit kinds.
	ErrTypeMismatch = errors.New("unit type mismatch")
	// ErrNameMismatch is returned when adding ingredients with different names.
	ErrNameMismatch = errors.New("ingredient name mismatch")
	// ErrNotFound is returned when a recipe bucket is missing or empty.
	ErrNotFound = errors.New("recipe not found")
	// ErrInvalidTable is returned when a conversion table has the wrong shape.
	ErrInvalidTable = errors.New("invalid conversion table")
)
