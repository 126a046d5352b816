package model

import "time"

// Origin records where a recipe's ingredients came from.
type Origin string

const (
	// OriginManual is for ingredients typed in one at a time.
	OriginManual Origin = "manual"
	// OriginText is for ingredients parsed from pasted text.
	OriginText Origin = "text"
	// OriginURL is for ingredients taken from a recipe page.
	OriginURL Origin = "url"
	// OriginLLM is for ingredients extracted by a language model.
	OriginLLM Origin = "llm"
)

// Valid reports whether o is a known origin.
func (o Origin) Valid() bool {
	switch o {
	case OriginManual, OriginText, OriginURL, OriginLLM:
		return true
	}
	return false
}

// Recipe is the stored metadata for one shopping list bucket.
type Recipe struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Origin    Origin    `json:"origin"`
	Source    string    `json:"source,omitempty"`
	Position  int       `json:"position"`
}
