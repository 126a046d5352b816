package parser

import (
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/grocer/internal/common"
	"github.com/Veraticus/grocer/internal/model"
)

// Normalize cleans up a triple produced outside ParseLine, typically by a
// language model: unit aliases become canonical names, an empty unit becomes
// "item" and a missing or non-positive amount becomes 1.
func Normalize(p ParsedIngredient) (ParsedIngredient, error) {
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	if p.Name == "" {
		return ParsedIngredient{}, fmt.Errorf("%w: missing ingredient name", common.ErrParseFailed)
	}

	if p.Amount <= 0 || math.IsNaN(p.Amount) || math.IsInf(p.Amount, 0) {
		p.Amount = 1
	}

	label := strings.TrimSpace(p.Unit)
	if label == "" {
		p.Unit, p.Kind = "item", model.KindCount
		return p, nil
	}

	u, ok := NormalizeUnit(label)
	if !ok {
		return ParsedIngredient{}, fmt.Errorf("ingredient %q: %w: %q", p.Name, model.ErrUnknownUnit, label)
	}
	p.Unit, p.Kind = u.Name, u.Kind
	return p, nil
}
