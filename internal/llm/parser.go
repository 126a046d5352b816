package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Veraticus/grocer/internal/common"
	"github.com/Veraticus/grocer/internal/parser"
)

// rawIngredient is one element of the model's JSON reply. Amounts sometimes
// arrive as strings, so they are decoded loosely.
type rawIngredient struct {
	Name   string          `json:"name"`
	Unit   string          `json:"unit"`
	Amount json.RawMessage `json:"amount"`
}

// cleanMarkdownWrapper strips a ```json fence and any prose around the JSON.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if start := strings.Index(content, "```"); start >= 0 {
		inner := content[start+3:]
		if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
			inner = inner[nl+1:]
		}
		if end := strings.Index(inner, "```"); end >= 0 {
			inner = inner[:end]
		}
		content = strings.TrimSpace(inner)
	}

	first := strings.IndexAny(content, "[{")
	if first < 0 {
		return content
	}
	closing := "}"
	if content[first] == '[' {
		closing = "]"
	}
	last := strings.LastIndex(content, closing)
	if last < first {
		return content[first:]
	}
	return content[first : last+1]
}

// parseIngredientResponse decodes either a single object or an array of
// {amount, unit, name} objects and normalizes each entry. Entries that
// cannot be normalized are returned in skipped.
func parseIngredientResponse(content string) (parsed []parser.ParsedIngredient, skipped []error, err error) {
	content = cleanMarkdownWrapper(content)
	if content == "" {
		return nil, nil, fmt.Errorf("%w: empty response", common.ErrParseFailed)
	}

	var raws []rawIngredient
	if strings.HasPrefix(content, "{") {
		var single rawIngredient
		if err := json.Unmarshal([]byte(content), &single); err != nil {
			return nil, nil, fmt.Errorf("%w: failed to parse JSON response: %w", common.ErrParseFailed, err)
		}
		raws = []rawIngredient{single}
	} else if err := json.Unmarshal([]byte(content), &raws); err != nil {
		return nil, nil, fmt.Errorf("%w: failed to parse JSON response: %w", common.ErrParseFailed, err)
	}

	for i, raw := range raws {
		amount, err := looseFloat(raw.Amount)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("entry %d %q: %w", i, raw.Name, err))
			continue
		}
		p, err := parser.Normalize(parser.ParsedIngredient{Name: raw.Name, Unit: raw.Unit, Amount: amount})
		if err != nil {
			skipped = append(skipped, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		parsed = append(parsed, p)
	}

	if len(parsed) == 0 && len(skipped) == 0 {
		return nil, nil, common.ErrNoIngredient
	}
	return parsed, skipped, nil
}

// looseFloat accepts 2, 2.5, "2.5" and "1/2". Missing values decode as 0 and
// are later defaulted to 1.
func looseFloat(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("%w: amount %s", common.ErrParseFailed, string(raw))
	}
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return parser.ParseAmount(s)
}
