package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/Veraticus/grocer/internal/common"
	"github.com/Veraticus/grocer/internal/model"
)

// ParsedIngredient is one ingredient line reduced to the triple the shopping
// list needs, plus where it came from.
type ParsedIngredient struct {
	Name   string         `json:"name"`
	Unit   string         `json:"unit"`
	Kind   model.UnitKind `json:"kind,omitempty"`
	Recipe string         `json:"recipe,omitempty"`
	Origin model.Origin   `json:"origin,omitempty"`
	Amount float64        `json:"amount"`
}

func (p ParsedIngredient) String() string {
	return fmt.Sprintf("%s %s %s", strconv.FormatFloat(p.Amount, 'f', -1, 64), p.Unit, p.Name)
}

// Ingredient resolves p's unit with t.
func (p ParsedIngredient) Ingredient(t *model.Taxonomy) (model.Ingredient, error) {
	u, err := Unit{Name: p.Unit, Kind: p.Kind}.Resolve(t)
	if err != nil {
		return model.Ingredient{}, fmt.Errorf("ingredient %q: %w", p.Name, err)
	}
	return model.Ingredient{Name: p.Name, Quantity: model.Quantity{Unit: u, Amount: p.Amount}}, nil
}

// Apply adds p to list under p.Recipe.
func (p ParsedIngredient) Apply(list *model.ShoppingList) error {
	ing, err := p.Ingredient(list.Taxonomy())
	if err != nil {
		return err
	}
	return list.Add(p.Recipe, ing)
}

// LineError reports a line that could not be parsed.
type LineError struct {
	Err  error
	Text string
	Line int
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

var (
	bulletPrefix = regexp.MustCompile(`^\s*(?:[-*•·+–]|\[[ xX]?\])\s*`)
	amountPrefix = regexp.MustCompile(`^(\d+\s+\d+/\d+|\d+/\d+|\d+(?:[.,]\d+)?|\.\d+)?\s*([½⅓⅔¼¾⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞])?`)
	rangeSuffix  = regexp.MustCompile(`^\s*(?:-|–|to)\s*\d+(?:[.,/]\d+)*`)
	packageSize  = regexp.MustCompile(`^\(\s*(\d+(?:\.\d+)?)[\s-]*([A-Za-z. ]+?)\s*\)\s*(?:(?:cans?|jars?|packages?|pkgs?|bags?|boxes?|bottles?|cartons?)\b\.?)?\s*`)
	ofPrefix     = regexp.MustCompile(`^(?i:of)\s+`)
)

var unicodeFractions = map[string]float64{
	"½": 1.0 / 2, "⅓": 1.0 / 3, "⅔": 2.0 / 3, "¼": 1.0 / 4, "¾": 3.0 / 4,
	"⅕": 1.0 / 5, "⅖": 2.0 / 5, "⅗": 3.0 / 5, "⅘": 4.0 / 5, "⅙": 1.0 / 6,
	"⅚": 5.0 / 6, "⅛": 1.0 / 8, "⅜": 3.0 / 8, "⅝": 5.0 / 8, "⅞": 7.0 / 8,
}

// ParseLine parses lines such as "2 cups oats", "1 1/2 tbsp. olive oil",
// "1¾ cups water", "100g flour" or "1 (14-ounce) can of beans". A missing
// amount means 1 and a missing unit means "item".
func ParseLine(line string) (ParsedIngredient, error) {
	text := strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
	if text == "" {
		return ParsedIngredient{}, common.ErrEmptyInput
	}

	amount, rest, hasAmount, err := parseAmount(text)
	if err != nil {
		return ParsedIngredient{}, fmt.Errorf("%w: %q: %w", common.ErrParseFailed, line, err)
	}
	if !hasAmount {
		amount = 1
	}

	unit := Unit{Name: "item", Kind: model.KindCount}
	if u, size, n, ok := leadingPackage(rest); ok {
		amount *= size
		unit = u
		rest = rest[n:]
	} else if u, n, ok := leadingUnit(rest); ok {
		unit = u
		rest = rest[n:]
	}

	name := strings.Join(strings.Fields(ofPrefix.ReplaceAllString(strings.TrimSpace(rest), "")), " ")
	name = strings.TrimRight(name, ",;")
	if name == "" {
		return ParsedIngredient{}, fmt.Errorf("%w: %q has no ingredient name", common.ErrParseFailed, line)
	}

	return ParsedIngredient{
		Name:   name,
		Unit:   unit.Name,
		Kind:   unit.Kind,
		Amount: amount,
		Origin: model.OriginText,
	}, nil
}

// parseAmount reads a leading number, fraction, mixed number or unicode
// fraction. A trailing range such as "2-3" keeps the lower bound.
func parseAmount(text string) (amount float64, rest string, ok bool, err error) {
	m := amountPrefix.FindStringSubmatchIndex(text)
	if m == nil || m[1] == 0 {
		return 0, text, false, nil
	}

	if m[2] >= 0 {
		amount, err = parseNumber(text[m[2]:m[3]])
		if err != nil {
			return 0, text, false, err
		}
	}
	if m[4] >= 0 {
		amount += unicodeFractions[text[m[4]:m[5]]]
	}
	if m[2] < 0 && m[4] < 0 {
		return 0, text, false, nil
	}

	rest = text[m[1]:]
	if r := rangeSuffix.FindString(rest); r != "" {
		rest = rest[len(r):]
	}
	return amount, strings.TrimLeft(rest, " "), true, nil
}

// ParseAmount parses a string that holds only an amount, such as "1 1/2",
// "¾" or "2-3".
func ParseAmount(s string) (float64, error) {
	amount, rest, ok, err := parseAmount(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q: %w", common.ErrParseFailed, s, err)
	}
	if !ok || strings.TrimSpace(rest) != "" {
		return 0, fmt.Errorf("%w: amount %q", common.ErrParseFailed, s)
	}
	return amount, nil
}

func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", ".")
	fields := strings.Fields(s)
	total := 0.0
	for _, f := range fields {
		if num, den, found := strings.Cut(f, "/"); found {
			n, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return 0, err
			}
			d, err := strconv.ParseFloat(den, 64)
			if err != nil {
				return 0, err
			}
			if d == 0 {
				return 0, fmt.Errorf("zero denominator in %q", s)
			}
			total += n / d
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

// leadingPackage matches a package size such as "(14-ounce) can".
func leadingPackage(text string) (Unit, float64, int, bool) {
	m := packageSize.FindStringSubmatch(text)
	if m == nil {
		return Unit{}, 0, 0, false
	}
	u, ok := NormalizeUnit(m[2])
	if !ok {
		return Unit{}, 0, 0, false
	}
	size, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Unit{}, 0, 0, false
	}
	return u, size, len(m[0]), true
}

// leadingUnit matches a unit alias at the start of text, trying two-word
// aliases such as "fl oz" first. n is the number of bytes consumed.
func leadingUnit(text string) (Unit, int, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Unit{}, 0, false
	}

	if len(fields) >= 3 {
		if u, ok := NormalizeUnit(fields[0] + " " + fields[1]); ok {
			return u, consumed(text, 2), true
		}
	}

	// A unit needs something after it to be a name.
	if len(fields) >= 2 {
		if u, ok := NormalizeUnit(strings.TrimRight(fields[0], ",")); ok {
			return u, consumed(text, 1), true
		}
	}
	return Unit{}, 0, false
}

// consumed returns the byte offset just past the first n fields of text.
func consumed(text string, n int) int {
	i := 0
	for ; n > 0; n-- {
		for i < len(text) && unicode.IsSpace(rune(text[i])) {
			i++
		}
		for i < len(text) && !unicode.IsSpace(rune(text[i])) {
			i++
		}
	}
	return i
}

// ParseLines parses one ingredient per line. Blank lines and headings such
// as "Ingredients:" or "## Dough" are skipped; unparseable lines are
// reported in errs without stopping the batch.
func ParseLines(text, recipe string) (parsed []ParsedIngredient, errs []*LineError) {
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if isHeading(line) {
			continue
		}
		p, err := ParseLine(line)
		if err != nil {
			errs = append(errs, &LineError{Line: i + 1, Text: line, Err: err})
			continue
		}
		p.Recipe = recipe
		parsed = append(parsed, p)
	}
	return parsed, errs
}

func isHeading(line string) bool {
	switch {
	case line == "":
		return true
	case strings.HasPrefix(line, "#"):
		return true
	case strings.HasSuffix(line, ":"):
		return true
	case strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**"):
		return true
	}
	return false
}
