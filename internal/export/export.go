// Package export writes the combined shopping list in file formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/grocer/internal/common"
	"github.com/Veraticus/grocer/internal/model"
)

// Format names an output format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat accepts a format name, case-insensitively. "txt" means text.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "text", "txt", "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", common.ErrInvalidConfig, name)
	}
}

// Write renders the combined view of list to w.
func Write(w io.Writer, list *model.ShoppingList, format Format) error {
	rows, err := list.Rows()
	if err != nil {
		return err
	}

	switch format {
	case FormatCSV:
		return writeCSV(w, rows)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case FormatText:
		text, err := list.Render()
		if err != nil {
			return err
		}
		if text == "" {
			return nil
		}
		_, err = io.WriteString(w, text+"\n")
		return err
	default:
		return fmt.Errorf("%w: unknown export format %q", common.ErrInvalidConfig, format)
	}
}

func writeCSV(w io.Writer, rows []model.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "unit", "amount"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{row.Name, row.Unit, strconv.FormatFloat(row.Amount, 'f', -1, 64)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
