package cli

import (
	"strconv"

	"github.com/Veraticus/grocer/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// FormatAmount prints an amount without trailing zeros.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// RenderRows draws shopping list rows as a bordered table. Amounts are
// right-aligned.
func RenderRows(rows []model.Row) string {
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{r.Name, FormatAmount(r.Amount), r.Unit}
	}
	return renderTable([]string{"Ingredient", "Amount", "Unit"}, data, 1)
}

// RenderRecipes draws recipe metadata in list order.
func RenderRecipes(recipes []model.Recipe, counts map[string]int) string {
	data := make([][]string, len(recipes))
	for i, r := range recipes {
		data[i] = []string{r.Name, strconv.Itoa(counts[r.Name]), string(r.Origin), r.Source}
	}
	return renderTable([]string{"Recipe", "Items", "Origin", "Source"}, data, 1)
}

func renderTable(headers []string, data [][]string, rightCol int) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(SubtleStyle).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if col == rightCol {
				return TableCellStyle.Align(lipgloss.Right)
			}
			return TableCellStyle
		})
	return t.Render()
}
