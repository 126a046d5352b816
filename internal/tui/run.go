package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/Veraticus/grocer/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// Views builds the combined view followed by one view per recipe. A combined
// view that cannot be built because recipes disagree on a unit kind is left out.
func Views(list *model.ShoppingList) ([]View, error) {
	var views []View

	rows, err := list.Rows()
	if err == nil {
		views = append(views, View{Title: "All recipes", Rows: rows})
	}

	for _, recipe := range list.Recipes() {
		sub, subErr := list.ForRecipe(recipe)
		if subErr != nil {
			continue
		}
		recipeRows, subErr := sub.Rows()
		if subErr != nil {
			return nil, fmt.Errorf("recipe %q: %w", recipe, subErr)
		}
		views = append(views, View{Title: recipe, Rows: recipeRows})
	}

	if len(views) == 0 && err != nil {
		return nil, err
	}
	return views, nil
}

// Run shows the viewer until the user quits or ctx is canceled.
func Run(ctx context.Context, list *model.ShoppingList, in io.Reader, out io.Writer) error {
	views, err := Views(list)
	if err != nil {
		return err
	}

	p := tea.NewProgram(New(views),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("viewer failed: %w", err)
	}
	return nil
}
