package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Veraticus/grocer/internal/cli"
	"github.com/Veraticus/grocer/internal/common"
	"github.com/Veraticus/grocer/internal/model"
	"github.com/Veraticus/grocer/internal/parser"
	"github.com/Veraticus/grocer/internal/tui"
	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name> <amount> <unit>",
		Short: "Add an ingredient to the shopping list",
		Long: `Add an ingredient to a recipe on the shopping list.

The amount may be a fraction such as "1 1/2" or "¾". Units accept common
abbreviations; use --kind mass or --kind volume to pick which ounce you mean.`,
		Example: `  grocer add oats 1 cup --recipe porridge
  grocer add cheddar 4 ounce --kind mass --recipe "mac and cheese"`,
		Args: cobra.ExactArgs(3),
		RunE: runAdd,
	}

	cmd.Flags().StringP("recipe", "r", model.DefaultRecipe, "Recipe the ingredient belongs to")
	cmd.Flags().String("kind", "", "Unit kind (volume, mass, count)")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	recipe, _ := cmd.Flags().GetString("recipe")
	kind, _ := cmd.Flags().GetString("kind")

	name := strings.TrimSpace(args[0])
	if name == "" {
		return common.NewUserError("Ingredient name cannot be empty", common.ErrEmptyInput)
	}
	amount, err := parser.ParseAmount(args[1])
	if err != nil {
		return common.NewUserError(fmt.Sprintf("%q is not an amount", args[1]), err)
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	q, err := quantity(a.list.Taxonomy(), kind, args[2], amount)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("Unknown unit %q", args[2]), err)
	}

	if err := a.list.Add(recipe, model.Ingredient{Name: name, Quantity: q}); err != nil {
		if errors.Is(err, model.ErrTypeMismatch) {
			return common.NewUserError(
				fmt.Sprintf("%s is already listed in %s with a different kind of unit", name, recipe), err)
		}
		return err
	}
	if err := a.save(ctx); err != nil {
		return err
	}

	for _, ing := range a.list.RecipeIngredients(recipe) {
		if ing.Name == name {
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s: %s", recipe, ing)))
		}
	}
	return nil
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the combined shopping list",
		Long: `Show every ingredient on the shopping list with amounts combined across
recipes. With --recipe only that recipe's ingredients are shown.`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cmd.Flags().StringP("recipe", "r", "", "Only show this recipe")
	cmd.Flags().BoolP("interactive", "i", false, "Browse the list in a terminal UI")
	cmd.Flags().Bool("plain", false, "Print one ingredient per line without a table")

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	recipe, _ := cmd.Flags().GetString("recipe")
	interactive, _ := cmd.Flags().GetBool("interactive")
	plain, _ := cmd.Flags().GetBool("plain")

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	list := a.list
	if recipe != "" {
		if list, err = a.list.ForRecipe(recipe); err != nil {
			return common.NewUserError(fmt.Sprintf("No recipe named %q", recipe), err)
		}
	}

	if interactive {
		return tui.Run(ctx, list, os.Stdin, cmd.OutOrStdout())
	}

	out := cmd.OutOrStdout()
	if list.Len() == 0 {
		fmt.Fprintln(out, cli.FormatInfo("The shopping list is empty."))
		return nil
	}

	if plain {
		text, err := list.Render()
		if err != nil {
			return conflictError(err)
		}
		fmt.Fprintln(out, text)
		return nil
	}

	rows, err := list.Rows()
	if err != nil {
		return conflictError(err)
	}
	fmt.Fprintln(out, cli.RenderRows(rows))
	return nil
}

// conflictError explains a combined view that cannot be built.
func conflictError(err error) error {
	if errors.Is(err, model.ErrTypeMismatch) {
		return common.NewUserError(
			"Two recipes list the same ingredient with incompatible units; use --recipe to view them separately", err)
	}
	return err
}

func recipesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recipes",
		Short: "List the recipes on the shopping list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			recipes, err := a.store.ListRecipes(ctx)
			if err != nil {
				return err
			}
			if len(recipes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No recipes yet."))
				return nil
			}

			counts := make(map[string]int, len(recipes))
			for _, r := range recipes {
				counts[r.Name] = len(a.list.RecipeIngredients(r.Name))
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderRecipes(recipes, counts))
			return nil
		},
	}
}

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <recipe>",
		Aliases: []string{"rm"},
		Short:   "Remove a recipe and its ingredients",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			recipe := args[0]

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.list.HasRecipe(recipe) {
				return common.NewUserError(fmt.Sprintf("No recipe named %q", recipe),
					fmt.Errorf("%w: %q", model.ErrNotFound, recipe))
			}
			a.list.RemoveRecipe(recipe)
			if err := a.save(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Removed "+recipe))
			return nil
		},
	}
}
