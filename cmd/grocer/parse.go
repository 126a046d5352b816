package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/grocer/internal/cli"
	"github.com/Veraticus/grocer/internal/common"
	"github.com/Veraticus/grocer/internal/model"
	"github.com/Veraticus/grocer/internal/parser"
	"github.com/spf13/cobra"
)

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <text...>",
		Short: "Parse ingredient lines and optionally add them",
		Long: `Parse free-text ingredient lines such as "1 1/2 cups milk" into name, unit
and amount. With --llm the configured language model does the extraction,
which copes with prose and unusual phrasing. With --save the results are
added to the shopping list under --recipe.`,
		Example: `  grocer parse "2 cups oats" "1/2 tsp salt"
  grocer parse --llm --save --recipe curry "a thumb of ginger and two onions"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runParse,
	}

	cmd.Flags().StringP("recipe", "r", model.DefaultRecipe, "Recipe to add ingredients to")
	cmd.Flags().Bool("llm", false, "Use the configured language model")
	cmd.Flags().Bool("save", false, "Add the parsed ingredients to the shopping list")
	cmd.Flags().String("origin", "", "Where the text came from (text, url); defaults to text, or llm with --llm")
	cmd.Flags().String("source", "", "URL or note recorded with the recipe")

	return cmd
}

type parseOptions struct {
	recipe string
	origin model.Origin
	source string
	useLLM bool
}

func parseFlags(cmd *cobra.Command) (parseOptions, error) {
	var opts parseOptions
	opts.recipe, _ = cmd.Flags().GetString("recipe")
	opts.useLLM, _ = cmd.Flags().GetBool("llm")
	opts.source, _ = cmd.Flags().GetString("source")
	origin, _ := cmd.Flags().GetString("origin")

	switch {
	case origin != "":
		opts.origin = model.Origin(strings.ToLower(origin))
	case opts.useLLM:
		opts.origin = model.OriginLLM
	default:
		opts.origin = model.OriginText
	}
	if !opts.origin.Valid() {
		return opts, common.NewUserError(fmt.Sprintf("Unknown origin %q", origin), common.ErrInvalidConfig)
	}
	return opts, nil
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	save, _ := cmd.Flags().GetBool("save")
	opts, err := parseFlags(cmd)
	if err != nil {
		return err
	}

	text := strings.Join(args, "\n")
	parsed, err := extract(ctx, text, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, p := range parsed {
		fmt.Fprintf(out, "%s\t%s\t%s\n", cli.FormatAmount(p.Amount), p.Unit, p.Name)
	}
	if !save {
		return nil
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	added, failed := applyParsed(a.list, parsed, nil)
	if err := saveRecipe(ctx, a, opts); err != nil {
		return err
	}
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Added %d ingredients to %s", added, opts.recipe)))
	if failed > 0 {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d ingredients conflicted with the list and were skipped", failed)))
	}
	return nil
}

// extract runs the line parser or the language model over text. Lines the
// line parser cannot read are logged and skipped.
func extract(ctx context.Context, text string, opts parseOptions) ([]parser.ParsedIngredient, error) {
	if opts.useLLM {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		p, err := newIngredientParser(ctx, cfg)
		if err != nil {
			return nil, common.NewUserError("Language model is not configured", err)
		}
		defer func() { _ = p.Close() }()

		parsed, err := p.Parse(ctx, text, opts.recipe)
		if err != nil {
			return nil, fmt.Errorf("failed to extract ingredients: %w", err)
		}
		for i := range parsed {
			parsed[i].Origin = opts.origin
		}
		return parsed, nil
	}

	parsed, lineErrs := parser.ParseLines(text, opts.recipe)
	for _, le := range lineErrs {
		slog.Warn("Skipping line", "line", le.Line, "text", le.Text, "error", le.Err)
	}
	if len(parsed) == 0 {
		return nil, common.NewUserError("No ingredients found", common.ErrNoIngredient)
	}
	for i := range parsed {
		parsed[i].Origin = opts.origin
	}
	return parsed, nil
}

// applyParsed adds each ingredient to list, calling step after each one.
// Ingredients the list rejects are logged and counted.
func applyParsed(list *model.ShoppingList, parsed []parser.ParsedIngredient, step func()) (added, failed int) {
	for _, p := range parsed {
		if err := p.Apply(list); err != nil {
			slog.Warn("Skipping ingredient", "ingredient", p.String(), "error", err)
			failed++
		} else {
			added++
		}
		if step != nil {
			step()
		}
	}
	return added, failed
}

// saveRecipe persists the list and then records where the recipe came from.
func saveRecipe(ctx context.Context, a *app, opts parseOptions) error {
	if err := a.save(ctx); err != nil {
		return err
	}
	if !a.list.HasRecipe(opts.recipe) {
		return nil
	}

	recipe := &model.Recipe{Name: opts.recipe, Origin: opts.origin, Source: opts.source}
	if err := a.store.SaveRecipe(ctx, recipe, a.list.RecipeIngredients(opts.recipe)); err != nil {
		return fmt.Errorf("failed to save recipe details: %w", err)
	}
	return nil
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a recipe's ingredient list from a file",
		Long: `Import ingredient lines from a file (or "-" for standard input) into one
recipe. The recipe is named after the file unless --recipe is given.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().StringP("recipe", "r", "", "Recipe name (default: file name)")
	cmd.Flags().Bool("llm", false, "Use the configured language model")
	cmd.Flags().String("origin", "", "Where the text came from (text, url)")
	cmd.Flags().String("source", "", "URL or note recorded with the recipe")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	opts, err := parseFlags(cmd)
	if err != nil {
		return err
	}
	if opts.recipe == "" {
		opts.recipe = recipeNameFromPath(args[0])
	}
	if opts.source == "" && args[0] != "-" {
		opts.source = args[0]
	}

	text, err := readInput(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	handler := cli.NewInterruptHandler(out, "Nothing was saved.")
	ctx, stop := handler.HandleInterrupts(cmd.Context())
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Fprintln(out, cli.FormatTitle("Importing "+opts.recipe))

	parsed, err := extract(ctx, text, opts)
	if err != nil {
		return err
	}

	bar := cli.NewProgress(out, len(parsed), "Adding ingredients")
	added, failed := applyParsed(a.list, parsed, bar.Step)
	bar.Finish()

	if handler.WasInterrupted() || ctx.Err() != nil {
		return ctx.Err()
	}
	if err := saveRecipe(ctx, a, opts); err != nil {
		return err
	}

	summary := fmt.Sprintf("Recipe: %s\nAdded: %d\nSkipped: %d", opts.recipe, added, failed)
	fmt.Fprintln(out, cli.RenderBox("Import complete", summary))
	return nil
}

func readInput(path string, stdin io.Reader) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // user-supplied path is the point
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", common.NewUserError("Nothing to import", common.ErrEmptyInput)
	}
	return string(data), nil
}

// recipeNameFromPath turns "~/recipes/chicken-curry.txt" into "chicken curry".
func recipeNameFromPath(path string) string {
	if path == "-" {
		return model.DefaultRecipe
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return model.DefaultRecipe
	}
	return name
}
