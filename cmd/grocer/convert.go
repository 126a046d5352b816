package main

import (
	"fmt"

	"github.com/Veraticus/grocer/internal/cli"
	"github.com/Veraticus/grocer/internal/common"
	"github.com/Veraticus/grocer/internal/parser"
	"github.com/spf13/cobra"
)

func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <amount> <from> <to>",
		Short: "Convert an amount between units of the same kind",
		Example: `  grocer convert 8 tbsp cup
  grocer convert 1 ounce gram --kind mass`,
		Args: cobra.ExactArgs(3),
		RunE: runConvert,
	}

	cmd.Flags().String("kind", "", "Unit kind of both units (volume, mass, count)")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("kind")

	amount, err := parser.ParseAmount(args[0])
	if err != nil {
		return common.NewUserError(fmt.Sprintf("%q is not an amount", args[0]), err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	t, err := cfg.Taxonomy()
	if err != nil {
		return err
	}

	from, err := quantity(t, kind, args[1], amount)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("Unknown unit %q", args[1]), err)
	}
	target, err := quantity(t, kind, args[2], 0)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("Unknown unit %q", args[2]), err)
	}
	if target.Unit.Kind() != from.Unit.Kind() {
		// "ounce" names a unit of both kinds; prefer the source's.
		if u, err := t.ParseUnitOfKind(from.Unit.Kind(), target.Unit.Name()); err == nil {
			target.Unit = u
		}
	}

	converted, err := t.ConvertTo(from, target.Unit)
	if err != nil {
		return common.NewUserError(
			fmt.Sprintf("Cannot convert %s to %s", from.Unit.Kind(), target.Unit.Kind()), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s %s\n",
		cli.FormatAmount(from.Amount), from.Unit, cli.FormatAmount(converted.Amount), converted.Unit)
	return nil
}
