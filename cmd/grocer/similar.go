package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Veraticus/grocer/internal/cli"
	"github.com/spf13/cobra"
)

func similarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "similar <query>",
		Short: "Find shopping list ingredients similar to a query",
		Long: `Rank the ingredients on the shopping list by embedding similarity to the
query, for example to spot "cherry tomatoes" when adding "tomatoes".`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSimilar,
	}

	cmd.Flags().IntP("top", "n", 5, "Number of matches to show")
	cmd.Flags().Bool("save", false, "Store newly generated embeddings (default: embeddings.auto_save)")

	return cmd
}

func runSimilar(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	topK, _ := cmd.Flags().GetInt("top")
	query := strings.Join(args, " ")

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	autoSave := a.cfg.Embeddings.AutoSave
	if cmd.Flags().Changed("save") {
		autoSave, _ = cmd.Flags().GetBool("save")
	}

	svc, err := newEmbeddingService(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	items := ingredientNames(a.list)
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("The shopping list is empty."))
		return nil
	}

	matches, err := svc.FindSimilar(ctx, query, items, topK, autoSave)
	if err != nil {
		return err
	}

	for _, m := range matches {
		fmt.Fprintf(cmd.OutOrStdout(), "%.3f\t%s\n", m.Score, m.Item)
	}
	return nil
}

func embeddingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embeddings",
		Short: "Manage stored embeddings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List texts with stored embeddings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := newEmbeddingService(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			texts, err := svc.StoredTexts(ctx)
			if err != nil {
				return err
			}
			for _, text := range texts {
				fmt.Fprintln(cmd.OutOrStdout(), text)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "save <text...>",
		Short: "Generate and store embeddings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := newEmbeddingService(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			saved, err := svc.Save(ctx, args...)
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Saved %d embeddings", saved)))
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <text...>",
		Short: "Delete stored embeddings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := newEmbeddingService(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			removed, err := svc.Remove(ctx, args...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Removed %d embeddings", removed)))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every stored embedding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := newEmbeddingService(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			removed, err := svc.Clear(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Removed %d embeddings", removed)))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "dump <file|->",
		Short: "Write every stored embedding to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := newEmbeddingService(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			if args[0] == "-" {
				_, err := svc.Dump(ctx, cmd.OutOrStdout())
				return err
			}

			f, err := os.Create(args[0]) //nolint:gosec // user-supplied path is the point
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", args[0], err)
			}
			n, err := svc.Dump(ctx, f)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Wrote %d embeddings to %s", n, args[0])))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "load <file|->",
		Short: "Store embeddings from a file written by dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := newEmbeddingService(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0]) //nolint:gosec // user-supplied path is the point
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer func() { _ = f.Close() }()
				r = f
			}

			n, err := svc.Load(ctx, r)
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Loaded %d embeddings", n)))
			return err
		},
	})

	return cmd
}
