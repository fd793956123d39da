package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"finance/internal/appstate"
	"finance/internal/config"
	"finance/internal/services"
)

func newCategoryCommand() *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
	}
	categoryCmd.AddCommand(newCategoryListCommand())
	categoryCmd.AddCommand(newCategoryAddCommand())
	categoryCmd.AddCommand(newCategoryDeleteCommand())
	return categoryCmd
}

func newCategoryListCommand() *cobra.Command {
	var (
		kind          string
		filterOptions bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, func(ctx context.Context, _ *config.Config, svc *services.LedgerService) error {
				if filterOptions {
					names, err := svc.Categories(ctx, kind)
					if err != nil {
						return err
					}
					for _, name := range appstate.FilterOptions(names) {
						fmt.Fprintln(cmd.OutOrStdout(), name)
					}
					return nil
				}

				cats, err := svc.CategoryRecords(ctx, kind)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for _, c := range cats {
					fmt.Fprintf(w, "%s\t%s\n", c.Kind, c.Name)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "only list Income or Expense categories")
	cmd.Flags().BoolVar(&filterOptions, "filter-options", false, "print the values accepted by tx list --category")
	return cmd
}

func newCategoryAddCommand() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category (no-op if the name exists)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, func(ctx context.Context, _ *config.Config, svc *services.LedgerService) error {
				if err := svc.AddCategory(ctx, args[0], kind); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Category %q ready\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Income or Expense (required)")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func newCategoryDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a category, moving its transactions to Other",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, func(ctx context.Context, _ *config.Config, svc *services.LedgerService) error {
				if err := svc.DeleteCategory(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Category %q deleted\n", args[0])
				return nil
			})
		},
	}
	return cmd
}
