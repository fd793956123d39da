package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"finance/internal/appstate"
	"finance/internal/config"
	"finance/internal/core"
	"finance/internal/filter"
	"finance/internal/services"
)

func newTxCommand() *cobra.Command {
	txCmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transaction"},
		Short:   "Record, list, edit and delete transactions",
	}
	txCmd.AddCommand(newTxAddCommand())
	txCmd.AddCommand(newTxListCommand())
	txCmd.AddCommand(newTxEditCommand())
	txCmd.AddCommand(newTxDeleteCommand())
	return txCmd
}

func newTxAddCommand() *cobra.Command {
	var in services.TransactionInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, func(ctx context.Context, _ *config.Config, svc *services.LedgerService) error {
				id, err := svc.AddTransaction(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added transaction %d\n", id)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&in.Date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&in.Kind, "kind", "", "Income or Expense (required)")
	cmd.Flags().StringVar(&in.Category, "category", "", "category name, created if missing (required)")
	cmd.Flags().StringVar(&in.Amount, "amount", "", "non-negative amount, '.' or ',' as decimal separator (required)")
	cmd.Flags().StringVar(&in.Note, "note", "", "free-form note")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newTxListCommand() *cobra.Command {
	var (
		period   string
		from     string
		to       string
		category string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions with totals for the chosen period and category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := listState(period, from, to, category)
			if err != nil {
				return err
			}
			return withLedger(cmd, func(ctx context.Context, cfg *config.Config, svc *services.LedgerService) error {
				names, err := svc.Categories(ctx, "")
				if err != nil {
					return err
				}
				if reconciled := state.ReconcileCategories(names); reconciled.Selection.Category != state.Selection.Category {
					return fmt.Errorf("%w: %q", core.ErrCategoryNotFound, state.Selection.Category)
				}

				res, err := svc.View(ctx, state.Selection)
				if err != nil {
					return err
				}
				return printResult(cmd, cfg.Currency, res)
			})
		},
	}

	cmd.Flags().StringVar(&period, "period", "all", "all, today, week, month, year or custom")
	cmd.Flags().StringVar(&from, "from", "", "custom range start, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "custom range end, YYYY-MM-DD")
	cmd.Flags().StringVar(&category, "category", filter.AllCategories, "category name or All")
	return cmd
}

// listState turns the list flags into application state. Giving --from or
// --to implies a custom period.
func listState(period, from, to, category string) (appstate.State, error) {
	state := appstate.New().WithCategory(category)

	p, err := filter.ParsePeriod(period)
	if err != nil {
		return state, err
	}
	if from == "" && to == "" {
		return state.WithPeriod(p), nil
	}
	if p != filter.Custom && p != filter.All {
		return state, fmt.Errorf("--from and --to need --period custom, got %s", p)
	}

	fromDate, err := optionalDate(from)
	if err != nil {
		return state, err
	}
	toDate, err := optionalDate(to)
	if err != nil {
		return state, err
	}
	if fromDate.IsZero() || toDate.IsZero() {
		// An open range leaves the period predicate passing everything.
		state = state.WithPeriod(filter.Custom)
		state.Selection.From = fromDate
		state.Selection.To = toDate
		return state, nil
	}
	return state.WithCustomRange(fromDate, toDate)
}

func optionalDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return core.ParseDate(raw)
}

func printResult(cmd *cobra.Command, currency string, res filter.Result) error {
	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tKIND\tCATEGORY\tAMOUNT\tNOTE")
	for _, tx := range res.Transactions {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.Date, tx.Kind, tx.Category, core.FormatAmount(tx.Amount), tx.Note)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nIncome: %s %s\n", core.FormatAmount(res.TotalIncome), currency)
	fmt.Fprintf(out, "Expense: %s %s\n", core.FormatAmount(res.TotalExpense), currency)
	fmt.Fprintf(out, "Balance: %s %s (%s)\n", filter.FormatBalance(res.Balance), currency, res.Standing())
	return nil
}

func newTxEditCommand() *cobra.Command {
	var in services.EditInput

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change date, category, amount or note of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withLedger(cmd, func(ctx context.Context, _ *config.Config, svc *services.LedgerService) error {
				current, err := svc.Transaction(ctx, id)
				if err != nil {
					return err
				}

				// Fields not given on the command line keep their stored value.
				flags := cmd.Flags()
				if !flags.Changed("date") {
					in.Date = current.Date
				}
				if !flags.Changed("category") {
					in.Category = current.Category
				}
				if !flags.Changed("amount") {
					in.Amount = current.Amount.String()
				}
				if !flags.Changed("note") {
					in.Note = current.Note
				}

				if err := svc.UpdateTransaction(ctx, id, in); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated transaction %d\n", id)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&in.Date, "date", "", "new date as YYYY-MM-DD")
	cmd.Flags().StringVar(&in.Category, "category", "", "new category, must already exist")
	cmd.Flags().StringVar(&in.Amount, "amount", "", "new amount")
	cmd.Flags().StringVar(&in.Note, "note", "", "new note")
	return cmd
}

func newTxDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete one or more transactions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := appstate.New()
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				if _, ok := state.Selected[id]; !ok {
					state = state.Toggle(id)
				}
			}
			return withLedger(cmd, func(ctx context.Context, _ *config.Config, svc *services.LedgerService) error {
				all, err := svc.Transactions(ctx)
				if err != nil {
					return err
				}
				existing := state.Prune(all)

				n, err := svc.DeleteTransactions(ctx, existing.SelectedIDs())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Deleted %d of %d transactions\n", n, len(state.Selected))
				if unknown := missingIDs(state, existing); len(unknown) > 0 {
					fmt.Fprintf(out, "Unknown ids: %s\n", joinIDs(unknown))
				}
				return nil
			})
		},
	}
	return cmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid transaction id %q", raw)
	}
	return id, nil
}

// missingIDs lists the ids selected in requested but absent from kept.
func missingIDs(requested, kept appstate.State) []int64 {
	var out []int64
	for _, id := range requested.SelectedIDs() {
		if _, ok := kept.Selected[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
