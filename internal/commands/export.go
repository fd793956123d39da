package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"finance/internal/config"
	"finance/internal/services"
)

func newExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.csv>",
		Short: "Write all transactions to a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, func(ctx context.Context, _ *config.Config, svc *services.LedgerService) error {
				n, err := svc.Export(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions to %s\n", n, args[0])
				return nil
			})
		},
	}
}
