package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"finance/internal/backend"
	"finance/internal/buildinfo"
	"finance/internal/cli"
	"finance/internal/config"
	applog "finance/internal/log"
	"finance/internal/services"
	"finance/internal/trace"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "finance",
		Short:   "Personal income and expense ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newCategoryCommand())
	rootCmd.AddCommand(newTxCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "finance %s\n", cmd.Root().Version)
		},
	}
}

// withLedger opens the configured store for the duration of fn.
func withLedger(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, svc *services.LedgerService) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	logger, err := cli.SetupLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if cfg.DataBackend == string(backend.MemoryBackend) {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: memory backend does not keep data between commands")
	}
	ctx, logger, done := trace.Start(ctx, logger, cmd.CommandPath())
	defer func() { done(err) }()

	res, err := cli.InitBackend(ctx, logger, cfg)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := res.Cleanup(); cerr != nil {
			logger.ErrorContext(ctx, "Failed to close store", applog.FieldError, cerr)
		}
	}()

	return fn(ctx, cfg, services.NewLedgerService(res.Store, services.WithLogger(logger)))
}
