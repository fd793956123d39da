package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"finance/internal/cli"
	"finance/internal/config"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	configCmd.AddCommand(newConfigSaveCommand())
	return configCmd
}

func newConfigSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save <file.yaml>",
		Short: "Write the effective configuration to a YAML file usable as FINANCE_CONFIG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadAndValidateConfig()
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", args[0])
			return nil
		},
	}
}
