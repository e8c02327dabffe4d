package cli

import (
	"fmt"

	"github.com/rustyeddy/forward415/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate configuration files",
		Long: `Manage configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  forward415 config init --output forward415.yaml
  forward415 config validate --file forward415.yaml`,
	}

	var output string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			cfg.Curve.Path = "./ibr.csv"
			if err := cfg.SaveToFile(output); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created default configuration: %s\n", output)
			fmt.Fprintf(cmd.OutOrStdout(), "Add counterparties, then run:\n  forward415 simulate --config %s ...\n", output)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", "forward415.yaml", "output config file path")

	var path string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = rc.ConfigPath
			}
			if path == "" {
				return fmt.Errorf("--file is required")
			}
			cfg, err := config.LoadFromFile(path)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Configuration valid: %s\n", path)
			fmt.Fprintf(out, "  Calendar: %s (term floor %d)\n", cfg.Calendar.Jurisdiction, cfg.Engine.TermFloor)
			fmt.Fprintf(out, "  Default FC: %v\n", cfg.Engine.DefaultConversionFactor)
			fmt.Fprintf(out, "  Counterparties: %d\n", len(cfg.Counterparties))
			fmt.Fprintf(out, "  Journal: %s\n", orNone(cfg.Journal.Type))
			return nil
		},
	}
	validateCmd.Flags().StringVarP(&path, "file", "f", "", "path to config file (default: --config)")

	cmd.AddCommand(initCmd, validateCmd)
	return cmd
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
