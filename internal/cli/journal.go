package cli

import (
	"fmt"

	"github.com/rustyeddy/forward415/journal"
	"github.com/spf13/cobra"
)

func newJournalCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Query the simulation journal",
		Long: `Query recorded simulation runs from the SQLite journal.

Subcommands:
  runs - List runs, optionally for one counterparty
  run  - Show a run and its operations

Examples:
  forward415 journal runs --counterparty 900123456
  forward415 journal run <run-id>`,
	}

	var cp string
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openSQLite(rc, cmd)
			if err != nil {
				return err
			}
			defer j.Close()

			runs, err := j.ListRuns(cmd.Context(), cp)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no runs")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), journal.FormatRuns(runs))
			return nil
		},
	}
	runsCmd.Flags().StringVar(&cp, "counterparty", "", "only runs of this counterparty")

	runCmd := &cobra.Command{
		Use:   "run <run-id>",
		Short: "Show a run and its operations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openSQLite(rc, cmd)
			if err != nil {
				return err
			}
			defer j.Close()

			run, err := j.GetRun(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get run: %w", err)
			}
			ops, err := j.ListOperations(cmd.Context(), run.RunID)
			if err != nil {
				return fmt.Errorf("list operations: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), journal.FormatRun(run))
			fmt.Fprint(cmd.OutOrStdout(), journal.FormatOperations(ops))
			return nil
		},
	}

	cmd.AddCommand(runsCmd, runCmd)
	return cmd
}

// openSQLite opens the journal database: --db when given, else the
// configured db_path.
func openSQLite(rc *RootConfig, cmd *cobra.Command) (*journal.SQLite, error) {
	path := rc.DBPath
	if f := cmd.Flags().Lookup("db"); f == nil || !f.Changed {
		cfg, err := rc.Load(cmd)
		if err != nil {
			return nil, err
		}
		if cfg.Journal.Type == "sqlite" && cfg.Journal.DBPath != "" {
			path = cfg.Journal.DBPath
		}
	}
	j, err := journal.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}
