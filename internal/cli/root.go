package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/rustyeddy/forward415/config"
	"github.com/rustyeddy/forward415/journal"
	"github.com/spf13/cobra"
)

const version = "0.3.0"

// RootConfig carries the persistent flags to every subcommand.
type RootConfig struct {
	ConfigPath string
	DBPath     string
	CurvePath  string
	LogLevel   string

	log *slog.Logger
}

// Load returns the file configuration, or the defaults when no file is
// given, with the command-line overrides applied.
func (rc *RootConfig) Load(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if rc.ConfigPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(rc.ConfigPath); err != nil {
			return nil, err
		}
	}
	if f := cmd.Flags().Lookup("db"); f != nil && f.Changed {
		cfg.Journal = config.JournalConfig{Type: "sqlite", DBPath: rc.DBPath}
	}
	if rc.CurvePath != "" {
		cfg.Curve = config.CurveConfig{Path: rc.CurvePath}
	}
	return cfg, nil
}

func (rc *RootConfig) Logger() *slog.Logger {
	if rc.log == nil {
		return slog.Default()
	}
	return rc.log
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:           "forward415",
		Short:         "forward415: USD/COP forward credit exposure and what-if simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "./forward415.sqlite", "SQLite journal database")
	cmd.PersistentFlags().StringVar(&rc.CurvePath, "curve", "", "IBR curve file (days;rate), overrides the config")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "info", "Log level: debug|info|warn|error")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var level slog.Level
		if err := level.UnmarshalText([]byte(strings.ToLower(rc.LogLevel))); err != nil {
			return fmt.Errorf("bad --log-level %q", rc.LogLevel)
		}
		rc.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		slog.SetDefault(rc.log)
		return nil
	}

	cmd.AddCommand(
		newSimulateCmd(rc),
		newTermCmd(rc),
		newHolidaysCmd(rc),
		newRateCmd(rc),
		newCounterpartiesCmd(rc),
		newConfigCmd(rc),
		newJournalCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "forward415 %s\n", version)
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openJournal returns nil when journaling is disabled.
func openJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "csv":
		return journal.NewCSV(cfg.RunsFile, cfg.OperationsFile)
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath)
	default:
		return nil, nil
	}
}
