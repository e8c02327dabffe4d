package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rustyeddy/forward415/engine"
	"github.com/spf13/cobra"
)

func newTermCmd(rc *RootConfig) *cobra.Command {
	var fromStr, toStr string

	cmd := &cobra.Command{
		Use:     "term",
		Short:   "Business days between two dates and the adjusted term",
		Example: `  forward415 term --from 2025-11-04 --to 2025-12-04`,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseDate(fromStr)
			if err != nil {
				return fmt.Errorf("bad --from: %w", err)
			}
			to, err := parseDate(toStr)
			if err != nil {
				return fmt.Errorf("bad --to: %w", err)
			}

			cfg, err := rc.Load(cmd)
			if err != nil {
				return err
			}
			cal, err := engine.NewCalendar(cfg, rc.Logger())
			if err != nil {
				return err
			}

			raw := cal.CountBusinessDays(from, to)
			fmt.Fprintf(cmd.OutOrStdout(), "business days: %d\n", raw)
			fmt.Fprintf(cmd.OutOrStdout(), "term:          %d\n", cal.Term(from, to))
			return nil
		},
	}
	cmd.Flags().StringVar(&fromStr, "from", "", "start date YYYY-MM-DD (cutoff)")
	cmd.Flags().StringVar(&toStr, "to", "", "end date YYYY-MM-DD (maturity)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newHolidaysCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "holidays [year]",
		Short: "List the holidays the calendar uses for a year",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year := time.Now().Year()
			if len(args) == 1 {
				y, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("bad year %q", args[0])
				}
				year = y
			}

			cfg, err := rc.Load(cmd)
			if err != nil {
				return err
			}
			cal, err := engine.NewCalendar(cfg, rc.Logger())
			if err != nil {
				return err
			}
			for _, h := range cal.Holidays(year) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", h.Format(time.DateOnly), h.Weekday())
			}
			return nil
		},
	}
}

func newRateCmd(rc *RootConfig) *cobra.Command {
	var tenor int

	cmd := &cobra.Command{
		Use:     "rate",
		Short:   "IBR percentage for a tenor in days (0 when the curve has no such tenor)",
		Long:    "Without --tenor every point of the curve is listed as tenor and percentage.",
		Example: `  forward415 rate --curve ibr.csv --tenor 21`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rc.Load(cmd)
			if err != nil {
				return err
			}
			e, err := engine.New(cfg, engine.WithLogger(rc.Logger()))
			if err != nil {
				return err
			}
			if !e.CurveLoaded() {
				return fmt.Errorf("%w: pass --curve or set curve.path", engine.ErrNoCurve)
			}
			if cmd.Flags().Changed("tenor") {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", e.RateForTenor(tenor).String())
				return nil
			}
			c := e.Curve()
			for _, days := range c.Tenors() {
				fmt.Fprintf(cmd.OutOrStdout(), "%4d %s\n", days, c.PercentForTenor(days).String())
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&tenor, "tenor", 0, "tenor in days")
	return cmd
}

func newCounterpartiesCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "counterparties",
		Short: "List configured counterparties with their factor, line and cushion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rc.Load(cmd)
			if err != nil {
				return err
			}
			e, err := engine.New(cfg, engine.WithLogger(rc.Logger()))
			if err != nil {
				return err
			}

			reg := e.Registry()
			all := reg.All()
			if len(all) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no counterparties")
				return nil
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "| NIT | Name | FC | Credit line | Cushion |\n")
			for _, c := range all {
				fc := c.ConversionFactor.String()
				if c.ConversionFactor.IsZero() {
					fc = reg.DefaultFC().String() + " (default)"
				}
				fmt.Fprintf(out, "| %s | %s | %s | %s | %s |\n",
					c.ID, c.Name, fc, c.CreditLine.StringFixed(2), c.Cushion.String())
			}
			return nil
		},
	}
}
