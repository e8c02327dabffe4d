package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rustyeddy/forward415/engine"
	"github.com/rustyeddy/forward415/operation"
	"github.com/rustyeddy/forward415/simulation"
	"github.com/spf13/cobra"
)

func newSimulateCmd(rc *RootConfig) *cobra.Command {
	var (
		cp        string
		batchPath string
		cutoffStr string

		// simulated order
		direction string
		notional  string
		spot      string
		points    string
		fx        string
		maturity  string
		term      int
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Exposure of a counterparty with one simulated forward added",
		Long: `Load the existing operations from a batch file, add one simulated
forward for the counterparty and print the exposure before and after.

Example:
  forward415 simulate --curve ibr.csv --batch ops.yaml \
    --counterparty 900123456 --direction BUY --notional 1000000 \
    --spot 4100 --maturity 2025-12-04`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cp == "" {
				return fmt.Errorf("--counterparty is required")
			}

			cfg, err := rc.Load(cmd)
			if err != nil {
				return err
			}

			var (
				cutoff time.Time
				rows   []operation.Record
			)
			if batchPath != "" {
				if cutoff, rows, err = loadBatch(batchPath); err != nil {
					return err
				}
			}
			if cutoffStr != "" {
				if cutoff, err = parseDate(cutoffStr); err != nil {
					return fmt.Errorf("bad --cutoff: %w", err)
				}
			}
			if cutoff.IsZero() {
				now := time.Now()
				cutoff = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
			}

			draft, err := buildDraft(direction, notional, spot, points, fx, maturity)
			if err != nil {
				return err
			}
			draft.CutoffDate = cutoff
			if cmd.Flags().Changed("term") {
				draft.Term = &term
			}

			j, err := openJournal(cfg.Journal)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			opts := []engine.Option{engine.WithLogger(rc.Logger())}
			if j != nil {
				defer j.Close()
				opts = append(opts, engine.WithJournal(j))
			}

			e, err := engine.New(cfg, opts...)
			if err != nil {
				return err
			}
			if !e.CurveLoaded() {
				return fmt.Errorf("%w: pass --curve or set curve.path", engine.ErrNoCurve)
			}
			if _, err := e.LoadBatch(cutoff, rows); err != nil {
				return err
			}

			res, err := e.RunSimulation(cp, []simulation.Draft{draft})
			if res.RunID == "" {
				return err
			}
			printRun(cmd.OutOrStdout(), res)
			return err
		},
	}

	cmd.Flags().StringVar(&cp, "counterparty", "", "counterparty tax id (NIT)")
	cmd.Flags().StringVar(&batchPath, "batch", "", "YAML file of existing operations")
	cmd.Flags().StringVar(&cutoffStr, "cutoff", "", "simulation date YYYY-MM-DD (default: batch cutoff, then today)")
	cmd.Flags().StringVar(&direction, "direction", "BUY", "BUY|SELL (COMPRA|VENTA)")
	cmd.Flags().StringVar(&notional, "notional", "", "USD notional")
	cmd.Flags().StringVar(&spot, "spot", "", "spot rate")
	cmd.Flags().StringVar(&points, "points", "0", "forward points")
	cmd.Flags().StringVar(&fx, "fx", "", "COP conversion rate (default: spot)")
	cmd.Flags().StringVar(&maturity, "maturity", "", "maturity date YYYY-MM-DD")
	cmd.Flags().IntVar(&term, "term", 0, "explicit term in business days (skips the calendar)")

	return cmd
}

func buildDraft(direction, notional, spot, points, fx, maturity string) (simulation.Draft, error) {
	var (
		d   simulation.Draft
		err error
	)
	if d.Direction, err = operation.ParseDirection(direction); err != nil {
		return d, err
	}
	if d.Notional, err = parseAmount(notional); err != nil {
		return d, fmt.Errorf("bad --notional: %w", err)
	}
	if !d.Notional.IsPositive() {
		return d, fmt.Errorf("--notional must be positive")
	}
	if d.Spot, err = parseAmount(spot); err != nil {
		return d, fmt.Errorf("bad --spot: %w", err)
	}
	if d.ForwardPoints, err = parseAmount(points); err != nil {
		return d, fmt.Errorf("bad --points: %w", err)
	}
	if d.FXRate, err = parseAmount(fx); err != nil {
		return d, fmt.Errorf("bad --fx: %w", err)
	}
	if d.MaturityDate, err = parseDate(maturity); err != nil {
		return d, fmt.Errorf("bad --maturity: %w", err)
	}
	return d, nil
}

func printRun(w io.Writer, res engine.RunResult) {
	line := func(label, value string) { fmt.Fprintf(w, "  %-19s%s\n", label+":", value) }

	r := res.Result
	fc := r.ConversionFactor.String()
	if res.Counterparty.DefaultFC {
		fc += " (default)"
	}
	fmt.Fprintf(w, "Run %s\n", res.RunID)
	line("Currency pair", res.CurrencyPair)
	line("Counterparty", strings.TrimSpace(res.Counterparty.ID+" "+res.Counterparty.Name))
	line("Conversion factor", fc)
	line("Operations", fmt.Sprintf("%d (%d simulated)", r.Operations, res.SimulatedCount))
	for _, s := range res.Simulated {
		line("Simulated "+s.DealID, fmt.Sprintf("%s term=%d t=%s vne=%s epfp=%s vr=%s",
			s.Direction, s.Term, s.TimeFactor.StringFixed(6),
			s.NotionalEquivalent.StringFixed(2), s.PotentialFutureExposure.StringFixed(2),
			s.MarketValue.StringFixed(2)))
	}
	line("Total VNE", r.TotalNotionalEquivalent.StringFixed(2))
	line("Total VR", r.TotalMarketValue.StringFixed(2))
	line("PFE", r.TotalPotentialFutureExposure.StringFixed(2))
	line("mgp", r.MarketGainPotential.StringFixed(6))
	line("crp", r.CurrentReplacementPrice.StringFixed(2))
	line("Total exposure", r.Total.StringFixed(2))
	line("Outstanding", res.Outstanding.Total.StringFixed(2))

	a := res.Availability
	if a.CreditLine.IsPositive() {
		line("Limit", a.Limit.StringFixed(2))
		line("Available", a.Available.StringFixed(2))
		line("Utilization", a.UtilizationPct.StringFixed(2)+"%")
		if a.Exceeded() {
			fmt.Fprintln(w, "  LIMIT EXCEEDED")
		}
	}
}
