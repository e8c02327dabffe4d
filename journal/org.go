package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/forward415/operation"
)

// FormatRun renders a Run as an Org-mode block. Structured facts go in the
// PROPERTIES drawer so runs stay searchable after pasting.
func FormatRun(r Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Run: %s (%s)\n", r.CounterpartyID, shortID(r.RunID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":RUN_ID: %s\n", r.RunID)
	fmt.Fprintf(&b, ":COUNTERPARTY: %s\n", r.CounterpartyID)
	fmt.Fprintf(&b, ":CREATED: %s\n", r.Created.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":CUTOFF: %s\n", orUnknown(dateString(r.CutoffDate)))
	fc := r.ConversionFactor.String()
	if r.DefaultFC {
		fc += " (default)"
	}
	fmt.Fprintf(&b, ":FC: %s\n", fc)
	fmt.Fprintf(&b, ":EXISTING: %d\n", r.Existing)
	fmt.Fprintf(&b, ":SIMULATED: %d\n", r.Simulated)
	b.WriteString(":END:\n\n")

	b.WriteString("| Item | Value |\n")
	b.WriteString("|------+-------|\n")
	for _, row := range [][2]string{
		{"Total VNE", r.TotalNotionalEquivalent.StringFixed(2)},
		{"Total VR", r.TotalMarketValue.StringFixed(2)},
		{"PFE", r.PotentialFutureExposure.StringFixed(2)},
		{"mgp", r.MarketGainPotential.StringFixed(6)},
		{"crp", r.CurrentReplacementPrice.StringFixed(2)},
		{"Total exposure", r.Total.StringFixed(2)},
		{"Outstanding", r.Outstanding.StringFixed(2)},
		{"Limit", r.Limit.StringFixed(2)},
		{"Available", r.Available.StringFixed(2)},
	} {
		fmt.Fprintf(&b, "| %s | %s |\n", row[0], row[1])
	}
	return b.String()
}

// FormatRuns renders multiple runs separated by blank lines.
func FormatRuns(runs []Run) string {
	var b strings.Builder
	for i, r := range runs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatRun(r))
	}
	return b.String()
}

// FormatOperations renders the operations of a run as an Org table.
func FormatOperations(recs []operation.Record) string {
	var b strings.Builder
	b.WriteString("| Deal | Sim | Dir | Notional | Term | t | VNE | EPFp | VR |\n")
	b.WriteString("|------+-----+-----+----------+------+---+-----+------+----|\n")
	for _, rec := range recs {
		sim := ""
		if rec.Simulated {
			sim = "x"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d | %s | %s | %s | %s |\n",
			rec.DealID, sim, rec.Direction,
			rec.ActiveNotional().StringFixed(2),
			rec.Term,
			rec.TimeFactor.StringFixed(6),
			rec.NotionalEquivalent.StringFixed(2),
			rec.PotentialFutureExposure.StringFixed(2),
			rec.MarketValue.StringFixed(2),
		)
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}

func orUnknown(s string) string {
	if s == "" {
		return "(unknown)"
	}
	return s
}
