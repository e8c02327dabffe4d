package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/forward415/operation"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// batchFile is the YAML form of a batch of existing operations. Amounts are
// strings so they reach decimal without passing through float64.
type batchFile struct {
	Cutoff     string     `yaml:"cutoff"`
	Operations []batchRow `yaml:"operations"`
}

type batchRow struct {
	Counterparty  string `yaml:"counterparty"`
	Deal          string `yaml:"deal"`
	Direction     string `yaml:"direction"`
	NotionalBuy   string `yaml:"notional_buy"`
	NotionalSell  string `yaml:"notional_sell"`
	Spot          string `yaml:"spot"`
	ForwardPoints string `yaml:"forward_points"`
	FXRate        string `yaml:"fx_rate"`
	TradeDate     string `yaml:"trade_date"`
	Maturity      string `yaml:"maturity"`
}

// loadBatch reads a batch file. An empty cutoff in the file stays zero.
func loadBatch(path string) (time.Time, []operation.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("read batch: %w", err)
	}

	var bf batchFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return time.Time{}, nil, fmt.Errorf("parse batch: %w", err)
	}

	cutoff, err := parseDate(bf.Cutoff)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("batch cutoff: %w", err)
	}

	recs := make([]operation.Record, 0, len(bf.Operations))
	for i, row := range bf.Operations {
		rec, err := row.record()
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("batch row %d (%s): %w", i+1, row.Deal, err)
		}
		recs = append(recs, rec)
	}
	return cutoff, recs, nil
}

func (r batchRow) record() (operation.Record, error) {
	dir, err := operation.ParseDirection(r.Direction)
	if err != nil {
		return operation.Record{}, err
	}
	rec := operation.Record{
		CounterpartyID: r.Counterparty,
		DealID:         r.Deal,
		Direction:      dir,
	}

	for _, f := range []struct {
		name string
		in   string
		out  *decimal.Decimal
	}{
		{"notional_buy", r.NotionalBuy, &rec.NotionalBuy},
		{"notional_sell", r.NotionalSell, &rec.NotionalSell},
		{"spot", r.Spot, &rec.Spot},
		{"forward_points", r.ForwardPoints, &rec.ForwardPoints},
		{"fx_rate", r.FXRate, &rec.FXRate},
	} {
		if *f.out, err = parseAmount(f.in); err != nil {
			return operation.Record{}, fmt.Errorf("%s: %w", f.name, err)
		}
	}

	if rec.TradeDate, err = parseDate(r.TradeDate); err != nil {
		return operation.Record{}, fmt.Errorf("trade_date: %w", err)
	}
	if rec.MaturityDate, err = parseDate(r.Maturity); err != nil {
		return operation.Record{}, fmt.Errorf("maturity: %w", err)
	}
	return rec, nil
}

// parseAmount treats a blank value as zero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// parseDate treats a blank value as a missing date.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, s)
}
