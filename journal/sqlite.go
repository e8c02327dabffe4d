package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/forward415/operation"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r Run) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, counterparty_id, cutoff_date, conversion_factor, default_fc,
		 existing, simulated, total_vne, total_vr, pfe, mgp, crp, total,
		 outstanding, credit_limit, available)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created.UTC(), r.CounterpartyID, dateString(r.CutoffDate),
		r.ConversionFactor, r.DefaultFC, r.Existing, r.Simulated,
		r.TotalNotionalEquivalent, r.TotalMarketValue, r.PotentialFutureExposure,
		r.MarketGainPotential, r.CurrentReplacementPrice, r.Total,
		r.Outstanding, r.Limit, r.Available,
	)
	return err
}

func (j *SQLite) RecordOperation(runID string, rec operation.Record) error {
	_, err := j.db.Exec(`
		INSERT INTO operations
		(run_id, deal_id, counterparty_id, simulated, direction, notional_buy, notional_sell,
		 spot, forward_points, fx_rate, cutoff_date, maturity_date, term, forward_rate,
		 ibr_rate, discount_factor, right_value, obligation, fair_value, priced,
		 conversion_factor, time_factor, vne, epfp, vr)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, rec.DealID, rec.CounterpartyID, rec.Simulated, string(rec.Direction),
		rec.NotionalBuy, rec.NotionalSell, rec.Spot, rec.ForwardPoints, rec.FXRate,
		dateString(rec.CutoffDate), dateString(rec.MaturityDate), rec.Term, rec.ForwardRate,
		rec.IBRRate, rec.DiscountFactor, rec.Right, rec.Obligation, rec.FairValue, rec.Priced,
		rec.ConversionFactor, rec.TimeFactor, rec.NotionalEquivalent,
		rec.PotentialFutureExposure, rec.MarketValue,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func dateString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, s)
}
