package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rustyeddy/forward415/operation"
)

const runColumns = `run_id, created, counterparty_id, cutoff_date, conversion_factor, default_fc,
	existing, simulated, total_vne, total_vr, pfe, mgp, crp, total,
	outstanding, credit_limit, available`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		r      Run
		cutoff string
	)
	err := s.Scan(
		&r.RunID, &r.Created, &r.CounterpartyID, &cutoff, &r.ConversionFactor, &r.DefaultFC,
		&r.Existing, &r.Simulated, &r.TotalNotionalEquivalent, &r.TotalMarketValue,
		&r.PotentialFutureExposure, &r.MarketGainPotential, &r.CurrentReplacementPrice, &r.Total,
		&r.Outstanding, &r.Limit, &r.Available,
	)
	if err != nil {
		return Run{}, err
	}
	if r.CutoffDate, err = parseDate(cutoff); err != nil {
		return Run{}, fmt.Errorf("run %s: cutoff date: %w", r.RunID, err)
	}
	return r, nil
}

// GetRun returns a single run by id.
func (j *SQLite) GetRun(ctx context.Context, runID string) (Run, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("run %q: %w", runID, ErrRunNotFound)
		}
		return Run{}, err
	}
	return r, nil
}

// ListRuns returns runs oldest first. An empty counterparty lists every run.
func (j *SQLite) ListRuns(ctx context.Context, counterparty string) ([]Run, error) {
	q := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if counterparty != "" {
		q += ` WHERE counterparty_id = ?`
		args = append(args, counterparty)
	}
	q += ` ORDER BY created ASC, run_id ASC`

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListOperations returns the operations journaled with a run in insertion
// order: existing rows first, then the simulated ones.
func (j *SQLite) ListOperations(ctx context.Context, runID string) ([]operation.Record, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT deal_id, counterparty_id, simulated, direction, notional_buy, notional_sell,
		       spot, forward_points, fx_rate, cutoff_date, maturity_date, term, forward_rate,
		       ibr_rate, discount_factor, right_value, obligation, fair_value, priced,
		       conversion_factor, time_factor, vne, epfp, vr
		FROM operations
		WHERE run_id = ?
		ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []operation.Record
	for rows.Next() {
		var (
			rec              operation.Record
			dir              string
			cutoff, maturity string
		)
		if err := rows.Scan(
			&rec.DealID, &rec.CounterpartyID, &rec.Simulated, &dir,
			&rec.NotionalBuy, &rec.NotionalSell, &rec.Spot, &rec.ForwardPoints, &rec.FXRate,
			&cutoff, &maturity, &rec.Term, &rec.ForwardRate,
			&rec.IBRRate, &rec.DiscountFactor, &rec.Right, &rec.Obligation, &rec.FairValue, &rec.Priced,
			&rec.ConversionFactor, &rec.TimeFactor, &rec.NotionalEquivalent,
			&rec.PotentialFutureExposure, &rec.MarketValue,
		); err != nil {
			return nil, err
		}
		rec.Direction = operation.Direction(dir)
		if rec.CutoffDate, err = parseDate(cutoff); err != nil {
			return nil, fmt.Errorf("deal %s: cutoff date: %w", rec.DealID, err)
		}
		if rec.MaturityDate, err = parseDate(maturity); err != nil {
			return nil, fmt.Errorf("deal %s: maturity date: %w", rec.DealID, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
