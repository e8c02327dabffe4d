package engine

import (
	"fmt"

	"github.com/rustyeddy/forward415/counterparty"
	"github.com/rustyeddy/forward415/exposure"
	"github.com/rustyeddy/forward415/journal"
	"github.com/rustyeddy/forward415/operation"
	"github.com/rustyeddy/forward415/pkg/id"
	"github.com/rustyeddy/forward415/simulation"
)

// RunResult is the outcome of one simulation for one counterparty.
type RunResult struct {
	RunID        string
	CurrencyPair string
	Counterparty counterparty.Context

	// Result covers the existing operations plus the simulated ones.
	Result exposure.Result
	// Outstanding covers the existing operations alone.
	Outstanding    exposure.Result
	SimulatedCount int
	Simulated      []operation.Record
	Availability   exposure.Availability
}

// Outstanding returns the exposure of the existing operations of cp under
// its conversion factor.
func (e *Engine) Outstanding(cp string) exposure.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx := e.registry.Context(cp)
	return exposure.Aggregate(e.recordsLocked(ctx.ID), ctx.ConversionFactor)
}

// RunSimulation builds drafts for cp and aggregates them with cp's existing
// operations. When a journal is configured the run and every operation in it
// are recorded; a journal failure is returned next to a complete result.
func (e *Engine) RunSimulation(cp string, drafts []simulation.Draft) (RunResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.curves.Loaded() {
		return RunResult{}, ErrNoCurve
	}

	ctx := e.registry.Context(cp)
	pending := make([]simulation.Draft, len(drafts))
	for i, d := range drafts {
		if d.CutoffDate.IsZero() {
			d.CutoffDate = e.cutoff
		}
		pending[i] = d
	}

	existing := e.recordsLocked(ctx.ID)
	simulated := e.builder.BuildAll(pending, ctx)
	combined := exposure.Combine(existing, simulated)

	res := RunResult{
		RunID:          id.New(),
		CurrencyPair:   e.pair,
		Counterparty:   ctx,
		Result:         exposure.Aggregate(combined, ctx.ConversionFactor),
		Outstanding:    exposure.Aggregate(existing, ctx.ConversionFactor),
		SimulatedCount: len(simulated),
		Simulated:      simulated,
	}

	info, _ := e.registry.Get(ctx.ID)
	res.Availability = exposure.ComputeAvailability(info.CreditLine, info.Cushion,
		res.Outstanding.Total, res.Result.Total)

	e.log.Info("simulation run",
		"run", res.RunID, "counterparty", ctx.ID, "existing", len(existing),
		"simulated", res.SimulatedCount, "total", res.Result.Total.StringFixed(2),
		"available", res.Availability.Available.StringFixed(2))
	if res.Availability.Exceeded() && info.CreditLine.IsPositive() {
		e.log.Warn("credit limit exceeded", "run", res.RunID, "counterparty", ctx.ID,
			"limit", res.Availability.Limit.StringFixed(2))
	}

	if e.journal != nil {
		if err := e.record(res, combined); err != nil {
			return res, fmt.Errorf("journal run %s: %w", res.RunID, err)
		}
	}
	return res, nil
}

func (e *Engine) record(res RunResult, combined []operation.Record) error {
	err := e.journal.RecordRun(journal.Run{
		RunID:                   res.RunID,
		Created:                 e.now(),
		CounterpartyID:          res.Counterparty.ID,
		CutoffDate:              e.cutoff,
		ConversionFactor:        res.Counterparty.ConversionFactor,
		DefaultFC:               res.Counterparty.DefaultFC,
		Existing:                res.Outstanding.Operations,
		Simulated:               res.SimulatedCount,
		TotalNotionalEquivalent: res.Result.TotalNotionalEquivalent,
		TotalMarketValue:        res.Result.TotalMarketValue,
		PotentialFutureExposure: res.Result.TotalPotentialFutureExposure,
		MarketGainPotential:     res.Result.MarketGainPotential,
		CurrentReplacementPrice: res.Result.CurrentReplacementPrice,
		Total:                   res.Result.Total,
		Outstanding:             res.Outstanding.Total,
		Limit:                   res.Availability.Limit,
		Available:               res.Availability.Available,
	})
	if err != nil {
		return err
	}
	for _, rec := range combined {
		if err := e.journal.RecordOperation(res.RunID, rec); err != nil {
			return err
		}
	}
	return nil
}
