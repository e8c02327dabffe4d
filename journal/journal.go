package journal

import (
	"errors"
	"time"

	"github.com/rustyeddy/forward415/operation"
	"github.com/shopspring/decimal"
)

var ErrRunNotFound = errors.New("journal: run not found")

// Run is the audit row of one simulation: what was aggregated and under which
// conversion factor.
type Run struct {
	RunID            string
	Created          time.Time
	CounterpartyID   string
	CutoffDate       time.Time
	ConversionFactor decimal.Decimal
	DefaultFC        bool

	Existing  int
	Simulated int

	TotalNotionalEquivalent decimal.Decimal
	TotalMarketValue        decimal.Decimal
	PotentialFutureExposure decimal.Decimal
	MarketGainPotential     decimal.Decimal
	CurrentReplacementPrice decimal.Decimal
	Total                   decimal.Decimal

	// Outstanding is the exposure of the existing operations alone.
	Outstanding decimal.Decimal
	Limit       decimal.Decimal
	Available   decimal.Decimal
}

type Journal interface {
	RecordRun(Run) error
	RecordOperation(runID string, rec operation.Record) error
	Close() error
}
