package exposure

import "github.com/shopspring/decimal"

// Availability is the room left on a counterparty's credit line.
type Availability struct {
	CreditLine decimal.Decimal
	Cushion    decimal.Decimal
	Limit      decimal.Decimal // line * (1 - cushion)

	Outstanding    decimal.Decimal // existing operations only
	WithSimulation decimal.Decimal
	Incremental    decimal.Decimal // WithSimulation - Outstanding
	Available      decimal.Decimal // Limit - WithSimulation
	UtilizationPct decimal.Decimal
}

func ComputeAvailability(line, cushion, outstanding, withSimulation decimal.Decimal) Availability {
	limit := line.Mul(decimal.NewFromInt(1).Sub(cushion))
	a := Availability{
		CreditLine:     line,
		Cushion:        cushion,
		Limit:          limit,
		Outstanding:    outstanding,
		WithSimulation: withSimulation,
		Incremental:    withSimulation.Sub(outstanding),
		Available:      limit.Sub(withSimulation),
	}
	if limit.IsPositive() {
		a.UtilizationPct = withSimulation.Div(limit).Mul(decimal.NewFromInt(100))
	}
	return a
}

// Exceeded reports whether the simulated exposure is over the limit.
func (a Availability) Exceeded() bool {
	return a.Available.IsNegative()
}
