package exposure

import (
	"math"

	"github.com/rustyeddy/forward415/operation"
	"github.com/shopspring/decimal"
)

const (
	mgpFloor  = 0.05
	mgpWeight = 0.95
	mgpScale  = 1.9
)

var exposureAlpha = decimal.RequireFromString("1.4")

// Result is the counterparty exposure with every intermediate figure kept
// for audit against the report.
type Result struct {
	Operations int

	TotalNotionalEquivalent      decimal.Decimal // ΣVNE
	TotalMarketValue             decimal.Decimal // ΣVR
	ConversionFactor             decimal.Decimal
	TotalPotentialFutureExposure decimal.Decimal // |ΣVNE * fc|
	MarketGainPotential          decimal.Decimal
	CurrentReplacementPrice      decimal.Decimal
	Total                        decimal.Decimal
}

// Aggregate computes the credit exposure of records under the counterparty
// conversion factor fc. The factor is applied once to the aggregate, not per
// record. Records are read only.
func Aggregate(records []operation.Record, fc decimal.Decimal) Result {
	res := Result{Operations: len(records), ConversionFactor: fc}

	for i := range records {
		res.TotalNotionalEquivalent = res.TotalNotionalEquivalent.Add(records[i].NotionalEquivalent)
		res.TotalMarketValue = res.TotalMarketValue.Add(records[i].MarketValue)
	}

	pfe := res.TotalNotionalEquivalent.Mul(fc).Abs()
	res.TotalPotentialFutureExposure = pfe
	res.MarketGainPotential = marketGainPotential(res.TotalMarketValue, pfe)
	res.CurrentReplacementPrice = decimal.Max(res.TotalMarketValue, decimal.Zero)
	res.Total = exposureAlpha.Mul(
		res.CurrentReplacementPrice.Add(res.MarketGainPotential.Mul(pfe)),
	)
	return res
}

// Total is Aggregate reduced to the scalar exposure.
func Total(records []operation.Record, fc decimal.Decimal) decimal.Decimal {
	return Aggregate(records, fc).Total
}

// Combine concatenates existing and simulated records into a new slice.
func Combine(existing, simulated []operation.Record) []operation.Record {
	out := make([]operation.Record, 0, len(existing)+len(simulated))
	out = append(out, existing...)
	return append(out, simulated...)
}

// marketGainPotential is min(0.05 + 0.95*exp(vr/(1.9*pfe)), 1), and zero
// when there is no potential future exposure. A pfe too small for float64
// counts as none.
func marketGainPotential(vr, pfe decimal.Decimal) decimal.Decimal {
	p := pfe.InexactFloat64()
	if !pfe.IsPositive() || p <= 0 {
		return decimal.Zero
	}
	x := vr.InexactFloat64() / (mgpScale * p)
	if math.IsNaN(x) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(math.Min(mgpFloor+mgpWeight*math.Exp(x), 1))
}
