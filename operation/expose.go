package operation

import (
	"math"

	"github.com/shopspring/decimal"
)

// MaxTermDays caps the time factor at one business year.
const MaxTermDays = 252

// TimeFactor is sqrt(min(term, 252) / 252), or zero for a negative term.
func TimeFactor(term int) decimal.Decimal {
	if term < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(math.Sqrt(float64(min(term, MaxTermDays)) / MaxTermDays))
}

// Expose fills the exposure fields of rec (t, vne, EPFp, vr) under the
// conversion factor fc. Existing and simulated operations share this path so
// both follow the same regulatory basis.
func Expose(rec *Record, fc decimal.Decimal) {
	delta := rec.Direction.Delta()
	vna := rec.ActiveNotional()

	rec.ConversionFactor = fc
	rec.TimeFactor = TimeFactor(rec.Term)
	rec.NotionalEquivalent = vna.Mul(rec.FXRate).Mul(delta).Mul(rec.TimeFactor)
	rec.PotentialFutureExposure = fc.Mul(rec.NotionalEquivalent)

	if rec.Priced {
		rec.MarketValue = rec.Right.Sub(rec.Obligation)
	} else {
		rec.MarketValue = rec.ForwardPoints.Mul(vna).Mul(delta)
	}
}
