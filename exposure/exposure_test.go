package exposure

import (
	"math"
	"testing"

	"github.com/rustyeddy/forward415/operation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func rec(vne, vr string) operation.Record {
	return operation.Record{NotionalEquivalent: d(vne), MarketValue: d(vr)}
}

func TestAggregate_EndToEnd(t *testing.T) {
	t.Parallel()

	existing := []operation.Record{rec("300000", "0")}
	simulated := operation.Record{
		Direction:   operation.Buy,
		NotionalBuy: d("1000000"),
		Spot:        d("4100"),
		FXRate:      d("4100"),
		Term:        21,
	}
	operation.Expose(&simulated, d("0.12"))

	res := Aggregate(Combine(existing, []operation.Record{simulated}), d("0.12"))

	assert.Equal(t, 2, res.Operations)
	assert.InDelta(t, 1183868051.84, res.TotalNotionalEquivalent.InexactFloat64(), 0.005)
	assert.InDelta(t, 142064166.22, res.TotalPotentialFutureExposure.InexactFloat64(), 0.005)
	assert.True(t, res.MarketGainPotential.Equal(d("1")))
	assert.True(t, res.CurrentReplacementPrice.IsZero())
	assert.InDelta(t, 1.4*142064166.2206, res.Total.InexactFloat64(), 0.01)
}

func TestAggregate_ZeroPFE(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		records []operation.Record
		fc      string
		crp     string
	}{
		{"no records", nil, "0.12", "0"},
		{"zero notional equivalent", []operation.Record{rec("0", "500")}, "0.12", "500"},
		{"offsetting", []operation.Record{rec("1000", "-10"), rec("-1000", "-5")}, "0.12", "0"},
		{"zero fc", []operation.Record{rec("1000", "0")}, "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res Result
			require.NotPanics(t, func() { res = Aggregate(tt.records, d(tt.fc)) })
			assert.True(t, res.TotalPotentialFutureExposure.IsZero())
			assert.True(t, res.MarketGainPotential.IsZero())
			assert.True(t, res.CurrentReplacementPrice.Equal(d(tt.crp)))
			assert.True(t, res.Total.Equal(d("1.4").Mul(d(tt.crp))))
		})
	}
}

func TestAggregate_SubnormalPFE(t *testing.T) {
	t.Parallel()

	for _, vr := range []string{"0", "-10", "10"} {
		t.Run("vr="+vr, func(t *testing.T) {
			var res Result
			require.NotPanics(t, func() { res = Aggregate([]operation.Record{rec("1e-330", vr)}, d("0.12")) })
			assert.True(t, res.TotalPotentialFutureExposure.IsPositive())
			assert.True(t, res.MarketGainPotential.IsZero())
		})
	}
}

func TestAggregate_Formula(t *testing.T) {
	t.Parallel()

	records := []operation.Record{
		rec("-2500000", "-40000"),
		rec("1000000", "15000"),
	}
	res := Aggregate(records, d("0.1"))

	pfe := 150000.0
	vr := -25000.0
	mgp := math.Min(0.05+0.95*math.Exp(vr/(1.9*pfe)), 1)

	assert.True(t, res.TotalNotionalEquivalent.Equal(d("-1500000")))
	assert.True(t, res.TotalMarketValue.Equal(d("-25000")))
	assert.True(t, res.TotalPotentialFutureExposure.Equal(d("150000")))
	assert.InDelta(t, mgp, res.MarketGainPotential.InexactFloat64(), 1e-12)
	assert.True(t, res.CurrentReplacementPrice.IsZero())
	assert.InDelta(t, 1.4*mgp*pfe, res.Total.InexactFloat64(), 1e-6)
}

func TestAggregate_PositiveMarketValueCapsMGP(t *testing.T) {
	t.Parallel()

	res := Aggregate([]operation.Record{rec("1000", "1e9")}, d("0.5"))
	assert.True(t, res.MarketGainPotential.Equal(d("1")))
	assert.True(t, res.CurrentReplacementPrice.Equal(d("1e9")))
	assert.True(t, res.Total.Equal(d("1.4").Mul(d("1e9").Add(d("500")))))
}

func TestAggregate_PureAndRepeatable(t *testing.T) {
	t.Parallel()

	records := []operation.Record{rec("123456.789", "-321.5"), rec("-23456.1", "99.25")}
	before := append([]operation.Record(nil), records...)

	a := Total(records, d("0.07"))
	b := Total(records, d("0.07"))

	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, before, records)
}

func TestCombine_DoesNotAlias(t *testing.T) {
	t.Parallel()

	existing := make([]operation.Record, 1, 4)
	existing[0] = rec("1", "1")
	sims := []operation.Record{rec("2", "2")}

	all := Combine(existing, sims)
	require.Len(t, all, 2)
	all[0].DealID = "changed"
	assert.Empty(t, existing[0].DealID)
	assert.Len(t, existing, 1)
}

func TestComputeAvailability(t *testing.T) {
	t.Parallel()

	a := ComputeAvailability(d("5000000000"), d("0.10"), d("100000000"), d("400000000"))
	assert.True(t, a.Limit.Equal(d("4500000000")))
	assert.True(t, a.Incremental.Equal(d("300000000")))
	assert.True(t, a.Available.Equal(d("4100000000")))
	assert.InDelta(t, 8.888888, a.UtilizationPct.InexactFloat64(), 1e-5)
	assert.False(t, a.Exceeded())

	over := ComputeAvailability(d("100"), d("0"), d("50"), d("150"))
	assert.True(t, over.Exceeded())

	none := ComputeAvailability(d("0"), d("0.1"), d("0"), d("10"))
	assert.True(t, none.UtilizationPct.IsZero())
}
