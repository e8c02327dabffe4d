package operation

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the side of the forward from the bank's point of view.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// ParseDirection accepts BUY/SELL and the report's COMPRA/VENTA, in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY", "COMPRA":
		return Buy, nil
	case "SELL", "VENTA":
		return Sell, nil
	default:
		return "", fmt.Errorf("unknown direction %q", s)
	}
}

// Delta is +1 for BUY and -1 otherwise.
func (d Direction) Delta() decimal.Decimal {
	if d == Buy {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(-1)
}

// Record is one forward contract, either vigente or simulated. Raw inputs are
// set by the caller; derived fields are written only by Recalculator, Expose
// and the simulation builder. Nothing is rounded here.
type Record struct {
	CounterpartyID string
	DealID         string
	Direction      Direction
	Simulated      bool

	NotionalBuy   decimal.Decimal
	NotionalSell  decimal.Decimal
	Spot          decimal.Decimal
	ForwardPoints decimal.Decimal

	TradeDate    time.Time
	CutoffDate   time.Time
	MaturityDate time.Time

	FXRate           decimal.Decimal
	ConversionFactor decimal.Decimal

	// Pricing
	ForwardRate    decimal.Decimal
	Term           int
	IBRRate        decimal.Decimal // percent
	DiscountFactor decimal.Decimal
	Right          decimal.Decimal
	Obligation     decimal.Decimal
	FairValue      decimal.Decimal
	Priced         bool

	// Exposure
	TimeFactor              decimal.Decimal
	NotionalEquivalent      decimal.Decimal
	PotentialFutureExposure decimal.Decimal
	MarketValue             decimal.Decimal
}

// ActiveNotional is the buy-side notional for BUY and the sell-side one for
// SELL (vna).
func (r *Record) ActiveNotional() decimal.Decimal {
	if r.Direction == Buy {
		return r.NotionalBuy
	}
	return r.NotionalSell
}
