package operation

import (
	"log/slog"
	"time"

	"github.com/rustyeddy/forward415/calendar"
	"github.com/rustyeddy/forward415/curve"
	"github.com/shopspring/decimal"
)

var (
	one         = decimal.NewFromInt(1)
	hundred     = decimal.NewFromInt(100)
	daysPerYear = decimal.NewFromInt(360)
)

// TermCounter computes the adjusted business-day term between two dates.
// *calendar.Calendar satisfies it.
type TermCounter interface {
	Term(start, end time.Time) int
}

// Edit carries the raw inputs a caller may change on a record. Nil fields are
// left untouched.
type Edit struct {
	Direction     *Direction
	NotionalBuy   *decimal.Decimal
	NotionalSell  *decimal.Decimal
	Spot          *decimal.Decimal
	ForwardPoints *decimal.Decimal
	CutoffDate    *time.Time
	MaturityDate  *time.Time
	Term          *int // explicit term, used as given
}

// Recalculator rebuilds the derived fields of one record from its inputs. It
// never looks at other records.
type Recalculator struct {
	terms TermCounter
	rates curve.RateSource
	log   *slog.Logger
}

type Option func(*Recalculator)

func WithLogger(l *slog.Logger) Option {
	return func(r *Recalculator) {
		if l != nil {
			r.log = l
		}
	}
}

func NewRecalculator(terms TermCounter, rates curve.RateSource, opts ...Option) *Recalculator {
	r := &Recalculator{terms: terms, rates: rates, log: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Recalculate prices rec over its current term and writes the result back.
// The term is taken as is: a zero Term is a known term of zero days, so a
// record whose dates were never resolved must carry calendar.NoTerm (Refresh
// sets it).
func (r *Recalculator) Recalculate(rec *Record) *Record {
	out := *rec
	r.price(&out)
	*rec = out
	return rec
}

// Refresh recomputes the term from the cutoff and maturity dates, then prices
// the record and refreshes its exposure fields.
func (r *Recalculator) Refresh(rec *Record) *Record {
	out := *rec
	r.term(&out)
	r.price(&out)
	Expose(&out, out.ConversionFactor)
	*rec = out
	return rec
}

// Apply changes the raw inputs in e and recomputes the record as a single
// step: the caller never sees a new term next to a stale price.
func (r *Recalculator) Apply(rec *Record, e Edit) *Record {
	out := *rec
	if e.Direction != nil {
		out.Direction = *e.Direction
	}
	if e.NotionalBuy != nil {
		out.NotionalBuy = *e.NotionalBuy
	}
	if e.NotionalSell != nil {
		out.NotionalSell = *e.NotionalSell
	}
	if e.Spot != nil {
		out.Spot = *e.Spot
	}
	if e.ForwardPoints != nil {
		out.ForwardPoints = *e.ForwardPoints
	}

	if e.CutoffDate != nil {
		out.CutoffDate = *e.CutoffDate
	}
	if e.MaturityDate != nil {
		out.MaturityDate = *e.MaturityDate
	}

	switch {
	case e.Term != nil:
		out.Term = *e.Term
	case e.CutoffDate != nil || e.MaturityDate != nil:
		r.term(&out)
	}

	r.price(&out)
	Expose(&out, out.ConversionFactor)
	*rec = out
	return rec
}

func (r *Recalculator) term(rec *Record) {
	if r.terms == nil {
		rec.Term = calendar.NoTerm
		return
	}
	rec.Term = r.terms.Term(rec.CutoffDate, rec.MaturityDate)
	if rec.Term == calendar.NoTerm {
		r.log.Debug("term unknown: missing date", "deal", rec.DealID)
	} else if !rec.CutoffDate.IsZero() && rec.MaturityDate.Before(rec.CutoffDate) {
		r.log.Warn("maturity before cutoff, term floored",
			"deal", rec.DealID, "term", rec.Term,
			"cutoff", rec.CutoffDate.Format(time.DateOnly),
			"maturity", rec.MaturityDate.Format(time.DateOnly))
	}
}

func (r *Recalculator) price(rec *Record) {
	rec.ForwardRate = rec.Spot.Add(rec.ForwardPoints)

	rec.IBRRate = decimal.Zero
	rec.DiscountFactor = decimal.Zero
	rec.Right = decimal.Zero
	rec.Obligation = decimal.Zero
	rec.FairValue = decimal.Zero
	rec.Priced = false

	if rec.Term < 0 {
		return
	}
	var rate decimal.Decimal
	if r.rates != nil {
		rate = r.rates.RateForTenor(rec.Term)
	}
	if rate.IsZero() {
		r.log.Debug("no curve rate for tenor", "deal", rec.DealID, "tenor", rec.Term)
		return
	}

	rec.IBRRate = rate.Mul(hundred)
	term := decimal.NewFromInt(int64(rec.Term))
	df := one.Add(rec.IBRRate.Div(hundred).Mul(term.Div(daysPerYear)))
	rec.DiscountFactor = df
	if !df.IsPositive() {
		r.log.Warn("non-positive discount factor",
			"deal", rec.DealID, "df", df.String(), "rate", rec.IBRRate.String(), "term", rec.Term)
		return
	}

	notional := rec.ActiveNotional()
	atForward := rec.ForwardRate.Div(df).Mul(notional)
	atSpot := rec.Spot.Div(df).Mul(notional)
	if rec.Direction == Buy {
		rec.Right, rec.Obligation = atForward, atSpot
	} else {
		rec.Right, rec.Obligation = atSpot, atForward
	}
	rec.FairValue = rec.Right.Sub(rec.Obligation)
	rec.Priced = true
}
