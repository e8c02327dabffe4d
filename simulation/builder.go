package simulation

import (
	"log/slog"
	"time"

	"github.com/rustyeddy/forward415/counterparty"
	"github.com/rustyeddy/forward415/operation"
	"github.com/rustyeddy/forward415/pkg/id"
	"github.com/shopspring/decimal"
)

// Draft is a pending simulated order as the user typed it. It carries no
// derived state.
type Draft struct {
	Direction     operation.Direction
	Notional      decimal.Decimal // USD
	Spot          decimal.Decimal
	ForwardPoints decimal.Decimal
	// FXRate converts to COP; the spot is used when it is zero.
	FXRate       decimal.Decimal
	TradeDate    time.Time
	CutoffDate   time.Time // simulation date
	MaturityDate time.Time
	// Term, when set, is used as given instead of the calendar count.
	Term *int
}

// BusinessDays is the part of the calendar the builder needs.
type BusinessDays interface {
	CountBusinessDays(start, end time.Time) int
	ApplyTermRule(raw int) int
}

// Builder turns drafts into operation records ready for aggregation.
type Builder struct {
	days      BusinessDays
	recalc    *operation.Recalculator
	ids       id.Generator
	defaultFC decimal.Decimal
	log       *slog.Logger
}

type Option func(*Builder)

func WithIDs(g id.Generator) Option {
	return func(b *Builder) { b.ids = g }
}

// WithDefaultFC sets the conversion factor used when the context has none.
func WithDefaultFC(fc decimal.Decimal) Option {
	return func(b *Builder) { b.defaultFC = fc }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

func NewBuilder(days BusinessDays, recalc *operation.Recalculator, opts ...Option) *Builder {
	b := &Builder{
		days:   days,
		recalc: recalc,
		ids:    id.NewGenerator(id.SimulatedPrefix),
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build converts d into a fully computed simulated record for cp.
func (b *Builder) Build(d Draft, cp counterparty.Context) operation.Record {
	fc := cp.ConversionFactor
	if !fc.IsPositive() {
		b.log.Warn("simulation without conversion factor, using default",
			"counterparty", cp.ID, "fc", b.defaultFC.String())
		fc = b.defaultFC
	}

	fx := d.FXRate
	if fx.IsZero() {
		fx = d.Spot
	}

	rec := operation.Record{
		CounterpartyID: cp.ID,
		DealID:         b.ids.Next(),
		Direction:      d.Direction,
		Simulated:      true,
		NotionalBuy:    d.Notional,
		NotionalSell:   d.Notional,
		Spot:           d.Spot,
		ForwardPoints:  d.ForwardPoints,
		TradeDate:      d.TradeDate,
		CutoffDate:     d.CutoffDate,
		MaturityDate:   d.MaturityDate,
		FXRate:         fx,
	}
	rec.Term = b.term(d, rec.DealID)

	if b.recalc != nil {
		b.recalc.Recalculate(&rec)
	} else {
		rec.ForwardRate = rec.Spot.Add(rec.ForwardPoints)
	}
	operation.Expose(&rec, fc)
	return rec
}

// BuildAll builds every draft against the same counterparty context.
func (b *Builder) BuildAll(drafts []Draft, cp counterparty.Context) []operation.Record {
	out := make([]operation.Record, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, b.Build(d, cp))
	}
	return out
}

func (b *Builder) term(d Draft, deal string) int {
	if d.Term != nil {
		return *d.Term
	}
	if d.CutoffDate.IsZero() || d.MaturityDate.IsZero() {
		b.log.Warn("simulation date missing, term floored", "deal", deal)
	}
	return b.days.ApplyTermRule(b.days.CountBusinessDays(d.CutoffDate, d.MaturityDate))
}
