package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rustyeddy/forward415/calendar"
	"github.com/rustyeddy/forward415/config"
	"github.com/rustyeddy/forward415/counterparty"
	"github.com/rustyeddy/forward415/curve"
	"github.com/rustyeddy/forward415/journal"
	"github.com/rustyeddy/forward415/operation"
	"github.com/rustyeddy/forward415/pkg/id"
	"github.com/rustyeddy/forward415/simulation"
	"github.com/shopspring/decimal"
)

var (
	ErrNoCurve       = errors.New("engine: no rate curve loaded")
	ErrUnknownRecord = errors.New("engine: unknown record")
)

// Engine holds one session: the calendar, the current curve, the batch of
// existing operations and the counterparty registry. All methods serialize
// on a single mutex so a record is never read half recomputed.
type Engine struct {
	mu       sync.Mutex
	cal      *calendar.Calendar
	registry *counterparty.Registry
	curves   *curve.Store
	recalc   *operation.Recalculator
	builder  *simulation.Builder
	journal  journal.Journal
	log      *slog.Logger
	now      func() time.Time
	ids      id.Generator
	pair     string

	cutoff  time.Time
	records []operation.Record
}

type Option func(*Engine)

// WithJournal records every simulation run in j.
func WithJournal(j journal.Journal) Option {
	return func(e *Engine) { e.journal = j }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithDealIDs replaces the generator of synthetic deal ids.
func WithDealIDs(g id.Generator) Option {
	return func(e *Engine) { e.ids = g }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New builds an engine from cfg. A configuration the calendar or the curve
// cannot be built from is returned as an error.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}

	e := &Engine{log: slog.Default(), now: time.Now, pair: cfg.Engine.CurrencyPair}
	for _, opt := range opts {
		opt(e)
	}

	var err error
	if e.cal, err = NewCalendar(cfg, e.log); err != nil {
		return nil, err
	}

	e.registry = counterparty.NewRegistry(decimal.NewFromFloat(cfg.Engine.DefaultConversionFactor), e.log)
	for _, c := range cfg.Counterparties {
		if err := e.registry.Add(counterparty.Counterparty{
			ID:               c.ID,
			Name:             c.Name,
			ConversionFactor: decimal.NewFromFloat(c.ConversionFactor),
			CreditLine:       decimal.NewFromFloat(c.CreditLine),
			Cushion:          decimal.NewFromFloat(c.Cushion),
		}); err != nil {
			return nil, err
		}
	}

	e.curves = curve.NewStore(nil)
	switch {
	case len(cfg.Curve.Points) > 0:
		points := make(map[int]decimal.Decimal, len(cfg.Curve.Points))
		for tenor, rate := range cfg.Curve.Points {
			points[tenor] = decimal.NewFromFloat(rate)
		}
		c, err := curve.New(points)
		if err != nil {
			return nil, err
		}
		e.curves.Replace(c)
	case cfg.Curve.Path != "":
		if err := e.LoadCurveFile(cfg.Curve.Path); err != nil {
			return nil, err
		}
	}

	e.recalc = operation.NewRecalculator(e.cal, e.curves, operation.WithLogger(e.log))
	bopts := []simulation.Option{
		simulation.WithDefaultFC(e.registry.DefaultFC()),
		simulation.WithLogger(e.log),
	}
	if e.ids != nil {
		bopts = append(bopts, simulation.WithIDs(e.ids))
	}
	e.builder = simulation.NewBuilder(e.cal, e.recalc, bopts...)
	return e, nil
}

// NewCalendar builds the business-day calendar described by cfg: the
// jurisdiction's holidays, the local overlay and the term floor.
func NewCalendar(cfg *config.Config, log *slog.Logger) (*calendar.Calendar, error) {
	provider, err := calendar.ForJurisdiction(cfg.Calendar.Jurisdiction)
	if err != nil {
		return nil, err
	}
	if len(cfg.Calendar.ExtraHolidays) > 0 || len(cfg.Calendar.RemovedHolidays) > 0 {
		provider, err = calendar.NewOverlay(provider, cfg.Calendar.ExtraHolidays, cfg.Calendar.RemovedHolidays)
		if err != nil {
			return nil, fmt.Errorf("calendar overlay: %w", err)
		}
	}
	return calendar.New(provider,
		calendar.WithTermFloor(cfg.Engine.TermFloor),
		calendar.WithLogger(log))
}

func (e *Engine) Calendar() *calendar.Calendar { return e.cal }

// CurveLoaded reports whether a rate curve is available for pricing.
func (e *Engine) CurveLoaded() bool { return e.curves.Loaded() }

func (e *Engine) Registry() *counterparty.Registry { return e.registry }

// Curve returns the current rate curve, nil when none is loaded.
func (e *Engine) Curve() *curve.Curve { return e.curves.Current() }

// CurrencyPair is the configured pair, USD_COP by default.
func (e *Engine) CurrencyPair() string { return e.pair }

// LoadCurve replaces the current curve wholesale. Records already loaded keep
// their prices until the next batch or edit.
func (e *Engine) LoadCurve(c *curve.Curve) error {
	if c == nil || c.Len() == 0 {
		return curve.ErrEmptyCurve
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.curves.Replace(c)
	e.log.Info("rate curve loaded", "tenors", c.Len())
	return nil
}

// LoadCurveFile reads a days;rate file and replaces the current curve.
func (e *Engine) LoadCurveFile(path string) error {
	c, err := curve.LoadCSV(path)
	if err != nil {
		return err
	}
	return e.LoadCurve(c)
}

// RateForTenor returns the IBR percentage for a tenor, 0 when absent.
func (e *Engine) RateForTenor(days int) decimal.Decimal {
	return e.curves.PercentForTenor(days)
}

// LoadBatch replaces the existing operations with rows, computing terms from
// cutoff and pricing and exposing each row under its counterparty's
// conversion factor. Rows keep their own cutoff date when set.
func (e *Engine) LoadBatch(cutoff time.Time, rows []operation.Record) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.curves.Loaded() {
		return 0, ErrNoCurve
	}

	contexts := make(map[string]counterparty.Context)
	records := make([]operation.Record, 0, len(rows))
	for _, row := range rows {
		rec := row
		rec.CounterpartyID = counterparty.NormalizeID(rec.CounterpartyID)
		rec.Simulated = false
		if rec.CutoffDate.IsZero() {
			rec.CutoffDate = cutoff
		}
		if rec.FXRate.IsZero() {
			rec.FXRate = rec.Spot
		}
		cp, ok := contexts[rec.CounterpartyID]
		if !ok {
			cp = e.registry.Context(rec.CounterpartyID)
			contexts[rec.CounterpartyID] = cp
		}
		rec.ConversionFactor = cp.ConversionFactor
		e.recalc.Refresh(&rec)
		records = append(records, rec)
	}

	e.cutoff = cutoff
	e.records = records
	e.log.Info("batch loaded", "rows", len(records), "counterparties", len(contexts),
		"cutoff", cutoff.Format(time.DateOnly))
	return len(records), nil
}

// Records returns copies of the existing operations of counterparty cp, or of
// every counterparty when cp is empty.
func (e *Engine) Records(cp string) []operation.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recordsLocked(counterparty.NormalizeID(cp))
}

func (e *Engine) recordsLocked(cp string) []operation.Record {
	var out []operation.Record
	for _, rec := range e.records {
		if cp == "" || rec.CounterpartyID == cp {
			out = append(out, rec)
		}
	}
	return out
}

// EditRecord applies edit to one existing operation and recomputes only that
// record.
func (e *Engine) EditRecord(cp, deal string, edit operation.Edit) (operation.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	norm := counterparty.NormalizeID(cp)
	for i := range e.records {
		if e.records[i].CounterpartyID == norm && e.records[i].DealID == deal {
			e.recalc.Apply(&e.records[i], edit)
			return e.records[i], nil
		}
	}
	return operation.Record{}, fmt.Errorf("%s/%s: %w", norm, deal, ErrUnknownRecord)
}
