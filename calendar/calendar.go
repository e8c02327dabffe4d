package calendar

import (
	"errors"
	"log/slog"
	"time"
)

// DefaultTermFloor is the minimum adjusted term, in business days, used by
// the 415 report.
const DefaultTermFloor = 10

// NoTerm marks a term that could not be computed because a date was missing.
const NoTerm = -1

var (
	ErrNoHolidayProvider       = errors.New("calendar: holiday provider unavailable")
	ErrUnsupportedJurisdiction = errors.New("calendar: unsupported jurisdiction")
	ErrEmptyHolidaySet         = errors.New("calendar: empty holiday set")
)

// HolidayProvider reports whether a date is a public holiday. Implementations
// must be year aware, including holidays moved to the following Monday.
type HolidayProvider interface {
	IsHoliday(t time.Time) bool
}

// Calendar counts working days under a holiday provider.
type Calendar struct {
	holidays HolidayProvider
	floor    int
	log      *slog.Logger
}

type Option func(*Calendar)

// WithTermFloor overrides DefaultTermFloor.
func WithTermFloor(n int) Option {
	return func(c *Calendar) { c.floor = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Calendar) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a Calendar backed by p. A nil provider is a configuration
// error: counting with an empty calendar would silently corrupt every term.
func New(p HolidayProvider, opts ...Option) (*Calendar, error) {
	if p == nil {
		return nil, ErrNoHolidayProvider
	}
	c := &Calendar{holidays: p, floor: DefaultTermFloor, log: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TermFloor returns the configured minimum term.
func (c *Calendar) TermFloor() int { return c.floor }

// IsBusinessDay checks weekends and the holiday set.
func (c *Calendar) IsBusinessDay(t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !c.holidays.IsHoliday(t)
}

// CountBusinessDays counts business days in the closed interval [start, end].
// It returns 0 when either date is zero or end is before start.
func (c *Calendar) CountBusinessDays(start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	start, end = dateOnly(start), dateOnly(end)
	if end.Before(start) {
		c.log.Debug("business day count over inverted range",
			"start", start.Format(time.DateOnly), "end", end.Format(time.DateOnly))
		return 0
	}

	n := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if c.IsBusinessDay(d) {
			n++
		}
	}
	return n
}

// ApplyTermRule subtracts the settlement day and then enforces the floor.
func (c *Calendar) ApplyTermRule(raw int) int {
	return applyTermRule(raw, c.floor)
}

// Term is the adjusted term from start to end, or NoTerm when either date is
// missing.
func (c *Calendar) Term(start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return NoTerm
	}
	return c.ApplyTermRule(c.CountBusinessDays(start, end))
}

// ApplyTermRule is max(raw-1, DefaultTermFloor). The order matters: the
// settlement day is removed before the floor applies.
func ApplyTermRule(raw int) int {
	return applyTermRule(raw, DefaultTermFloor)
}

func applyTermRule(raw, floor int) int {
	return max(raw-1, floor)
}

// Holidays lists the holidays of a year, for audit output.
func (c *Calendar) Holidays(year int) []time.Time {
	var out []time.Time
	for d := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC); d.Year() == year; d = d.AddDate(0, 0, 1) {
		if c.holidays.IsHoliday(d) {
			out = append(out, d)
		}
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
