package curve

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCurve   = errors.New("curve: no points")
	ErrInvalidPoint = errors.New("curve: invalid point")
)

var hundred = decimal.NewFromInt(100)

// RateSource looks up the IBR rate, as a decimal fraction, for a tenor in days.
// A zero result means the tenor is unknown.
type RateSource interface {
	RateForTenor(days int) decimal.Decimal
}

// Curve is an immutable tenor to rate mapping.
type Curve struct {
	points map[int]decimal.Decimal
}

// New copies points into a Curve. Tenors and rates must be non-negative and
// at least one point is required.
func New(points map[int]decimal.Decimal) (*Curve, error) {
	if len(points) == 0 {
		return nil, ErrEmptyCurve
	}
	for days, rate := range points {
		if days < 0 {
			return nil, fmt.Errorf("%w: tenor %d", ErrInvalidPoint, days)
		}
		if rate.IsNegative() {
			return nil, fmt.Errorf("%w: tenor %d rate %s", ErrInvalidPoint, days, rate)
		}
	}
	return &Curve{points: maps.Clone(points)}, nil
}

// RateForTenor is an exact-match lookup. Absent tenors return zero; there is
// no interpolation between neighbours.
func (c *Curve) RateForTenor(days int) decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	return c.points[days]
}

// PercentForTenor returns the rate as a percentage, for display.
func (c *Curve) PercentForTenor(days int) decimal.Decimal {
	return c.RateForTenor(days).Mul(hundred)
}

func (c *Curve) Tenors() []int {
	if c == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(c.points))
}

func (c *Curve) Len() int {
	if c == nil {
		return 0
	}
	return len(c.points)
}

// Store holds the curve currently in use. Replace swaps the whole curve; a
// reload never merges with the previous points.
type Store struct {
	cur atomic.Pointer[Curve]
}

func NewStore(c *Curve) *Store {
	s := &Store{}
	if c != nil {
		s.cur.Store(c)
	}
	return s
}

// Replace installs c and returns the curve it replaced.
func (s *Store) Replace(c *Curve) *Curve {
	return s.cur.Swap(c)
}

func (s *Store) Current() *Curve {
	return s.cur.Load()
}

func (s *Store) Loaded() bool {
	return s.cur.Load() != nil
}

func (s *Store) RateForTenor(days int) decimal.Decimal {
	return s.cur.Load().RateForTenor(days)
}

func (s *Store) PercentForTenor(days int) decimal.Decimal {
	return s.cur.Load().PercentForTenor(days)
}
