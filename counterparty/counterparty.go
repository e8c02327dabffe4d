package counterparty

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

var ErrEmptyID = errors.New("counterparty: empty id")

var leadingZeros = regexp.MustCompile(`^0+(\d)`)

// NormalizeID strips spaces, dots and dashes from a tax id (NIT) and drops
// leading zeros, so "0900.123.456-7" and "9001234567" match.
func NormalizeID(id string) string {
	s := strings.TrimSpace(id)
	s = strings.NewReplacer(" ", "", "-", "", ".", "").Replace(s)
	return leadingZeros.ReplaceAllString(s, "$1")
}

type Counterparty struct {
	ID               string
	Name             string
	ConversionFactor decimal.Decimal // zero when unknown
	CreditLine       decimal.Decimal
	Cushion          decimal.Decimal // fraction of the line held back
}

// Context is what the simulation builder and the aggregator need to know
// about the selected counterparty. It is always passed explicitly.
type Context struct {
	ID               string
	Name             string
	ConversionFactor decimal.Decimal
	// DefaultFC is set when ConversionFactor came from the global default.
	DefaultFC bool
}

// Registry holds the known counterparties and the global default conversion
// factor.
type Registry struct {
	mu        sync.RWMutex
	byID      map[string]Counterparty
	defaultFC decimal.Decimal
	log       *slog.Logger
}

func NewRegistry(defaultFC decimal.Decimal, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		byID:      make(map[string]Counterparty),
		defaultFC: defaultFC,
		log:       log,
	}
}

// Add inserts or replaces a counterparty under its normalized id.
func (r *Registry) Add(c Counterparty) error {
	c.ID = NormalizeID(c.ID)
	if c.ID == "" {
		return ErrEmptyID
	}
	if c.ConversionFactor.IsNegative() {
		return fmt.Errorf("counterparty %s: negative conversion factor %s", c.ID, c.ConversionFactor)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[c.ID] = c
	return nil
}

func (r *Registry) Get(id string) (Counterparty, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[NormalizeID(id)]
	return c, ok
}

// All returns the counterparties sorted by id.
func (r *Registry) All() []Counterparty {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Counterparty, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Counterparty) int { return strings.Compare(a.ID, b.ID) })
	return out
}

func (r *Registry) DefaultFC() decimal.Decimal { return r.defaultFC }

// Context resolves the conversion factor for id. An unknown counterparty or a
// missing factor falls back to the default; it never fails.
func (r *Registry) Context(id string) Context {
	norm := NormalizeID(id)
	c, ok := r.Get(norm)
	ctx := Context{ID: norm, Name: c.Name, ConversionFactor: c.ConversionFactor}
	if !ok || !c.ConversionFactor.IsPositive() {
		r.log.Warn("conversion factor unresolved, using default",
			"counterparty", norm, "known", ok, "fc", r.defaultFC.String())
		ctx.ConversionFactor = r.defaultFC
		ctx.DefaultFC = true
	}
	return ctx
}
