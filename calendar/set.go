package calendar

import (
	"fmt"
	"time"
)

// Set is a fixed list of holiday dates.
type Set struct {
	days map[string]struct{}
}

// NewSet builds a Set. An empty list is rejected so a missing holiday file
// cannot silently turn into a calendar with only weekends.
func NewSet(days []time.Time) (*Set, error) {
	if len(days) == 0 {
		return nil, ErrEmptyHolidaySet
	}
	s := &Set{days: make(map[string]struct{}, len(days))}
	for _, d := range days {
		s.days[dateKey(d)] = struct{}{}
	}
	return s, nil
}

// ParseSet builds a Set from YYYY-MM-DD strings.
func ParseSet(days []string) (*Set, error) {
	parsed, err := parseDates(days)
	if err != nil {
		return nil, err
	}
	return NewSet(parsed)
}

func (s *Set) IsHoliday(t time.Time) bool {
	_, ok := s.days[dateKey(t)]
	return ok
}

// Overlay adds and removes individual dates on top of a base provider, for
// decree holidays the computed rules do not know about.
type Overlay struct {
	base    HolidayProvider
	added   map[string]struct{}
	removed map[string]struct{}
}

func NewOverlay(base HolidayProvider, added, removed []string) (*Overlay, error) {
	if base == nil {
		return nil, ErrNoHolidayProvider
	}
	a, err := parseDates(added)
	if err != nil {
		return nil, fmt.Errorf("added holidays: %w", err)
	}
	r, err := parseDates(removed)
	if err != nil {
		return nil, fmt.Errorf("removed holidays: %w", err)
	}

	o := &Overlay{
		base:    base,
		added:   make(map[string]struct{}, len(a)),
		removed: make(map[string]struct{}, len(r)),
	}
	for _, d := range a {
		o.added[dateKey(d)] = struct{}{}
	}
	for _, d := range r {
		o.removed[dateKey(d)] = struct{}{}
	}
	return o, nil
}

func (o *Overlay) IsHoliday(t time.Time) bool {
	key := dateKey(t)
	if _, ok := o.removed[key]; ok {
		return false
	}
	if _, ok := o.added[key]; ok {
		return true
	}
	return o.base.IsHoliday(t)
}

func parseDates(days []string) ([]time.Time, error) {
	out := make([]time.Time, 0, len(days))
	for _, s := range days {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return nil, fmt.Errorf("parse holiday %q: %w", s, err)
		}
		out = append(out, t)
	}
	return out, nil
}
