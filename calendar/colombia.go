package calendar

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Colombia computes Colombian public holidays. Holidays covered by Law 51 of
// 1983 move to the following Monday when they fall on another weekday.
type Colombia struct {
	mu    sync.Mutex
	years map[int]map[string]struct{}
}

func NewColombia() *Colombia {
	return &Colombia{years: make(map[int]map[string]struct{})}
}

// ForJurisdiction returns the holiday provider for an ISO country code.
func ForJurisdiction(code string) (HolidayProvider, error) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "CO", "COL", "COLOMBIA":
		return NewColombia(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedJurisdiction, code)
	}
}

func (c *Colombia) IsHoliday(t time.Time) bool {
	_, ok := c.year(t.Year())[dateKey(t)]
	return ok
}

func (c *Colombia) year(y int) map[string]struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	if set, ok := c.years[y]; ok {
		return set
	}
	set := make(map[string]struct{})
	for _, d := range colombianHolidays(y) {
		set[dateKey(d)] = struct{}{}
	}
	c.years[y] = set
	return set
}

func colombianHolidays(y int) []time.Time {
	date := func(m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	out := []time.Time{
		date(time.January, 1),
		date(time.May, 1),
		date(time.July, 20),
		date(time.August, 7),
		date(time.December, 8),
		date(time.December, 25),
	}

	// Moved to Monday.
	for _, d := range []time.Time{
		date(time.January, 6),
		date(time.March, 19),
		date(time.June, 29),
		date(time.August, 15),
		date(time.October, 12),
		date(time.November, 1),
		date(time.November, 11),
	} {
		out = append(out, nextMonday(d))
	}

	easter := easterSunday(y)
	out = append(out,
		easter.AddDate(0, 0, -3),             // Maundy Thursday
		easter.AddDate(0, 0, -2),             // Good Friday
		nextMonday(easter.AddDate(0, 0, 39)), // Ascension
		nextMonday(easter.AddDate(0, 0, 60)), // Corpus Christi
		nextMonday(easter.AddDate(0, 0, 68)), // Sacred Heart
	)
	return out
}

// nextMonday returns t when it is a Monday, otherwise the Monday after it.
func nextMonday(t time.Time) time.Time {
	return t.AddDate(0, 0, (8-int(t.Weekday()))%7)
}

// easterSunday uses the anonymous Gregorian algorithm.
func easterSunday(y int) time.Time {
	a := y % 19
	b := y / 100
	c := y % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(y, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
