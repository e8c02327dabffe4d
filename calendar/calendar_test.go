package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newColombian(t *testing.T, opts ...Option) *Calendar {
	t.Helper()
	c, err := New(NewColombia(), opts...)
	require.NoError(t, err)
	return c
}

func TestNewRequiresProvider(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNoHolidayProvider)
}

func TestCountBusinessDays_SameDay(t *testing.T) {
	t.Parallel()
	c := newColombian(t)

	tests := []struct {
		name string
		date string
		want int
	}{
		{"tuesday", "2025-11-04", 1},
		{"saturday", "2025-11-08", 0},
		{"sunday", "2025-11-09", 0},
		{"moved all saints monday", "2025-11-03", 0},
		{"christmas", "2025-12-25", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := day(tt.date)
			assert.Equal(t, tt.want, c.CountBusinessDays(d, d))
		})
	}
}

func TestCountBusinessDays_InvertedOrMissing(t *testing.T) {
	t.Parallel()
	c := newColombian(t)

	assert.Equal(t, 0, c.CountBusinessDays(day("2025-12-04"), day("2025-11-04")))
	assert.Equal(t, 0, c.CountBusinessDays(time.Time{}, day("2025-11-04")))
	assert.Equal(t, 0, c.CountBusinessDays(day("2025-11-04"), time.Time{}))
}

func TestCountBusinessDays_Inclusive(t *testing.T) {
	t.Parallel()
	c := newColombian(t)

	// Plain week with no holidays.
	assert.Equal(t, 5, c.CountBusinessDays(day("2025-01-13"), day("2025-01-17")))
	// Jan 6 2025 is Epiphany on a Monday.
	assert.Equal(t, 4, c.CountBusinessDays(day("2025-01-06"), day("2025-01-10")))
	// Nov 3 and Nov 17 2025 are shifted holidays.
	assert.Equal(t, 22, c.CountBusinessDays(day("2025-11-04"), day("2025-12-04")))
}

func TestCountBusinessDays_IgnoresTimeOfDay(t *testing.T) {
	t.Parallel()
	c := newColombian(t)

	start := time.Date(2025, 1, 13, 18, 30, 0, 0, time.UTC)
	end := time.Date(2025, 1, 17, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 5, c.CountBusinessDays(start, end))
}

func TestApplyTermRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw, want int
	}{
		{-3, 10},
		{0, 10},
		{1, 10},
		{4, 10},
		{5, 10},
		{10, 10},
		{11, 10},
		{12, 11},
		{15, 14},
		{22, 21},
		{300, 299},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ApplyTermRule(tt.raw), "raw=%d", tt.raw)
		assert.Equal(t, max(tt.raw-1, 10), ApplyTermRule(tt.raw))
	}
}

func TestApplyTermRule_ConfiguredFloor(t *testing.T) {
	t.Parallel()
	c := newColombian(t, WithTermFloor(5))

	assert.Equal(t, 5, c.TermFloor())
	assert.Equal(t, 5, c.ApplyTermRule(3))
	assert.Equal(t, 6, c.ApplyTermRule(7))
}

func TestTerm(t *testing.T) {
	t.Parallel()
	c := newColombian(t)

	assert.Equal(t, 21, c.Term(day("2025-11-04"), day("2025-12-04")))
	assert.Equal(t, NoTerm, c.Term(time.Time{}, day("2025-12-04")))

	// Short week with a holiday: raw 4, floored to 10.
	raw := c.CountBusinessDays(day("2025-01-06"), day("2025-01-10"))
	require.Equal(t, 4, raw)
	assert.Equal(t, 10, c.Term(day("2025-01-06"), day("2025-01-10")))
}

func TestHolidaysListing(t *testing.T) {
	t.Parallel()
	c := newColombian(t)

	got := c.Holidays(2025)
	assert.Len(t, got, 17) // Jun 29 and Sacred Heart both land on Jun 30
	assert.Equal(t, day("2025-01-01"), got[0])
	assert.Equal(t, day("2025-12-25"), got[len(got)-1])
}
