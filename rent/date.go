package rent

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar date at day granularity (the engine's only notion of time)
// =============================================================================

// Date is a calendar date. All billing arithmetic in this package is
// day-granular: occupancy, rate validity, and payment windows are expressed
// as inclusive date ranges, never as timestamps.
type Date struct {
	t time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date (UTC).
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

func Today() Date {
	return DateOf(time.Now())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }
func (d Date) IsZero() bool                  { return d.t.IsZero() }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }

// Properties
func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }
func (d Date) Time() time.Time   { return d.t }

// MonthStart returns the first day of the month containing d.
func (d Date) MonthStart() Date {
	return NewDate(d.Year(), d.Month(), 1)
}

// MonthEnd returns the last day of the month containing d.
func (d Date) MonthEnd() Date {
	return d.MonthStart().AddMonths(1).AddDays(-1)
}

// DaysInMonth returns the number of calendar days in the month containing d.
func (d Date) DaysInMonth() int {
	return d.MonthEnd().Day()
}

func (d Date) String() string {
	return d.t.Format("2006-01-02")
}

// =============================================================================
// DATE UTILITIES
// =============================================================================

func MinDate(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

func MaxDate(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

// DaysBetween returns the signed number of days from one date to the other.
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// InclusiveDays counts the days in [from, to], both endpoints included.
// A single day is 1, not 0.
func InclusiveDays(from, to Date) int {
	return DaysBetween(from, to) + 1
}
