// Package calendar gives deterministic Gregorian calendar arithmetic for
// expanding a (year, month) period into service days.
//
// It is intentionally free of locale, timezone and process dependence:
// day counts come from the leap-year rule, not from an external calendar
// utility.
package calendar

import (
	"fmt"
	"time"
)

// ErrInvalidPeriod is returned for months outside [1, 12], years outside
// the 4-digit range, or malformed date components.
var ErrInvalidPeriod = fmt.Errorf("invalid period")

// Period identifies a month to be expanded into days.
type Period struct {
	Year  int
	Month int
}

// NewPeriod validates (year, month) and returns a Period.
func NewPeriod(year int, month int) (Period, error) {
	if year < 1000 || 9999 < year {
		return Period{}, fmt.Errorf("%w: year %d is not a 4-digit year", ErrInvalidPeriod, year)
	}
	if month < 1 || 12 < month {
		return Period{}, fmt.Errorf("%w: month %d is not in 1..12", ErrInvalidPeriod, month)
	}
	return Period{Year: year, Month: month}, nil
}

// ParsePeriod parses "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	var year, month int
	if _, err := fmt.Sscanf(s, "%4d-%2d", &year, &month); err != nil {
		return Period{}, fmt.Errorf("%w: %q is not formatted as YYYY-MM", ErrInvalidPeriod, s)
	}
	if fmt.Sprintf("%04d-%02d", year, month) != s {
		return Period{}, fmt.Errorf("%w: %q is not formatted as YYYY-MM", ErrInvalidPeriod, s)
	}
	return NewPeriod(year, month)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// IsLeapYear applies the Gregorian rule: every 4th year, except centuries
// not divisible by 400.
func IsLeapYear(year int) bool {
	if year%400 == 0 {
		return true
	}
	if year%100 == 0 {
		return false
	}
	return year%4 == 0
}

var daysPerMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the day count of the period's month.
func (p Period) DaysInMonth() int {
	if p.Month == 2 && IsLeapYear(p.Year) {
		return 29
	}
	return daysPerMonth[p.Month]
}

// Days expands the period into ascending two-digit day identifiers
// ("01", "02", ... "31").
func (p Period) Days() []string {
	n := p.DaysInMonth()
	days := make([]string, n)
	for i := range days {
		days[i] = fmt.Sprintf("%02d", i+1)
	}
	return days
}

// Dates expands the period into ascending Dates.
func (p Period) Dates() []Date {
	n := p.DaysInMonth()
	dates := make([]Date, n)
	for i := range dates {
		dates[i] = Date{Year: p.Year, Month: p.Month, Day: i + 1}
	}
	return dates
}

// Date is one service day: the unit of imputation work.
type Date struct {
	Year  int
	Month int
	Day   int
}

// NewDate validates all three components.
func NewDate(year int, month int, day int) (Date, error) {
	p, err := NewPeriod(year, month)
	if err != nil {
		return Date{}, err
	}
	if day < 1 || p.DaysInMonth() < day {
		return Date{}, fmt.Errorf(
			"%w: day %d is not in %s (1..%d)", ErrInvalidPeriod, day, p, p.DaysInMonth(),
		)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	var year, month, day int
	if _, err := fmt.Sscanf(s, "%4d-%2d-%2d", &year, &month, &day); err != nil {
		return Date{}, fmt.Errorf("%w: %q is not formatted as YYYY-MM-DD", ErrInvalidPeriod, s)
	}
	if fmt.Sprintf("%04d-%02d-%02d", year, month, day) != s {
		return Date{}, fmt.Errorf("%w: %q is not formatted as YYYY-MM-DD", ErrInvalidPeriod, s)
	}
	return NewDate(year, month, day)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Period returns the (year, month) pair the date belongs to.
func (d Date) Period() Period {
	return Period{Year: d.Year, Month: d.Month}
}

// Prev returns the previous calendar day.
func (d Date) Prev() Date {
	return d.addDays(-1)
}

// Next returns the following calendar day.
func (d Date) Next() Date {
	return d.addDays(1)
}

func (d Date) addDays(n int) Date {
	t := time.Date(d.Year, time.Month(d.Month), d.Day+n, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// Midnight returns the local midnight starting the date in loc.
func (d Date) Midnight(loc *time.Location) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, loc)
}

// FromTime truncates t to its calendar date, in t's own location.
func FromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// Today returns the current date in loc.
func Today(loc *time.Location) Date {
	now := time.Now().In(loc)
	return Date{Year: now.Year(), Month: int(now.Month()), Day: now.Day()}
}
