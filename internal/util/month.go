package util

import (
	"fmt"
	"time"
)

// Period is a (year, month) pair scoping transactions, budgets, and
// suggestion queries.
type Period struct {
	Year  int
	Month int
}

// CurrentPeriod returns the period of the local current date.
func CurrentPeriod() Period {
	now := time.Now()
	return Period{Year: now.Year(), Month: int(now.Month())}
}

// Prev returns the previous calendar month.
func (p Period) Prev() Period {
	if p.Month == 1 {
		return Period{Year: p.Year - 1, Month: 12}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

// Next returns the next calendar month.
func (p Period) Next() Period {
	if p.Month == 12 {
		return Period{Year: p.Year + 1, Month: 1}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// Valid reports whether the month is in range.
func (p Period) Valid() bool {
	return p.Month >= 1 && p.Month <= 12
}

// String formats the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// IsHistorical returns true if the period is before the current month.
func (p Period) IsHistorical() bool {
	now := time.Now()
	if p.Year < now.Year() {
		return true
	}
	return p.Year == now.Year() && p.Month < int(now.Month())
}

// DayKey normalizes a timestamp to its UTC calendar date, the bucket key
// used when grouping transactions by day.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
