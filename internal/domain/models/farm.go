package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plot is a cultivated area (talhão) within a farm property.
type Plot struct {
	ID        string
	Name      string
	AreaHa    decimal.Decimal
	Active    bool
	IsDefault bool
}

// Eligible reports whether the plot takes part in cost allocation.
func (p Plot) Eligible() bool {
	return p.Active && !p.IsDefault && p.AreaHa.IsPositive()
}

// DateRange is an inclusive period filter. Zero bounds are open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// LastDays returns the range covering the n days ending at the end of now's day.
func LastDays(now time.Time, n int) DateRange {
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(n - 1))
	return DateRange{Start: start, End: end}
}
