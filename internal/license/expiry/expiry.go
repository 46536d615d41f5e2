// Package expiry computes license expiration dates from product settings.
package expiry

import (
	"strings"
	"time"
)

// Unit is the calendar unit an offset advances by.
type Unit string

const (
	Days   Unit = "days"
	Months Unit = "months"
	Years  Unit = "years"
)

// ParseUnit maps a raw product setting onto a Unit. Unknown or empty input
// falls back to days rather than failing.
func ParseUnit(raw string) Unit {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "year", "years":
		return Years
	case "month", "months":
		return Months
	case "day", "days":
		return Days
	default:
		return Days
	}
}

// Offset describes how far to advance an expiry date.
type Offset struct {
	Amount int
	Unit   Unit
}

// NewOffset builds an offset from raw product settings. A non-positive amount
// yields the zero offset.
func NewOffset(amount int, unit string) Offset {
	if amount <= 0 {
		return Offset{}
	}
	return Offset{Amount: amount, Unit: ParseUnit(unit)}
}

// IsZero reports whether the offset is a no-op. Callers must treat a zero
// offset as "leave the expiry alone", not "expire immediately".
func (o Offset) IsZero() bool {
	return o.Amount <= 0
}

// Compute advances base by the offset using ordinary calendar arithmetic
// (time.AddDate rollover for months and years) and normalizes the result to
// midnight UTC. A zero offset returns base unchanged apart from normalization.
func Compute(base time.Time, o Offset) time.Time {
	base = midnight(base)
	if o.IsZero() {
		return base
	}

	switch o.Unit {
	case Years:
		return base.AddDate(o.Amount, 0, 0)
	case Months:
		return base.AddDate(0, o.Amount, 0)
	default:
		return base.AddDate(0, 0, o.Amount)
	}
}

func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
