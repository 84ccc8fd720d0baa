package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// CLOCK TIME - Time-of-day independent of calendar date
// =============================================================================

// ClockTime is a time of day expressed as minutes after midnight.
// Award rule windows compare against the entry's clock time, not its
// calendar date, so an overnight window like 22:00-06:00 is expressed as
// from=1320, to=360 and anchored on the entry's start date when clipping.
type ClockTime int

func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ClockTimeOf extracts the time of day from an instant.
func ClockTimeOf(t time.Time) ClockTime {
	return NewClockTime(t.Hour(), t.Minute())
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// OnDate anchors the clock time on the given calendar date.
func (c ClockTime) OnDate(d Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, c.Hour(), c.Minute(), 0, 0, time.UTC)
}

// =============================================================================
// DATE - Calendar day, no time component
// =============================================================================

// Date is a calendar day. Used as the grouping key for daily overtime and
// as the anchor for clock-time windows.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf truncates an instant to its calendar day.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }
func (d Date) AddDays(n int) Date    { return DateOf(d.Time().AddDate(0, 0, n)) }
func (d Date) Before(o Date) bool    { return d.Time().Before(o.Time()) }
func (d Date) After(o Date) bool     { return d.Time().After(o.Time()) }
func (d Date) Equal(o Date) bool     { return d == o }

func (d Date) String() string { return d.Time().Format("2006-01-02") }

// =============================================================================
// EFFECTIVE WINDOW - Date range a rule or rate is valid for
// =============================================================================

// EffectiveWindow is the inclusive date range a record applies to.
// A nil bound means unbounded on that side.
type EffectiveWindow struct {
	From *Date
	To   *Date
}

// Contains reports whether the window covers the given day.
func (w EffectiveWindow) Contains(d Date) bool {
	if w.From != nil && d.Before(*w.From) {
		return false
	}
	if w.To != nil && d.After(*w.To) {
		return false
	}
	return true
}

// Valid reports whether From <= To when both bounds are present.
func (w EffectiveWindow) Valid() bool {
	if w.From == nil || w.To == nil {
		return true
	}
	return !w.From.After(*w.To)
}

// WindowFrom builds a window open on the right.
func WindowFrom(from Date) EffectiveWindow {
	return EffectiveWindow{From: &from}
}

// WindowBetween builds a closed window.
func WindowBetween(from, to Date) EffectiveWindow {
	return EffectiveWindow{From: &from, To: &to}
}
