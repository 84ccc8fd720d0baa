/*
matcher.go - Award rule applicability and minute clipping

PURPOSE:
  For one timesheet entry and one candidate rule, decides whether the rule
  applies and how many minutes of the entry fall inside the rule's clock
  window. The minute count, not the raw entry duration, is the basis for
  every hourly-prorated amount.

MATCH ORDER (short-circuits on first failure):
  1. Classification (if the rule restricts it)
  2. Employment type (if the rule restricts it)
  3. Effective-window containment of the as-of date
  4. Day-of-week constraint, derived from the entry's START date
  5. Clock window [from, to) overlap against the entry's time of day
  6. Public-holiday-only flag against the holiday calendar

  Unset constraints are "no restriction", never "never matches".

CLIPPING:
  ApplicableMinutes clips the entry's [start, end) to the rule's clock
  window anchored on the entry's start date. Overnight windows
  (22:00-06:00) extend the anchored window past midnight. An empty or
  inverted clipped window yields 0, never a negative count.

SEE ALSO:
  - loading.go: Turns matched minutes into monetary amounts
  - interpretation.go: Drives the matcher across a period's entries
*/
package engine

import "time"

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// HolidayCalendar answers whether a day is a gazetted public holiday.
// Backed by the rule set snapshot; read-only during a run.
type HolidayCalendar interface {
	IsPublicHoliday(d Date) bool
}

// HolidaySet is a HolidayCalendar over an explicit set of days.
type HolidaySet map[Date]bool

func (h HolidaySet) IsPublicHoliday(d Date) bool { return h[d] }

// =============================================================================
// APPLICABILITY
// =============================================================================

// RuleMatches reports whether the rule's conditions accept the entry.
// No side effects; false on any unmet constraint.
func RuleMatches(rule AwardRule, classification string, employmentType EmploymentType, entry TimesheetEntry, asOf Date, holidays HolidayCalendar) bool {
	cond := rule.Conditions

	if cond.Classification != "" && cond.Classification != classification {
		return false
	}
	if cond.EmploymentType != "" && cond.EmploymentType != employmentType {
		return false
	}
	if !cond.Effective.Contains(asOf) {
		return false
	}
	if len(cond.Days) > 0 && !containsWeekday(cond.Days, entry.StartDate().Weekday()) {
		return false
	}
	if cond.TimeFrom != nil && cond.TimeTo != nil && ApplicableMinutes(cond, entry) == 0 {
		return false
	}
	if cond.PublicHolidayOnly {
		if holidays == nil || !holidays.IsPublicHoliday(entry.StartDate()) {
			return false
		}
	}
	return true
}

func containsWeekday(days []time.Weekday, day time.Weekday) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

// =============================================================================
// MINUTE CLIPPING
// =============================================================================

// ApplicableMinutes returns how many minutes of the entry fall inside the
// rule's clock window, anchored on the entry's start date. Rules without a
// clock window cover the whole entry.
func ApplicableMinutes(cond RuleConditions, entry TimesheetEntry) int {
	if !entry.Valid() {
		return 0
	}
	if cond.TimeFrom == nil || cond.TimeTo == nil {
		return entry.Minutes()
	}

	anchor := entry.StartDate()
	windowStart := cond.TimeFrom.OnDate(anchor)
	windowEnd := cond.TimeTo.OnDate(anchor)
	if !windowEnd.After(windowStart) {
		// Overnight window: extend past midnight.
		windowEnd = windowEnd.AddDate(0, 0, 1)
	}

	// The entry may itself start inside the tail of an overnight window
	// anchored on the previous day (e.g., a 01:00 start against 22:00-06:00).
	best := overlapMinutes(entry.Start, entry.End, windowStart, windowEnd)
	prev := overlapMinutes(entry.Start, entry.End, windowStart.AddDate(0, 0, -1), windowEnd.AddDate(0, 0, -1))
	if prev > best {
		best = prev
	}
	return best
}

func overlapMinutes(aStart, aEnd, bStart, bEnd time.Time) int {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if !end.After(start) {
		return 0
	}
	return int(end.Sub(start) / time.Minute)
}
