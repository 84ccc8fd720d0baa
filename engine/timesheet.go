package engine

import "time"

// =============================================================================
// TIMESHEET ENTRY - One continuous work interval
// =============================================================================

// TimesheetEntry is one continuous work interval for one employee. Entries
// are produced and approved upstream; the engine treats them as read-only
// inputs.
//
// Invariant: End > Start.
type TimesheetEntry struct {
	ID         string
	EmployeeID EmployeeID
	Start      time.Time
	End        time.Time

	// BaseHourlyRate is the employee's ordinary rate for this entry.
	BaseHourlyRate Money

	Status EntryStatus
}

type EntryStatus string

const (
	EntryDraft    EntryStatus = "draft"
	EntrySubmitted EntryStatus = "submitted"
	EntryApproved EntryStatus = "approved"
	EntryRejected EntryStatus = "rejected"
)

// Valid reports whether the interval is well-formed.
func (e TimesheetEntry) Valid() bool { return e.End.After(e.Start) }

// StartDate is the calendar day the entry begins on. Daily overtime grouping
// and clock-window anchoring both key off the start date, even for entries
// that cross midnight.
func (e TimesheetEntry) StartDate() Date { return DateOf(e.Start) }

// Minutes is the raw duration of the entry in whole minutes.
func (e TimesheetEntry) Minutes() int {
	return int(e.End.Sub(e.Start) / time.Minute)
}

// Hours is the raw duration in hours.
func (e TimesheetEntry) Hours() float64 {
	return e.End.Sub(e.Start).Hours()
}
