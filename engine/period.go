package engine

import "time"

// =============================================================================
// PAY PERIOD - The time boundary a payroll run settles
// =============================================================================

// PayPeriod is the inclusive date range one payslip covers. Every gross-to-net
// result is computed for a period, not at a point in time.
type PayPeriod struct {
	Start Date
	End   Date
}

// Contains returns true if the day is within the period [Start, End].
func (p PayPeriod) Contains(d Date) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// Days returns the number of calendar days in the period.
func (p PayPeriod) Days() int {
	return int(p.End.Time().Sub(p.Start.Time()).Hours()/24) + 1
}

// Valid reports whether Start <= End.
func (p PayPeriod) Valid() bool { return !p.Start.After(p.End) }

func (p PayPeriod) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// FINANCIAL YEAR - The July-June year tax tables are scoped to
// =============================================================================

// FinancialYear identifies an Australian financial year by its ending year:
// FinancialYear(2025) is 1 July 2024 - 30 June 2025.
type FinancialYear int

// FinancialYearOf returns the financial year containing the given day.
func FinancialYearOf(d Date) FinancialYear {
	if d.Month >= time.July {
		return FinancialYear(d.Year + 1)
	}
	return FinancialYear(d.Year)
}

func (fy FinancialYear) Start() Date { return NewDate(int(fy)-1, time.July, 1) }
func (fy FinancialYear) End() Date   { return NewDate(int(fy), time.June, 30) }

// QuartersPerYear is fixed; the super maximum contribution base is published
// as a quarterly figure and apportioned to the pay period.
const QuartersPerYear = 4
