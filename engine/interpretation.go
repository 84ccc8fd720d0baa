/*
interpretation.go - Award interpretation over a period's timesheet

PURPOSE:
  Drives the matcher, loading calculator, and overtime aggregator across
  every (entry, rule) pair for one employee and period, producing an
  AwardInterpretationResult: the penalty, allowance, loading, and overtime
  line items with their totals and compliance notes. The orchestrator
  consumes this to build earnings components; it is also exposed on its
  own for award-compliance reporting.

ADDITIVITY:
  Rules are evaluated independently and additively. A penalty-rate line
  carries the FULL rate for its hours and is added alongside the base
  salary component for the same hours. See calc.go (BasePayPolicy) for
  the explicit treatment of that interaction.

DETERMINISM:
  The same rule set applied to the same timesheet yields bit-identical
  totals: rules evaluate in priority order, entries in input order, and
  overtime dates in sorted order.

SEE ALSO:
  - matcher.go, loading.go, overtime.go: The per-concern calculators
  - calc.go: Maps interpretation lines onto pay components
*/
package engine

import (
	"sort"
)

// =============================================================================
// AWARD INTERPRETATION RESULT
// =============================================================================

type AwardInterpretationResult struct {
	EmployeeID EmployeeID
	AwardID    AwardID
	Period     PayPeriod

	PenaltyRates  []PenaltyRateLine
	Allowances    []AllowanceLine
	ShiftLoadings []ShiftLoadingLine
	Overtime      []OvertimeLine

	TotalPenalties  Money
	TotalAllowances Money
	TotalLoadings   Money
	TotalOvertime   Money

	// ComplianceNotes records observations a compliance reviewer should
	// see, such as rules skipped for being out of their effective window.
	ComplianceNotes []string
}

// Total is the sum of all interpreted amounts.
func (r AwardInterpretationResult) Total() Money {
	return r.TotalPenalties.Add(r.TotalAllowances).Add(r.TotalLoadings).Add(r.TotalOvertime)
}

// =============================================================================
// INTERPRETER
// =============================================================================

// InterpretAward evaluates the award's rules against the employee's entries
// for the period. Entries with a zero base rate fall back to the profile's
// hourly rate when present.
func InterpretAward(rules RuleSet, employee EmployeeProfile, period PayPeriod, entries []TimesheetEntry) (*AwardInterpretationResult, error) {
	result := &AwardInterpretationResult{
		EmployeeID:      employee.ID,
		AwardID:         employee.AwardID,
		Period:          period,
		TotalPenalties:  ZeroMoney(),
		TotalAllowances: ZeroMoney(),
		TotalLoadings:   ZeroMoney(),
		TotalOvertime:   ZeroMoney(),
	}

	if employee.AwardID == "" || len(entries) == 0 {
		return result, nil
	}

	awardRules, err := rules.RulesFor(employee.AwardID)
	if err != nil {
		return nil, err
	}
	ordered := make([]AwardRule, len(awardRules))
	copy(ordered, awardRules)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority < ordered[j].Priority })

	// Daily allowances pay once per day regardless of how many entries
	// overlap; track which (rule, day) pairs have already paid.
	dailyPaid := map[RuleID]map[Date]bool{}

	for _, entry := range entries {
		if !entry.Valid() {
			result.ComplianceNotes = append(result.ComplianceNotes,
				"skipped malformed entry "+entry.ID)
			continue
		}
		baseRate := entry.BaseHourlyRate
		if baseRate.IsZero() && employee.HourlyRate != nil {
			baseRate = *employee.HourlyRate
		}
		asOf := entry.StartDate()

		for _, rule := range ordered {
			if !RuleMatches(rule, employee.Classification, employee.EmploymentType, entry, asOf, rules.Holidays) {
				continue
			}
			minutes := ApplicableMinutes(rule.Conditions, entry)

			switch spec := rule.Spec.(type) {
			case PenaltyRateSpec:
				if line, ok := PenaltyRateAmount(rule, spec, entry, baseRate, minutes); ok {
					result.PenaltyRates = append(result.PenaltyRates, line)
					result.TotalPenalties = result.TotalPenalties.Add(line.Amount)
				}
			case AllowanceSpec:
				if spec.Method == AllowanceDaily {
					if dailyPaid[rule.ID] == nil {
						dailyPaid[rule.ID] = map[Date]bool{}
					}
					if dailyPaid[rule.ID][asOf] {
						continue
					}
				}
				if line, ok := AllowanceAmount(rule, spec, entry, minutes); ok {
					if spec.Method == AllowanceDaily {
						dailyPaid[rule.ID][asOf] = true
					}
					result.Allowances = append(result.Allowances, line)
					result.TotalAllowances = result.TotalAllowances.Add(line.Amount)
				}
			case ShiftLoadingSpec:
				if line, ok := ShiftLoadingAmount(rule, spec, entry, baseRate, minutes); ok {
					result.ShiftLoadings = append(result.ShiftLoadings, line)
					result.TotalLoadings = result.TotalLoadings.Add(line.Amount)
				}
			case OvertimeSpec:
				// Overtime aggregates across entries; handled below.
			}
		}
	}

	// Overtime passes run over the full entry set, priced at the first
	// rule per basis that is in effect for the date being charged. The
	// base rate comes from the first valid entry, matching how award
	// overtime clauses reference the ordinary rate.
	overtimeBase := overtimeBaseRate(employee, entries)
	lines, notes := OvertimeLines(validEntries(entries), overtimeRulesFor(ordered, employee), overtimeBase)
	result.Overtime = lines
	result.ComplianceNotes = append(result.ComplianceNotes, notes...)
	for _, line := range result.Overtime {
		result.TotalOvertime = result.TotalOvertime.Add(line.Amount)
	}

	return result, nil
}

// overtimeRulesFor keeps the overtime rules whose employee-level
// constraints accept this employee. Effective windows are checked per
// charged date inside the overtime passes.
func overtimeRulesFor(rules []AwardRule, employee EmployeeProfile) []AwardRule {
	out := make([]AwardRule, 0, len(rules))
	for _, r := range rules {
		if _, ok := r.Spec.(OvertimeSpec); !ok {
			continue
		}
		cond := r.Conditions
		if cond.Classification != "" && cond.Classification != employee.Classification {
			continue
		}
		if cond.EmploymentType != "" && cond.EmploymentType != employee.EmploymentType {
			continue
		}
		out = append(out, r)
	}
	return out
}

func overtimeBaseRate(employee EmployeeProfile, entries []TimesheetEntry) Money {
	for _, e := range entries {
		if e.Valid() && !e.BaseHourlyRate.IsZero() {
			return e.BaseHourlyRate
		}
	}
	if employee.HourlyRate != nil {
		return *employee.HourlyRate
	}
	return ZeroMoney()
}

func validEntries(entries []TimesheetEntry) []TimesheetEntry {
	out := make([]TimesheetEntry, 0, len(entries))
	for _, e := range entries {
		if e.Valid() {
			out = append(out, e)
		}
	}
	return out
}
